package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParticipantKind discriminates where a match slot's team comes from.
type ParticipantKind string

const (
	ParticipantPending    ParticipantKind = "pending"
	ParticipantTeam       ParticipantKind = "team"
	ParticipantGroupRank  ParticipantKind = "groupRank"
	ParticipantBracket    ParticipantKind = "bracket"
	ParticipantBestSecond ParticipantKind = "bestSecond"
)

type Outcome string

const (
	OutcomeWinner Outcome = "winner"
	OutcomeLoser  Outcome = "loser"
)

// Participant is one side of a match. Playoff slots start out symbolic
// (a group placement or the outcome of another match) and are narrowed to a
// concrete team by resolution. On the wire and in storage a participant is
// the historical placeholder string ("TBD", "group-a-1st", "semi1-winner",
// "bestSecond") or a bare team ID, so older exports keep loading.
type Participant struct {
	Kind    ParticipantKind `json:"-"`
	TeamID  string          `json:"-"`
	Group   string          `json:"-"` // normalized group letter
	Rank    int             `json:"-"` // 1-based place within the group
	MatchID string          `json:"-"`
	Outcome Outcome         `json:"-"`
}

func TeamRef(teamID string) Participant {
	return Participant{Kind: ParticipantTeam, TeamID: teamID}
}

func GroupRankRef(group string, rank int) Participant {
	return Participant{Kind: ParticipantGroupRank, Group: NormalizeGroupKey(group), Rank: rank}
}

func BracketRef(matchID string, outcome Outcome) Participant {
	return Participant{Kind: ParticipantBracket, MatchID: matchID, Outcome: outcome}
}

func BestSecondRef() Participant {
	return Participant{Kind: ParticipantBestSecond}
}

func PendingRef() Participant {
	return Participant{Kind: ParticipantPending}
}

var groupRankPattern = regexp.MustCompile(`^group-([A-Za-z])-([0-9]+)(?:st|nd|rd|th)$`)

// ParseParticipant maps the historical string form onto the typed variant.
// Anything that is not a recognized placeholder is taken as a team
// reference; legacy data may hold a team name there instead of an ID, which
// ResolveTeamRef repairs once the team list is at hand.
func ParseParticipant(raw string) Participant {
	s := strings.TrimSpace(raw)
	switch s {
	case "", "TBD":
		return PendingRef()
	case "bestSecond":
		return BestSecondRef()
	}
	if m := groupRankPattern.FindStringSubmatch(s); m != nil {
		rank, err := strconv.Atoi(m[2])
		if err == nil && rank > 0 {
			return GroupRankRef(m[1], rank)
		}
	}
	if id, ok := strings.CutSuffix(s, "-winner"); ok && id != "" {
		return BracketRef(id, OutcomeWinner)
	}
	if id, ok := strings.CutSuffix(s, "-loser"); ok && id != "" {
		return BracketRef(id, OutcomeLoser)
	}
	return TeamRef(s)
}

// String renders the historical form. It round-trips with ParseParticipant.
func (p Participant) String() string {
	switch p.Kind {
	case ParticipantTeam:
		return p.TeamID
	case ParticipantGroupRank:
		return fmt.Sprintf("group-%s-%d%s", strings.ToLower(p.Group), p.Rank, ordinalSuffix(p.Rank))
	case ParticipantBracket:
		return p.MatchID + "-" + string(p.Outcome)
	case ParticipantBestSecond:
		return "bestSecond"
	default:
		return "TBD"
	}
}

// IsResolved reports whether the slot holds a concrete team.
func (p Participant) IsResolved() bool {
	return p.Kind == ParticipantTeam && p.TeamID != ""
}

// IsPlaceholder is the inverse of IsResolved; the zero value counts as a
// pending placeholder.
func (p Participant) IsPlaceholder() bool {
	return !p.IsResolved()
}

// ResolveTeamRef repairs a team reference that stores a team name instead of
// an ID. Matching tries IDs first so a team named like another team's ID can
// never be rebound. Placeholders pass through untouched.
func (p Participant) ResolveTeamRef(teams []Team) Participant {
	if p.Kind != ParticipantTeam {
		return p
	}
	for _, t := range teams {
		if t.ID == p.TeamID {
			return p
		}
	}
	for _, t := range teams {
		if t.Name == p.TeamID {
			p.TeamID = t.ID
			return p
		}
	}
	return p
}

func (p Participant) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Participant) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = ParseParticipant(s)
	return nil
}

func ordinalSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
