package models

import "time"

// FinalType labels the stage of a playoff match.
type FinalType string

const (
	FinalTypeQuarterfinal FinalType = "quarterfinal"
	FinalTypeSemifinal    FinalType = "semifinal"
	FinalTypeThirdPlace   FinalType = "thirdPlace"
	FinalTypeFinal        FinalType = "final"
	FinalTypePlacement    FinalType = "placement"
)

// Match is a single scheduled game. Group matches carry Group and leave the
// final fields empty; playoff matches carry IsFinal, FinalType, Label and
// DependsOn. Slots are 1-based; 0 means unscheduled.
type Match struct {
	ID           string      `json:"id" db:"id"`
	TournamentID string      `json:"-" db:"tournament_id"`
	Round        int         `json:"round" db:"round"`
	Field        int         `json:"field" db:"field"`
	Slot         int         `json:"slot,omitempty" db:"slot"`
	StartTime    *time.Time  `json:"startTime,omitempty" db:"start_time"`
	TeamA        Participant `json:"teamA" db:"team_a"`
	TeamB        Participant `json:"teamB" db:"team_b"`
	ScoreA       *int        `json:"scoreA,omitempty" db:"score_a"`
	ScoreB       *int        `json:"scoreB,omitempty" db:"score_b"`
	Group        string      `json:"group,omitempty" db:"group_key"`
	IsFinal      bool        `json:"isFinal,omitempty" db:"is_final"`
	FinalType    FinalType   `json:"finalType,omitempty" db:"final_type"`
	Label        string      `json:"label,omitempty" db:"label"`
	DependsOn    []string    `json:"dependsOn,omitempty" db:"depends_on"`
}

// IsPlayed reports whether both scores have been entered.
func (m Match) IsPlayed() bool {
	return m.ScoreA != nil && m.ScoreB != nil
}

func (m Match) IsDraw() bool {
	return m.IsPlayed() && *m.ScoreA == *m.ScoreB
}

// IsGroupMatch reports whether the match belongs to the group phase.
func (m Match) IsGroupMatch() bool {
	return !m.IsFinal && m.Group != ""
}

// IsFullyResolved reports whether both slots hold concrete teams.
func (m Match) IsFullyResolved() bool {
	return m.TeamA.IsResolved() && m.TeamB.IsResolved()
}

// HasPlaceholder reports whether either slot is still symbolic.
func (m Match) HasPlaceholder() bool {
	return m.TeamA.IsPlaceholder() || m.TeamB.IsPlaceholder()
}

// WinnerTeamID returns the winning team. A winner exists only once both
// slots are resolved, both scores are entered and the match is not a draw;
// a drawn knockout match cannot name a winner without penalty data.
func (m Match) WinnerTeamID() (string, bool) {
	if !m.IsFullyResolved() || !m.IsPlayed() || m.IsDraw() {
		return "", false
	}
	if *m.ScoreA > *m.ScoreB {
		return m.TeamA.TeamID, true
	}
	return m.TeamB.TeamID, true
}

// LoserTeamID mirrors WinnerTeamID for the losing side.
func (m Match) LoserTeamID() (string, bool) {
	if !m.IsFullyResolved() || !m.IsPlayed() || m.IsDraw() {
		return "", false
	}
	if *m.ScoreA > *m.ScoreB {
		return m.TeamB.TeamID, true
	}
	return m.TeamA.TeamID, true
}

// References reports whether the match involves the given team on either
// side.
func (m Match) References(teamID string) bool {
	return (m.TeamA.Kind == ParticipantTeam && m.TeamA.TeamID == teamID) ||
		(m.TeamB.Kind == ParticipantTeam && m.TeamB.TeamID == teamID)
}

// FindMatch looks a match up by ID.
func FindMatch(matches []Match, id string) (Match, bool) {
	for _, m := range matches {
		if m.ID == id {
			return m, true
		}
	}
	return Match{}, false
}
