package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/matchwerk/tournament-scheduler/models"
)

// GroupScheduleParams carries everything the group-phase scheduler needs.
// Durations are minutes; MinRestSlots is the number of free slots a team
// must get between two of its matches.
type GroupScheduleParams struct {
	Groups         map[string][]models.Team
	NumberOfFields int
	SlotDuration   int
	BreakDuration  int
	MinRestSlots   int
	StartTime      *time.Time
}

// Weights of the soft fairness components. Rest deviation dominates, field
// repetition comes second, home/away imbalance and group progress act as
// tie-breakers.
const (
	restWeight     = 2.0
	fieldWeight    = 1.0
	homeAwayWeight = 0.5
	progressWeight = 0.1
)

type GroupScheduler struct {
	log *slog.Logger
}

func NewGroupScheduler(log *slog.Logger) *GroupScheduler {
	if log == nil {
		log = slog.Default()
	}
	return &GroupScheduler{log: log}
}

// teamState tracks one team's schedule so far during generation.
type teamState struct {
	slots      []int
	fieldCount map[int]int
	home       int
	away       int
}

func (s *teamState) played() int {
	return len(s.slots)
}

func (s *teamState) lastSlot() int {
	if len(s.slots) == 0 {
		return 0
	}
	return s.slots[len(s.slots)-1]
}

// averageRest is the mean gap between this team's consecutive slots.
func (s *teamState) averageRest() float64 {
	if len(s.slots) < 2 {
		return 0
	}
	return float64(s.slots[len(s.slots)-1]-s.slots[0]) / float64(len(s.slots)-1)
}

// Generate builds the full group-phase schedule: a round robin per group,
// flattened into one pool and placed slot by slot, field by field, always
// picking the pending pairing with the lowest fairness score. Slots are
// 1-based. The loop gives up after 2x the total pairing count worth of
// slots, which only happens when the rest constraint cannot be satisfied;
// the matches placed up to that point are returned and the rest is logged.
func (g *GroupScheduler) Generate(ctx context.Context, params GroupScheduleParams) ([]models.Match, error) {
	fields := params.NumberOfFields
	if fields < 1 {
		fields = 1
	}

	keys := make([]string, 0, len(params.Groups))
	for key := range params.Groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var pending []pairing
	for _, key := range keys {
		pending = append(pending, roundRobinPairings(models.NormalizeGroupKey(key), params.Groups[key])...)
	}
	if len(pending) == 0 {
		return []models.Match{}, nil
	}

	states := make(map[string]*teamState)
	stateOf := func(id string) *teamState {
		st := states[id]
		if st == nil {
			st = &teamState{fieldCount: make(map[int]int)}
			states[id] = st
		}
		return st
	}

	totalPairings := len(pending)
	maxSlots := 2 * totalPairings
	matches := make([]models.Match, 0, totalPairings)
	counter := make(map[string]int)

	slot := 0
	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slot++
		if slot > maxSlots {
			g.log.Warn("group scheduling aborted, slot budget exhausted",
				slog.Int("unplaced", len(pending)),
				slog.Int("slots", maxSlots),
				slog.Int("minRestSlots", params.MinRestSlots))
			break
		}

		playing := make(map[string]bool)
		for field := 1; field <= fields && len(pending) > 0; field++ {
			best := pickPairing(pending, stateOf, playing, slot, field, params.MinRestSlots)
			if best < 0 {
				// nothing may play this slot; rest constraints need a gap
				break
			}
			p := pending[best]
			pending = append(pending[:best], pending[best+1:]...)

			counter[p.Group]++
			matches = append(matches, models.Match{
				ID:        fmt.Sprintf("group-%s-%d", strings.ToLower(p.Group), counter[p.Group]),
				Round:     p.Round,
				Field:     field,
				Slot:      slot,
				StartTime: slotStartTime(params.StartTime, slot, params.SlotDuration, params.BreakDuration),
				TeamA:     models.TeamRef(p.Home.ID),
				TeamB:     models.TeamRef(p.Away.ID),
				Group:     p.Group,
			})

			homeState, awayState := stateOf(p.Home.ID), stateOf(p.Away.ID)
			homeState.slots = append(homeState.slots, slot)
			awayState.slots = append(awayState.slots, slot)
			homeState.fieldCount[field]++
			awayState.fieldCount[field]++
			homeState.home++
			awayState.away++
			playing[p.Home.ID] = true
			playing[p.Away.ID] = true
		}
	}

	balanceHomeAway(matches)
	return matches, nil
}

// pickPairing returns the index of the pending pairing with the lowest
// fairness score for the given slot and field, or -1 when every candidate
// is blocked by a hard constraint. Ties keep the earliest candidate, which
// keeps generation deterministic.
func pickPairing(pending []pairing, stateOf func(string) *teamState, playing map[string]bool, slot, field, minRest int) int {
	best := -1
	bestScore := math.Inf(1)
	for i, p := range pending {
		score := assignmentScore(p, stateOf, playing, slot, field, minRest)
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// assignmentScore is the heuristic cost of playing p at (slot, field).
// Hard violations (a team already playing in this slot, or getting less
// than minRest free slots since its last match) cost +Inf, so they are
// never picked while a finite candidate exists. The soft part sums, per
// team: deviation from the team's own average rest, the share of its past
// matches already played on this field, a penalty when the side assignment
// would worsen its home/away imbalance, and a small bias that lets teams
// with fewer matches play earlier.
func assignmentScore(p pairing, stateOf func(string) *teamState, playing map[string]bool, slot, field, minRest int) float64 {
	if playing[p.Home.ID] || playing[p.Away.ID] {
		return math.Inf(1)
	}

	score := 0.0
	for _, side := range []struct {
		id   string
		home bool
	}{{p.Home.ID, true}, {p.Away.ID, false}} {
		st := stateOf(side.id)
		if st.played() > 0 {
			rest := slot - st.lastSlot()
			if rest < minRest+1 {
				return math.Inf(1)
			}
			if avg := st.averageRest(); avg > 0 {
				score += restWeight * math.Abs(float64(rest)-avg)
			}
			score += fieldWeight * float64(st.fieldCount[field]) / float64(st.played())
		}

		before := st.home - st.away
		after := before - 1
		if side.home {
			after = before + 1
		}
		if intAbs(after) > intAbs(before) {
			score += homeAwayWeight
		}
		score += progressWeight * float64(st.played())
	}
	return score
}

// balanceHomeAway is the post-pass over the placed matches: swap the sides
// of a match whenever that strictly lowers the two teams' combined
// |home-away| imbalance. Counts update as it goes, so later swaps see the
// effect of earlier ones.
func balanceHomeAway(matches []models.Match) {
	home := make(map[string]int)
	away := make(map[string]int)
	for _, m := range matches {
		home[m.TeamA.TeamID]++
		away[m.TeamB.TeamID]++
	}

	for i := range matches {
		a := matches[i].TeamA.TeamID
		b := matches[i].TeamB.TeamID
		current := intAbs(home[a]-away[a]) + intAbs(home[b]-away[b])
		swapped := intAbs((home[a]-1)-(away[a]+1)) + intAbs((home[b]+1)-(away[b]-1))
		if swapped < current {
			matches[i].TeamA, matches[i].TeamB = matches[i].TeamB, matches[i].TeamA
			home[a]--
			away[a]++
			home[b]++
			away[b]--
		}
	}
}

// slotStartTime maps a 1-based slot onto its kickoff time.
func slotStartTime(start *time.Time, slot, slotDuration, breakDuration int) *time.Time {
	if start == nil || slot < 1 {
		return nil
	}
	at := start.Add(time.Duration(slot-1) * time.Duration(slotDuration+breakDuration) * time.Minute)
	return &at
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
