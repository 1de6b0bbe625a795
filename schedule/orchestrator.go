package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/matchwerk/tournament-scheduler/models"
)

// ScheduleResult is the complete output of one schedule generation run:
// group phase and playoff matches merged into one slice, plus the fairness
// analysis over the placed group matches.
type ScheduleResult struct {
	Matches  []models.Match `json:"matches"`
	Fairness FairnessReport `json:"fairness"`
}

// FairnessReport summarizes how evenly the group phase treats each team.
type FairnessReport struct {
	Teams    []TeamFairness `json:"teams"`
	Warnings []string       `json:"warnings,omitempty"`
}

// TeamFairness is the per-team view: how many matches, how much rest between
// them, which fields, and how often the team was listed first (home).
type TeamFairness struct {
	TeamID      string      `json:"teamId"`
	Matches     int         `json:"matches"`
	MinRest     int         `json:"minRest"`
	AverageRest float64     `json:"averageRest"`
	FieldCounts map[int]int `json:"fieldCounts"`
	Home        int         `json:"home"`
	Away        int         `json:"away"`
}

// Orchestrator builds the full tournament schedule: the group phase first,
// then the playoff bracket anchored on the slot after the last group match.
type Orchestrator struct {
	log      *slog.Logger
	groups   *GroupScheduler
	playoffs *PlayoffScheduler
}

func NewOrchestrator(log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		log:      log,
		groups:   NewGroupScheduler(log),
		playoffs: NewPlayoffScheduler(log),
	}
}

// GenerateSchedule runs the whole pipeline for one tournament: bucket the
// teams by group, place the round robins, expand the finals preset, schedule
// the bracket after the group phase and analyze the result. The tournament
// itself is not modified; the caller decides what to do with the matches.
func (o *Orchestrator) GenerateSchedule(ctx context.Context, t *models.Tournament) (*ScheduleResult, error) {
	settings := t.EffectiveSettings()
	groups := models.TeamsByGroup(t.Teams)

	groupMatches, err := o.groups.Generate(ctx, GroupScheduleParams{
		Groups:         groups,
		NumberOfFields: t.NumberOfFields,
		SlotDuration:   settings.GroupPhaseGameDuration,
		BreakDuration:  settings.BreakDuration,
		MinRestSlots:   settings.MinRestSlots,
		StartTime:      settings.StartTime,
	})
	if err != nil {
		return nil, fmt.Errorf("group phase: %w", err)
	}

	lastSlot := 0
	for _, m := range groupMatches {
		if m.Slot > lastSlot {
			lastSlot = m.Slot
		}
	}

	defs := GeneratePlayoffDefs(effectiveGroupCount(t), settings.EffectiveFinals())
	playoffMatches, err := o.playoffs.Generate(ctx, PlayoffScheduleParams{
		Defs:           defs,
		NumberOfFields: t.NumberOfFields,
		SlotDuration:   settings.GroupPhaseGameDuration,
		BreakDuration:  settings.BreakDuration,
		StartSlot:      lastSlot + 1,
		StartTime:      settings.StartTime,
	})
	if err != nil {
		return nil, fmt.Errorf("playoff phase: %w", err)
	}

	matches := make([]models.Match, 0, len(groupMatches)+len(playoffMatches))
	matches = append(matches, groupMatches...)
	matches = append(matches, playoffMatches...)
	for i := range matches {
		matches[i].TournamentID = t.ID
	}

	report := AnalyzeFairness(matches, settings.MinRestSlots, t.NumberOfFields)
	o.log.Info("schedule generated",
		slog.String("tournament_id", t.ID),
		slog.Int("group_matches", len(groupMatches)),
		slog.Int("playoff_matches", len(playoffMatches)),
		slog.Int("fairness_warnings", len(report.Warnings)))

	return &ScheduleResult{Matches: matches, Fairness: report}, nil
}

// AnalyzeFairness walks the matches with two resolved teams (the group phase,
// in practice) and reports per-team rest, field and home/away statistics.
// Warnings flag rest below the configured minimum, a home/away split off by
// more than one, and a team stuck on one field for most of its matches.
func AnalyzeFairness(matches []models.Match, minRestSlots, numberOfFields int) FairnessReport {
	type stats struct {
		slots  []int
		fields map[int]int
		home   int
		away   int
	}
	perTeam := make(map[string]*stats)
	track := func(id string) *stats {
		st := perTeam[id]
		if st == nil {
			st = &stats{fields: make(map[int]int)}
			perTeam[id] = st
		}
		return st
	}

	for _, m := range matches {
		if !m.IsFullyResolved() || m.Slot < 1 {
			continue
		}
		a, b := track(m.TeamA.TeamID), track(m.TeamB.TeamID)
		a.slots = append(a.slots, m.Slot)
		b.slots = append(b.slots, m.Slot)
		a.fields[m.Field]++
		b.fields[m.Field]++
		a.home++
		b.away++
	}

	ids := make([]string, 0, len(perTeam))
	for id := range perTeam {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	report := FairnessReport{Teams: make([]TeamFairness, 0, len(ids))}
	for _, id := range ids {
		st := perTeam[id]
		sort.Ints(st.slots)

		minRest, restSum := 0, 0
		for i := 1; i < len(st.slots); i++ {
			rest := st.slots[i] - st.slots[i-1]
			restSum += rest
			if minRest == 0 || rest < minRest {
				minRest = rest
			}
			if rest < minRestSlots+1 {
				report.Warnings = append(report.Warnings, fmt.Sprintf(
					"team %s gets %d slot(s) rest between slots %d and %d, minimum is %d",
					id, rest-1, st.slots[i-1], st.slots[i], minRestSlots))
			}
		}
		avgRest := 0.0
		if len(st.slots) > 1 {
			avgRest = float64(restSum) / float64(len(st.slots)-1)
		}

		if imbalance := st.home - st.away; imbalance > 1 || imbalance < -1 {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"team %s is listed home %d and away %d times", id, st.home, st.away))
		}
		if numberOfFields > 1 && len(st.slots) > 2 {
			for field, count := range st.fields {
				if count*2 > len(st.slots)+1 {
					report.Warnings = append(report.Warnings, fmt.Sprintf(
						"team %s plays %d of %d matches on field %d", id, count, len(st.slots), field))
				}
			}
		}

		report.Teams = append(report.Teams, TeamFairness{
			TeamID:      id,
			Matches:     len(st.slots),
			MinRest:     minRest,
			AverageRest: avgRest,
			FieldCounts: st.fields,
			Home:        st.home,
			Away:        st.away,
		})
	}
	return report
}
