package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/matchwerk/tournament-scheduler/models"
)

// ErrCircularDependency is returned when playoff definitions depend on each
// other in a loop and no valid match order exists.
var ErrCircularDependency = errors.New("circular dependency detected in playoff definitions")

// PlayoffScheduleParams drives one playoff scheduling run. StartSlot anchors
// the bracket after the group phase: the first playoff wave begins there.
type PlayoffScheduleParams struct {
	Defs           []PlayoffDef
	NumberOfFields int
	SlotDuration   int // minutes per match
	BreakDuration  int // minutes between slots
	StartSlot      int
	StartTime      *time.Time
}

// PlayoffScheduler assigns slots and fields to playoff matches so that every
// match lands strictly after the matches it depends on.
type PlayoffScheduler struct {
	log *slog.Logger
}

func NewPlayoffScheduler(log *slog.Logger) *PlayoffScheduler {
	if log == nil {
		log = slog.Default()
	}
	return &PlayoffScheduler{log: log}
}

// Generate orders the definitions into dependency waves and walks a
// slot/field cursor across them. Matches marked sequentialOnly get a slot of
// their own; parallelAllowed matches of the same wave pack onto the
// available fields. Every new wave starts on a fresh slot, which is what
// guarantees dependents play later than their prerequisites.
func (s *PlayoffScheduler) Generate(ctx context.Context, params PlayoffScheduleParams) ([]models.Match, error) {
	if len(params.Defs) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fields := params.NumberOfFields
	if fields < 1 {
		fields = 1
	}
	startSlot := params.StartSlot
	if startSlot < 1 {
		startSlot = 1
	}

	waves, err := topoSort(params.Defs)
	if err != nil {
		return nil, err
	}

	matches := make([]models.Match, 0, len(params.Defs))
	slot := startSlot
	field := 1
	for round, wave := range waves {
		// A wave must not share slots with the previous one.
		if field > 1 {
			slot++
			field = 1
		}
		for _, def := range wave {
			if def.Policy == PolicySequential {
				if field > 1 {
					slot++
					field = 1
				}
				matches = append(matches, matchFromDef(def, round+1, slot, 1, params))
				slot++
				continue
			}
			matches = append(matches, matchFromDef(def, round+1, slot, field, params))
			field++
			if field > fields {
				slot++
				field = 1
			}
		}
	}

	s.log.Debug("playoff schedule generated",
		"matches", len(matches),
		"waves", len(waves),
		"start_slot", startSlot,
	)
	return matches, nil
}

// topoSort groups the definitions into waves: wave 0 holds defs with no
// pending dependencies, wave n+1 holds defs unlocked by wave n. Dependencies
// pointing outside the def set (group matches, typically) count as already
// satisfied. A non-empty remainder after the sort means a cycle.
func topoSort(defs []PlayoffDef) ([][]PlayoffDef, error) {
	known := make(map[string]bool, len(defs))
	for _, d := range defs {
		known[d.ID] = true
	}

	pending := make(map[string]int, len(defs))
	dependents := make(map[string][]string, len(defs))
	for _, d := range defs {
		count := 0
		for _, dep := range d.DependsOn {
			if !known[dep] {
				continue
			}
			count++
			dependents[dep] = append(dependents[dep], d.ID)
		}
		pending[d.ID] = count
	}

	byID := make(map[string]PlayoffDef, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}

	var waves [][]PlayoffDef
	current := make([]string, 0, len(defs))
	for _, d := range defs {
		if pending[d.ID] == 0 {
			current = append(current, d.ID)
		}
	}

	placed := 0
	for len(current) > 0 {
		wave := make([]PlayoffDef, 0, len(current))
		var next []string
		for _, id := range current {
			wave = append(wave, byID[id])
			placed++
			for _, dep := range dependents[id] {
				pending[dep]--
				if pending[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		waves = append(waves, wave)
		current = next
	}

	if placed != len(defs) {
		return nil, fmt.Errorf("%w: %d of %d matches unplaceable", ErrCircularDependency, len(defs)-placed, len(defs))
	}
	return waves, nil
}

func matchFromDef(def PlayoffDef, round, slot, field int, params PlayoffScheduleParams) models.Match {
	start := slotStartTime(params.StartTime, slot, params.SlotDuration, params.BreakDuration)
	return models.Match{
		ID:        def.ID,
		Round:     round,
		Field:     field,
		Slot:      slot,
		StartTime: start,
		TeamA:     def.Home,
		TeamB:     def.Away,
		IsFinal:   true,
		FinalType: def.FinalType,
		Label:     def.Label,
		DependsOn: slices.Clone(def.DependsOn),
	}
}
