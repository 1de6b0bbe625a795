package models

import "time"

// PointSystem holds the points awarded per group-match outcome.
type PointSystem struct {
	Win  int `json:"win"`
	Draw int `json:"draw"`
	Loss int `json:"loss"`
}

var DefaultPointSystem = PointSystem{Win: 3, Draw: 1, Loss: 0}

// PlacementCriterion identifies one tie-break step of the standings sort.
type PlacementCriterion string

const (
	CriterionPoints           PlacementCriterion = "points"
	CriterionGoalDifference   PlacementCriterion = "goalDifference"
	CriterionGoalsFor         PlacementCriterion = "goalsFor"
	CriterionGoalsAgainst     PlacementCriterion = "goalsAgainst"
	CriterionWins             PlacementCriterion = "wins"
	CriterionDirectComparison PlacementCriterion = "directComparison"
)

// PlacementRule is one entry of the ordered placement chain. Disabled rules
// stay in the list so the configured order survives round-trips.
type PlacementRule struct {
	Criterion PlacementCriterion `json:"criterion"`
	Enabled   bool               `json:"enabled"`
}

func DefaultPlacementLogic() []PlacementRule {
	return []PlacementRule{
		{Criterion: CriterionPoints, Enabled: true},
		{Criterion: CriterionGoalDifference, Enabled: true},
		{Criterion: CriterionGoalsFor, Enabled: true},
		{Criterion: CriterionGoalsAgainst, Enabled: true},
		{Criterion: CriterionWins, Enabled: true},
		{Criterion: CriterionDirectComparison, Enabled: false},
	}
}

// PlayoffPreset names a finals-bracket shape.
type PlayoffPreset string

const (
	PresetNone      PlayoffPreset = "none"
	PresetFinalOnly PlayoffPreset = "final-only"
	PresetTop4      PlayoffPreset = "top-4"
	PresetTop8      PlayoffPreset = "top-8"
	PresetAllPlaces PlayoffPreset = "all-places"
)

func (p PlayoffPreset) Valid() bool {
	switch p {
	case PresetNone, PresetFinalOnly, PresetTop4, PresetTop8, PresetAllPlaces:
		return true
	}
	return false
}

type FinalsConfig struct {
	Preset                PlayoffPreset `json:"preset"`
	ParallelSemifinals    bool          `json:"parallelSemifinals,omitempty"`
	ParallelQuarterfinals bool          `json:"parallelQuarterfinals,omitempty"`
	// No current preset reaches a round of 16; the key stays part of the
	// stored config format.
	ParallelRoundOf16 bool `json:"parallelRoundOf16,omitempty"`
}

// TournamentSettings is the schedule configuration blob stored as JSON on
// the tournament row. Durations are minutes.
type TournamentSettings struct {
	GroupPhaseGameDuration int             `json:"groupPhaseGameDuration"`
	BreakDuration          int             `json:"breakDuration"`
	MinRestSlots           int             `json:"minRestSlots"`
	StartTime              *time.Time      `json:"startTime,omitempty"`
	PointSystem            PointSystem     `json:"pointSystem"`
	PlacementLogic         []PlacementRule `json:"placementLogic,omitempty"`
	FinalsConfig           *FinalsConfig   `json:"finalsConfig,omitempty"`

	// Finals is the pre-preset on/off toggle still present in old exports.
	// Normalize migrates it into FinalsConfig.
	Finals *bool `json:"finals,omitempty"`
}

func DefaultSettings() *TournamentSettings {
	return &TournamentSettings{
		GroupPhaseGameDuration: 10,
		BreakDuration:          5,
		MinRestSlots:           1,
		PointSystem:            DefaultPointSystem,
		PlacementLogic:         DefaultPlacementLogic(),
		FinalsConfig:           &FinalsConfig{Preset: PresetNone},
	}
}

// Normalize fills defaults and migrates legacy fields in place. A bare
// finals toggle predates presets; on maps to final-only, which is what the
// toggle produced back then.
func (s *TournamentSettings) Normalize() {
	if s.GroupPhaseGameDuration <= 0 {
		s.GroupPhaseGameDuration = 10
	}
	if s.BreakDuration < 0 {
		s.BreakDuration = 0
	}
	if s.MinRestSlots < 0 {
		s.MinRestSlots = 0
	}
	if s.PointSystem == (PointSystem{}) {
		s.PointSystem = DefaultPointSystem
	}
	if len(s.PlacementLogic) == 0 {
		s.PlacementLogic = DefaultPlacementLogic()
	}
	if s.FinalsConfig == nil {
		preset := PresetNone
		if s.Finals != nil && *s.Finals {
			preset = PresetFinalOnly
		}
		s.FinalsConfig = &FinalsConfig{Preset: preset}
	}
	if !s.FinalsConfig.Preset.Valid() {
		s.FinalsConfig.Preset = PresetNone
	}
	s.Finals = nil
}

// Finals returns the normalized finals configuration.
func (s *TournamentSettings) EffectiveFinals() FinalsConfig {
	if s.FinalsConfig == nil {
		return FinalsConfig{Preset: PresetNone}
	}
	return *s.FinalsConfig
}
