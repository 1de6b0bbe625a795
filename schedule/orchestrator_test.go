package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/matchwerk/tournament-scheduler/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestrator_FinalOnlyTournament(t *testing.T) {
	start := time.Date(2026, time.June, 6, 9, 0, 0, 0, time.UTC)
	settings := models.DefaultSettings()
	settings.MinRestSlots = 0
	settings.StartTime = &start
	settings.FinalsConfig = &models.FinalsConfig{Preset: models.PresetFinalOnly}

	tournament := &models.Tournament{
		ID:             "trn1",
		Name:           "Summer Cup",
		Status:         models.StatusSetup,
		NumberOfGroups: 2,
		NumberOfFields: 1,
		Settings:       settings,
		Teams: []models.Team{
			{ID: "a1", Group: "A"}, {ID: "a2", Group: "A"},
			{ID: "b1", Group: "B"}, {ID: "b2", Group: "B"},
		},
	}

	result, err := NewOrchestrator(discardLogger()).GenerateSchedule(context.Background(), tournament)
	require.NoError(t, err)
	require.Len(t, result.Matches, 3, "one match per group plus the final")

	groupA := matchByID(t, result.Matches, "group-a-1")
	groupB := matchByID(t, result.Matches, "group-b-1")
	final := matchByID(t, result.Matches, "final")

	assert.Equal(t, 1, groupA.Slot)
	assert.Equal(t, 2, groupB.Slot)
	assert.Equal(t, 3, final.Slot, "the bracket starts right after the group phase")

	assert.True(t, final.IsFinal)
	assert.Equal(t, "group-a-1st", final.TeamA.String())
	assert.Equal(t, "group-b-1st", final.TeamB.String())

	for _, m := range result.Matches {
		assert.Equal(t, "trn1", m.TournamentID)
		require.NotNil(t, m.StartTime, m.ID)
		want := start.Add(time.Duration(m.Slot-1) * 15 * time.Minute)
		assert.True(t, m.StartTime.Equal(want), "%s at slot %d", m.ID, m.Slot)
	}

	assert.Len(t, result.Fairness.Teams, 4)
	assert.Empty(t, result.Fairness.Warnings)
}

func TestOrchestrator_NoFinalsPreset(t *testing.T) {
	settings := models.DefaultSettings()
	tournament := &models.Tournament{
		ID:             "trn1",
		NumberOfGroups: 1,
		NumberOfFields: 1,
		Settings:       settings,
		Teams:          makeTeams("a", 4),
	}

	result, err := NewOrchestrator(discardLogger()).GenerateSchedule(context.Background(), tournament)
	require.NoError(t, err)
	require.Len(t, result.Matches, 6)
	for _, m := range result.Matches {
		assert.False(t, m.IsFinal)
		assert.Equal(t, "A", m.Group)
	}
}

func TestOrchestrator_BracketFollowsGroupPhase(t *testing.T) {
	settings := models.DefaultSettings()
	settings.FinalsConfig = &models.FinalsConfig{Preset: models.PresetTop4, ParallelSemifinals: true}

	tournament := &models.Tournament{
		ID:             "trn1",
		NumberOfGroups: 2,
		NumberOfFields: 2,
		Settings:       settings,
		Teams: append(
			makeTeams("a", 3),
			makeTeams("b", 3)...,
		),
	}

	result, err := NewOrchestrator(discardLogger()).GenerateSchedule(context.Background(), tournament)
	require.NoError(t, err)
	require.Len(t, result.Matches, 10, "six group matches and four playoff matches")

	lastGroupSlot, firstPlayoffSlot := 0, 0
	for _, m := range result.Matches {
		if m.IsFinal {
			if firstPlayoffSlot == 0 || m.Slot < firstPlayoffSlot {
				firstPlayoffSlot = m.Slot
			}
			continue
		}
		if m.Slot > lastGroupSlot {
			lastGroupSlot = m.Slot
		}
	}
	assert.Equal(t, lastGroupSlot+1, firstPlayoffSlot)

	semi1 := matchByID(t, result.Matches, "semi1")
	semi2 := matchByID(t, result.Matches, "semi2")
	assert.Equal(t, semi1.Slot, semi2.Slot, "parallel semifinals share the first playoff slot")

	final := matchByID(t, result.Matches, "final")
	assert.Greater(t, final.Slot, semi1.Slot)
}

func TestOrchestrator_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tournament := &models.Tournament{
		ID:             "trn1",
		NumberOfGroups: 1,
		NumberOfFields: 1,
		Settings:       models.DefaultSettings(),
		Teams:          makeTeams("a", 4),
	}

	_, err := NewOrchestrator(discardLogger()).GenerateSchedule(ctx, tournament)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeFairness_Warnings(t *testing.T) {
	matches := []models.Match{
		{ID: "m1", Slot: 1, Field: 1, TeamA: models.TeamRef("t1"), TeamB: models.TeamRef("t2")},
		{ID: "m2", Slot: 2, Field: 1, TeamA: models.TeamRef("t1"), TeamB: models.TeamRef("t3")},
	}

	report := AnalyzeFairness(matches, 1, 1)

	require.Len(t, report.Teams, 3)
	assert.Equal(t, "t1", report.Teams[0].TeamID, "teams are sorted by ID")

	t1 := report.Teams[0]
	assert.Equal(t, 2, t1.Matches)
	assert.Equal(t, 1, t1.MinRest)
	assert.Equal(t, 1.0, t1.AverageRest)
	assert.Equal(t, 2, t1.Home)
	assert.Equal(t, 0, t1.Away)

	assert.Contains(t, report.Warnings, "team t1 gets 0 slot(s) rest between slots 1 and 2, minimum is 1")
	assert.Contains(t, report.Warnings, "team t1 is listed home 2 and away 0 times")
}

func TestAnalyzeFairness_FieldHogging(t *testing.T) {
	matches := []models.Match{
		{ID: "m1", Slot: 1, Field: 1, TeamA: models.TeamRef("t1"), TeamB: models.TeamRef("t2")},
		{ID: "m2", Slot: 3, Field: 1, TeamA: models.TeamRef("t3"), TeamB: models.TeamRef("t1")},
		{ID: "m3", Slot: 5, Field: 1, TeamA: models.TeamRef("t1"), TeamB: models.TeamRef("t4")},
		{ID: "m4", Slot: 7, Field: 1, TeamA: models.TeamRef("t5"), TeamB: models.TeamRef("t1")},
	}

	report := AnalyzeFairness(matches, 0, 2)

	assert.Contains(t, report.Warnings, "team t1 plays 4 of 4 matches on field 1")
}

func TestAnalyzeFairness_SkipsUnresolvedMatches(t *testing.T) {
	matches := []models.Match{
		{ID: "m1", Slot: 1, Field: 1, TeamA: models.TeamRef("t1"), TeamB: models.TeamRef("t2")},
		{ID: "final", Slot: 2, Field: 1, IsFinal: true, TeamA: models.GroupRankRef("A", 1), TeamB: models.GroupRankRef("B", 1)},
	}

	report := AnalyzeFairness(matches, 0, 1)
	assert.Len(t, report.Teams, 2, "placeholder matches are not counted")
}
