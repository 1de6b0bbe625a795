package schedule

import (
	"testing"

	"github.com/matchwerk/tournament-scheduler/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// top4Fixture is a two-group tournament with the top-4 bracket still
// unresolved: one group match per group, cross-seeded semifinals, third
// place and final.
func top4Fixture() *models.Tournament {
	settings := models.DefaultSettings()
	settings.FinalsConfig = &models.FinalsConfig{Preset: models.PresetTop4}
	return &models.Tournament{
		ID:             "trn1",
		Name:           "Test Cup",
		Status:         models.StatusInProgress,
		NumberOfGroups: 2,
		NumberOfFields: 1,
		Settings:       settings,
		Teams: []models.Team{
			{ID: "a1", Name: "Alpha", Group: "A"},
			{ID: "a2", Name: "Aster", Group: "A"},
			{ID: "b1", Name: "Bravo", Group: "B"},
			{ID: "b2", Name: "Birch", Group: "B"},
		},
		Matches: []models.Match{
			{ID: "group-a-1", Group: "A", Round: 1, Field: 1, Slot: 1, TeamA: models.TeamRef("a1"), TeamB: models.TeamRef("a2")},
			{ID: "group-b-1", Group: "B", Round: 1, Field: 1, Slot: 2, TeamA: models.TeamRef("b1"), TeamB: models.TeamRef("b2")},
			{
				ID: "semi1", IsFinal: true, FinalType: models.FinalTypeSemifinal, Label: "Semifinal 1",
				Round: 1, Field: 1, Slot: 3,
				TeamA: models.GroupRankRef("A", 2), TeamB: models.GroupRankRef("B", 1),
			},
			{
				ID: "semi2", IsFinal: true, FinalType: models.FinalTypeSemifinal, Label: "Semifinal 2",
				Round: 1, Field: 1, Slot: 4,
				TeamA: models.GroupRankRef("A", 1), TeamB: models.GroupRankRef("B", 2),
			},
			{
				ID: "thirdPlace", IsFinal: true, FinalType: models.FinalTypeThirdPlace, Label: "Third Place",
				Round: 2, Field: 1, Slot: 5, DependsOn: []string{"semi1", "semi2"},
				TeamA: models.BracketRef("semi1", models.OutcomeLoser), TeamB: models.BracketRef("semi2", models.OutcomeLoser),
			},
			{
				ID: "final", IsFinal: true, FinalType: models.FinalTypeFinal, Label: "Final",
				Round: 2, Field: 1, Slot: 6, DependsOn: []string{"semi1", "semi2"},
				TeamA: models.BracketRef("semi1", models.OutcomeWinner), TeamB: models.BracketRef("semi2", models.OutcomeWinner),
			},
		},
	}
}

func setScore(t *testing.T, tournament *models.Tournament, matchID string, a, b int) {
	t.Helper()
	for i := range tournament.Matches {
		if tournament.Matches[i].ID == matchID {
			tournament.Matches[i].ScoreA = &a
			tournament.Matches[i].ScoreB = &b
			return
		}
	}
	t.Fatalf("no match %q in fixture", matchID)
}

func TestAreAllGroupMatchesCompleted(t *testing.T) {
	tournament := top4Fixture()
	assert.False(t, AreAllGroupMatchesCompleted(tournament.Matches))

	setScore(t, tournament, "group-a-1", 2, 0)
	assert.False(t, AreAllGroupMatchesCompleted(tournament.Matches), "one group still open")

	setScore(t, tournament, "group-b-1", 1, 0)
	assert.True(t, AreAllGroupMatchesCompleted(tournament.Matches))

	t.Run("no group matches means not completed", func(t *testing.T) {
		assert.False(t, AreAllGroupMatchesCompleted(nil))
		assert.False(t, AreAllGroupMatchesCompleted(tournament.FinalMatches()))
	})
}

func TestNeedsPlayoffResolution(t *testing.T) {
	tournament := top4Fixture()
	assert.True(t, NeedsPlayoffResolution(tournament.Matches))

	groupOnly := tournament.GroupMatches()
	assert.False(t, NeedsPlayoffResolution(groupOnly))
}

func TestResolvePlayoffPairings_WaitsForGroupPhase(t *testing.T) {
	tournament := top4Fixture()
	setScore(t, tournament, "group-a-1", 2, 0)

	res := ResolvePlayoffPairings(tournament)
	assert.False(t, res.WasResolved)
	assert.Equal(t, "group phase is not finished yet", res.Message)
	assert.Empty(t, res.UpdatedMatchIDs)

	auto := AutoResolvePlayoffsIfReady(tournament)
	assert.Equal(t, res.Message, auto.Message)
}

func TestResolvePlayoffPairings_FillsSemifinals(t *testing.T) {
	tournament := top4Fixture()
	setScore(t, tournament, "group-a-1", 2, 0) // a1 wins group A
	setScore(t, tournament, "group-b-1", 1, 0) // b1 wins group B

	res := ResolvePlayoffPairings(tournament)
	require.True(t, res.WasResolved)
	assert.Equal(t, "resolved 2 playoff matches", res.Message)
	assert.Equal(t, []string{"semi1", "semi2"}, res.UpdatedMatchIDs)

	semi1 := matchByID(t, res.UpdatedMatches, "semi1")
	assert.Equal(t, models.TeamRef("a2"), semi1.TeamA, "A2 plays the other group's winner")
	assert.Equal(t, models.TeamRef("b1"), semi1.TeamB)

	semi2 := matchByID(t, res.UpdatedMatches, "semi2")
	assert.Equal(t, models.TeamRef("a1"), semi2.TeamA)
	assert.Equal(t, models.TeamRef("b2"), semi2.TeamB)

	// Bracket-fed matches stay open until the semifinals are played.
	assert.True(t, matchByID(t, res.UpdatedMatches, "thirdPlace").HasPlaceholder())
	assert.True(t, matchByID(t, res.UpdatedMatches, "final").HasPlaceholder())

	// The tournament itself is untouched; callers decide when to swap.
	assert.True(t, matchByID(t, tournament.Matches, "semi1").HasPlaceholder())
}

func TestResolvePlayoffPairings_SecondRunResolvesNothing(t *testing.T) {
	tournament := top4Fixture()
	setScore(t, tournament, "group-a-1", 2, 0)
	setScore(t, tournament, "group-b-1", 1, 0)

	first := ResolvePlayoffPairings(tournament)
	require.True(t, first.WasResolved)
	tournament.Matches = first.UpdatedMatches

	second := ResolvePlayoffPairings(tournament)
	assert.False(t, second.WasResolved)
	assert.Equal(t, "resolved 0 playoff matches", second.Message)
}

func TestResolvePlayoffPairings_AllResolvedIsANoOp(t *testing.T) {
	tournament := top4Fixture()
	setScore(t, tournament, "group-a-1", 2, 0)
	setScore(t, tournament, "group-b-1", 1, 0)
	tournament.Matches = ResolvePlayoffPairings(tournament).UpdatedMatches

	setScore(t, tournament, "semi1", 0, 1) // b1 to the final
	setScore(t, tournament, "semi2", 2, 1) // a1 to the final
	tournament.Matches = ResolveBracketAfterPlayoffMatch(tournament).UpdatedMatches

	res := ResolvePlayoffPairings(tournament)
	assert.False(t, res.WasResolved)
	assert.Equal(t, "all playoff pairings are already resolved", res.Message)
}

func TestResolveBracketAfterPlayoffMatch_Cascades(t *testing.T) {
	tournament := top4Fixture()
	setScore(t, tournament, "group-a-1", 2, 0)
	setScore(t, tournament, "group-b-1", 1, 0)
	tournament.Matches = ResolvePlayoffPairings(tournament).UpdatedMatches

	setScore(t, tournament, "semi1", 1, 0) // a2 beats b1
	setScore(t, tournament, "semi2", 2, 1) // a1 beats b2

	res := ResolveBracketAfterPlayoffMatch(tournament)
	require.True(t, res.WasResolved)
	assert.Equal(t, []string{"thirdPlace", "final"}, res.UpdatedMatchIDs)

	final := matchByID(t, res.UpdatedMatches, "final")
	assert.Equal(t, models.TeamRef("a2"), final.TeamA)
	assert.Equal(t, models.TeamRef("a1"), final.TeamB)

	third := matchByID(t, res.UpdatedMatches, "thirdPlace")
	assert.Equal(t, models.TeamRef("b1"), third.TeamA)
	assert.Equal(t, models.TeamRef("b2"), third.TeamB)
}

func TestResolveBracketAfterPlayoffMatch_DrawNamesNoWinner(t *testing.T) {
	tournament := top4Fixture()
	setScore(t, tournament, "group-a-1", 2, 0)
	setScore(t, tournament, "group-b-1", 1, 0)
	tournament.Matches = ResolvePlayoffPairings(tournament).UpdatedMatches

	setScore(t, tournament, "semi1", 1, 1) // drawn, undecided
	setScore(t, tournament, "semi2", 2, 1)

	res := ResolveBracketAfterPlayoffMatch(tournament)
	require.True(t, res.WasResolved, "the decided side still resolves")

	final := matchByID(t, res.UpdatedMatches, "final")
	assert.True(t, final.TeamA.IsPlaceholder(), "semi1 winner stays open after a draw")
	assert.Equal(t, models.TeamRef("a1"), final.TeamB)

	third := matchByID(t, res.UpdatedMatches, "thirdPlace")
	assert.True(t, third.TeamA.IsPlaceholder())
	assert.Equal(t, models.TeamRef("b2"), third.TeamB)
}

func TestResolveBracketAfterPlayoffMatch_GroupSlotsNeedFinishedGroups(t *testing.T) {
	tournament := top4Fixture()
	// Group phase still open, but the first semifinal was decided by hand.
	matches := tournament.Matches
	for i := range matches {
		if matches[i].ID == "semi1" {
			matches[i].TeamA = models.TeamRef("a2")
			matches[i].TeamB = models.TeamRef("b1")
		}
	}
	setScore(t, tournament, "semi1", 3, 0)

	res := ResolveBracketAfterPlayoffMatch(tournament)
	require.True(t, res.WasResolved)
	assert.Equal(t, []string{"thirdPlace", "final"}, res.UpdatedMatchIDs)

	final := matchByID(t, res.UpdatedMatches, "final")
	assert.Equal(t, models.TeamRef("a2"), final.TeamA, "bracket slots resolve without standings")
	assert.True(t, final.TeamB.IsPlaceholder())

	semi2 := matchByID(t, res.UpdatedMatches, "semi2")
	assert.True(t, semi2.TeamA.IsPlaceholder(), "group slots wait for the group phase")
	assert.True(t, semi2.TeamB.IsPlaceholder())
}

func TestNeedsPlayoffReResolution(t *testing.T) {
	tournament := top4Fixture()
	setScore(t, tournament, "group-a-1", 2, 0)
	setScore(t, tournament, "group-b-1", 1, 0)

	assert.False(t, NeedsPlayoffReResolution(tournament), "unresolved pairings are resolution work, not drift")

	tournament.Matches = ResolvePlayoffPairings(tournament).UpdatedMatches
	assert.False(t, NeedsPlayoffReResolution(tournament))

	// Correcting the group result flips the table, so the published pairings
	// no longer match the standings.
	setScore(t, tournament, "group-a-1", 0, 2)
	assert.True(t, NeedsPlayoffReResolution(tournament))
}

func TestForceReResolvePlayoffs_RewritesDriftedPairings(t *testing.T) {
	tournament := top4Fixture()
	setScore(t, tournament, "group-a-1", 2, 0)
	setScore(t, tournament, "group-b-1", 1, 0)
	tournament.Matches = ResolvePlayoffPairings(tournament).UpdatedMatches

	setScore(t, tournament, "semi1", 1, 0)
	setScore(t, tournament, "semi2", 2, 1)

	setScore(t, tournament, "group-a-1", 0, 2) // a2 wins group A after correction

	res := ForceReResolvePlayoffs(tournament)
	require.True(t, res.WasResolved)
	assert.Equal(t, "re-resolved 2 playoff matches", res.Message)
	assert.ElementsMatch(t, []string{"semi1", "semi2"}, res.UpdatedMatchIDs)

	semi1 := matchByID(t, res.UpdatedMatches, "semi1")
	assert.Equal(t, models.TeamRef("a1"), semi1.TeamA, "a1 is the runner-up now")
	assert.Equal(t, models.TeamRef("b1"), semi1.TeamB)
	assert.Nil(t, semi1.ScoreA, "a changed pairing loses its result")
	assert.Nil(t, semi1.ScoreB)

	semi2 := matchByID(t, res.UpdatedMatches, "semi2")
	assert.Equal(t, models.TeamRef("a2"), semi2.TeamA)
	assert.Nil(t, semi2.ScoreA)

	// Bracket-fed matches are not group derived and keep whatever they hold.
	third := matchByID(t, res.UpdatedMatches, "thirdPlace")
	assert.NotContains(t, res.UpdatedMatchIDs, third.ID)
}

func TestForceReResolvePlayoffs_NothingDrifted(t *testing.T) {
	tournament := top4Fixture()
	setScore(t, tournament, "group-a-1", 2, 0)
	setScore(t, tournament, "group-b-1", 1, 0)
	tournament.Matches = ResolvePlayoffPairings(tournament).UpdatedMatches

	res := ForceReResolvePlayoffs(tournament)
	assert.False(t, res.WasResolved)
	assert.Equal(t, "re-resolved 0 playoff matches", res.Message)
}

func TestResolvePlayoffPairings_BestSecond(t *testing.T) {
	settings := models.DefaultSettings()
	settings.FinalsConfig = &models.FinalsConfig{Preset: models.PresetTop4}
	tournament := &models.Tournament{
		ID:             "trn2",
		NumberOfGroups: 3,
		NumberOfFields: 1,
		Settings:       settings,
		Teams: []models.Team{
			{ID: "a1", Group: "A"}, {ID: "a2", Group: "A"},
			{ID: "b1", Group: "B"}, {ID: "b2", Group: "B"},
			{ID: "c1", Group: "C"}, {ID: "c2", Group: "C"},
		},
		Matches: []models.Match{
			playedMatch("group-a-1", "A", "a1", "a2", 2, 0),
			playedMatch("group-b-1", "B", "b1", "b2", 3, 0),
			playedMatch("group-c-1", "C", "c1", "c2", 1, 0),
			{
				ID: "semi1", IsFinal: true, FinalType: models.FinalTypeSemifinal,
				TeamA: models.GroupRankRef("A", 1), TeamB: models.BestSecondRef(),
			},
			{
				ID: "semi2", IsFinal: true, FinalType: models.FinalTypeSemifinal,
				TeamA: models.GroupRankRef("B", 1), TeamB: models.GroupRankRef("C", 1),
			},
		},
	}

	res := ResolvePlayoffPairings(tournament)
	require.True(t, res.WasResolved)

	semi1 := matchByID(t, res.UpdatedMatches, "semi1")
	assert.Equal(t, models.TeamRef("a1"), semi1.TeamA)
	assert.Equal(t, models.TeamRef("a2"), semi1.TeamB, "best second comes from the first group in key order")

	semi2 := matchByID(t, res.UpdatedMatches, "semi2")
	assert.Equal(t, models.TeamRef("b1"), semi2.TeamA)
	assert.Equal(t, models.TeamRef("c1"), semi2.TeamB)
}
