package schedule

import (
	"testing"

	"github.com/matchwerk/tournament-scheduler/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playedMatch(id, group, teamA, teamB string, scoreA, scoreB int) models.Match {
	return models.Match{
		ID:     id,
		Group:  group,
		TeamA:  models.TeamRef(teamA),
		TeamB:  models.TeamRef(teamB),
		ScoreA: &scoreA,
		ScoreB: &scoreB,
	}
}

func standingsFixture(teams []models.Team, matches []models.Match, rules []models.PlacementRule) *models.Tournament {
	settings := models.DefaultSettings()
	if rules != nil {
		settings.PlacementLogic = rules
	}
	return &models.Tournament{
		ID:       "trn1",
		Settings: settings,
		Teams:    teams,
		Matches:  matches,
	}
}

func tableOrder(rows []models.Standing) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.Team.ID
	}
	return ids
}

func TestCalculateStandings_TableNumbers(t *testing.T) {
	teams := []models.Team{
		{ID: "t1", Group: "A"},
		{ID: "t2", Group: "A"},
		{ID: "t3", Group: "A"},
	}
	matches := []models.Match{
		playedMatch("m1", "A", "t1", "t2", 3, 0),
		playedMatch("m2", "A", "t2", "t3", 2, 1),
		playedMatch("m3", "A", "t3", "t1", 1, 1),
	}
	tournament := standingsFixture(teams, matches, nil)

	rows := CalculateStandings(teams, matches, tournament, "A")
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"t1", "t2", "t3"}, tableOrder(rows))

	t1 := rows[0]
	assert.Equal(t, 1, t1.Position)
	assert.Equal(t, 2, t1.Played)
	assert.Equal(t, 1, t1.Won)
	assert.Equal(t, 1, t1.Drawn)
	assert.Equal(t, 0, t1.Lost)
	assert.Equal(t, 4, t1.GoalsFor)
	assert.Equal(t, 1, t1.GoalsAgainst)
	assert.Equal(t, 3, t1.GoalDifference)
	assert.Equal(t, 4, t1.Points)

	t2 := rows[1]
	assert.Equal(t, 2, t2.Position)
	assert.Equal(t, 3, t2.Points)
	assert.Equal(t, -2, t2.GoalDifference)

	t3 := rows[2]
	assert.Equal(t, 3, t3.Position)
	assert.Equal(t, 1, t3.Points)
	assert.Equal(t, 1, t3.Drawn)
}

// fourTeamFixture has t1 and t2 tied on points, goal difference, goals for,
// goals against and wins; t2 won the mutual match. t3 and t4 are tied on
// points with t4 winning theirs.
func fourTeamTie() ([]models.Team, []models.Match) {
	teams := []models.Team{
		{ID: "t1", Group: "A"},
		{ID: "t2", Group: "A"},
		{ID: "t3", Group: "A"},
		{ID: "t4", Group: "A"},
	}
	matches := []models.Match{
		playedMatch("m1", "A", "t2", "t1", 1, 0),
		playedMatch("m2", "A", "t1", "t3", 2, 0),
		playedMatch("m3", "A", "t1", "t4", 2, 0),
		playedMatch("m4", "A", "t3", "t2", 1, 0),
		playedMatch("m5", "A", "t2", "t4", 3, 0),
		playedMatch("m6", "A", "t4", "t3", 1, 0),
	}
	return teams, matches
}

func TestCalculateStandings_StableOrderWhenEverythingTies(t *testing.T) {
	teams, matches := fourTeamTie()
	tournament := standingsFixture(teams, matches, nil)

	rows := CalculateStandings(teams, matches, tournament, "A")

	// Direct comparison is disabled by default, so t1 and t2 compare equal on
	// every enabled criterion and keep their input order even though t2 won
	// the mutual match.
	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, tableOrder(rows))
	assert.Equal(t, rows[0].Points, rows[1].Points)
	assert.Equal(t, rows[0].GoalDifference, rows[1].GoalDifference)
	assert.Equal(t, rows[0].GoalsFor, rows[1].GoalsFor)
}

func TestCalculateStandings_DirectComparison(t *testing.T) {
	teams, matches := fourTeamTie()
	rules := []models.PlacementRule{
		{Criterion: models.CriterionPoints, Enabled: true},
		{Criterion: models.CriterionDirectComparison, Enabled: true},
	}
	tournament := standingsFixture(teams, matches, rules)

	rows := CalculateStandings(teams, matches, tournament, "A")

	assert.Equal(t, []string{"t2", "t1", "t4", "t3"}, tableOrder(rows))
}

func TestCalculateStandings_DirectComparisonScoresFixedPoints(t *testing.T) {
	// The head-to-head mini table always scores 3/1/0, even when the
	// tournament's own point system is different.
	teams, matches := fourTeamTie()
	rules := []models.PlacementRule{
		{Criterion: models.CriterionPoints, Enabled: true},
		{Criterion: models.CriterionDirectComparison, Enabled: true},
	}
	tournament := standingsFixture(teams, matches, rules)
	tournament.Settings.PointSystem = models.PointSystem{Win: 2, Draw: 1, Loss: 0}

	rows := CalculateStandings(teams, matches, tournament, "A")

	assert.Equal(t, []string{"t2", "t1", "t4", "t3"}, tableOrder(rows))
	assert.Equal(t, 4, rows[0].Points, "league points use the configured system")
}

func TestCalculateStandings_PointSystemOverride(t *testing.T) {
	teams := []models.Team{{ID: "t1", Group: "A"}, {ID: "t2", Group: "A"}}
	matches := []models.Match{playedMatch("m1", "A", "t1", "t2", 1, 0)}
	tournament := standingsFixture(teams, matches, nil)
	tournament.Settings.PointSystem = models.PointSystem{Win: 2, Draw: 1, Loss: 0}

	rows := CalculateStandings(teams, matches, tournament, "A")

	assert.Equal(t, 2, rows[0].Points)
	assert.Equal(t, 0, rows[1].Points)
}

func TestCalculateStandings_GoalsAgainstCriterion(t *testing.T) {
	teams := []models.Team{
		{ID: "t1", Group: "A"},
		{ID: "t2", Group: "A"},
		{ID: "t3", Group: "A"},
	}
	matches := []models.Match{
		playedMatch("m1", "A", "t1", "t3", 2, 1),
		playedMatch("m2", "A", "t2", "t3", 1, 0),
		playedMatch("m3", "A", "t1", "t2", 0, 0),
	}
	rules := []models.PlacementRule{
		{Criterion: models.CriterionPoints, Enabled: true},
		{Criterion: models.CriterionGoalsAgainst, Enabled: true},
	}
	tournament := standingsFixture(teams, matches, rules)

	rows := CalculateStandings(teams, matches, tournament, "A")

	// t1 and t2 both have 4 points; t2 conceded nothing and ranks first.
	assert.Equal(t, []string{"t2", "t1", "t3"}, tableOrder(rows))
}

func TestCalculateStandings_WinsCriterion(t *testing.T) {
	teams := []models.Team{
		{ID: "t1", Group: "A"},
		{ID: "t2", Group: "A"},
		{ID: "t3", Group: "A"},
	}
	matches := []models.Match{
		playedMatch("m1", "A", "t2", "t1", 1, 0),
		playedMatch("m2", "A", "t2", "t3", 2, 0),
		playedMatch("m3", "A", "t1", "t3", 1, 0),
	}
	rules := []models.PlacementRule{
		{Criterion: models.CriterionWins, Enabled: true},
	}
	tournament := standingsFixture(teams, matches, rules)

	rows := CalculateStandings(teams, matches, tournament, "A")
	assert.Equal(t, []string{"t2", "t1", "t3"}, tableOrder(rows))
}

func TestCalculateStandings_FiltersGroupAndFinals(t *testing.T) {
	teams := []models.Team{
		{ID: "a1", Group: "A"},
		{ID: "a2", Group: "A"},
		{ID: "b1", Group: "B"},
		{ID: "b2", Group: "B"},
	}
	final := playedMatch("final", "", "a1", "b1", 5, 0)
	final.IsFinal = true
	final.FinalType = models.FinalTypeFinal
	matches := []models.Match{
		playedMatch("group-a-1", "A", "a1", "a2", 2, 0),
		playedMatch("group-b-1", "B", "b1", "b2", 1, 0),
		{ID: "group-a-2", Group: "A", TeamA: models.TeamRef("a1"), TeamB: models.TeamRef("a2")}, // unplayed
		final,
	}
	tournament := standingsFixture(teams, matches, nil)

	rows := CalculateStandings(teams, matches, tournament, "A")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a1", "a2"}, tableOrder(rows))
	assert.Equal(t, 1, rows[0].Played, "unplayed and final matches do not count")
	assert.Equal(t, 2, rows[0].GoalsFor, "the final's goals stay out of the table")

	t.Run("lowercase group key", func(t *testing.T) {
		lower := CalculateStandings(teams, matches, tournament, "a")
		assert.Equal(t, rows, lower)
	})
}

func TestCalculateStandings_WholeGroupPhase(t *testing.T) {
	teams := []models.Team{
		{ID: "a1", Group: "A"},
		{ID: "a2", Group: "A"},
		{ID: "b1", Group: "B"},
		{ID: "b2", Group: "B"},
	}
	matches := []models.Match{
		playedMatch("group-a-1", "A", "a1", "a2", 2, 0),
		playedMatch("group-b-1", "B", "b1", "b2", 0, 4),
	}
	tournament := standingsFixture(teams, matches, nil)

	rows := CalculateStandings(teams, matches, tournament, "")
	require.Len(t, rows, 4, "empty group means the whole phase")
	assert.Equal(t, "b2", rows[0].Team.ID, "best goal difference tops the combined table")
}

func TestStandingsByGroup(t *testing.T) {
	teams := []models.Team{
		{ID: "a1", Group: "A"},
		{ID: "a2", Group: "A"},
		{ID: "b1", Group: "B"},
		{ID: "b2", Group: "B"},
	}
	matches := []models.Match{
		playedMatch("group-a-1", "A", "a1", "a2", 2, 0),
		playedMatch("group-b-1", "B", "b2", "b1", 1, 0),
	}
	tournament := standingsFixture(teams, matches, nil)

	byGroup := StandingsByGroup(tournament)
	require.Len(t, byGroup, 2)
	assert.Equal(t, []string{"a1", "a2"}, tableOrder(byGroup["A"]))
	assert.Equal(t, []string{"b2", "b1"}, tableOrder(byGroup["B"]))
	assert.Equal(t, 1, byGroup["A"][0].Position)
	assert.Equal(t, 2, byGroup["A"][1].Position)
}
