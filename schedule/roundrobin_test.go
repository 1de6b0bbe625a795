package schedule

import (
	"fmt"
	"testing"

	"github.com/matchwerk/tournament-scheduler/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTeams(group string, n int) []models.Team {
	teams := make([]models.Team, n)
	for i := range teams {
		teams[i] = models.Team{
			ID:    fmt.Sprintf("%s%d", group, i+1),
			Name:  fmt.Sprintf("Team %s%d", group, i+1),
			Group: group,
		}
	}
	return teams
}

// pairKey is order independent so home/away swaps don't hide duplicates.
func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

func TestRoundRobinPairings_EveryPairExactlyOnce(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 6, 7, 8} {
		t.Run(fmt.Sprintf("%d teams", n), func(t *testing.T) {
			teams := makeTeams("a", n)
			pairings := roundRobinPairings("A", teams)

			require.Len(t, pairings, n*(n-1)/2)

			seen := make(map[string]int)
			for _, p := range pairings {
				require.NotEmpty(t, p.Home.ID)
				require.NotEmpty(t, p.Away.ID)
				require.NotEqual(t, p.Home.ID, p.Away.ID)
				seen[pairKey(p.Home.ID, p.Away.ID)]++
			}
			for key, count := range seen {
				assert.Equal(t, 1, count, "pair %s scheduled %d times", key, count)
			}
			assert.Len(t, seen, n*(n-1)/2)
		})
	}
}

func TestRoundRobinPairings_EachTeamOncePerRound(t *testing.T) {
	teams := makeTeams("a", 6)
	pairings := roundRobinPairings("A", teams)

	perRound := make(map[int]map[string]bool)
	for _, p := range pairings {
		if perRound[p.Round] == nil {
			perRound[p.Round] = make(map[string]bool)
		}
		assert.False(t, perRound[p.Round][p.Home.ID], "team %s twice in round %d", p.Home.ID, p.Round)
		assert.False(t, perRound[p.Round][p.Away.ID], "team %s twice in round %d", p.Away.ID, p.Round)
		perRound[p.Round][p.Home.ID] = true
		perRound[p.Round][p.Away.ID] = true
	}

	require.Len(t, perRound, 5)
	for round, playing := range perRound {
		assert.Len(t, playing, 6, "round %d should use every team", round)
	}
}

func TestRoundRobinPairings_OddCountByes(t *testing.T) {
	teams := makeTeams("a", 5)
	pairings := roundRobinPairings("A", teams)

	require.Len(t, pairings, 10)

	// 5 rounds of 2 matches each; one team sits out per round.
	rounds := make(map[int]int)
	for _, p := range pairings {
		rounds[p.Round]++
	}
	require.Len(t, rounds, 5)
	for round, count := range rounds {
		assert.Equal(t, 2, count, "round %d", round)
	}
}

func TestRoundRobinPairings_TooFewTeams(t *testing.T) {
	assert.Nil(t, roundRobinPairings("A", nil))
	assert.Nil(t, roundRobinPairings("A", makeTeams("a", 1)))
}

func TestRoundRobinPairings_Deterministic(t *testing.T) {
	teams := makeTeams("a", 5)
	first := roundRobinPairings("A", teams)
	second := roundRobinPairings("A", teams)
	assert.Equal(t, first, second)
}

func TestRoundRobinPairings_CarriesGroup(t *testing.T) {
	pairings := roundRobinPairings("B", makeTeams("b", 3))
	for _, p := range pairings {
		assert.Equal(t, "B", p.Group)
	}
}
