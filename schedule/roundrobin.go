package schedule

import "github.com/matchwerk/tournament-scheduler/models"

// pairing is one group-phase fixture produced by the circle method. Home
// and Away only fix the initial side assignment; the balancing pass may
// swap them later.
type pairing struct {
	Group string
	Round int
	Home  models.Team
	Away  models.Team
}

// roundRobinPairings generates the single round robin for one group using
// the circle method: the first team stays fixed while the rest rotate one
// position per round, pairing the i-th entry against the (n-1-i)-th. An odd
// team count gets a synthetic bye entry, and pairings against it are
// skipped, so every team meets every other exactly once.
func roundRobinPairings(group string, teams []models.Team) []pairing {
	if len(teams) < 2 {
		return nil
	}

	rotation := make([]models.Team, len(teams))
	copy(rotation, teams)
	if len(rotation)%2 == 1 {
		rotation = append(rotation, models.Team{}) // empty ID marks the bye
	}

	n := len(rotation)
	rounds := n - 1
	half := n / 2

	pairings := make([]pairing, 0, len(teams)*(len(teams)-1)/2)
	for round := 0; round < rounds; round++ {
		for i := 0; i < half; i++ {
			home, away := rotation[i], rotation[n-1-i]
			if home.ID == "" || away.ID == "" {
				continue
			}
			// alternate who is named first so sides start out spread
			if (round+i)%2 == 1 {
				home, away = away, home
			}
			pairings = append(pairings, pairing{
				Group: group,
				Round: round + 1,
				Home:  home,
				Away:  away,
			})
		}

		last := rotation[n-1]
		copy(rotation[2:], rotation[1:n-1])
		rotation[1] = last
	}
	return pairings
}
