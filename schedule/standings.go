package schedule

import (
	"sort"

	"github.com/matchwerk/tournament-scheduler/models"
)

// CalculateStandings builds the sorted league table for one group, or for
// the whole group phase when group is empty. Only matches with both scores
// entered count. The sort applies the tournament's enabled placement
// criteria in their configured order; every criterion is a tie-break that
// runs only when all earlier criteria compared equal. The sort is stable,
// so teams equal on every enabled criterion keep their input order.
func CalculateStandings(teams []models.Team, matches []models.Match, tournament *models.Tournament, group string) []models.Standing {
	settings := tournament.EffectiveSettings()
	key := models.NormalizeGroupKey(group)

	tableTeams := teams
	if key != "" {
		tableTeams = models.TeamsByGroup(teams)[key]
	}

	relevant := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m.IsFinal || !m.IsPlayed() {
			continue
		}
		if key != "" && models.NormalizeGroupKey(m.Group) != key {
			continue
		}
		relevant = append(relevant, m)
	}

	rows := make([]models.Standing, len(tableTeams))
	index := make(map[string]*models.Standing, len(tableTeams))
	for i, t := range tableTeams {
		rows[i] = models.Standing{Team: t}
		index[t.ID] = &rows[i]
	}

	for _, m := range relevant {
		a := index[m.TeamA.TeamID]
		b := index[m.TeamB.TeamID]
		if a == nil || b == nil {
			// references a team outside this table, nothing to count
			continue
		}
		accumulate(a, b, *m.ScoreA, *m.ScoreB, settings.PointSystem)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return compareStandings(rows[i], rows[j], settings.PlacementLogic, relevant) < 0
	})
	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows
}

// StandingsByGroup computes the table of every group in the tournament,
// keyed by normalized group letter.
func StandingsByGroup(t *models.Tournament) map[string][]models.Standing {
	out := make(map[string][]models.Standing)
	for key := range models.TeamsByGroup(t.Teams) {
		out[key] = CalculateStandings(t.Teams, t.Matches, t, key)
	}
	return out
}

func accumulate(a, b *models.Standing, scoreA, scoreB int, points models.PointSystem) {
	a.Played++
	b.Played++
	a.GoalsFor += scoreA
	a.GoalsAgainst += scoreB
	b.GoalsFor += scoreB
	b.GoalsAgainst += scoreA
	a.GoalDifference = a.GoalsFor - a.GoalsAgainst
	b.GoalDifference = b.GoalsFor - b.GoalsAgainst

	switch {
	case scoreA > scoreB:
		a.Won++
		b.Lost++
		a.Points += points.Win
		b.Points += points.Loss
	case scoreA < scoreB:
		b.Won++
		a.Lost++
		b.Points += points.Win
		a.Points += points.Loss
	default:
		a.Drawn++
		b.Drawn++
		a.Points += points.Draw
		b.Points += points.Draw
	}
}

// compareStandings returns <0 when a ranks above b. Criteria run in their
// configured order; disabled entries are skipped.
func compareStandings(a, b models.Standing, rules []models.PlacementRule, matches []models.Match) int {
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		if c := compareByCriterion(a, b, rule.Criterion, matches); c != 0 {
			return c
		}
	}
	return 0
}

func compareByCriterion(a, b models.Standing, criterion models.PlacementCriterion, matches []models.Match) int {
	switch criterion {
	case models.CriterionPoints:
		return descending(a.Points, b.Points)
	case models.CriterionGoalDifference:
		return descending(a.GoalDifference, b.GoalDifference)
	case models.CriterionGoalsFor:
		return descending(a.GoalsFor, b.GoalsFor)
	case models.CriterionGoalsAgainst:
		return descending(b.GoalsAgainst, a.GoalsAgainst) // fewer conceded ranks higher
	case models.CriterionWins:
		return descending(a.Won, b.Won)
	case models.CriterionDirectComparison:
		return compareDirect(a.Team.ID, b.Team.ID, matches)
	default:
		return 0
	}
}

// compareDirect ranks two teams by their mutual matches. The mini-table
// always scores 3/1/0 and breaks ties by goal difference, then goals
// scored, independent of the tournament's configured point system. That
// mismatch is long-standing behavior that exported data depends on.
func compareDirect(teamA, teamB string, matches []models.Match) int {
	var pointsA, pointsB, goalsA, goalsB int
	for _, m := range matches {
		if !m.IsPlayed() {
			continue
		}
		var forA, forB int
		switch {
		case m.TeamA.TeamID == teamA && m.TeamB.TeamID == teamB:
			forA, forB = *m.ScoreA, *m.ScoreB
		case m.TeamA.TeamID == teamB && m.TeamB.TeamID == teamA:
			forA, forB = *m.ScoreB, *m.ScoreA
		default:
			continue
		}
		goalsA += forA
		goalsB += forB
		switch {
		case forA > forB:
			pointsA += 3
		case forA < forB:
			pointsB += 3
		default:
			pointsA++
			pointsB++
		}
	}
	if c := descending(pointsA, pointsB); c != 0 {
		return c
	}
	if c := descending(goalsA-goalsB, goalsB-goalsA); c != 0 {
		return c
	}
	return descending(goalsA, goalsB)
}

func descending(a, b int) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
