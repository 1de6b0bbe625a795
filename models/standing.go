package models

// Standing is one row of a league table. Standings are always derived from
// the matches on demand and never stored as authoritative state.
type Standing struct {
	Team           Team `json:"team"`
	Position       int  `json:"position"`
	Played         int  `json:"played"`
	Won            int  `json:"won"`
	Drawn          int  `json:"drawn"`
	Lost           int  `json:"lost"`
	GoalsFor       int  `json:"goalsFor"`
	GoalsAgainst   int  `json:"goalsAgainst"`
	GoalDifference int  `json:"goalDifference"`
	Points         int  `json:"points"`
}
