package models

import (
	"sort"
	"strings"
	"time"
)

type Team struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Group     string    `json:"group,omitempty" db:"group_key"`
	CreatedAt time.Time `json:"createdAt,omitempty" db:"created_at"`

	TournamentID string `json:"-" db:"tournament_id"`
}

// NormalizeGroupKey maps the historical group spellings onto the canonical
// uppercase letter. Exported tournaments stored group keys as "A",
// "Gruppe A" or "a" depending on their era.
func NormalizeGroupKey(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if low := strings.ToLower(s); strings.HasPrefix(low, "gruppe") {
		s = strings.TrimSpace(s[len("gruppe"):])
	}
	return strings.ToUpper(s)
}

// TeamsByGroup buckets teams under their normalized group key. Teams without
// a group label land in group "A", which covers single-group tournaments.
func TeamsByGroup(teams []Team) map[string][]Team {
	groups := make(map[string][]Team)
	for _, t := range teams {
		key := NormalizeGroupKey(t.Group)
		if key == "" {
			key = "A"
		}
		groups[key] = append(groups[key], t)
	}
	return groups
}

// GroupKeys returns the normalized group keys in alphabetical order.
func GroupKeys(teams []Team) []string {
	byGroup := TeamsByGroup(teams)
	keys := make([]string, 0, len(byGroup))
	for key := range byGroup {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FindTeam looks a team up by ID.
func FindTeam(teams []Team, id string) (Team, bool) {
	for _, t := range teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}
