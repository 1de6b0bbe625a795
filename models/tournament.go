package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TournamentStatus follows the ENUM in the database.
type TournamentStatus string

const (
	StatusSetup      TournamentStatus = "setup"
	StatusScheduled  TournamentStatus = "scheduled"
	StatusInProgress TournamentStatus = "in_progress"
	StatusCompleted  TournamentStatus = "completed"
)

type Tournament struct {
	ID             string           `json:"id" db:"id"`
	Name           string           `json:"name" db:"name"`
	Status         TournamentStatus `json:"status" db:"status"`
	NumberOfGroups int              `json:"numberOfGroups" db:"number_of_groups"`
	NumberOfFields int              `json:"numberOfFields" db:"number_of_fields"`
	SettingsJSON   *string          `json:"-" db:"settings_json"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time        `json:"updatedAt" db:"updated_at"`

	// Populated by the service layer, not mapped directly.
	Settings *TournamentSettings `json:"settings,omitempty" db:"-"`
	Teams    []Team              `json:"teams,omitempty" db:"-"`
	Matches  []Match             `json:"matches,omitempty" db:"-"`
}

// ParseSettings unmarshals the raw settings column into the typed struct,
// normalizes it and caches the result on the tournament.
func (t *Tournament) ParseSettings() (*TournamentSettings, error) {
	if t.Settings != nil {
		return t.Settings, nil
	}
	settings := DefaultSettings()
	if t.SettingsJSON != nil && *t.SettingsJSON != "" {
		settings = &TournamentSettings{}
		if err := json.Unmarshal([]byte(*t.SettingsJSON), settings); err != nil {
			return nil, fmt.Errorf("parse tournament %s settings: %w", t.ID, err)
		}
		settings.Normalize()
	}
	t.Settings = settings
	return settings, nil
}

// EffectiveSettings returns the cached settings, falling back to defaults
// when nothing was parsed yet. Engine code uses this accessor so it never
// has to deal with a nil settings pointer.
func (t *Tournament) EffectiveSettings() *TournamentSettings {
	if t.Settings != nil {
		return t.Settings
	}
	return DefaultSettings()
}

// GroupMatches returns the group-phase subset of the tournament's matches.
func (t *Tournament) GroupMatches() []Match {
	var out []Match
	for _, m := range t.Matches {
		if m.IsGroupMatch() {
			out = append(out, m)
		}
	}
	return out
}

// FinalMatches returns the playoff subset of the tournament's matches.
func (t *Tournament) FinalMatches() []Match {
	var out []Match
	for _, m := range t.Matches {
		if m.IsFinal {
			out = append(out, m)
		}
	}
	return out
}
