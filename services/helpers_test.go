package services

import (
	"testing"

	"github.com/matchwerk/tournament-scheduler/models"
	"github.com/stretchr/testify/assert"
)

func TestIsValidTournamentStatus(t *testing.T) {
	for _, s := range []models.TournamentStatus{
		models.StatusSetup, models.StatusScheduled, models.StatusInProgress, models.StatusCompleted,
	} {
		assert.True(t, isValidTournamentStatus(s), string(s))
	}
	assert.False(t, isValidTournamentStatus("archived"))
	assert.False(t, isValidTournamentStatus(""))
}

func TestIsValidStatusTransition(t *testing.T) {
	tests := []struct {
		current models.TournamentStatus
		next    models.TournamentStatus
		want    bool
	}{
		{models.StatusSetup, models.StatusScheduled, true},
		{models.StatusScheduled, models.StatusInProgress, true},
		{models.StatusInProgress, models.StatusCompleted, true},

		{models.StatusSetup, models.StatusInProgress, false},
		{models.StatusSetup, models.StatusCompleted, false},
		{models.StatusScheduled, models.StatusSetup, false},
		{models.StatusScheduled, models.StatusCompleted, false},
		{models.StatusInProgress, models.StatusScheduled, false},
		{models.StatusCompleted, models.StatusSetup, false},
		{models.StatusCompleted, models.StatusInProgress, false},

		// Same-status updates are allowed so retries stay harmless.
		{models.StatusSetup, models.StatusSetup, true},
		{models.StatusCompleted, models.StatusCompleted, true},
	}

	for _, tc := range tests {
		got := isValidStatusTransition(tc.current, tc.next)
		assert.Equal(t, tc.want, got, "%s -> %s", tc.current, tc.next)
	}
}
