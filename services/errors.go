package services

import "errors"

// Errors shared across services and the HTTP error mapping.
var (
	// Not-found errors. The repositories carry their own sentinels; services
	// remap them onto these so handlers only deal with one package.
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrMatchNotFound      = errors.New("match not found")

	// Validation and business-rule errors.
	ErrTournamentNameRequired            = errors.New("tournament name is required")
	ErrTournamentInvalidGroups           = errors.New("number of groups must be at least 1")
	ErrTournamentInvalidFields           = errors.New("number of fields must be at least 1")
	ErrTournamentInvalidStatus           = errors.New("invalid tournament status provided")
	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")
	ErrTournamentLocked                  = errors.New("tournament can no longer be modified in its current status")
	ErrTeamNameRequired                  = errors.New("team name is required")
	ErrInvalidPlayoffPreset              = errors.New("unknown playoff preset")
	ErrScoreNegative                     = errors.New("scores must be zero or positive")
	ErrScoreIncomplete                   = errors.New("both scores are required")
	ErrMatchNotResolvable                = errors.New("match still has unresolved participants")

	// Schedule and playoff flow errors.
	ErrNotEnoughTeams          = errors.New("at least two teams are required to generate a schedule")
	ErrGroupTooSmall           = errors.New("every group needs at least two teams")
	ErrScheduleLocked          = errors.New("schedule can only be regenerated before results exist")
	ErrGroupPhaseNotFinished   = errors.New("group phase is not finished yet")
	ErrNoPlayoffMatches        = errors.New("tournament has no playoff matches")
	ErrNothingToResolve        = errors.New("all playoff pairings are already resolved")
	ErrSnapshotStorageDisabled = errors.New("snapshot storage is not configured")

	// Conflicts.
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrTeamNameConflict       = errors.New("team name already taken in this tournament")
)
