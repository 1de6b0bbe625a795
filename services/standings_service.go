package services

import (
	"context"
	"log/slog"

	"github.com/matchwerk/tournament-scheduler/models"
	"github.com/matchwerk/tournament-scheduler/repositories"
	"github.com/matchwerk/tournament-scheduler/schedule"
)

type StandingsService interface {
	ByGroup(ctx context.Context, tournamentID string) (map[string][]models.Standing, error)
	ForGroup(ctx context.Context, tournamentID, group string) ([]models.Standing, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	log            *slog.Logger
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	log *slog.Logger,
) StandingsService {
	if log == nil {
		log = slog.Default()
	}
	return &standingsService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		log:            log,
	}
}

// ByGroup computes the current tables for every group from the stored
// results. Standings are always derived, never persisted.
func (s *standingsService) ByGroup(ctx context.Context, tournamentID string) (map[string][]models.Standing, error) {
	t, err := loadTournamentAggregate(ctx, s.tournamentRepo, s.teamRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	return schedule.StandingsByGroup(t), nil
}

// ForGroup computes the table of a single group. An unknown group yields an
// empty table, matching how the engine treats groups without teams.
func (s *standingsService) ForGroup(ctx context.Context, tournamentID, group string) ([]models.Standing, error) {
	t, err := loadTournamentAggregate(ctx, s.tournamentRepo, s.teamRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	key := models.NormalizeGroupKey(group)
	if key == "" {
		key = "A"
	}
	return schedule.CalculateStandings(t.Teams, t.Matches, t, key), nil
}
