package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/matchwerk/tournament-scheduler/models"
	"github.com/matchwerk/tournament-scheduler/repositories"
	"github.com/matchwerk/tournament-scheduler/schedule"
)

type ScheduleService interface {
	Generate(ctx context.Context, tournamentID string) (*schedule.ScheduleResult, error)
	AnalyzeFairness(ctx context.Context, tournamentID string) (*schedule.FairnessReport, error)
}

type scheduleService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	orchestrator   *schedule.Orchestrator
	hub            *schedule.Hub
	log            *slog.Logger
}

func NewScheduleService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	orchestrator *schedule.Orchestrator,
	hub *schedule.Hub,
	log *slog.Logger,
) ScheduleService {
	if log == nil {
		log = slog.Default()
	}
	return &scheduleService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		orchestrator:   orchestrator,
		hub:            hub,
		log:            log,
	}
}

// Generate builds the complete schedule for a tournament and replaces
// whatever matches existed before. Regeneration is allowed until the first
// result is entered; after that the schedule is locked.
func (s *scheduleService) Generate(ctx context.Context, tournamentID string) (*schedule.ScheduleResult, error) {
	t, err := loadTournamentAggregate(ctx, s.tournamentRepo, s.teamRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, err
	}

	if t.Status != models.StatusSetup && t.Status != models.StatusScheduled {
		return nil, ErrTournamentLocked
	}
	for _, m := range t.Matches {
		if m.ScoreA != nil || m.ScoreB != nil {
			return nil, ErrScheduleLocked
		}
	}
	if len(t.Teams) < 2 {
		return nil, ErrNotEnoughTeams
	}
	byGroup := models.TeamsByGroup(t.Teams)
	for _, key := range models.GroupKeys(t.Teams) {
		if len(byGroup[key]) < 2 {
			return nil, fmt.Errorf("%w: group %s has %d", ErrGroupTooSmall, key, len(byGroup[key]))
		}
	}

	result, err := s.orchestrator.GenerateSchedule(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("generate schedule for tournament %s: %w", tournamentID, err)
	}

	err = inTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.DeleteByTournament(ctx, tx, tournamentID); err != nil {
			return err
		}
		if err := s.matchRepo.CreateBatch(ctx, tx, tournamentID, result.Matches); err != nil {
			return err
		}
		if t.Status == models.StatusSetup {
			return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusScheduled)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("persist schedule for tournament %s: %w", tournamentID, err)
	}

	s.hub.BroadcastToRoom(schedule.RoomID(tournamentID), schedule.EventScheduleGenerated, result)
	return result, nil
}

// AnalyzeFairness re-runs the fairness analysis over the stored schedule
// without touching it.
func (s *scheduleService) AnalyzeFairness(ctx context.Context, tournamentID string) (*schedule.FairnessReport, error) {
	t, err := loadTournamentAggregate(ctx, s.tournamentRepo, s.teamRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	settings := t.EffectiveSettings()
	report := schedule.AnalyzeFairness(t.Matches, settings.MinRestSlots, t.NumberOfFields)
	return &report, nil
}
