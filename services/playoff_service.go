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

// PlayoffStatus is the bracket dashboard: whether the group phase is done,
// whether placeholders are waiting for resolution and whether already
// resolved pairings drifted away from the current standings.
type PlayoffStatus struct {
	GroupPhaseComplete bool `json:"groupPhaseComplete"`
	NeedsResolution    bool `json:"needsResolution"`
	NeedsReResolution  bool `json:"needsReResolution"`
	PlayoffMatches     int  `json:"playoffMatches"`
	UnresolvedMatches  int  `json:"unresolvedMatches"`
}

type PlayoffService interface {
	Status(ctx context.Context, tournamentID string) (*PlayoffStatus, error)
	Resolve(ctx context.Context, tournamentID string) (*schedule.ResolveResult, error)
	ForceReResolve(ctx context.Context, tournamentID string) (*schedule.ResolveResult, error)
}

type playoffService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	hub            *schedule.Hub
	log            *slog.Logger
}

func NewPlayoffService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	hub *schedule.Hub,
	log *slog.Logger,
) PlayoffService {
	if log == nil {
		log = slog.Default()
	}
	return &playoffService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		log:            log,
	}
}

func (s *playoffService) Status(ctx context.Context, tournamentID string) (*PlayoffStatus, error) {
	t, err := loadTournamentAggregate(ctx, s.tournamentRepo, s.teamRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, err
	}

	finals := t.FinalMatches()
	unresolved := 0
	for _, m := range finals {
		if m.HasPlaceholder() {
			unresolved++
		}
	}
	return &PlayoffStatus{
		GroupPhaseComplete: schedule.AreAllGroupMatchesCompleted(t.Matches),
		NeedsResolution:    schedule.NeedsPlayoffResolution(t.Matches),
		NeedsReResolution:  schedule.NeedsPlayoffReResolution(t),
		PlayoffMatches:     len(finals),
		UnresolvedMatches:  unresolved,
	}, nil
}

// Resolve fills the playoff placeholders from the final group standings.
// The explicit endpoint is strict about preconditions; the automatic hook
// that runs on score entry quietly does nothing instead.
func (s *playoffService) Resolve(ctx context.Context, tournamentID string) (*schedule.ResolveResult, error) {
	t, err := loadTournamentAggregate(ctx, s.tournamentRepo, s.teamRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(t.FinalMatches()) == 0 {
		return nil, ErrNoPlayoffMatches
	}
	if !schedule.AreAllGroupMatchesCompleted(t.Matches) {
		return nil, ErrGroupPhaseNotFinished
	}
	if !schedule.NeedsPlayoffResolution(t.Matches) {
		return nil, ErrNothingToResolve
	}

	result := schedule.ResolvePlayoffPairings(t)
	if result.WasResolved {
		if err := s.persistResolvedPairings(ctx, tournamentID, &result); err != nil {
			return nil, err
		}
		s.hub.BroadcastToRoom(schedule.RoomID(tournamentID), schedule.EventPlayoffsResolved, result)
		s.log.Info("playoff pairings resolved",
			slog.String("tournament_id", tournamentID),
			slog.Int("updated_matches", len(result.UpdatedMatchIDs)))
	}
	return &result, nil
}

// ForceReResolve recomputes every group-derived pairing from the current
// standings, overwriting pairings that drifted after a group result was
// corrected. Scores of overwritten matches are cleared; they belonged to a
// pairing that no longer exists.
func (s *playoffService) ForceReResolve(ctx context.Context, tournamentID string) (*schedule.ResolveResult, error) {
	t, err := loadTournamentAggregate(ctx, s.tournamentRepo, s.teamRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(t.FinalMatches()) == 0 {
		return nil, ErrNoPlayoffMatches
	}
	if !schedule.AreAllGroupMatchesCompleted(t.Matches) {
		return nil, ErrGroupPhaseNotFinished
	}

	result := schedule.ForceReResolvePlayoffs(t)
	if result.WasResolved {
		if err := s.persistResolvedPairings(ctx, tournamentID, &result); err != nil {
			return nil, err
		}
		s.hub.BroadcastToRoom(schedule.RoomID(tournamentID), schedule.EventPlayoffsReresolved, result)
		s.log.Info("playoff pairings re-resolved",
			slog.String("tournament_id", tournamentID),
			slog.Int("updated_matches", len(result.UpdatedMatchIDs)))
	}
	return &result, nil
}

func (s *playoffService) persistResolvedPairings(ctx context.Context, tournamentID string, result *schedule.ResolveResult) error {
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, id := range result.UpdatedMatchIDs {
			updated, ok := models.FindMatch(result.UpdatedMatches, id)
			if !ok {
				return fmt.Errorf("resolved match %s missing from result", id)
			}
			if err := s.matchRepo.UpdatePairing(ctx, tx, &updated); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist resolved pairings of tournament %s: %w", tournamentID, err)
	}
	return nil
}
