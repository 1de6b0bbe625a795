package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/matchwerk/tournament-scheduler/models"
	"github.com/matchwerk/tournament-scheduler/repositories"
	"github.com/matchwerk/tournament-scheduler/schedule"
)

// EnterScoreInput uses pointers so "score missing" and "score zero" stay
// distinguishable.
type EnterScoreInput struct {
	ScoreA *int `json:"scoreA"`
	ScoreB *int `json:"scoreB"`
}

// ScoreUpdateResult is what a score entry hands back: the updated match and,
// when the result unlocked playoff pairings, the resolution outcome.
type ScoreUpdateResult struct {
	Match      models.Match            `json:"match"`
	Resolution *schedule.ResolveResult `json:"resolution,omitempty"`
}

type MatchService interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Match, error)
	GetByID(ctx context.Context, tournamentID, matchID string) (*models.Match, error)
	EnterScore(ctx context.Context, tournamentID, matchID string, input EnterScoreInput) (*ScoreUpdateResult, error)
}

type matchService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	hub            *schedule.Hub
	log            *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	hub *schedule.Hub,
	log *slog.Logger,
) MatchService {
	if log == nil {
		log = slog.Default()
	}
	return &matchService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		log:            log,
	}
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID string) ([]models.Match, error) {
	t, err := loadTournamentAggregate(ctx, s.tournamentRepo, s.teamRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	return t.Matches, nil
}

func (s *matchService) GetByID(ctx context.Context, tournamentID, matchID string) (*models.Match, error) {
	t, err := loadTournamentAggregate(ctx, s.tournamentRepo, s.teamRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	m, ok := models.FindMatch(t.Matches, matchID)
	if !ok {
		return nil, ErrMatchNotFound
	}
	return &m, nil
}

// EnterScore records a result and runs the bracket hooks: a group result may
// complete the group phase and fill the playoff placeholders, a playoff
// result feeds the next knockout round. Score, pairing updates and the
// status bump are committed in one transaction; room events go out after the
// commit.
func (s *matchService) EnterScore(ctx context.Context, tournamentID, matchID string, input EnterScoreInput) (*ScoreUpdateResult, error) {
	if input.ScoreA == nil || input.ScoreB == nil {
		return nil, ErrScoreIncomplete
	}
	if *input.ScoreA < 0 || *input.ScoreB < 0 {
		return nil, ErrScoreNegative
	}

	t, err := loadTournamentAggregate(ctx, s.tournamentRepo, s.teamRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status == models.StatusCompleted {
		return nil, ErrTournamentLocked
	}

	idx := -1
	for i := range t.Matches {
		if t.Matches[i].ID == matchID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrMatchNotFound
	}
	if t.Matches[idx].HasPlaceholder() {
		return nil, ErrMatchNotResolvable
	}

	scoreA, scoreB := *input.ScoreA, *input.ScoreB
	t.Matches[idx].ScoreA = &scoreA
	t.Matches[idx].ScoreB = &scoreB
	scored := t.Matches[idx]

	var resolution schedule.ResolveResult
	if scored.IsGroupMatch() {
		resolution = schedule.AutoResolvePlayoffsIfReady(t)
	} else {
		resolution = schedule.ResolveBracketAfterPlayoffMatch(t)
	}
	if resolution.WasResolved {
		t.Matches = resolution.UpdatedMatches
	}

	err = inTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.UpdateScore(ctx, tx, tournamentID, matchID, &scoreA, &scoreB); err != nil {
			return err
		}
		for _, id := range resolution.UpdatedMatchIDs {
			updated, ok := models.FindMatch(t.Matches, id)
			if !ok {
				return fmt.Errorf("resolved match %s missing from tournament", id)
			}
			if err := s.matchRepo.UpdatePairing(ctx, tx, &updated); err != nil {
				return err
			}
		}
		if t.Status == models.StatusScheduled {
			return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusInProgress)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchNotFound):
			return nil, ErrMatchNotFound
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("enter score for match %s: %w", matchID, err)
	}
	if t.Status == models.StatusScheduled {
		t.Status = models.StatusInProgress
	}

	room := schedule.RoomID(tournamentID)
	s.hub.BroadcastToRoom(room, schedule.EventMatchScored, scored)
	if scored.IsGroupMatch() {
		s.hub.BroadcastToRoom(room, schedule.EventStandingsUpdated, schedule.StandingsByGroup(t))
	}
	if resolution.WasResolved {
		s.hub.BroadcastToRoom(room, schedule.EventPlayoffsResolved, resolution)
	}

	s.log.Info("score entered",
		slog.String("tournament_id", tournamentID),
		slog.String("match_id", matchID),
		slog.Int("score_a", scoreA),
		slog.Int("score_b", scoreB),
		slog.Bool("resolved_playoffs", resolution.WasResolved))

	out := &ScoreUpdateResult{Match: scored}
	if resolution.WasResolved {
		out.Resolution = &resolution
	}
	return out, nil
}
