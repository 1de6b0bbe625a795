package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchwerk/tournament-scheduler/models"
	"github.com/matchwerk/tournament-scheduler/repositories"
	"golang.org/x/sync/errgroup"
)

// loadTournamentAggregate fetches a tournament with its teams and matches,
// parses the stored settings and rebinds legacy name references onto team
// IDs. Every service that needs the full picture goes through here.
func loadTournamentAggregate(
	ctx context.Context,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	id string,
) (*models.Tournament, error) {
	t, err := tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("load tournament %s: %w", id, err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := teamRepo.ListByTournament(gCtx, id)
		if err != nil {
			return fmt.Errorf("load teams of tournament %s: %w", id, err)
		}
		t.Teams = teams
		return nil
	})
	g.Go(func() error {
		matches, err := matchRepo.ListByTournament(gCtx, id)
		if err != nil {
			return fmt.Errorf("load matches of tournament %s: %w", id, err)
		}
		t.Matches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if _, err := t.ParseSettings(); err != nil {
		return nil, err
	}

	// Imported fixtures may still reference teams by name. Rebind them once
	// here so everything behind the service boundary works with IDs.
	for i := range t.Matches {
		t.Matches[i].TeamA = t.Matches[i].TeamA.ResolveTeamRef(t.Teams)
		t.Matches[i].TeamB = t.Matches[i].TeamB.ResolveTeamRef(t.Teams)
	}
	return t, nil
}

func isValidTournamentStatus(status models.TournamentStatus) bool {
	switch status {
	case models.StatusSetup, models.StatusScheduled, models.StatusInProgress, models.StatusCompleted:
		return true
	}
	return false
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusSetup:      {models.StatusScheduled},
		models.StatusScheduled:  {models.StatusInProgress},
		models.StatusInProgress: {models.StatusCompleted},
		models.StatusCompleted:  {},
	}
	for _, allowed := range allowedTransitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

// inTx runs fn inside a transaction, committing on success and rolling back
// on error.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
