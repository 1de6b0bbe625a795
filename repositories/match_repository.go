package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/matchwerk/tournament-scheduler/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match references an unknown tournament")
)

// MatchRepository persists engine-generated matches. Match IDs come from the
// generator ("group-a-1", "semi1", ...) and repeat across tournaments, so
// every lookup is scoped by tournament. Participants are stored in their
// string form and parsed back when scanned, which keeps rows readable and
// compatible with exported data.
type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, tournamentID string, matches []models.Match) error
	GetByID(ctx context.Context, tournamentID, matchID string) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Match, error)
	UpdateScore(ctx context.Context, exec SQLExecutor, tournamentID, matchID string, scoreA, scoreB *int) error
	UpdatePairing(ctx context.Context, exec SQLExecutor, match *models.Match) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	tournament_id, id, round, field, slot, start_time, team_a, team_b,
	score_a, score_b, group_key, is_final, final_type, label, depends_on`

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, tournamentID string, matches []models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	for i := range matches {
		m := &matches[i]
		_, err := executor.ExecContext(ctx, query,
			tournamentID, m.ID, m.Round, m.Field, m.Slot, m.StartTime,
			m.TeamA.String(), m.TeamB.String(),
			m.ScoreA, m.ScoreB, m.Group, m.IsFinal, m.FinalType, m.Label,
			pq.Array(m.DependsOn),
		)
		if err != nil {
			return r.handleMatchError(fmt.Errorf("insert match %s: %w", m.ID, err))
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, tournamentID, matchID string) (*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1 AND id = $2`

	row := r.db.QueryRowContext(ctx, query, tournamentID, matchID)
	match, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1
		ORDER BY slot ASC, field ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, *match)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, exec SQLExecutor, tournamentID, matchID string, scoreA, scoreB *int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET score_a = $1, score_b = $2, updated_at = now()
		WHERE tournament_id = $3 AND id = $4`

	result, err := executor.ExecContext(ctx, query, scoreA, scoreB, tournamentID, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// UpdatePairing writes the participant slots and scores together: the
// resolver resolves placeholders, and a forced re-resolution clears scores
// alongside the pairing it changed.
func (r *postgresMatchRepository) UpdatePairing(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET team_a = $1, team_b = $2, score_a = $3, score_b = $4, updated_at = now()
		WHERE tournament_id = $5 AND id = $6`

	result, err := executor.ExecContext(ctx, query,
		match.TeamA.String(), match.TeamB.String(),
		match.ScoreA, match.ScoreB,
		match.TournamentID, match.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var (
		m            models.Match
		teamA, teamB string
		dependsOn    pq.StringArray
	)
	err := row.Scan(
		&m.TournamentID, &m.ID, &m.Round, &m.Field, &m.Slot, &m.StartTime,
		&teamA, &teamB,
		&m.ScoreA, &m.ScoreB, &m.Group, &m.IsFinal, &m.FinalType, &m.Label,
		&dependsOn,
	)
	if err != nil {
		return nil, err
	}
	m.TeamA = models.ParseParticipant(teamA)
	m.TeamB = models.ParseParticipant(teamB)
	m.DependsOn = []string(dependsOn)
	return &m, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == "matches_tournament_id_fkey" {
			return ErrMatchTournamentInvalid
		}
	}
	return err
}
