package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/matchwerk/tournament-scheduler/models"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamNameConflict      = errors.New("team name already taken in this tournament")
	ErrTeamTournamentInvalid = errors.New("team references an unknown tournament")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Team, error)
	UpdateName(ctx context.Context, id string, name string) error
	Delete(ctx context.Context, id string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (id, tournament_id, name, group_key)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		team.ID, team.TournamentID, team.Name, team.Group,
	).Scan(&team.CreatedAt)

	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	query := `
		SELECT id, tournament_id, name, group_key, created_at
		FROM teams
		WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID, &team.TournamentID, &team.Name, &team.Group, &team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Team, error) {
	query := `
		SELECT id, tournament_id, name, group_key, created_at
		FROM teams
		WHERE tournament_id = $1
		ORDER BY group_key ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if scanErr := rows.Scan(
			&team.ID, &team.TournamentID, &team.Name, &team.Group, &team.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, team)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdateName(ctx context.Context, id string, name string) error {
	query := `UPDATE teams SET name = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, name, id)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM teams WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch {
		case pqErr.Code == "23505" && pqErr.Constraint == "teams_tournament_id_name_key":
			return ErrTeamNameConflict
		case pqErr.Code == "23503" && pqErr.Constraint == "teams_tournament_id_fkey":
			return ErrTeamTournamentInvalid
		}
	}
	return err
}
