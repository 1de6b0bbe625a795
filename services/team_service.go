package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/matchwerk/tournament-scheduler/models"
	"github.com/matchwerk/tournament-scheduler/repositories"
	"github.com/rs/xid"
)

type TeamService interface {
	AddTeam(ctx context.Context, tournamentID string, input TeamInput) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Team, error)
	Rename(ctx context.Context, teamID, name string) (*models.Team, error)
	Remove(ctx context.Context, teamID string) error
}

type teamService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	log            *slog.Logger
}

func NewTeamService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	log *slog.Logger,
) TeamService {
	if log == nil {
		log = slog.Default()
	}
	return &teamService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		log:            log,
	}
}

// AddTeam registers a team while the tournament is still in setup. Once a
// schedule exists the roster is frozen; regenerating the schedule is the way
// to change it.
func (s *teamService) AddTeam(ctx context.Context, tournamentID string, input TeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("load tournament %s: %w", tournamentID, err)
	}
	if t.Status != models.StatusSetup {
		return nil, ErrTournamentLocked
	}

	team := &models.Team{
		ID:           xid.New().String(),
		TournamentID: tournamentID,
		Name:         name,
		Group:        models.NormalizeGroupKey(input.Group),
	}
	if err := s.teamRepo.Create(ctx, nil, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		case errors.Is(err, repositories.ErrTeamTournamentInvalid):
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("add team to tournament %s: %w", tournamentID, err)
	}

	s.log.Info("team added",
		slog.String("tournament_id", tournamentID),
		slog.String("team_id", team.ID),
		slog.String("group", team.Group))
	return team, nil
}

func (s *teamService) ListByTournament(ctx context.Context, tournamentID string) ([]models.Team, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("load tournament %s: %w", tournamentID, err)
	}
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list teams of tournament %s: %w", tournamentID, err)
	}
	return teams, nil
}

// Rename changes a team's display name. Matches reference teams by ID, so
// this is safe at any point of the tournament, including mid-playoffs.
func (s *teamService) Rename(ctx context.Context, teamID, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("load team %s: %w", teamID, err)
	}

	if err := s.teamRepo.UpdateName(ctx, teamID, name); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("rename team %s: %w", teamID, err)
	}
	team.Name = name
	return team, nil
}

// Remove deletes a team, which is only allowed while the tournament is in
// setup. Generated matches reference team IDs and would dangle otherwise.
func (s *teamService) Remove(ctx context.Context, teamID string) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("load team %s: %w", teamID, err)
	}

	t, err := s.tournamentRepo.GetByID(ctx, team.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("load tournament %s: %w", team.TournamentID, err)
	}
	if t.Status != models.StatusSetup {
		return ErrTournamentLocked
	}

	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("remove team %s: %w", teamID, err)
	}

	s.log.Info("team removed",
		slog.String("tournament_id", team.TournamentID),
		slog.String("team_id", teamID))
	return nil
}
