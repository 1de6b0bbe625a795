package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/matchwerk/tournament-scheduler/models"
	"github.com/matchwerk/tournament-scheduler/repositories"
	"github.com/rs/xid"
)

// CreateTournamentInput carries everything the setup wizard sends in one
// request. Teams are optional here; they can also be added one by one later.
type CreateTournamentInput struct {
	Name           string                     `json:"name"`
	NumberOfGroups int                        `json:"numberOfGroups"`
	NumberOfFields int                        `json:"numberOfFields"`
	Settings       *models.TournamentSettings `json:"settings,omitempty"`
	Teams          []TeamInput                `json:"teams,omitempty"`
}

// TeamInput is one team of a create request.
type TeamInput struct {
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
}

// UpdateTournamentInput uses pointers so absent fields stay untouched.
type UpdateTournamentInput struct {
	Name           *string                    `json:"name,omitempty"`
	NumberOfGroups *int                       `json:"numberOfGroups,omitempty"`
	NumberOfFields *int                       `json:"numberOfFields,omitempty"`
	Settings       *models.TournamentSettings `json:"settings,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus, limit, offset int) ([]models.Tournament, error)
	Update(ctx context.Context, id string, input UpdateTournamentInput) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, id string, next models.TournamentStatus) (*models.Tournament, error)
	Delete(ctx context.Context, id string) error
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	log            *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	log *slog.Logger,
) TournamentService {
	if log == nil {
		log = slog.Default()
	}
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		log:            log,
	}
}

// Create validates the input, normalizes the settings blob and writes the
// tournament together with its initial teams in one transaction.
func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.NumberOfGroups < 1 {
		return nil, ErrTournamentInvalidGroups
	}
	if input.NumberOfFields < 1 {
		return nil, ErrTournamentInvalidFields
	}

	settings := input.Settings
	if settings == nil {
		settings = models.DefaultSettings()
	} else {
		if settings.FinalsConfig != nil && settings.FinalsConfig.Preset != "" && !settings.FinalsConfig.Preset.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPlayoffPreset, settings.FinalsConfig.Preset)
		}
		settings.Normalize()
	}
	settingsJSON, err := marshalSettings(settings)
	if err != nil {
		return nil, err
	}

	t := &models.Tournament{
		ID:             xid.New().String(),
		Name:           name,
		Status:         models.StatusSetup,
		NumberOfGroups: input.NumberOfGroups,
		NumberOfFields: input.NumberOfFields,
		SettingsJSON:   settingsJSON,
		Settings:       settings,
	}

	err = inTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tournamentRepo.Create(ctx, tx, t); err != nil {
			return err
		}
		for _, ti := range input.Teams {
			teamName := strings.TrimSpace(ti.Name)
			if teamName == "" {
				return ErrTeamNameRequired
			}
			team := models.Team{
				ID:           xid.New().String(),
				TournamentID: t.ID,
				Name:         teamName,
				Group:        models.NormalizeGroupKey(ti.Group),
			}
			if err := s.teamRepo.Create(ctx, tx, &team); err != nil {
				return err
			}
			t.Teams = append(t.Teams, team)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNameConflict):
			return nil, ErrTournamentNameConflict
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		case errors.Is(err, ErrTeamNameRequired):
			return nil, ErrTeamNameRequired
		}
		return nil, fmt.Errorf("create tournament: %w", err)
	}

	s.log.Info("tournament created",
		slog.String("tournament_id", t.ID),
		slog.String("name", t.Name),
		slog.Int("teams", len(t.Teams)))
	return t, nil
}

// GetByID returns the tournament aggregate: teams, matches and parsed
// settings.
func (s *tournamentService) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	return loadTournamentAggregate(ctx, s.tournamentRepo, s.teamRepo, s.matchRepo, id)
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus, limit, offset int) ([]models.Tournament, error) {
	if status != nil && !isValidTournamentStatus(*status) {
		return nil, fmt.Errorf("%w: %q", ErrTournamentInvalidStatus, *status)
	}
	list, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	for i := range list {
		if _, err := list[i].ParseSettings(); err != nil {
			s.log.Warn("tournament has unreadable settings",
				slog.String("tournament_id", list[i].ID),
				slog.Any("error", err))
		}
	}
	return list, nil
}

// Update changes name, layout and settings. Layout and settings are frozen
// once a schedule exists because the generated matches depend on them.
func (s *tournamentService) Update(ctx context.Context, id string, input UpdateTournamentInput) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("load tournament %s: %w", id, err)
	}

	touchesLayout := input.NumberOfGroups != nil || input.NumberOfFields != nil || input.Settings != nil
	if touchesLayout && t.Status != models.StatusSetup {
		return nil, ErrTournamentLocked
	}

	updated := false
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTournamentNameRequired
		}
		if name != t.Name {
			t.Name = name
			updated = true
		}
	}
	if input.NumberOfGroups != nil {
		if *input.NumberOfGroups < 1 {
			return nil, ErrTournamentInvalidGroups
		}
		if *input.NumberOfGroups != t.NumberOfGroups {
			t.NumberOfGroups = *input.NumberOfGroups
			updated = true
		}
	}
	if input.NumberOfFields != nil {
		if *input.NumberOfFields < 1 {
			return nil, ErrTournamentInvalidFields
		}
		if *input.NumberOfFields != t.NumberOfFields {
			t.NumberOfFields = *input.NumberOfFields
			updated = true
		}
	}
	if input.Settings != nil {
		if input.Settings.FinalsConfig != nil && input.Settings.FinalsConfig.Preset != "" && !input.Settings.FinalsConfig.Preset.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPlayoffPreset, input.Settings.FinalsConfig.Preset)
		}
		input.Settings.Normalize()
		settingsJSON, err := marshalSettings(input.Settings)
		if err != nil {
			return nil, err
		}
		t.SettingsJSON = settingsJSON
		t.Settings = input.Settings
		updated = true
	}

	if !updated {
		return t, nil
	}

	if err := s.tournamentRepo.Update(ctx, nil, t); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return nil, ErrTournamentNotFound
		case errors.Is(err, repositories.ErrTournamentNameConflict):
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("update tournament %s: %w", id, err)
	}
	return t, nil
}

func (s *tournamentService) UpdateStatus(ctx context.Context, id string, next models.TournamentStatus) (*models.Tournament, error) {
	if !isValidTournamentStatus(next) {
		return nil, fmt.Errorf("%w: %q", ErrTournamentInvalidStatus, next)
	}

	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("load tournament %s: %w", id, err)
	}
	if t.Status == next {
		return t, nil
	}
	if !isValidStatusTransition(t.Status, next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrTournamentInvalidStatusTransition, t.Status, next)
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, next); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("update status of tournament %s: %w", id, err)
	}
	t.Status = next

	s.log.Info("tournament status changed",
		slog.String("tournament_id", id),
		slog.String("status", string(next)))
	return t, nil
}

func (s *tournamentService) Delete(ctx context.Context, id string) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("delete tournament %s: %w", id, err)
	}
	s.log.Info("tournament deleted", slog.String("tournament_id", id))
	return nil
}

func marshalSettings(settings *models.TournamentSettings) (*string, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	s := string(raw)
	return &s, nil
}
