package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/matchwerk/tournament-scheduler/models"
	"github.com/matchwerk/tournament-scheduler/repositories"
	"github.com/matchwerk/tournament-scheduler/schedule"
	"github.com/matchwerk/tournament-scheduler/storage"
)

// TournamentSnapshot is the exported document: the full aggregate plus the
// derived standings at export time.
type TournamentSnapshot struct {
	Tournament *models.Tournament           `json:"tournament"`
	Standings  map[string][]models.Standing `json:"standings"`
	ExportedAt time.Time                    `json:"exportedAt"`
}

// SnapshotResult points at the uploaded document.
type SnapshotResult struct {
	Key        string    `json:"key"`
	URL        string    `json:"url,omitempty"`
	ExportedAt time.Time `json:"exportedAt"`
}

type SnapshotService interface {
	Export(ctx context.Context, tournamentID string) (*SnapshotResult, error)
}

type snapshotService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	uploader       storage.SnapshotUploader
	log            *slog.Logger
}

// NewSnapshotService wires the exporter. A nil uploader disables exports;
// the service then answers every call with ErrSnapshotStorageDisabled.
func NewSnapshotService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.SnapshotUploader,
	log *slog.Logger,
) SnapshotService {
	if log == nil {
		log = slog.Default()
	}
	return &snapshotService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		uploader:       uploader,
		log:            log,
	}
}

// Export serializes the tournament aggregate with its current standings and
// uploads it as a timestamped JSON document.
func (s *snapshotService) Export(ctx context.Context, tournamentID string) (*SnapshotResult, error) {
	if s.uploader == nil {
		return nil, ErrSnapshotStorageDisabled
	}

	t, err := loadTournamentAggregate(ctx, s.tournamentRepo, s.teamRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, err
	}

	snapshot := TournamentSnapshot{
		Tournament: t,
		Standings:  schedule.StandingsByGroup(t),
		ExportedAt: time.Now().UTC(),
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot of tournament %s: %w", tournamentID, err)
	}

	key := fmt.Sprintf("snapshots/%s/%s.json", tournamentID, snapshot.ExportedAt.Format("20060102T150405Z"))
	uploaded, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("upload snapshot of tournament %s: %w", tournamentID, err)
	}

	s.log.Info("snapshot exported",
		slog.String("tournament_id", tournamentID),
		slog.String("key", uploaded.Key),
		slog.Int("bytes", len(raw)))
	return &SnapshotResult{
		Key:        uploaded.Key,
		URL:        s.uploader.GetPublicURL(uploaded.Key),
		ExportedAt: snapshot.ExportedAt,
	}, nil
}
