package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/ewalker114/lifelog/internal/adapter"
	"github.com/ewalker114/lifelog/internal/config"
	"github.com/ewalker114/lifelog/internal/location"
	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/internal/repository"
	"github.com/ewalker114/lifelog/internal/service"
	"github.com/ewalker114/lifelog/internal/store"
	"github.com/ewalker114/lifelog/internal/workers"
	"github.com/ewalker114/lifelog/models"
)

// App is the assembled client runtime: one storage backend, the
// repositories over it, the location provider, and the background sync job.
type App struct {
	backend  store.Backend
	repos    *repository.Repositories
	location *location.Provider
	syncJob  *service.SyncJob

	logger *logger.Logger
}

// NewApp builds the runtime from configuration.
//
// Local modes (sqlite, memory) additionally construct the remote adapter
// and the sync job when a server address is configured; remote mode writes
// straight to the server and runs no sync job.
func NewApp(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	backend, err := NewBackend(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("create storage backend: %w", err)
	}

	app := &App{
		backend: backend,
		repos:   repository.NewRepositories(backend, log),
		logger:  log,
	}

	var geocoder location.ReverseGeocoder
	if cfg.Location.GeocoderURL != "" {
		geocoder = location.NewNominatimGeocoder(cfg.Location.GeocoderURL)
	}
	app.location = location.NewProvider(
		location.NewStaticSource(cfg.Location.Latitude, cfg.Location.Longitude),
		geocoder,
		cfg.Location,
		log,
	)

	if cfg.Storage.Backend != config.BackendRemote && cfg.Adapter.BaseURL != "" {
		remote, err := adapter.NewRemoteBackend(cfg.Adapter, log)
		if err != nil {
			return nil, fmt.Errorf("create remote adapter: %w", err)
		}
		syncService := service.NewSyncService(backend, remote, log)
		app.syncJob = service.NewSyncJob(syncService, cfg.Workers.SyncInterval)
	}

	return app, nil
}

// Run warms the entry cache and keeps the background workers running until
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = a.logger.WithContext(ctx)

	if _, err := a.repos.Entries.List(ctx); err != nil {
		// A cold cache is not fatal; the backend may come up later.
		a.logger.Warn().Err(err).Msg("initial entry load failed")
	}

	if a.syncJob != nil {
		w := workers.NewWorkers(a.syncJob)
		w.Run()
		defer a.syncJob.Stop()
	}

	<-ctx.Done()
	if err := a.backend.Close(); err != nil {
		a.logger.Err(err).Msg("error closing storage backend")
	}

	return nil
}

// Entries exposes the entry repository.
func (a *App) Entries() *repository.EntryRepository { return a.repos.Entries }

// Tags exposes the tag repository.
func (a *App) Tags() *repository.TagRepository { return a.repos.Tags }

// CreateEntry runs the full entry creation flow: resolve tag names to ids
// (creating missing tags), capture the optional location unit within its
// bounded window, and persist the entry atomically with its associations.
func (a *App) CreateEntry(ctx context.Context, content *string, energy, mood *int, tagNames []string) (models.EntryWithTags, error) {
	ctx = a.logger.WithContext(ctx)

	tagIDs := make([]int64, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := a.repos.Tags.FindByName(ctx, name)
		if errors.Is(err, store.ErrTagNotFound) {
			tag, err = a.repos.Tags.Create(ctx, name)
		}
		if err != nil {
			return models.EntryWithTags{}, fmt.Errorf("resolve tag %q: %w", name, err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	// Location capture degrades, never blocks the save: a nil unit means
	// the entry is recorded without coordinates.
	loc, err := a.location.Current(ctx)
	if err != nil {
		return models.EntryWithTags{}, err
	}

	return a.repos.Entries.Create(ctx, models.CreateEntryInput{
		Content:     content,
		EnergyLevel: energy,
		MoodLevel:   mood,
		Location:    loc,
		TagIDs:      tagIDs,
	})
}
