package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/internal/store"
	"github.com/ewalker114/lifelog/models"
)

// EntryRepository manages activity entries and their tag associations.
//
// It keeps an in-memory mirror of the entry list so that reads after a
// backend outage still render the last successfully loaded state. The
// mirror is only updated after the backend confirms a mutation, so it never
// runs ahead of durable storage.
type EntryRepository struct {
	backend store.Backend

	mu     sync.RWMutex
	cache  []models.EntryWithTags
	loaded bool
}

// NewEntryRepository constructs an [EntryRepository] backed by the provided
// storage backend.
func NewEntryRepository(backend store.Backend, log *logger.Logger) *EntryRepository {
	log.Debug().Msg("creating entry repository")
	return &EntryRepository{backend: backend}
}

// List returns every entry, newest first, each with its tags sorted by name.
// The grouping is computed from one consistent backend snapshot, so an entry
// never appears with tags from a different point in time.
func (r *EntryRepository) List(ctx context.Context) ([]models.EntryWithTags, error) {
	log := logger.FromContext(ctx)

	snapshot, err := r.backend.EntriesSnapshot(ctx)
	if err != nil {
		log.Err(err).Str("func", "EntryRepository.List").Msg("failed to load entries snapshot")
		return nil, fmt.Errorf("list entries: %w", err)
	}

	tagsByEntry := make(map[int64][]models.Tag, len(snapshot.Entries))
	for _, row := range snapshot.TagRows {
		tagsByEntry[row.EntryID] = append(tagsByEntry[row.EntryID], row.Tag)
	}

	entries := make([]models.EntryWithTags, 0, len(snapshot.Entries))
	for _, e := range snapshot.Entries {
		tags := tagsByEntry[e.ID]
		if tags == nil {
			tags = []models.Tag{}
		}
		entries = append(entries, models.EntryWithTags{Entry: e, Tags: tags})
	}

	r.mu.Lock()
	r.cache = entries
	r.loaded = true
	r.mu.Unlock()

	return entries, nil
}

// Cached returns the last successfully loaded entry list without touching
// the backend. The second return value reports whether a load has happened.
func (r *EntryRepository) Cached() ([]models.EntryWithTags, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.EntryWithTags, len(r.cache))
	copy(out, r.cache)

	return out, r.loaded
}

// Create validates input, assigns the client-side identity, and persists the
// entry with its tag associations as one atomic unit. The returned value is
// the materialized record: backend-assigned id, resolved tags, SyncedAt nil.
func (r *EntryRepository) Create(ctx context.Context, input models.CreateEntryInput) (models.EntryWithTags, error) {
	log := logger.FromContext(ctx)

	if err := validateLevels(input.EnergyLevel, input.MoodLevel); err != nil {
		return models.EntryWithTags{}, err
	}

	entry := models.Entry{
		LocalID:     uuid.NewString(),
		Content:     input.Content,
		EnergyLevel: input.EnergyLevel,
		MoodLevel:   input.MoodLevel,
		CreatedAt:   time.Now().UTC(),
	}
	// The location unit is all-or-nothing: either both coordinates are
	// recorded (optionally with a place name) or nothing is.
	if input.Location != nil {
		entry.Latitude = &input.Location.Latitude
		entry.Longitude = &input.Location.Longitude
		entry.LocationName = input.Location.Name
	}

	// Repeated tag ids (e.g. "Work" and "work" resolving to the same tag)
	// collapse to one association instead of tripping the junction's unique
	// constraint.
	if err := r.backend.SaveEntry(ctx, &entry, dedupIDs(input.TagIDs)); err != nil {
		log.Err(err).Str("func", "EntryRepository.Create").Msg("failed to save entry")
		return models.EntryWithTags{}, fmt.Errorf("create entry: %w", err)
	}

	tags, err := r.backend.EntryTags(ctx, entry.ID)
	if err != nil {
		log.Err(err).Str("func", "EntryRepository.Create").Msg("failed to load tags of saved entry")
		return models.EntryWithTags{}, fmt.Errorf("create entry: %w", err)
	}

	created := models.EntryWithTags{Entry: entry, Tags: tags}

	r.mu.Lock()
	if r.loaded {
		r.cache = append([]models.EntryWithTags{created}, r.cache...)
	}
	r.mu.Unlock()

	log.Info().
		Str("func", "EntryRepository.Create").
		Str("local_id", entry.LocalID).
		Int("tags_count", len(tags)).
		Msg("entry created")

	return created, nil
}

// Delete removes an entry; its junction rows and media go with it. Tags
// themselves survive.
func (r *EntryRepository) Delete(ctx context.Context, entryID int64) error {
	log := logger.FromContext(ctx)

	if err := r.backend.DeleteEntry(ctx, entryID); err != nil {
		log.Err(err).Str("func", "EntryRepository.Delete").Int64("entry_id", entryID).Msg("failed to delete entry")
		return fmt.Errorf("delete entry: %w", err)
	}

	r.mu.Lock()
	for i, e := range r.cache {
		if e.ID == entryID {
			r.cache = append(r.cache[:i], r.cache[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	return nil
}

// AttachMedia persists an attachment owned by an existing entry. CreatedAt
// defaults to now; the backend-assigned id is written into media.ID.
func (r *EntryRepository) AttachMedia(ctx context.Context, media *models.Media) error {
	log := logger.FromContext(ctx)

	if !models.ValidMediaType(media.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidMediaType, media.Type)
	}
	if media.CreatedAt.IsZero() {
		media.CreatedAt = time.Now().UTC()
	}

	if err := r.backend.SaveMedia(ctx, media); err != nil {
		log.Err(err).Str("func", "EntryRepository.AttachMedia").Int64("entry_id", media.EntryID).Msg("failed to save media")
		return fmt.Errorf("attach media: %w", err)
	}

	return nil
}

// Media returns the attachments of one entry, oldest first.
func (r *EntryRepository) Media(ctx context.Context, entryID int64) ([]models.Media, error) {
	media, err := r.backend.MediaForEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}

	return media, nil
}

// dedupIDs drops repeated ids, keeping first-occurrence order.
func dedupIDs(ids []int64) []int64 {
	if len(ids) < 2 {
		return ids
	}

	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

func validateLevels(levels ...*int) error {
	for _, level := range levels {
		if level != nil && (*level < 1 || *level > 10) {
			return fmt.Errorf("%w: got %d", ErrLevelOutOfRange, *level)
		}
	}

	return nil
}
