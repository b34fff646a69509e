package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ewalker114/lifelog/models"
)

// MemoryBackend is a fully interface-conformant [Backend] held in process
// memory. It backs the "memory" storage mode and doubles as the fixture for
// repository and service tests, so its semantics (constraint checks, cascade
// deletes, ordering, sync idempotence) mirror the SQL backends exactly.
type MemoryBackend struct {
	mu sync.RWMutex

	entries map[int64]models.Entry
	tags    map[int64]models.Tag
	// entryTags maps entry id to the set of associated tag ids.
	entryTags map[int64]map[int64]struct{}
	media     map[int64]models.Media

	nextEntryID int64
	nextTagID   int64
	nextMediaID int64
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries:   make(map[int64]models.Entry),
		tags:      make(map[int64]models.Tag),
		entryTags: make(map[int64]map[int64]struct{}),
		media:     make(map[int64]models.Media),
	}
}

func (m *MemoryBackend) EntriesSnapshot(_ context.Context) (models.EntriesSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]models.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})

	var tagRows []models.EntryTagJoinRow
	for entryID, tagIDs := range m.entryTags {
		for tagID := range tagIDs {
			tagRows = append(tagRows, models.EntryTagJoinRow{
				EntryID: entryID,
				Tag:     m.tags[tagID],
			})
		}
	}
	sort.Slice(tagRows, func(i, j int) bool {
		if tagRows[i].EntryID != tagRows[j].EntryID {
			return tagRows[i].EntryID < tagRows[j].EntryID
		}
		return lessTagName(tagRows[i].Tag.Name, tagRows[j].Tag.Name)
	})

	return models.EntriesSnapshot{Entries: entries, TagRows: tagRows}, nil
}

func (m *MemoryBackend) SaveEntry(_ context.Context, entry *models.Entry, tagIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := validateEntryLevels(entry); err != nil {
		return err
	}
	for _, e := range m.entries {
		if e.LocalID == entry.LocalID {
			return fmt.Errorf("%w: duplicate local_id %q", ErrConstraintViolation, entry.LocalID)
		}
	}
	// All tag references are checked before any state changes; the save is
	// all-or-nothing like the SQL transaction.
	for _, tagID := range tagIDs {
		if _, ok := m.tags[tagID]; !ok {
			return fmt.Errorf("%w: id %d", ErrTagNotFound, tagID)
		}
	}

	m.nextEntryID++
	entry.ID = m.nextEntryID
	m.entries[entry.ID] = *entry

	if len(tagIDs) > 0 {
		set := make(map[int64]struct{}, len(tagIDs))
		for _, tagID := range tagIDs {
			set[tagID] = struct{}{}
		}
		m.entryTags[entry.ID] = set
	}

	return nil
}

func (m *MemoryBackend) EntryTags(_ context.Context, entryID int64) ([]models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tags := make([]models.Tag, 0, len(m.entryTags[entryID]))
	for tagID := range m.entryTags[entryID] {
		tags = append(tags, m.tags[tagID])
	}
	sortTags(tags)

	return tags, nil
}

func (m *MemoryBackend) DeleteEntry(_ context.Context, entryID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[entryID]; !ok {
		return fmt.Errorf("%w: id %d", ErrEntryNotFound, entryID)
	}

	delete(m.entries, entryID)
	delete(m.entryTags, entryID)
	for id, md := range m.media {
		if md.EntryID == entryID {
			delete(m.media, id)
		}
	}

	return nil
}

func (m *MemoryBackend) ListTags(_ context.Context) ([]models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tags := make([]models.Tag, 0, len(m.tags))
	for _, t := range m.tags {
		tags = append(tags, t)
	}
	sortTags(tags)

	return tags, nil
}

func (m *MemoryBackend) FindTagByName(_ context.Context, name string) (models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if tag, ok := m.findTagByNameLocked(name); ok {
		return tag, nil
	}

	return models.Tag{}, fmt.Errorf("%w: %q", ErrTagNotFound, name)
}

func (m *MemoryBackend) SaveTag(_ context.Context, tag *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.findTagByNameLocked(tag.Name); ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTagName, tag.Name)
	}

	m.nextTagID++
	tag.ID = m.nextTagID
	m.tags[tag.ID] = *tag

	return nil
}

func (m *MemoryBackend) DeleteTag(_ context.Context, tagID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tags[tagID]; !ok {
		return fmt.Errorf("%w: id %d", ErrTagNotFound, tagID)
	}

	delete(m.tags, tagID)
	for entryID, set := range m.entryTags {
		delete(set, tagID)
		if len(set) == 0 {
			delete(m.entryTags, entryID)
		}
	}

	return nil
}

func (m *MemoryBackend) SaveMedia(_ context.Context, media *models.Media) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[media.EntryID]; !ok {
		return fmt.Errorf("%w: id %d", ErrEntryNotFound, media.EntryID)
	}
	if !models.ValidMediaType(media.Type) {
		return fmt.Errorf("%w: unknown media type %q", ErrConstraintViolation, media.Type)
	}

	m.nextMediaID++
	media.ID = m.nextMediaID
	m.media[media.ID] = *media

	return nil
}

func (m *MemoryBackend) MediaForEntry(_ context.Context, entryID int64) ([]models.Media, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Media
	for _, md := range m.media {
		if md.EntryID == entryID {
			out = append(out, md)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (m *MemoryBackend) PendingEntries(_ context.Context) ([]models.SyncEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var pending []models.Entry
	for _, e := range m.entries {
		if e.SyncedAt == nil {
			pending = append(pending, e)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
		return pending[i].ID < pending[j].ID
	})

	out := make([]models.SyncEntry, 0, len(pending))
	for _, e := range pending {
		tags := make([]models.Tag, 0, len(m.entryTags[e.ID]))
		for tagID := range m.entryTags[e.ID] {
			tags = append(tags, m.tags[tagID])
		}
		sortTags(tags)

		var media []models.Media
		for _, md := range m.media {
			if md.EntryID == e.ID {
				media = append(media, md)
			}
		}
		sort.Slice(media, func(i, j int) bool { return media[i].ID < media[j].ID })

		out = append(out, models.SyncEntry{Entry: e, Tags: tags, Media: media})
	}

	return out, nil
}

func (m *MemoryBackend) MarkEntrySynced(_ context.Context, localID string, syncedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.entries {
		if e.LocalID != localID {
			continue
		}
		if e.SyncedAt == nil {
			e.SyncedAt = &syncedAt
			m.entries[id] = e
		}
		return nil
	}

	return fmt.Errorf("%w: local_id %q", ErrEntryNotFound, localID)
}

func (m *MemoryBackend) MarkMediaSynced(_ context.Context, mediaID int64, remoteURL string, syncedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	md, ok := m.media[mediaID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrMediaNotFound, mediaID)
	}
	if md.SyncedAt == nil {
		md.RemoteURL = &remoteURL
		md.SyncedAt = &syncedAt
		m.media[mediaID] = md
	}

	return nil
}

func (m *MemoryBackend) PushSync(_ context.Context, req models.SyncPushRequest) (models.SyncPushResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	results := make([]models.SyncPushResult, 0, len(req.Entries))
	for _, item := range req.Entries {
		if existing, ok := m.findEntryByLocalIDLocked(item.Entry.LocalID); ok {
			syncedAt := now
			if existing.SyncedAt != nil {
				syncedAt = *existing.SyncedAt
			}
			results = append(results, models.SyncPushResult{
				LocalID:  existing.LocalID,
				ServerID: existing.ID,
				SyncedAt: syncedAt,
			})
			continue
		}

		e := item.Entry
		if err := validateEntryLevels(&e); err != nil {
			return models.SyncPushResponse{}, err
		}

		m.nextEntryID++
		e.ID = m.nextEntryID
		e.SyncedAt = &now
		m.entries[e.ID] = e

		if len(item.Tags) > 0 {
			set := make(map[int64]struct{}, len(item.Tags))
			for _, tag := range item.Tags {
				found, ok := m.findTagByNameLocked(tag.Name)
				if !ok {
					m.nextTagID++
					found = models.Tag{ID: m.nextTagID, Name: tag.Name, CreatedAt: now}
					m.tags[found.ID] = found
				}
				set[found.ID] = struct{}{}
			}
			m.entryTags[e.ID] = set
		}

		mediaURLs := make([]string, 0, len(item.Media))
		for _, md := range item.Media {
			if !models.ValidMediaType(md.Type) {
				return models.SyncPushResponse{}, fmt.Errorf("%w: unknown media type %q", ErrConstraintViolation, md.Type)
			}
			m.nextMediaID++
			md.ID = m.nextMediaID
			md.EntryID = e.ID
			remoteURL := fmt.Sprintf("/api/media/%d", md.ID)
			md.RemoteURL = &remoteURL
			md.SyncedAt = &now
			m.media[md.ID] = md
			mediaURLs = append(mediaURLs, remoteURL)
		}

		results = append(results, models.SyncPushResult{
			LocalID:   e.LocalID,
			ServerID:  e.ID,
			SyncedAt:  now,
			MediaURLs: mediaURLs,
		})
	}

	return models.SyncPushResponse{Results: results, Length: len(results)}, nil
}

func (m *MemoryBackend) Ping(_ context.Context) error { return nil }

func (m *MemoryBackend) Close() error { return nil }

func (m *MemoryBackend) findTagByNameLocked(name string) (models.Tag, bool) {
	for _, t := range m.tags {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}

	return models.Tag{}, false
}

func (m *MemoryBackend) findEntryByLocalIDLocked(localID string) (models.Entry, bool) {
	for _, e := range m.entries {
		if e.LocalID == localID {
			return e, true
		}
	}

	return models.Entry{}, false
}

// validateEntryLevels mirrors the CHECK constraints of the SQL schemas.
func validateEntryLevels(e *models.Entry) error {
	for _, level := range []*int{e.EnergyLevel, e.MoodLevel} {
		if level != nil && (*level < 1 || *level > 10) {
			return fmt.Errorf("%w: level %d outside [1,10]", ErrConstraintViolation, *level)
		}
	}

	return nil
}

func sortTags(tags []models.Tag) {
	sort.Slice(tags, func(i, j int) bool { return lessTagName(tags[i].Name, tags[j].Name) })
}

// lessTagName orders names case-insensitively, falling back to the raw
// strings so the order is deterministic for names equal under folding.
func lessTagName(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
