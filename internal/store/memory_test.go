package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewalker114/lifelog/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newTestEntry(localID string) *models.Entry {
	return &models.Entry{
		LocalID:   localID,
		Content:   strPtr("test"),
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryBackend_SaveEntryWithTags(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	tagA := &models.Tag{Name: "A", CreatedAt: time.Now().UTC()}
	tagB := &models.Tag{Name: "B", CreatedAt: time.Now().UTC()}
	require.NoError(t, m.SaveTag(ctx, tagA))
	require.NoError(t, m.SaveTag(ctx, tagB))

	entry := newTestEntry("local-1")
	require.NoError(t, m.SaveEntry(ctx, entry, []int64{tagA.ID, tagB.ID}))
	assert.NotZero(t, entry.ID)

	tags, err := m.EntryTags(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "A", tags[0].Name)
	assert.Equal(t, "B", tags[1].Name)
}

func TestMemoryBackend_SaveEntryRepeatedTagIDs(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	tag := &models.Tag{Name: "Work", CreatedAt: time.Now().UTC()}
	require.NoError(t, m.SaveTag(ctx, tag))

	entry := newTestEntry("repeat")
	require.NoError(t, m.SaveEntry(ctx, entry, []int64{tag.ID, tag.ID}))

	tags, err := m.EntryTags(ctx, entry.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1, "repeated ids collapse to one association")
}

func TestMemoryBackend_MarkMediaSynced(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	entry := newTestEntry("with-media")
	require.NoError(t, m.SaveEntry(ctx, entry, nil))
	media := &models.Media{EntryID: entry.ID, Type: models.MediaTypeImage, URI: "file:///a.jpg", CreatedAt: time.Now().UTC()}
	require.NoError(t, m.SaveMedia(ctx, media))

	syncedAt := time.Now().UTC()
	require.NoError(t, m.MarkMediaSynced(ctx, media.ID, "/api/media/1", syncedAt))

	got, err := m.MediaForEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].RemoteURL)
	assert.Equal(t, "/api/media/1", *got[0].RemoteURL)

	assert.ErrorIs(t, m.MarkMediaSynced(ctx, 404, "/api/media/404", syncedAt), ErrMediaNotFound)
}

func TestMemoryBackend_SaveEntryDanglingTag(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	entry := newTestEntry("local-1")
	err := m.SaveEntry(ctx, entry, []int64{42})
	require.ErrorIs(t, err, ErrTagNotFound)

	// Nothing should have been persisted.
	snapshot, err := m.EntriesSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Entries)
}

func TestMemoryBackend_SaveEntryLevelBounds(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	for _, level := range []int{0, 11} {
		entry := newTestEntry("local-bound")
		entry.EnergyLevel = intPtr(level)
		err := m.SaveEntry(ctx, entry, nil)
		assert.ErrorIs(t, err, ErrConstraintViolation, "level %d must be rejected", level)
	}

	entry := newTestEntry("local-ok")
	entry.EnergyLevel = intPtr(1)
	entry.MoodLevel = intPtr(10)
	assert.NoError(t, m.SaveEntry(ctx, entry, nil))
}

func TestMemoryBackend_SnapshotOrdering(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	base := time.Now().UTC()
	for i, localID := range []string{"first", "second", "third"} {
		entry := newTestEntry(localID)
		entry.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, m.SaveEntry(ctx, entry, nil))
	}

	snapshot, err := m.EntriesSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Entries, 3)
	assert.Equal(t, "third", snapshot.Entries[0].LocalID)
	assert.Equal(t, "first", snapshot.Entries[2].LocalID)
}

func TestMemoryBackend_DeleteEntryCascades(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	tag := &models.Tag{Name: "keep", CreatedAt: time.Now().UTC()}
	require.NoError(t, m.SaveTag(ctx, tag))

	doomed := newTestEntry("doomed")
	require.NoError(t, m.SaveEntry(ctx, doomed, []int64{tag.ID}))
	survivor := newTestEntry("survivor")
	require.NoError(t, m.SaveEntry(ctx, survivor, []int64{tag.ID}))

	media := &models.Media{EntryID: doomed.ID, Type: models.MediaTypeImage, URI: "file:///a.jpg", CreatedAt: time.Now().UTC()}
	require.NoError(t, m.SaveMedia(ctx, media))

	require.NoError(t, m.DeleteEntry(ctx, doomed.ID))

	snapshot, err := m.EntriesSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Entries, 1)
	assert.Equal(t, "survivor", snapshot.Entries[0].LocalID)

	gone, err := m.MediaForEntry(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, gone)

	// The shared tag must survive the cascade.
	tags, err := m.EntryTags(ctx, survivor.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	assert.ErrorIs(t, m.DeleteEntry(ctx, doomed.ID), ErrEntryNotFound)
}

func TestMemoryBackend_TagNameCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	tag := &models.Tag{Name: "Work", CreatedAt: time.Now().UTC()}
	require.NoError(t, m.SaveTag(ctx, tag))

	dup := &models.Tag{Name: "work", CreatedAt: time.Now().UTC()}
	assert.ErrorIs(t, m.SaveTag(ctx, dup), ErrDuplicateTagName)

	found, err := m.FindTagByName(ctx, "WORK")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, found.ID)

	_, err = m.FindTagByName(ctx, "life")
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestMemoryBackend_ListTagsOrdering(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	for _, name := range []string{"banana", "Apple", "cherry"} {
		require.NoError(t, m.SaveTag(ctx, &models.Tag{Name: name, CreatedAt: time.Now().UTC()}))
	}

	tags, err := m.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, []string{tags[0].Name, tags[1].Name, tags[2].Name})
}

func TestMemoryBackend_PendingAndMarkSynced(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	entry := newTestEntry("pending-1")
	require.NoError(t, m.SaveEntry(ctx, entry, nil))

	pending, err := m.PendingEntries(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Nil(t, pending[0].Entry.SyncedAt)

	syncedAt := time.Now().UTC()
	require.NoError(t, m.MarkEntrySynced(ctx, "pending-1", syncedAt))

	pending, err = m.PendingEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// A second confirmation keeps the original timestamp.
	later := syncedAt.Add(time.Hour)
	require.NoError(t, m.MarkEntrySynced(ctx, "pending-1", later))
	snapshot, err := m.EntriesSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snapshot.Entries[0].SyncedAt)
	assert.True(t, snapshot.Entries[0].SyncedAt.Equal(syncedAt))

	assert.ErrorIs(t, m.MarkEntrySynced(ctx, "missing", syncedAt), ErrEntryNotFound)
}

func TestMemoryBackend_PushSyncIdempotent(t *testing.T) {
	ctx := context.Background()
	server := NewMemoryBackend()

	req := models.SyncPushRequest{
		Entries: []models.SyncEntry{{
			Entry: *newTestEntry("push-1"),
			Tags:  []models.Tag{{Name: "Work"}},
			Media: []models.Media{{Type: models.MediaTypeVoice, URI: "file:///memo.m4a", Duration: intPtr(12), CreatedAt: time.Now().UTC()}},
		}},
		Length: 1,
	}

	first, err := server.PushSync(ctx, req)
	require.NoError(t, err)
	require.Len(t, first.Results, 1)
	require.Len(t, first.Results[0].MediaURLs, 1)
	assert.NotZero(t, first.Results[0].ServerID)

	second, err := server.PushSync(ctx, req)
	require.NoError(t, err)
	require.Len(t, second.Results, 1)
	assert.Equal(t, first.Results[0].ServerID, second.Results[0].ServerID)
	assert.True(t, first.Results[0].SyncedAt.Equal(second.Results[0].SyncedAt))

	snapshot, err := server.EntriesSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Entries, 1)

	tags, err := server.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}
