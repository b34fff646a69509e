package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/internal/store"
	"github.com/ewalker114/lifelog/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newTestRepos(t *testing.T) (*Repositories, *store.MemoryBackend) {
	t.Helper()
	backend := store.NewMemoryBackend()
	return NewRepositories(backend, logger.Nop()), backend
}

func TestEntryRepository_CreateRoundTrip(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t)

	tagA, err := repos.Tags.Create(ctx, "A")
	require.NoError(t, err)
	tagB, err := repos.Tags.Create(ctx, "B")
	require.NoError(t, err)

	created, err := repos.Entries.Create(ctx, models.CreateEntryInput{
		Content:     strPtr("test"),
		EnergyLevel: intPtr(7),
		MoodLevel:   intPtr(3),
		TagIDs:      []int64{tagA.ID, tagB.ID},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.LocalID)
	assert.Nil(t, created.SyncedAt)
	require.Len(t, created.Tags, 2)

	listed, err := repos.Entries.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	got := listed[0]
	assert.Equal(t, created.LocalID, got.LocalID)
	require.NotNil(t, got.Content)
	assert.Equal(t, "test", *got.Content)
	assert.Equal(t, 7, *got.EnergyLevel)
	assert.Equal(t, 3, *got.MoodLevel)
	assert.Equal(t, []string{"A", "B"}, []string{got.Tags[0].Name, got.Tags[1].Name})
	assert.Nil(t, got.SyncedAt)
}

func TestEntryRepository_CreateTagCounts(t *testing.T) {
	ctx := context.Background()

	for _, n := range []int{0, 1, 5} {
		repos, _ := newTestRepos(t)

		tagIDs := make([]int64, 0, n)
		for i := 0; i < n; i++ {
			tag, err := repos.Tags.Create(ctx, string(rune('a'+i)))
			require.NoError(t, err)
			tagIDs = append(tagIDs, tag.ID)
		}

		created, err := repos.Entries.Create(ctx, models.CreateEntryInput{TagIDs: tagIDs})
		require.NoError(t, err)
		assert.Len(t, created.Tags, n)

		listed, err := repos.Entries.List(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Len(t, listed[0].Tags, n)
	}
}

func TestEntryRepository_RepeatedTagIDsCollapse(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t)

	tag, err := repos.Tags.Create(ctx, "Work")
	require.NoError(t, err)

	created, err := repos.Entries.Create(ctx, models.CreateEntryInput{
		TagIDs: []int64{tag.ID, tag.ID, tag.ID},
	})
	require.NoError(t, err)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, tag.ID, created.Tags[0].ID)
}

func TestDedupIDs(t *testing.T) {
	tests := []struct {
		name string
		in   []int64
		want []int64
	}{
		{"nil", nil, nil},
		{"single", []int64{1}, []int64{1}},
		{"no duplicates", []int64{3, 1, 2}, []int64{3, 1, 2}},
		{"adjacent duplicates", []int64{1, 1, 2}, []int64{1, 2}},
		{"first occurrence order", []int64{2, 1, 2, 3, 1}, []int64{2, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dedupIDs(tt.in))
		})
	}
}

func TestEntryRepository_LocalIDsDistinct(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t)

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		created, err := repos.Entries.Create(ctx, models.CreateEntryInput{})
		require.NoError(t, err)
		seen[created.LocalID] = struct{}{}
	}

	assert.Len(t, seen, 1000)
}

func TestEntryRepository_LevelBoundsRejected(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t)

	for _, level := range []int{0, 11, -3} {
		_, err := repos.Entries.Create(ctx, models.CreateEntryInput{EnergyLevel: intPtr(level)})
		assert.ErrorIs(t, err, ErrLevelOutOfRange, "energy %d", level)

		_, err = repos.Entries.Create(ctx, models.CreateEntryInput{MoodLevel: intPtr(level)})
		assert.ErrorIs(t, err, ErrLevelOutOfRange, "mood %d", level)
	}

	// Boundary values pass; absence is not zero.
	_, err := repos.Entries.Create(ctx, models.CreateEntryInput{EnergyLevel: intPtr(1), MoodLevel: intPtr(10)})
	assert.NoError(t, err)
	_, err = repos.Entries.Create(ctx, models.CreateEntryInput{})
	assert.NoError(t, err)
}

func TestEntryRepository_LocationUnit(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t)

	name := "Berlin, Germany"
	created, err := repos.Entries.Create(ctx, models.CreateEntryInput{
		Location: &models.Location{Latitude: 52.52, Longitude: 13.405, Name: &name},
	})
	require.NoError(t, err)
	require.NotNil(t, created.Latitude)
	require.NotNil(t, created.Longitude)
	require.NotNil(t, created.LocationName)
	assert.Equal(t, 52.52, *created.Latitude)

	bare, err := repos.Entries.Create(ctx, models.CreateEntryInput{})
	require.NoError(t, err)
	assert.Nil(t, bare.Latitude)
	assert.Nil(t, bare.Longitude)
	assert.Nil(t, bare.LocationName)
}

func TestEntryRepository_DeleteIsolation(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t)

	tag, err := repos.Tags.Create(ctx, "shared")
	require.NoError(t, err)

	doomed, err := repos.Entries.Create(ctx, models.CreateEntryInput{TagIDs: []int64{tag.ID}})
	require.NoError(t, err)
	survivor, err := repos.Entries.Create(ctx, models.CreateEntryInput{TagIDs: []int64{tag.ID}})
	require.NoError(t, err)

	media := &models.Media{EntryID: doomed.ID, Type: models.MediaTypeImage, URI: "file:///x.jpg"}
	require.NoError(t, repos.Entries.AttachMedia(ctx, media))

	require.NoError(t, repos.Entries.Delete(ctx, doomed.ID))

	listed, err := repos.Entries.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, survivor.LocalID, listed[0].LocalID)
	assert.Len(t, listed[0].Tags, 1)

	gone, err := repos.Entries.Media(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestEntryRepository_CacheMirror(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t)

	_, loaded := repos.Entries.Cached()
	assert.False(t, loaded, "cache starts cold")

	_, err := repos.Entries.List(ctx)
	require.NoError(t, err)

	created, err := repos.Entries.Create(ctx, models.CreateEntryInput{Content: strPtr("cached")})
	require.NoError(t, err)

	cached, loaded := repos.Entries.Cached()
	require.True(t, loaded)
	require.Len(t, cached, 1)
	assert.Equal(t, created.LocalID, cached[0].LocalID)

	require.NoError(t, repos.Entries.Delete(ctx, created.ID))
	cached, _ = repos.Entries.Cached()
	assert.Empty(t, cached)
}

func TestEntryRepository_AttachMediaValidatesType(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t)

	entry, err := repos.Entries.Create(ctx, models.CreateEntryInput{})
	require.NoError(t, err)

	err = repos.Entries.AttachMedia(ctx, &models.Media{EntryID: entry.ID, Type: "video", URI: "file:///v.mp4"})
	assert.ErrorIs(t, err, ErrInvalidMediaType)

	voice := &models.Media{EntryID: entry.ID, Type: models.MediaTypeVoice, URI: "file:///m.m4a", Duration: intPtr(30)}
	require.NoError(t, repos.Entries.AttachMedia(ctx, voice))
	assert.NotZero(t, voice.ID)
	assert.False(t, voice.CreatedAt.IsZero())
}

func TestEntryRepository_CreatedAtAssigned(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t)

	before := time.Now().UTC().Add(-time.Second)
	created, err := repos.Entries.Create(ctx, models.CreateEntryInput{})
	require.NoError(t, err)
	after := time.Now().UTC().Add(time.Second)

	assert.True(t, created.CreatedAt.After(before) && created.CreatedAt.Before(after))
}
