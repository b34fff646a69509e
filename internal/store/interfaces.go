package store

import (
	"context"
	"time"

	"github.com/ewalker114/lifelog/models"
)

// Backend is the uniform query capability set every storage variant
// implements: the embedded SQLite file store, the remote HTTP store, the
// in-memory store, and the server-side PostgreSQL store. Callers never
// branch on which variant is active; the selection happens once at startup
// and is fixed for the process lifetime.
//
// All methods map driver-level failures to the sentinel errors in this
// package before returning.
type Backend interface {
	// EntriesSnapshot returns all entries ordered by creation time
	// descending, plus every junction join row, read as one consistent
	// snapshot.
	EntriesSnapshot(ctx context.Context) (models.EntriesSnapshot, error)

	// SaveEntry persists a new entry together with its tag associations as
	// one atomic unit: either the entry row and every junction row commit,
	// or nothing does. The backend-assigned id is written into entry.ID.
	// A dangling tag id fails the whole operation with [ErrTagNotFound].
	SaveEntry(ctx context.Context, entry *models.Entry, tagIDs []int64) error

	// EntryTags returns the tags associated with one entry, name ascending.
	EntryTags(ctx context.Context, entryID int64) ([]models.Tag, error)

	// DeleteEntry removes an entry; junction and media rows cascade.
	// Returns [ErrEntryNotFound] when no such entry exists.
	DeleteEntry(ctx context.Context, entryID int64) error

	// ListTags returns all tags ordered by name ascending,
	// case-insensitively.
	ListTags(ctx context.Context) ([]models.Tag, error)

	// FindTagByName performs a case-insensitive lookup by exact name.
	// Returns [ErrTagNotFound] when no tag matches.
	FindTagByName(ctx context.Context, name string) (models.Tag, error)

	// SaveTag persists a new tag, writing the assigned id into tag.ID.
	// Returns [ErrDuplicateTagName] when an equivalent name exists.
	SaveTag(ctx context.Context, tag *models.Tag) error

	// DeleteTag removes a tag; junction rows cascade.
	// Returns [ErrTagNotFound] when no such tag exists.
	DeleteTag(ctx context.Context, tagID int64) error

	// SaveMedia persists a media row owned by an entry, writing the
	// assigned id into media.ID. Returns [ErrEntryNotFound] when the
	// owning entry does not exist.
	SaveMedia(ctx context.Context, media *models.Media) error

	// MediaForEntry returns the media rows owned by one entry, oldest
	// first.
	MediaForEntry(ctx context.Context, entryID int64) ([]models.Media, error)

	// PendingEntries returns every entry whose SyncedAt is still nil,
	// oldest first, each with its tags and media, ready for upload.
	PendingEntries(ctx context.Context) ([]models.SyncEntry, error)

	// MarkEntrySynced records the confirmed remote persistence time for
	// the entry identified by its localID. A second confirmation for an
	// already-synced entry is a no-op; a missing entry is
	// [ErrEntryNotFound].
	MarkEntrySynced(ctx context.Context, localID string, syncedAt time.Time) error

	// MarkMediaSynced records the remote URL and confirmation time for one
	// media row.
	MarkMediaSynced(ctx context.Context, mediaID int64, remoteURL string, syncedAt time.Time) error

	// PushSync applies a batch of uploaded entries idempotently, keyed by
	// LocalID: an entry already present is confirmed again without
	// creating a second row. This is the server-side half of the sync
	// contract; the remote backend forwards it over HTTP.
	PushSync(ctx context.Context, req models.SyncPushRequest) (models.SyncPushResponse, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}
