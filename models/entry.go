package models

import "time"

// Entry is a single logged activity/mood record.
//
// ID is the backend-assigned integer key and is only meaningful within the
// backend that assigned it. LocalID is the client-generated UUID assigned
// exactly once at creation; it is the stable identity of the record across
// offline creation and later synchronization and is never reassigned.
type Entry struct {
	ID           int64      `json:"id"`
	LocalID      string     `json:"local_id"`
	Content      *string    `json:"content,omitempty"`
	EnergyLevel  *int       `json:"energy_level,omitempty"`
	MoodLevel    *int       `json:"mood_level,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	LocationName *string    `json:"location_name,omitempty"`
	SyncedAt     *time.Time `json:"synced_at,omitempty"`
}

// EntryWithTags is the denormalized shape returned to callers: the entry
// together with its associated tags, ready for display.
type EntryWithTags struct {
	Entry
	Tags []Tag `json:"tags"`
}

// EntryTag is a single row of the entries<->tags junction table.
// Both references must point at live rows; the (EntryID, TagID) pair
// is unique.
type EntryTag struct {
	EntryID int64 `json:"entry_id"`
	TagID   int64 `json:"tag_id"`
}

// EntryTagJoinRow is one row of the junction join used to materialize
// entry tags: the owning entry id plus the resolved tag.
type EntryTagJoinRow struct {
	EntryID int64 `json:"entry_id"`
	Tag     Tag   `json:"tag"`
}

// EntriesSnapshot is a point-in-time read of the entry list together with
// every junction join row, produced atomically by the backend so that tag
// grouping reflects the same data as the entry list.
type EntriesSnapshot struct {
	Entries []Entry           `json:"entries"`
	TagRows []EntryTagJoinRow `json:"tag_rows"`
}

// Location is the all-or-nothing location unit attached to an entry.
// Coordinates are required; Name may be absent when reverse lookup
// failed or was skipped.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      *string `json:"name,omitempty"`
}

// CreateEntryInput carries everything needed to create an entry.
// Level values must be within [1,10] when present; absence means
// "not rated", never zero.
type CreateEntryInput struct {
	Content     *string   `json:"content,omitempty"`
	EnergyLevel *int      `json:"energy_level,omitempty"`
	MoodLevel   *int      `json:"mood_level,omitempty"`
	Location    *Location `json:"location,omitempty"`
	TagIDs      []int64   `json:"tag_ids,omitempty"`
}

// EntrySyncState is the lightweight descriptor the sync engine works with:
// enough to decide whether an entry still awaits confirmed remote
// persistence (SyncedAt == nil) without loading its full payload.
type EntrySyncState struct {
	LocalID  string     `json:"local_id"`
	SyncedAt *time.Time `json:"synced_at,omitempty"`
}
