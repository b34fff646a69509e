package models

import "time"

// Media attachment types.
const (
	MediaTypeImage = "image"
	MediaTypeVoice = "voice"
)

// Media is a binary attachment exclusively owned by one entry and removed
// with it. URI is the local file path; RemoteURL is populated once the
// attachment has been confirmed uploaded. Duration is only meaningful for
// voice memos (seconds).
type Media struct {
	ID        int64      `json:"id"`
	EntryID   int64      `json:"entry_id"`
	Type      string     `json:"type"`
	URI       string     `json:"uri"`
	RemoteURL *string    `json:"remote_url,omitempty"`
	Duration  *int       `json:"duration,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	SyncedAt  *time.Time `json:"synced_at,omitempty"`
}

// ValidMediaType reports whether t is one of the supported attachment types.
func ValidMediaType(t string) bool {
	return t == MediaTypeImage || t == MediaTypeVoice
}
