package models

import "time"

// SyncEntry is one entry in a batch push request, carrying the record and
// its attachments. The server upserts by LocalID, which makes a repeated
// push of the same entry a no-op.
type SyncEntry struct {
	Entry Entry   `json:"entry"`
	Tags  []Tag   `json:"tags,omitempty"`
	Media []Media `json:"media,omitempty"`
}

// SyncPushRequest is the batch the client uploads during a sync cycle:
// every local entry whose SyncedAt is still nil.
type SyncPushRequest struct {
	Entries []SyncEntry `json:"entries"`
	Length  int         `json:"length"`
}

// SyncPushResult is the per-entry confirmation returned by the server.
// SyncedAt is the moment the server durably persisted the record; the
// client copies it into its local row.
type SyncPushResult struct {
	LocalID   string    `json:"local_id"`
	ServerID  int64     `json:"server_id"`
	SyncedAt  time.Time `json:"synced_at"`
	MediaURLs []string  `json:"media_urls,omitempty"`
}

// SyncPushResponse is the server's answer to a [SyncPushRequest].
type SyncPushResponse struct {
	Results []SyncPushResult `json:"results"`
	Length  int              `json:"length"`
}
