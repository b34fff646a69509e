package models

import "time"

// Tag is a reusable named label attachable to many entries.
// Names are unique case-insensitively: "Work" and "work" are the same tag.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
