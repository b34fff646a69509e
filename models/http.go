package models

// SaveEntryRequest is the body of POST /api/entries: the entry to persist
// plus the ids of the tags to associate with it.
type SaveEntryRequest struct {
	Entry  Entry   `json:"entry"`
	TagIDs []int64 `json:"tag_ids,omitempty"`
}

// CreateTagRequest is the body of POST /api/tags.
type CreateTagRequest struct {
	Name string `json:"name"`
}

// ErrorResponse is the uniform error body returned by the HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}
