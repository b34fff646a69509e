package repository

import (
	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/internal/store"
)

// Repositories groups the domain repositories into a single value that can
// be passed around the application.
type Repositories struct {
	Entries *EntryRepository
	Tags    *TagRepository
}

// NewRepositories wires all repositories to one shared backend.
func NewRepositories(backend store.Backend, log *logger.Logger) *Repositories {
	return &Repositories{
		Entries: NewEntryRepository(backend, log),
		Tags:    NewTagRepository(backend, log),
	}
}
