package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/internal/store"
	"github.com/ewalker114/lifelog/models"
)

// TagRepository manages the tag vocabulary. Tag names are unique
// case-insensitively; "Work" and "work" are the same tag.
type TagRepository struct {
	backend store.Backend
}

// NewTagRepository constructs a [TagRepository] backed by the provided
// storage backend.
func NewTagRepository(backend store.Backend, log *logger.Logger) *TagRepository {
	log.Debug().Msg("creating tag repository")
	return &TagRepository{backend: backend}
}

// List returns all tags ordered by name, case-insensitively ascending.
func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	tags, err := r.backend.ListTags(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "TagRepository.List").Msg("failed to list tags")
		return nil, fmt.Errorf("list tags: %w", err)
	}

	return tags, nil
}

// Create persists a new tag. The name is trimmed of surrounding whitespace
// but otherwise stored exactly as typed; an existing tag equal under case
// folding is a [store.ErrDuplicateTagName].
func (r *TagRepository) Create(ctx context.Context, name string) (models.Tag, error) {
	log := logger.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Tag{}, ErrEmptyTagName
	}

	tag := models.Tag{Name: name, CreatedAt: time.Now().UTC()}
	if err := r.backend.SaveTag(ctx, &tag); err != nil {
		log.Err(err).Str("func", "TagRepository.Create").Str("name", name).Msg("failed to save tag")
		return models.Tag{}, fmt.Errorf("create tag: %w", err)
	}

	log.Info().Str("func", "TagRepository.Create").Str("name", tag.Name).Msg("tag created")

	return tag, nil
}

// FindByName performs a case-insensitive exact lookup.
func (r *TagRepository) FindByName(ctx context.Context, name string) (models.Tag, error) {
	tag, err := r.backend.FindTagByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return models.Tag{}, fmt.Errorf("find tag: %w", err)
	}

	return tag, nil
}

// Delete removes a tag from the vocabulary and from every entry carrying it.
// Entries themselves are not deleted.
func (r *TagRepository) Delete(ctx context.Context, tagID int64) error {
	log := logger.FromContext(ctx)

	if err := r.backend.DeleteTag(ctx, tagID); err != nil {
		log.Err(err).Str("func", "TagRepository.Delete").Int64("tag_id", tagID).Msg("failed to delete tag")
		return fmt.Errorf("delete tag: %w", err)
	}

	return nil
}
