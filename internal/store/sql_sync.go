package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/models"
)

// PushSync applies an uploaded batch inside a single transaction. Entries
// are keyed by LocalID: one already present is confirmed again with its
// original synced_at, so a client that lost the previous confirmation can
// repeat the push safely. Tags arrive by name (client-side ids mean nothing
// here) and are resolved case-insensitively, creating missing ones.
func (b *sqlBackend) PushSync(ctx context.Context, req models.SyncPushRequest) (models.SyncPushResponse, error) {
	log := logger.FromContext(ctx)
	now := time.Now().UTC()

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "sqlBackend.PushSync").Msg("failed to begin transaction")
		return models.SyncPushResponse{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	results := make([]models.SyncPushResult, 0, len(req.Entries))
	for _, item := range req.Entries {
		result, err := b.pushSyncEntry(ctx, tx, item, now)
		if err != nil {
			log.Err(err).
				Str("func", "sqlBackend.PushSync").
				Str("local_id", item.Entry.LocalID).
				Msg("failed to apply pushed entry")
			return models.SyncPushResponse{}, err
		}
		results = append(results, result)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "sqlBackend.PushSync").Msg("failed to commit transaction")
		return models.SyncPushResponse{}, fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	log.Info().
		Str("func", "sqlBackend.PushSync").
		Int("entries_count", len(results)).
		Msg("applied sync push batch")

	return models.SyncPushResponse{Results: results, Length: len(results)}, nil
}

func (b *sqlBackend) pushSyncEntry(ctx context.Context, tx *sql.Tx, item models.SyncEntry, now time.Time) (models.SyncPushResult, error) {
	query, args, err := b.sb.Select("id", "synced_at").
		From("entries").
		Where(sq.Eq{"local_id": item.Entry.LocalID}).
		ToSql()
	if err != nil {
		return models.SyncPushResult{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var existingID int64
	var existingSyncedAt *time.Time
	err = tx.QueryRowContext(ctx, query, args...).Scan(&existingID, &existingSyncedAt)
	if err == nil {
		syncedAt := now
		if existingSyncedAt != nil {
			syncedAt = *existingSyncedAt
		}
		return models.SyncPushResult{
			LocalID:  item.Entry.LocalID,
			ServerID: existingID,
			SyncedAt: syncedAt,
		}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.SyncPushResult{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	e := item.Entry
	query, args, err = b.sb.Insert("entries").
		Columns("local_id", "content", "energy_level", "mood_level", "created_at",
			"latitude", "longitude", "location_name", "synced_at").
		Values(e.LocalID, e.Content, e.EnergyLevel, e.MoodLevel, e.CreatedAt,
			e.Latitude, e.Longitude, e.LocationName, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return models.SyncPushResult{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var serverID int64
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&serverID); err != nil {
		if b.classify(err) != KindNone {
			return models.SyncPushResult{}, fmt.Errorf("%w: %w", ErrConstraintViolation, err)
		}
		return models.SyncPushResult{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	for _, tag := range item.Tags {
		tagID, err := b.findOrCreateTagTx(ctx, tx, tag.Name, now)
		if err != nil {
			return models.SyncPushResult{}, err
		}

		query, args, err = b.sb.Insert("entry_tags").
			Columns("entry_id", "tag_id").
			Values(serverID, tagID).
			Suffix("ON CONFLICT DO NOTHING").
			ToSql()
		if err != nil {
			return models.SyncPushResult{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return models.SyncPushResult{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}

	mediaURLs := make([]string, 0, len(item.Media))
	for _, m := range item.Media {
		query, args, err = b.sb.Insert("media").
			Columns("entry_id", "type", "uri", "remote_url", "duration", "created_at", "synced_at").
			Values(serverID, m.Type, m.URI, nil, m.Duration, m.CreatedAt, now).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return models.SyncPushResult{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		var mediaID int64
		if err = tx.QueryRowContext(ctx, query, args...).Scan(&mediaID); err != nil {
			if b.classify(err) != KindNone {
				return models.SyncPushResult{}, fmt.Errorf("%w: %w", ErrConstraintViolation, err)
			}
			return models.SyncPushResult{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		remoteURL := fmt.Sprintf("/api/media/%d", mediaID)
		query, args, err = b.sb.Update("media").
			Set("remote_url", remoteURL).
			Where(sq.Eq{"id": mediaID}).
			ToSql()
		if err != nil {
			return models.SyncPushResult{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return models.SyncPushResult{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		mediaURLs = append(mediaURLs, remoteURL)
	}

	return models.SyncPushResult{
		LocalID:   e.LocalID,
		ServerID:  serverID,
		SyncedAt:  now,
		MediaURLs: mediaURLs,
	}, nil
}

func (b *sqlBackend) findOrCreateTagTx(ctx context.Context, tx *sql.Tx, name string, now time.Time) (int64, error) {
	query, args, err := b.sb.Select("id").
		From("tags").
		Where(sq.Expr(b.tagNameMatch, name)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var id int64
	err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err = b.sb.Insert("tags").
		Columns("name", "created_at").
		Values(name, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return id, nil
}
