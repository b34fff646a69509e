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

var entryColumns = []string{
	"id",
	"local_id",
	"content",
	"energy_level",
	"mood_level",
	"created_at",
	"latitude",
	"longitude",
	"location_name",
	"synced_at",
}

var tagColumns = []string{"id", "name", "created_at"}

var mediaColumns = []string{
	"id",
	"entry_id",
	"type",
	"uri",
	"remote_url",
	"duration",
	"created_at",
	"synced_at",
}

// sqlBackend implements [Backend] on top of database/sql. The SQLite and
// PostgreSQL variants differ only in placeholder format, the tag name
// matching expression (SQLite relies on the NOCASE collation, PostgreSQL on
// lower()), the tag ordering expression, and driver error classification,
// all injected by the respective constructor.
type sqlBackend struct {
	db *sql.DB
	sb sq.StatementBuilderType

	// tagNameMatch is the WHERE fragment for case-insensitive exact name
	// lookup, with a single ? placeholder for the name.
	tagNameMatch string
	// tagOrder is the ORDER BY expression producing case-insensitive
	// ascending name order.
	tagOrder string
	// joinedTagOrder is the same expression qualified for the "t" alias
	// used in junction joins.
	joinedTagOrder string
	// classify maps a driver error to the constraint class it violated.
	classify func(error) ConstraintKind
	// snapshotTxOpts are the transaction options for consistent reads.
	// PostgreSQL needs REPEATABLE READ so both snapshot queries see the same
	// state; SQLite leaves this nil because its driver rejects non-default
	// options and a SQLite transaction is a single-writer snapshot anyway.
	snapshotTxOpts *sql.TxOptions

	logger *logger.Logger
}

func (b *sqlBackend) EntriesSnapshot(ctx context.Context) (models.EntriesSnapshot, error) {
	log := logger.FromContext(ctx)

	tx, err := b.db.BeginTx(ctx, b.snapshotTxOpts)
	if err != nil {
		log.Err(err).Str("func", "sqlBackend.EntriesSnapshot").Msg("failed to begin snapshot transaction")
		return models.EntriesSnapshot{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := b.sb.Select(entryColumns...).
		From("entries").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return models.EntriesSnapshot{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "sqlBackend.EntriesSnapshot").Msg("failed to query entries")
		return models.EntriesSnapshot{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	entries, err := scanEntries(rows)
	if err != nil {
		log.Err(err).Str("func", "sqlBackend.EntriesSnapshot").Msg("failed to scan entries")
		return models.EntriesSnapshot{}, err
	}

	query, args, err = b.sb.Select("et.entry_id", "t.id", "t.name", "t.created_at").
		From("entry_tags et").
		Join("tags t ON t.id = et.tag_id").
		OrderBy("et.entry_id", b.joinedTagOrder).
		ToSql()
	if err != nil {
		return models.EntriesSnapshot{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err = tx.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "sqlBackend.EntriesSnapshot").Msg("failed to query entry tags")
		return models.EntriesSnapshot{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	tagRows, err := scanEntryTagJoinRows(rows)
	if err != nil {
		log.Err(err).Str("func", "sqlBackend.EntriesSnapshot").Msg("failed to scan entry tags")
		return models.EntriesSnapshot{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.EntriesSnapshot{}, fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return models.EntriesSnapshot{Entries: entries, TagRows: tagRows}, nil
}

func (b *sqlBackend) SaveEntry(ctx context.Context, entry *models.Entry, tagIDs []int64) error {
	log := logger.FromContext(ctx)

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "sqlBackend.SaveEntry").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := b.sb.Insert("entries").
		Columns("local_id", "content", "energy_level", "mood_level", "created_at",
			"latitude", "longitude", "location_name", "synced_at").
		Values(entry.LocalID, entry.Content, entry.EnergyLevel, entry.MoodLevel, entry.CreatedAt,
			entry.Latitude, entry.Longitude, entry.LocationName, entry.SyncedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = tx.QueryRowContext(ctx, query, args...).Scan(&entry.ID); err != nil {
		log.Err(err).
			Str("func", "sqlBackend.SaveEntry").
			Str("local_id", entry.LocalID).
			Msg("failed to insert entry")
		switch b.classify(err) {
		case KindUniqueViolation, KindCheckViolation:
			return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if len(tagIDs) > 0 {
		ins := b.sb.Insert("entry_tags").Columns("entry_id", "tag_id")
		for _, tagID := range tagIDs {
			ins = ins.Values(entry.ID, tagID)
		}
		// Repeated (entry_id, tag_id) pairs collapse like the in-memory
		// backend's tag set instead of failing the whole save.
		ins = ins.Suffix("ON CONFLICT DO NOTHING")

		query, args, err = ins.ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "sqlBackend.SaveEntry").
				Str("local_id", entry.LocalID).
				Int("tags_count", len(tagIDs)).
				Msg("failed to insert tag associations, rolling back entry")
			switch b.classify(err) {
			case KindForeignKeyViolation:
				return fmt.Errorf("%w: %w", ErrTagNotFound, err)
			case KindUniqueViolation:
				return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
			}
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "sqlBackend.SaveEntry").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return nil
}

func (b *sqlBackend) EntryTags(ctx context.Context, entryID int64) ([]models.Tag, error) {
	query, args, err := b.sb.Select("t.id", "t.name", "t.created_at").
		From("entry_tags et").
		Join("tags t ON t.id = et.tag_id").
		Where(sq.Eq{"et.entry_id": entryID}).
		OrderBy(b.joinedTagOrder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return scanTags(rows)
}

func (b *sqlBackend) DeleteEntry(ctx context.Context, entryID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := b.sb.Delete("entries").Where(sq.Eq{"id": entryID}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := b.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "sqlBackend.DeleteEntry").Int64("entry_id", entryID).Msg("failed to delete entry")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

func (b *sqlBackend) ListTags(ctx context.Context) ([]models.Tag, error) {
	query, args, err := b.sb.Select(tagColumns...).
		From("tags").
		OrderBy(b.tagOrder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return scanTags(rows)
}

func (b *sqlBackend) FindTagByName(ctx context.Context, name string) (models.Tag, error) {
	query, args, err := b.sb.Select(tagColumns...).
		From("tags").
		Where(sq.Expr(b.tagNameMatch, name)).
		ToSql()
	if err != nil {
		return models.Tag{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var tag models.Tag
	err = b.db.QueryRowContext(ctx, query, args...).Scan(&tag.ID, &tag.Name, &tag.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tag{}, ErrTagNotFound
	}
	if err != nil {
		return models.Tag{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return tag, nil
}

func (b *sqlBackend) SaveTag(ctx context.Context, tag *models.Tag) error {
	log := logger.FromContext(ctx)

	query, args, err := b.sb.Insert("tags").
		Columns("name", "created_at").
		Values(tag.Name, tag.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = b.db.QueryRowContext(ctx, query, args...).Scan(&tag.ID); err != nil {
		if b.classify(err) == KindUniqueViolation {
			log.Warn().
				Str("func", "sqlBackend.SaveTag").
				Str("name", tag.Name).
				Msg("duplicate tag name")
			return fmt.Errorf("%w: %q", ErrDuplicateTagName, tag.Name)
		}
		log.Err(err).Str("func", "sqlBackend.SaveTag").Str("name", tag.Name).Msg("failed to insert tag")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (b *sqlBackend) DeleteTag(ctx context.Context, tagID int64) error {
	query, args, err := b.sb.Delete("tags").Where(sq.Eq{"id": tagID}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := b.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrTagNotFound
	}

	return nil
}

func (b *sqlBackend) SaveMedia(ctx context.Context, media *models.Media) error {
	log := logger.FromContext(ctx)

	query, args, err := b.sb.Insert("media").
		Columns("entry_id", "type", "uri", "remote_url", "duration", "created_at", "synced_at").
		Values(media.EntryID, media.Type, media.URI, media.RemoteURL, media.Duration, media.CreatedAt, media.SyncedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = b.db.QueryRowContext(ctx, query, args...).Scan(&media.ID); err != nil {
		log.Err(err).
			Str("func", "sqlBackend.SaveMedia").
			Int64("entry_id", media.EntryID).
			Msg("failed to insert media")
		switch b.classify(err) {
		case KindForeignKeyViolation:
			return fmt.Errorf("%w: %w", ErrEntryNotFound, err)
		case KindCheckViolation:
			return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (b *sqlBackend) MediaForEntry(ctx context.Context, entryID int64) ([]models.Media, error) {
	query, args, err := b.sb.Select(mediaColumns...).
		From("media").
		Where(sq.Eq{"entry_id": entryID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return scanMedia(rows)
}

func (b *sqlBackend) PendingEntries(ctx context.Context) ([]models.SyncEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := b.sb.Select(entryColumns...).
		From("entries").
		Where(sq.Eq{"synced_at": nil}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "sqlBackend.PendingEntries").Msg("failed to query pending entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []models.SyncEntry{}, nil
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}

	query, args, err = b.sb.Select("et.entry_id", "t.id", "t.name", "t.created_at").
		From("entry_tags et").
		Join("tags t ON t.id = et.tag_id").
		Where(sq.Eq{"et.entry_id": ids}).
		OrderBy("et.entry_id", b.joinedTagOrder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err = b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	tagRows, err := scanEntryTagJoinRows(rows)
	if err != nil {
		return nil, err
	}

	query, args, err = b.sb.Select(mediaColumns...).
		From("media").
		Where(sq.Eq{"entry_id": ids}).
		OrderBy("entry_id", "created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err = b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	media, err := scanMedia(rows)
	if err != nil {
		return nil, err
	}

	tagsByEntry := make(map[int64][]models.Tag, len(entries))
	for _, row := range tagRows {
		tagsByEntry[row.EntryID] = append(tagsByEntry[row.EntryID], row.Tag)
	}
	mediaByEntry := make(map[int64][]models.Media, len(entries))
	for _, m := range media {
		mediaByEntry[m.EntryID] = append(mediaByEntry[m.EntryID], m)
	}

	pending := make([]models.SyncEntry, 0, len(entries))
	for _, e := range entries {
		pending = append(pending, models.SyncEntry{
			Entry: e,
			Tags:  tagsByEntry[e.ID],
			Media: mediaByEntry[e.ID],
		})
	}

	return pending, nil
}

func (b *sqlBackend) MarkEntrySynced(ctx context.Context, localID string, syncedAt time.Time) error {
	query, args, err := b.sb.Update("entries").
		Set("synced_at", syncedAt).
		Where(sq.Eq{"local_id": localID, "synced_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := b.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected > 0 {
		return nil
	}

	// No row updated: either the entry is already confirmed (idempotent
	// no-op) or it does not exist at all.
	query, args, err = b.sb.Select("id").From("entries").Where(sq.Eq{"local_id": localID}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var id int64
	err = b.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEntryNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (b *sqlBackend) MarkMediaSynced(ctx context.Context, mediaID int64, remoteURL string, syncedAt time.Time) error {
	query, args, err := b.sb.Update("media").
		Set("remote_url", remoteURL).
		Set("synced_at", syncedAt).
		Where(sq.Eq{"id": mediaID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := b.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrMediaNotFound, mediaID)
	}

	return nil
}

func (b *sqlBackend) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

func (b *sqlBackend) Close() error {
	b.logger.Debug().Str("func", "sqlBackend.Close").Msg("closing database connection")
	return b.db.Close()
}

func scanEntries(rows *sql.Rows) ([]models.Entry, error) {
	defer rows.Close()

	entries := make([]models.Entry, 0, 50)
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(
			&e.ID,
			&e.LocalID,
			&e.Content,
			&e.EnergyLevel,
			&e.MoodLevel,
			&e.CreatedAt,
			&e.Latitude,
			&e.Longitude,
			&e.LocationName,
			&e.SyncedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}

func scanTags(rows *sql.Rows) ([]models.Tag, error) {
	defer rows.Close()

	tags := make([]models.Tag, 0, 20)
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		tags = append(tags, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return tags, nil
}

func scanEntryTagJoinRows(rows *sql.Rows) ([]models.EntryTagJoinRow, error) {
	defer rows.Close()

	joins := make([]models.EntryTagJoinRow, 0, 50)
	for rows.Next() {
		var row models.EntryTagJoinRow
		if err := rows.Scan(&row.EntryID, &row.Tag.ID, &row.Tag.Name, &row.Tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		joins = append(joins, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return joins, nil
}

func scanMedia(rows *sql.Rows) ([]models.Media, error) {
	defer rows.Close()

	media := make([]models.Media, 0, 10)
	for rows.Next() {
		var m models.Media
		if err := rows.Scan(
			&m.ID,
			&m.EntryID,
			&m.Type,
			&m.URI,
			&m.RemoteURL,
			&m.Duration,
			&m.CreatedAt,
			&m.SyncedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		media = append(media, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return media, nil
}
