package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"github.com/ewalker114/lifelog/internal/config"
	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/migrations"
)

// NewSQLiteBackend opens (creating if necessary) the embedded database file
// and runs pending schema migrations synchronously. Any failure here means
// the process cannot proceed: the caller is expected to treat the returned
// [ErrStorageUnavailable] as fatal.
func NewSQLiteBackend(ctx context.Context, cfg config.ClientDB, log *logger.Logger) (Backend, error) {
	if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
		log.Err(err).Str("func", "NewSQLiteBackend").Msg("error creating database file")
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	conn, err := sql.Open("sqlite3", sqliteDSN(cfg.DSN))
	if err != nil {
		log.Err(err).Str("func", "NewSQLiteBackend").Msg("error connecting database")
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewSQLiteBackend").Msg("error connecting database (ping)")
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	log.Debug().Str("func", "NewSQLiteBackend").Msg("connected to database successfully")

	if err = migrations.MigrateSQLite(conn); err != nil {
		log.Err(err).Str("func", "NewSQLiteBackend").Msg("schema migration failed")
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return &sqlBackend{
		db:             conn,
		sb:             sq.StatementBuilder.PlaceholderFormat(sq.Question),
		tagNameMatch:   "name = ?",
		tagOrder:       "name",
		joinedTagOrder: "t.name",
		classify:       classifySQLiteError,
		logger:         log,
	}, nil
}

// sqliteDSN appends the foreign-key pragma so that cascade deletes work;
// SQLite ships with foreign key enforcement off per connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}

// classifySQLiteError maps a mattn/go-sqlite3 driver error to the constraint
// class it violated.
func classifySQLiteError(err error) ConstraintKind {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return KindNone
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return KindUniqueViolation
	case sqlite3.ErrConstraintForeignKey:
		return KindForeignKeyViolation
	case sqlite3.ErrConstraintCheck:
		return KindCheckViolation
	}

	return KindNone
}
