package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ewalker114/lifelog/internal/config"
	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/migrations"
)

// NewPostgresBackend connects to the server-side PostgreSQL database and runs
// pending schema migrations.
func NewPostgresBackend(ctx context.Context, cfg config.ServerDB, log *logger.Logger) (Backend, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewPostgresBackend").Msg("error occured during database connection")
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewPostgresBackend").Msg("error connecting database (ping)")
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	log.Info().Str("func", "NewPostgresBackend").Msg("connected to database successfully")

	if err = migrations.MigratePostgres(conn); err != nil {
		log.Err(err).Str("func", "NewPostgresBackend").Msg("schema migration failed")
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return NewPostgresBackendFromDB(conn, log), nil
}

// NewPostgresBackendFromDB wraps an already-open connection. Used by tests
// that drive the backend against a sqlmock connection.
func NewPostgresBackendFromDB(conn *sql.DB, log *logger.Logger) Backend {
	return &sqlBackend{
		db:             conn,
		sb:             sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		tagNameMatch:   "lower(name) = lower(?)",
		tagOrder:       "lower(name)",
		joinedTagOrder: "lower(t.name)",
		classify:       classifyPostgresError,
		snapshotTxOpts: &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true},
		logger:         log,
	}
}

// classifyPostgresError maps a pgx driver error to the constraint class it
// violated.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html for the
// full list of PostgreSQL error codes.
func classifyPostgresError(err error) ConstraintKind {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return KindNone
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return KindUniqueViolation
	case pgerrcode.ForeignKeyViolation:
		return KindForeignKeyViolation
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return KindCheckViolation
	}

	return KindNone
}
