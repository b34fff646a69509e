package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/models"
)

func pgError(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code}
}

func TestClassifyPostgresError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ConstraintKind
	}{
		{"unique", pgError(pgerrcode.UniqueViolation), KindUniqueViolation},
		{"foreign key", pgError(pgerrcode.ForeignKeyViolation), KindForeignKeyViolation},
		{"check", pgError(pgerrcode.CheckViolation), KindCheckViolation},
		{"not null", pgError(pgerrcode.NotNullViolation), KindCheckViolation},
		{"connection failure", pgError(pgerrcode.ConnectionFailure), KindNone},
		{"not a driver error", context.Canceled, KindNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyPostgresError(tt.err))
		})
	}
}

func TestPostgresBackend_SaveTag_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	backend := NewPostgresBackendFromDB(db, logger.Nop())

	mock.ExpectQuery("INSERT INTO tags").
		WithArgs("Work", sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	tag := &models.Tag{Name: "Work", CreatedAt: time.Now().UTC()}
	err = backend.SaveTag(context.Background(), tag)
	assert.ErrorIs(t, err, ErrDuplicateTagName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_SaveTag_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	backend := NewPostgresBackendFromDB(db, logger.Nop())

	mock.ExpectQuery("INSERT INTO tags").
		WithArgs("Work", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	tag := &models.Tag{Name: "Work", CreatedAt: time.Now().UTC()}
	require.NoError(t, backend.SaveTag(context.Background(), tag))
	assert.Equal(t, int64(7), tag.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_SaveEntry_ForeignKeyMapsToTagNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	backend := NewPostgresBackendFromDB(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO entries").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec("INSERT INTO entry_tags").
		WillReturnError(pgError(pgerrcode.ForeignKeyViolation))
	mock.ExpectRollback()

	entry := &models.Entry{LocalID: "local-1", CreatedAt: time.Now().UTC()}
	err = backend.SaveEntry(context.Background(), entry, []int64{99})
	assert.ErrorIs(t, err, ErrTagNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_DeleteEntry_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	backend := NewPostgresBackendFromDB(db, logger.Nop())

	mock.ExpectExec("DELETE FROM entries").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = backend.DeleteEntry(context.Background(), 5)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_SnapshotTxOptions(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	b, ok := NewPostgresBackendFromDB(db, logger.Nop()).(*sqlBackend)
	require.True(t, ok)

	// Under READ COMMITTED every statement takes a fresh snapshot, so the
	// entries query and the junction query could observe different states.
	require.NotNil(t, b.snapshotTxOpts)
	assert.Equal(t, sql.LevelRepeatableRead, b.snapshotTxOpts.Isolation)
	assert.True(t, b.snapshotTxOpts.ReadOnly)
}

func TestPostgresBackend_FindTagByName_LowerMatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	backend := NewPostgresBackendFromDB(db, logger.Nop())

	created := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, name, created_at FROM tags WHERE lower\(name\) = lower\(\$1\)`).
		WithArgs("WORK").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow(int64(3), "Work", created))

	tag, err := backend.FindTagByName(context.Background(), "WORK")
	require.NoError(t, err)
	assert.Equal(t, int64(3), tag.ID)
	assert.Equal(t, "Work", tag.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
