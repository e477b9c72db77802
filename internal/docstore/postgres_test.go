package docstore

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPGStore(t *testing.T) (*Store, *PGBackend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	backend := NewPGBackend(sqlx.NewDb(db, "pgx"), 2*time.Second)
	return New(backend, logger.NewNop()), backend, mock
}

const setLockTimeout = "SET LOCAL lock_timeout = '2000ms'"

func TestPGLoadMissingRow(t *testing.T) {
	store, _, mock := newPGStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(setLockTimeout)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(selectDocumentShared)).WithArgs("products").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))
	mock.ExpectCommit()

	got, err := store.Load(context.Background(), "products")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGLoadDecodes(t *testing.T) {
	store, _, mock := newPGStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(setLockTimeout)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(selectDocumentShared)).WithArgs("products").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(`[{"id":"SKU1"}]`))
	mock.ExpectCommit()

	got, err := store.Load(context.Background(), "products")
	require.NoError(t, err)
	assert.Equal(t, []Record{{"id": "SKU1"}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGSaveLocksRowForUpdate(t *testing.T) {
	store, _, mock := newPGStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(setLockTimeout)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(ensureDocumentRow)).WithArgs("sales").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectDocumentExclusive)).WithArgs("sales").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(""))
	mock.ExpectExec(regexp.QuoteMeta(updateDocumentBody)).WithArgs("sales", "[]\n").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Save(context.Background(), "sales", []Record{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGUpdateAbortRollsBack(t *testing.T) {
	store, _, mock := newPGStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(setLockTimeout)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(ensureDocumentRow)).WithArgs("sales").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(selectDocumentExclusive)).WithArgs("sales").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow("[]"))
	mock.ExpectRollback()

	boom := errors.New("duplicate")
	err := store.Update(context.Background(), "sales", func([]Record) ([]Record, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGLockNotAvailableIsLockTimeout(t *testing.T) {
	store, _, mock := newPGStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(setLockTimeout)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(selectDocumentShared)).WithArgs("products").
		WillReturnError(&pgconn.PgError{Code: pgLockNotAvailable, Message: "canceling statement due to lock timeout"})
	mock.ExpectRollback()

	_, err := store.Load(context.Background(), "products")
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGEnsureSchema(t *testing.T) {
	_, backend, mock := newPGStore(t)
	mock.ExpectExec(regexp.QuoteMeta(createDocumentsTable)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, backend.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
