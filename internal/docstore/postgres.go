package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const (
	createDocumentsTable = `CREATE TABLE IF NOT EXISTS pos_documents (
    name TEXT PRIMARY KEY,
    body TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	selectDocumentShared    = `SELECT body FROM pos_documents WHERE name = $1 FOR SHARE`
	selectDocumentExclusive = `SELECT body FROM pos_documents WHERE name = $1 FOR UPDATE`
	ensureDocumentRow       = `INSERT INTO pos_documents (name, body) VALUES ($1, '') ON CONFLICT (name) DO NOTHING`
	updateDocumentBody      = `UPDATE pos_documents SET body = $2, updated_at = NOW() WHERE name = $1`

	// lock_not_available, raised when lock_timeout expires.
	pgLockNotAvailable = "55P03"
)

// PGBackend keeps one row per collection. Row locks provide the shared
// (FOR SHARE) and exclusive (FOR UPDATE) modes; lock_timeout bounds the wait.
type PGBackend struct {
	DB          *sqlx.DB
	lockTimeout time.Duration
}

func NewPGBackend(db *sqlx.DB, lockTimeout time.Duration) *PGBackend {
	return &PGBackend{DB: db, lockTimeout: lockTimeout}
}

func (b *PGBackend) EnsureSchema(ctx context.Context) error {
	if _, err := b.DB.ExecContext(ctx, createDocumentsTable); err != nil {
		return fmt.Errorf("%w: create documents table: %w", ErrIO, err)
	}
	return nil
}

func (b *PGBackend) Read(ctx context.Context, name string) ([]byte, bool, error) {
	var (
		body  string
		found = true
	)
	err := b.inTx(ctx, name, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &body, selectDocumentShared, name)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return []byte(body), found, nil
}

func (b *PGBackend) Write(ctx context.Context, name string, encode func() ([]byte, error)) error {
	return b.Modify(ctx, name, func([]byte) ([]byte, error) { return encode() })
}

func (b *PGBackend) Modify(ctx context.Context, name string, fn func(current []byte) ([]byte, error)) error {
	var fnErr error
	err := b.inTx(ctx, name, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, ensureDocumentRow, name); err != nil {
			return err
		}
		var body string
		if err := tx.GetContext(ctx, &body, selectDocumentExclusive, name); err != nil {
			return err
		}
		data, err := fn([]byte(body))
		if err != nil {
			fnErr = err
			return err
		}
		_, err = tx.ExecContext(ctx, updateDocumentBody, name, string(data))
		return err
	})
	if fnErr != nil {
		return fnErr
	}
	return err
}

func (b *PGBackend) inTx(ctx context.Context, name string, body func(tx *sqlx.Tx) error) error {
	tx, err := b.DB.BeginTxx(ctx, nil)
	if err != nil {
		return ioErr("begin", name, err)
	}
	defer tx.Rollback()

	if b.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", b.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return ioErr("set lock_timeout", name, err)
		}
	}

	if err := body(tx); err != nil {
		return b.classify(name, err)
	}
	if err := tx.Commit(); err != nil {
		return ioErr("commit", name, err)
	}
	return nil
}

func (b *PGBackend) classify(name string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
		return lockErr(name, fmt.Errorf("%w: %w", ErrLockTimeout, err))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return lockErr(name, fmt.Errorf("%w: %w", ErrLockTimeout, err))
	}
	// Errors produced by encode/fn pass through untouched.
	if errors.Is(err, ErrEncode) || errors.Is(err, ErrDecode) {
		return err
	}
	return ioErr("query", name, err)
}
