// Package docstore persists named collections as whole documents behind
// shared/exclusive locks. Readers share, writers exclude everyone, and every
// write replaces the full document.
package docstore

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"go.uber.org/zap"
)

// Backend is the raw byte storage behind a Store.
//
// Implementations must hold a shared lock for Read and an exclusive lock for
// Write and Modify, and must return errors from encode/fn unchanged without
// writing anything.
type Backend interface {
	// Read returns the stored bytes. found is false when the collection has
	// never been written.
	Read(ctx context.Context, name string) (data []byte, found bool, err error)
	// Write replaces the document. encode runs with the exclusive lock held.
	Write(ctx context.Context, name string, encode func() ([]byte, error)) error
	// Modify keeps the exclusive lock across read, fn and write.
	Modify(ctx context.Context, name string, fn func(current []byte) ([]byte, error)) error
}

// DocumentStore is what repositories depend on.
type DocumentStore interface {
	Load(ctx context.Context, name string) ([]Record, error)
	Save(ctx context.Context, name string, records []Record) error
	Update(ctx context.Context, name string, fn UpdateFunc) error
}

// UpdateFunc receives the current records and returns the replacement set.
// Returning an error aborts the update with nothing written.
type UpdateFunc func(records []Record) ([]Record, error)

var nameRe = regexp.MustCompile(`^[a-z0-9_-]+$`)

type Store struct {
	backend Backend
	logger  logger.ZapLogger
}

func New(backend Backend, log logger.ZapLogger) *Store {
	return &Store{backend: backend, logger: log}
}

func validateName(name string) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Load returns the collection. A collection that was never written is empty,
// not an error; malformed content is.
func (s *Store) Load(ctx context.Context, name string) ([]Record, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	data, found, err := s.backend.Read(ctx, name)
	if err != nil {
		s.logger.Error("failed to read collection", zap.String("collection", name), zap.Error(err))
		return nil, err
	}
	if !found {
		return []Record{}, nil
	}

	return s.decode(name, data)
}

// Save replaces the whole collection with records.
func (s *Store) Save(ctx context.Context, name string, records []Record) error {
	if err := validateName(name); err != nil {
		return err
	}

	err := s.backend.Write(ctx, name, func() ([]byte, error) {
		return encodeRecords(records)
	})
	if err != nil {
		s.logger.Error("failed to write collection", zap.String("collection", name), zap.Error(err))
		return err
	}
	return nil
}

// Update runs a read-modify-write cycle with the exclusive lock held throughout,
// so the decision fn makes cannot be invalidated by a concurrent writer.
func (s *Store) Update(ctx context.Context, name string, fn UpdateFunc) error {
	if err := validateName(name); err != nil {
		return err
	}

	var fnErr error
	err := s.backend.Modify(ctx, name, func(current []byte) ([]byte, error) {
		records, err := s.decode(name, current)
		if err != nil {
			return nil, err
		}
		next, err := fn(records)
		if err != nil {
			fnErr = err
			return nil, err
		}
		return encodeRecords(next)
	})
	if err != nil {
		if fnErr == nil {
			s.logger.Error("failed to update collection", zap.String("collection", name), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *Store) decode(name string, data []byte) ([]Record, error) {
	records, normalized, err := decodeRecords(data)
	if err != nil {
		s.logger.Error("collection content is malformed", zap.String("collection", name), zap.Error(err))
		return nil, err
	}
	if normalized {
		s.logger.Warn("collection content is not a sequence of records, discarded non-record values",
			zap.String("collection", name), zap.Int("bytes", len(data)))
	}
	return records, nil
}

const (
	minLockBackoff = 2 * time.Millisecond
	maxLockBackoff = 50 * time.Millisecond
)

// waitLock polls try until it reports the lock acquired. A zero timeout waits
// for as long as ctx allows.
func waitLock(ctx context.Context, timeout time.Duration, try func() (bool, error)) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	backoff := minLockBackoff
	for {
		ok, err := try()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLock, err)
		}
		if ok {
			return nil
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %w", ErrLockTimeout, ctx.Err())
		case <-timer.C:
		}

		if backoff < maxLockBackoff {
			backoff *= 2
		}
	}
}
