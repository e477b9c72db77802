package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newMemoryStore(t *testing.T) (*Store, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend(time.Second)
	return New(backend, logger.NewNop()), backend
}

func TestLoadNeverCreatedCollectionIsEmpty(t *testing.T) {
	store, _ := newMemoryStore(t)

	records, err := store.Load(context.Background(), "products")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := newMemoryStore(t)
	ctx := context.Background()

	records := []Record{
		{"id": "SKU1", "name": "Kiri Bath ක", "price": json.Number("350.5"), "stock": json.Number("10")},
		{"id": "SKU2", "name": "Bread", "tags": []any{"bakery", "fresh"}, "meta": map[string]any{"aisle": json.Number("3")}},
	}
	require.NoError(t, store.Save(ctx, "products", records))

	got, err := store.Load(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestSaveEmptySequenceRoundTrip(t *testing.T) {
	store, _ := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sales", nil))
	got, err := store.Load(ctx, "sales")
	require.NoError(t, err)
	assert.Equal(t, []Record{}, got)
}

func TestLoadEmptyContent(t *testing.T) {
	store, backend := newMemoryStore(t)
	backend.Put("products", []byte("  \n"))

	got, err := store.Load(context.Background(), "products")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadNonSequenceIsNormalizedAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	backend := NewMemoryBackend(time.Second)
	store := New(backend, logger.Wrap(zap.New(core)))

	for _, content := range []string{`null`, `{"id":"SKU1"}`, `42`, `"text"`} {
		backend.Put("products", []byte(content))
		got, err := store.Load(context.Background(), "products")
		require.NoError(t, err, content)
		assert.Empty(t, got, content)
	}
	assert.Equal(t, 4, logs.FilterField(zap.String("collection", "products")).Len())
}

func TestLoadMalformedIsDecodeFailure(t *testing.T) {
	store, backend := newMemoryStore(t)

	for _, content := range []string{`[{"id":`, `[{"id":"a"}] trailing`, `not json`} {
		backend.Put("products", []byte(content))
		_, err := store.Load(context.Background(), "products")
		assert.ErrorIs(t, err, ErrDecode, content)
	}
}

func TestSaveUnencodableRecordIsEncodeFailure(t *testing.T) {
	store, _ := newMemoryStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "products", []Record{{"id": "keep"}}))

	err := store.Save(ctx, "products", []Record{{"id": "bad", "ch": make(chan int)}})
	require.ErrorIs(t, err, ErrEncode)

	got, err := store.Load(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, []Record{{"id": "keep"}}, got)
}

func TestInvalidCollectionName(t *testing.T) {
	store, _ := newMemoryStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, store.Save(ctx, "Products", nil), ErrInvalidName)
}

func TestUpdateAbortWritesNothing(t *testing.T) {
	store, _ := newMemoryStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "products", []Record{{"id": "a"}}))

	boom := errors.New("boom")
	err := store.Update(ctx, "products", func(records []Record) ([]Record, error) {
		return append(records, Record{"id": "b"}), boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Load(ctx, "products")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestUpdateSerializesConcurrentWriters(t *testing.T) {
	store, _ := newMemoryStore(t)
	ctx := context.Background()

	const writers = 40
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.Update(ctx, "sales", func(records []Record) ([]Record, error) {
				return append(records, Record{"sale_id": fmt.Sprintf("s-%d", i)}), nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := store.Load(ctx, "sales")
	require.NoError(t, err)
	assert.Len(t, got, writers)
}

func TestMemoryExclusiveLockTimesOut(t *testing.T) {
	backend := NewMemoryBackend(30 * time.Millisecond)
	store := New(backend, logger.NewNop())
	ctx := context.Background()

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = store.Update(ctx, "products", func(records []Record) ([]Record, error) {
			close(held)
			<-release
			return records, nil
		})
	}()
	<-held

	_, err := store.Load(ctx, "products")
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.ErrorIs(t, err, ErrLock)

	err = store.Save(ctx, "products", nil)
	assert.ErrorIs(t, err, ErrLockTimeout)
	close(release)
}

func TestSharedLocksCoexist(t *testing.T) {
	backend := NewMemoryBackend(30 * time.Millisecond)
	l := backend.lockFor("products")
	l.RLock()
	defer l.RUnlock()

	_, _, err := backend.Read(context.Background(), "products")
	assert.NoError(t, err)
}

func TestWaitLockHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := waitLock(ctx, 0, func() (bool, error) { return false, nil })
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.ErrorIs(t, err, context.Canceled)
}
