package docstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func newFileStore(t *testing.T, timeout time.Duration) (*Store, *FileBackend) {
	t.Helper()
	backend, err := NewFileBackend(filepath.Join(t.TempDir(), "data"), timeout)
	require.NoError(t, err)
	return New(backend, logger.NewNop()), backend
}

func TestFileLoadMissingFile(t *testing.T) {
	store, backend := newFileStore(t, time.Second)

	got, err := store.Load(context.Background(), "products")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoFileExists(t, backend.Path("products"))
}

func TestFileSaveWritesReadableJSON(t *testing.T) {
	store, backend := newFileStore(t, time.Second)
	ctx := context.Background()

	records := []Record{{"name": "Kiri Bath / Milk Rice", "id": "SKU1", "price": json.Number("350")}}
	require.NoError(t, store.Save(ctx, "products", records))

	raw, err := os.ReadFile(backend.Path("products"))
	require.NoError(t, err)
	text := string(raw)
	assert.True(t, strings.HasPrefix(text, "[\n    {\n"))
	assert.Contains(t, text, `"Kiri Bath / Milk Rice"`)
	// keys are written in sorted order
	assert.Less(t, strings.Index(text, `"id"`), strings.Index(text, `"name"`))
	assert.Less(t, strings.Index(text, `"name"`), strings.Index(text, `"price"`))

	got, err := store.Load(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestFileSaveShrinksDocument(t *testing.T) {
	store, _ := newFileStore(t, time.Second)
	ctx := context.Background()

	big := make([]Record, 0, 50)
	for i := 0; i < 50; i++ {
		big = append(big, Record{"id": strings.Repeat("x", i+1)})
	}
	require.NoError(t, store.Save(ctx, "products", big))
	require.NoError(t, store.Save(ctx, "products", []Record{{"id": "only"}}))

	got, err := store.Load(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, []Record{{"id": "only"}}, got)
}

func TestFileMalformedContent(t *testing.T) {
	store, backend := newFileStore(t, time.Second)
	require.NoError(t, os.WriteFile(backend.Path("sales"), []byte(`[{"sale_id": `), 0o664))

	_, err := store.Load(context.Background(), "sales")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestFileExclusiveLockBlocksReaders(t *testing.T) {
	store, backend := newFileStore(t, 40*time.Millisecond)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "products", []Record{{"id": "a"}}))

	f, err := os.Open(backend.Path("products"))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, unix.Flock(int(f.Fd()), unix.LOCK_EX))

	_, err = store.Load(ctx, "products")
	assert.ErrorIs(t, err, ErrLockTimeout)

	require.NoError(t, unix.Flock(int(f.Fd()), unix.LOCK_UN))
	got, err := store.Load(ctx, "products")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFileSharedLockBlocksWritersButNotReaders(t *testing.T) {
	store, backend := newFileStore(t, 40*time.Millisecond)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "products", []Record{{"id": "a"}}))

	f, err := os.Open(backend.Path("products"))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, unix.Flock(int(f.Fd()), unix.LOCK_SH))

	_, err = store.Load(ctx, "products")
	assert.NoError(t, err)

	err = store.Save(ctx, "products", nil)
	assert.ErrorIs(t, err, ErrLockTimeout)

	// The failed save must not have truncated the document.
	require.NoError(t, unix.Flock(int(f.Fd()), unix.LOCK_UN))
	got, err := store.Load(ctx, "products")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFileUpdateNoLostUpdates(t *testing.T) {
	store, _ := newFileStore(t, 5*time.Second)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "products", []Record{{"id": "SKU1", "stock": json.Number("0")}}))

	const workers = 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Update(ctx, "products", func(records []Record) ([]Record, error) {
				n, err := records[0]["stock"].(json.Number).Int64()
				if err != nil {
					return nil, err
				}
				records[0]["stock"] = json.Number(jsonInt(n + 1))
				return records, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Load(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, json.Number("25"), got[0]["stock"])
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
