package docstore

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend keeps documents in process memory. Each collection has its own
// RWMutex so the shared/exclusive contract matches the file backend.
type MemoryBackend struct {
	mu          sync.Mutex
	docs        map[string][]byte
	locks       map[string]*sync.RWMutex
	lockTimeout time.Duration
}

func NewMemoryBackend(lockTimeout time.Duration) *MemoryBackend {
	return &MemoryBackend{
		docs:        make(map[string][]byte),
		locks:       make(map[string]*sync.RWMutex),
		lockTimeout: lockTimeout,
	}
}

func (b *MemoryBackend) lockFor(name string) *sync.RWMutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.locks[name]
	if !ok {
		l = &sync.RWMutex{}
		b.locks[name] = l
	}
	return l
}

func (b *MemoryBackend) get(name string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.docs[name]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

func (b *MemoryBackend) put(name string, data []byte) {
	stored := make([]byte, len(data))
	copy(stored, data)
	b.mu.Lock()
	b.docs[name] = stored
	b.mu.Unlock()
}

func (b *MemoryBackend) Read(ctx context.Context, name string) ([]byte, bool, error) {
	l := b.lockFor(name)
	if err := waitLock(ctx, b.lockTimeout, func() (bool, error) { return l.TryRLock(), nil }); err != nil {
		return nil, false, lockErr(name, err)
	}
	defer l.RUnlock()

	data, ok := b.get(name)
	return data, ok, nil
}

func (b *MemoryBackend) Write(ctx context.Context, name string, encode func() ([]byte, error)) error {
	return b.Modify(ctx, name, func([]byte) ([]byte, error) { return encode() })
}

func (b *MemoryBackend) Modify(ctx context.Context, name string, fn func(current []byte) ([]byte, error)) error {
	l := b.lockFor(name)
	if err := waitLock(ctx, b.lockTimeout, func() (bool, error) { return l.TryLock(), nil }); err != nil {
		return lockErr(name, err)
	}
	defer l.Unlock()

	current, _ := b.get(name)
	data, err := fn(current)
	if err != nil {
		return err
	}
	b.put(name, data)
	return nil
}

// Put seeds raw content, bypassing the codec. Used to simulate hand-edited documents.
func (b *MemoryBackend) Put(name string, data []byte) {
	b.put(name, data)
}
