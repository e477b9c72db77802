package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseLockScript deletes the lock only if we still own it.
const releaseLockScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// RedisBackend keeps one string key per collection. A GET or SET of a whole
// value is atomic, so readers need no lock to see either the old or the new
// document. Writers serialize on a SET NX lock key.
type RedisBackend struct {
	client      redis.Cmdable
	prefix      string
	lockTimeout time.Duration
	lockTTL     time.Duration
	newToken    func() string
}

type RedisOption func(*RedisBackend)

// WithLockTTL bounds how long a crashed writer can hold the lock.
func WithLockTTL(ttl time.Duration) RedisOption {
	return func(b *RedisBackend) { b.lockTTL = ttl }
}

func WithTokenSource(fn func() string) RedisOption {
	return func(b *RedisBackend) { b.newToken = fn }
}

func NewRedisBackend(client redis.Cmdable, prefix string, lockTimeout time.Duration, opts ...RedisOption) *RedisBackend {
	b := &RedisBackend{
		client:      client,
		prefix:      prefix,
		lockTimeout: lockTimeout,
		lockTTL:     30 * time.Second,
		newToken:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *RedisBackend) docKey(name string) string  { return b.prefix + "doc:" + name }
func (b *RedisBackend) lockKey(name string) string { return b.prefix + "lock:" + name }

func (b *RedisBackend) Read(ctx context.Context, name string) ([]byte, bool, error) {
	val, err := b.client.Get(ctx, b.docKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, ioErr("get", name, err)
	}
	return val, true, nil
}

func (b *RedisBackend) Write(ctx context.Context, name string, encode func() ([]byte, error)) error {
	return b.withLock(ctx, name, func() error {
		data, err := encode()
		if err != nil {
			return err
		}
		return b.set(ctx, name, data)
	})
}

func (b *RedisBackend) Modify(ctx context.Context, name string, fn func(current []byte) ([]byte, error)) error {
	return b.withLock(ctx, name, func() error {
		current, _, err := b.Read(ctx, name)
		if err != nil {
			return err
		}
		data, err := fn(current)
		if err != nil {
			return err
		}
		return b.set(ctx, name, data)
	})
}

func (b *RedisBackend) set(ctx context.Context, name string, data []byte) error {
	if err := b.client.Set(ctx, b.docKey(name), string(data), 0).Err(); err != nil {
		return ioErr("set", name, err)
	}
	return nil
}

func (b *RedisBackend) withLock(ctx context.Context, name string, body func() error) error {
	key := b.lockKey(name)
	token := b.newToken()

	err := waitLock(ctx, b.lockTimeout, func() (bool, error) {
		return b.client.SetNX(ctx, key, token, b.lockTTL).Result()
	})
	if err != nil {
		return lockErr(name, err)
	}
	// Release with a fresh context so a cancelled request still frees the lock.
	defer b.client.Eval(context.WithoutCancel(ctx), releaseLockScript, []string{key}, token)

	return body()
}
