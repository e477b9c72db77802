package docstore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// FileBackend stores each collection as <dir>/<name>.json guarded by flock(2).
// flock locks belong to the open file description, so two handles opened by
// goroutines of one process exclude each other just like separate processes.
type FileBackend struct {
	dir         string
	lockTimeout time.Duration
}

func NewFileBackend(dir string, lockTimeout time.Duration) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o775); err != nil {
		return nil, ioErr("create data dir", dir, err)
	}
	return &FileBackend{dir: dir, lockTimeout: lockTimeout}, nil
}

func (b *FileBackend) Path(name string) string {
	return filepath.Join(b.dir, name+".json")
}

func (b *FileBackend) Read(ctx context.Context, name string) ([]byte, bool, error) {
	f, err := os.Open(b.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, ioErr("open", name, err)
	}
	defer f.Close()

	if err := b.lock(ctx, f, unix.LOCK_SH); err != nil {
		return nil, false, lockErr(name, err)
	}
	data, err := io.ReadAll(f)
	// Released before the caller decodes.
	unlock(f)
	if err != nil {
		return nil, false, ioErr("read", name, err)
	}
	return data, true, nil
}

func (b *FileBackend) Write(ctx context.Context, name string, encode func() ([]byte, error)) error {
	return b.exclusive(ctx, name, os.O_WRONLY|os.O_CREATE, func(f *os.File) error {
		data, err := encode()
		if err != nil {
			return err
		}
		return replaceContents(f, name, data)
	})
}

func (b *FileBackend) Modify(ctx context.Context, name string, fn func(current []byte) ([]byte, error)) error {
	return b.exclusive(ctx, name, os.O_RDWR|os.O_CREATE, func(f *os.File) error {
		current, err := io.ReadAll(f)
		if err != nil {
			return ioErr("read", name, err)
		}
		data, err := fn(current)
		if err != nil {
			return err
		}
		return replaceContents(f, name, data)
	})
}

// exclusive opens without truncating and only truncates once the lock is held,
// so a concurrent reader never observes a half-written or empty document.
func (b *FileBackend) exclusive(ctx context.Context, name string, flag int, body func(f *os.File) error) error {
	f, err := os.OpenFile(b.Path(name), flag, 0o664)
	if err != nil {
		return ioErr("open", name, err)
	}
	defer f.Close()

	if err := b.lock(ctx, f, unix.LOCK_EX); err != nil {
		return lockErr(name, err)
	}
	defer unlock(f)

	return body(f)
}

func replaceContents(f *os.File, name string, data []byte) error {
	if err := f.Truncate(0); err != nil {
		return ioErr("truncate", name, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return ioErr("seek", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return ioErr("write", name, err)
	}
	if err := f.Sync(); err != nil {
		return ioErr("sync", name, err)
	}
	return nil
}

func (b *FileBackend) lock(ctx context.Context, f *os.File, how int) error {
	fd := int(f.Fd())
	return waitLock(ctx, b.lockTimeout, func() (bool, error) {
		err := unix.Flock(fd, how|unix.LOCK_NB)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, unix.EWOULDBLOCK), errors.Is(err, unix.EINTR):
			return false, nil
		default:
			return false, err
		}
	})
}

func unlock(f *os.File) {
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
