package docstore

import (
	"errors"
	"fmt"
)

var (
	ErrIO          = errors.New("document io failure")
	ErrLock        = errors.New("document lock failure")
	ErrLockTimeout = fmt.Errorf("%w: timed out waiting for lock", ErrLock)
	ErrDecode      = errors.New("document decode failure")
	ErrEncode      = errors.New("document encode failure")
	ErrInvalidName = errors.New("invalid collection name")
)

func ioErr(op, name string, err error) error {
	return fmt.Errorf("%w: %s %q: %w", ErrIO, op, name, err)
}

func lockErr(name string, err error) error {
	if errors.Is(err, ErrLock) {
		return fmt.Errorf("collection %q: %w", name, err)
	}
	return fmt.Errorf("%w: collection %q: %w", ErrLock, name, err)
}
