package registry

import (
	stderrors "errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrLocked reports that another process holds the registry lock.
var ErrLocked = stderrors.New("registry is locked by another process")

// Lock is an advisory flock(2) held on "<registry>.lock".
type Lock struct {
	f *os.File
}

// Lock takes an exclusive advisory lock scoped to this registry. It blocks
// until concurrent holders release theirs. Locking is opt-in: callers that
// do not lock are not excluded.
func (s *Store) Lock() (*Lock, error) {
	path := s.Path + ".lock"
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	return &Lock{f: f}, nil
}

// TryLock is Lock without blocking. It returns an error wrapping
// ErrLocked if another holder exists.
func (s *Store) TryLock() (*Lock, error) {
	path := s.Path + ".lock"
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, fmt.Errorf("%s: %w", s.Path, ErrLocked)
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	return &Lock{f: f}, nil
}

// Unlock releases the lock.
func (l *Lock) Unlock() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f = nil
	return err
}
