package config

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jonesrussell/mail-triage/internal/logger"
)

// Store owns the active classification snapshot. Readers call Active and
// get an immutable snapshot that stays coherent for as long as they hold
// it; the only writer is Reload/Apply, which swaps the pointer atomically
// after full validation. A rejected snapshot never disturbs the active one.
type Store struct {
	path string
	log  logger.Logger

	// mu serializes writers; readers only touch the atomic pointer.
	mu     sync.Mutex
	active atomic.Pointer[Snapshot]
}

// NewStore loads, validates, and activates the initial snapshot. With an
// empty path the built-in default snapshot is used.
func NewStore(path string, log logger.Logger) (*Store, error) {
	s := &Store{path: path, log: log}

	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("initial snapshot rejected: %w", err)
	}

	s.active.Store(snap)
	log.Info("snapshot activated",
		logger.String("version", snap.Version),
		logger.Bool("builtin", path == ""))
	return s, nil
}

// Active returns the current snapshot. Callers capture the reference once
// per classification and use it throughout; a concurrent reload never
// changes a captured snapshot.
func (s *Store) Active() *Snapshot {
	return s.active.Load()
}

// Reload re-reads the snapshot source, validates it, and atomically
// activates it. On any failure the active snapshot is left untouched and
// the error describes the rejection.
func (s *Store) Reload() (*Diff, error) {
	next, err := s.load()
	if err != nil {
		return nil, err
	}
	return s.Apply(next)
}

// Apply validates next and atomically activates it, returning a diff
// against the previously active snapshot.
func (s *Store) Apply(next *Snapshot) (*Diff, error) {
	if err := next.Validate(); err != nil {
		s.log.Error("snapshot rejected, keeping active version",
			logger.String("active_version", s.Active().Version),
			logger.Error(err))
		return nil, err
	}

	s.mu.Lock()
	prev := s.active.Load()
	s.active.Store(next)
	s.mu.Unlock()

	diff := Compare(prev, next)
	s.log.Info("snapshot reloaded",
		logger.String("old_version", diff.OldVersion),
		logger.String("new_version", diff.NewVersion),
		logger.Strings("changed", diff.Changed))
	return diff, nil
}

func (s *Store) load() (*Snapshot, error) {
	if s.path == "" {
		return DefaultSnapshot(), nil
	}
	return LoadSnapshot(s.path)
}
