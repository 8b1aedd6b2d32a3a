package state

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Backend reads and writes the whole key→fingerprint mapping.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string
	// Load returns the persisted mapping. A missing document is an empty mapping.
	Load(ctx context.Context) (map[string]string, error)
	// Store replaces the persisted mapping with entries.
	Store(ctx context.Context, entries map[string]string) error
}

// Store is the single owner of sync state. It loads lazily, at most once per
// process, and flushes the whole mapping on Save.
type Store struct {
	backend Backend

	loaded atomic.Bool
	sf     singleflight.Group

	mu      sync.RWMutex
	entries map[string]string
}

// NewStore creates a store on top of backend.
func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		entries: make(map[string]string),
	}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Load reads durable state once. Concurrent first callers share a single load;
// a failed load is retried by the next caller.
func (s *Store) Load(ctx context.Context) error {
	if s.loaded.Load() {
		return nil
	}

	_, err, _ := s.sf.Do("load", func() (interface{}, error) {
		// Double-check after acquiring singleflight
		if s.loaded.Load() {
			return nil, nil
		}

		entries, err := s.backend.Load(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		// Keep anything set before the load landed.
		merged := make(map[string]string, len(entries)+len(s.entries))
		maps.Copy(merged, entries)
		maps.Copy(merged, s.entries)
		s.entries = merged
		s.mu.Unlock()

		s.loaded.Store(true)
		return nil, nil
	})
	return err
}

// GetFingerprint returns the stored fingerprint for key, loading state first if needed.
func (s *Store) GetFingerprint(ctx context.Context, key string) (string, bool, error) {
	if err := s.Load(ctx); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	fp, ok := s.entries[key]
	return fp, ok, nil
}

// SetFingerprint records fp for key in memory. It is durable only after Save.
func (s *Store) SetFingerprint(key, fp string) {
	s.mu.Lock()
	s.entries[key] = fp
	s.mu.Unlock()
}

// Forget drops key so the member is pushed again next cycle.
// It reports whether the key was present.
func (s *Store) Forget(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	delete(s.entries, key)
	return ok
}

// Clear drops every entry, forcing a full re-sync.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]string)
	s.mu.Unlock()
}

// Snapshot returns a copy of the in-memory mapping.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.entries)
}

// Len returns the number of entries in memory.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Save writes the whole mapping. It is safe to call with no pending changes.
// Saving before the first load would overwrite state that was never read, so it
// loads first.
func (s *Store) Save(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	return s.backend.Store(ctx, s.Snapshot())
}
