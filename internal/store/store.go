// Package store keeps processed snapshots in memory. Snapshots are immutable
// once added; the store only hands out pointers and never mutates them.
package store

import (
	"sort"
	"sync"

	"tagview-api/pkg/engine"
)

// Store is a concurrency-safe snapshot registry with sequential IDs.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	snaps  map[int64]*engine.Snapshot
}

func New() *Store {
	return &Store{
		nextID: 1,
		snaps:  make(map[int64]*engine.Snapshot),
	}
}

// Add registers a snapshot and assigns its ID.
func (s *Store) Add(snap *engine.Snapshot) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap.ID = s.nextID
	s.nextID++
	s.snaps[snap.ID] = snap
	return snap.ID
}

// Get returns the snapshot with the given ID.
func (s *Store) Get(id int64) (*engine.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snaps[id]
	return snap, ok
}

// Latest returns the most recently added snapshot.
func (s *Store) Latest() (*engine.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *engine.Snapshot
	for _, snap := range s.snaps {
		if latest == nil || snap.ID > latest.ID {
			latest = snap
		}
	}
	return latest, latest != nil
}

// List returns all snapshots ordered by ID.
func (s *Store) List() []*engine.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*engine.Snapshot, 0, len(s.snaps))
	for _, snap := range s.snaps {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Delete removes the snapshot with the given ID, reporting whether it existed.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snaps[id]; !ok {
		return false
	}
	delete(s.snaps, id)
	return true
}

// Len returns the number of stored snapshots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snaps)
}
