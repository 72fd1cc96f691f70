// Package store implements the engine's object directory: a single
// reader/writer-locked mapping from Path to ObjectRef, consulted by the
// PreProcessor and PostProcessor threads only. The Executor never touches
// it; it walks the installed CompiledGraph instead.
package store

import (
	"sync"

	"github.com/sigflow/engine/pkg/block"
	"github.com/sigflow/engine/pkg/graph"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/port"
	"github.com/sigflow/engine/pkg/sigerr"
)

// ObjectRef is the closed set of things a Path can resolve to.
type ObjectRef struct {
	Graph *graph.Graph
	Block *block.Block
	Port  *port.Port
}

// Store is a mapping Path -> ObjectRef guarded by a single RWMutex, exactly
// as the teacher's plugin registry guards its ID -> entry map.
type Store struct {
	mu      sync.RWMutex
	entries map[string]ObjectRef
}

// New returns an empty Store.
func New() *Store {
	return &Store{entries: make(map[string]ObjectRef)}
}

// Find resolves p under a reader lock.
func (s *Store) Find(p path.Path) (ObjectRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.entries[p.String()]
	if !ok {
		return ObjectRef{}, sigerr.New(sigerr.KindNotFound, p.String(), "no object at path")
	}
	return ref, nil
}

// Add inserts ref at p under a writer lock. Returns Exists if p is already
// occupied.
func (s *Store) Add(p path.Path, ref ObjectRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := p.String()
	if _, ok := s.entries[key]; ok {
		return sigerr.New(sigerr.KindExists, key, "path already in use")
	}
	s.entries[key] = ref
	return nil
}

// Remove deletes and returns the entry at p, or NotFound.
func (s *Store) Remove(p path.Path) (ObjectRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := p.String()
	ref, ok := s.entries[key]
	if !ok {
		return ObjectRef{}, sigerr.New(sigerr.KindNotFound, key, "no object at path")
	}
	delete(s.entries, key)
	return ref, nil
}

// RemoveSubtree deletes every entry at or below prefix, returning the
// removed refs. Used by Delete (cascading).
func (s *Store) RemoveSubtree(prefix path.Path) []ObjectRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []ObjectRef
	for key, ref := range s.entries {
		p, err := path.Parse(key)
		if err != nil {
			continue
		}
		if p.HasPrefix(prefix) {
			removed = append(removed, ref)
			delete(s.entries, key)
		}
	}
	return removed
}

// Rename moves every entry at or below oldPrefix to the corresponding path
// under newPrefix. Returns Exists if newPrefix is already occupied.
func (s *Store) Rename(oldPrefix, newPrefix path.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	newKey := newPrefix.String()
	if _, ok := s.entries[newKey]; ok {
		return sigerr.New(sigerr.KindExists, newKey, "rename target already in use")
	}
	moved := make(map[string]ObjectRef)
	for key, ref := range s.entries {
		p, err := path.Parse(key)
		if err != nil {
			continue
		}
		if p.HasPrefix(oldPrefix) {
			moved[p.WithPrefix(oldPrefix, newPrefix).String()] = ref
			delete(s.entries, key)
		}
	}
	for key, ref := range moved {
		s.entries[key] = ref
	}
	return nil
}
