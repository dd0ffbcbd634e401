package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/aretw0/lexfsm/pkg/domain"
)

// Store implements ports.DescriptionStore using an in-memory map.
type Store struct {
	mu           sync.RWMutex
	descriptions map[string][]byte
}

// NewStore creates a store seeded with the given descriptions (name -> source).
func NewStore(data map[string]string) *Store {
	descriptions := make(map[string][]byte, len(data))
	for k, v := range data {
		descriptions[k] = []byte(v)
	}
	return &Store{descriptions: descriptions}
}

// GetDescription retrieves the raw description stored under name.
func (s *Store) GetDescription(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.descriptions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDescriptionNotFound, name)
	}
	return slices.Clone(content), nil
}

// ListDescriptions returns all stored names.
func (s *Store) ListDescriptions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.descriptions))
	for k := range s.descriptions {
		names = append(names, k)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}

// SaveDescription stores a copy of data under name.
func (s *Store) SaveDescription(_ context.Context, name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("description name cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.descriptions[name] = slices.Clone(data)
	return nil
}

// DeleteDescription removes name from the store.
func (s *Store) DeleteDescription(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.descriptions, name)
	return nil
}
