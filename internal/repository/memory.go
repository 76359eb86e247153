package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[Key][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]map[Key][]byte),
	}
}

// Load returns a copy of the stored document.
func (s *MemoryStore) Load(_ context.Context, userID string, key Key) ([]byte, error) {
	if err := checkArgs(userID, key); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[userID][key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(data), nil
}

// Save stores a copy of data.
func (s *MemoryStore) Save(ctx context.Context, userID string, key Key, data []byte) error {
	return s.SaveAll(ctx, userID, map[Key][]byte{key: data})
}

// SaveAll stores all documents under one lock.
func (s *MemoryStore) SaveAll(_ context.Context, userID string, docs map[Key][]byte) error {
	for key := range docs {
		if err := checkArgs(userID, key); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.docs[userID]
	if !ok {
		user = make(map[Key][]byte)
		s.docs[userID] = user
	}
	for key, data := range docs {
		user[key] = slices.Clone(data)
	}
	return nil
}

// Users returns the ids of all users with at least one document, sorted.
func (s *MemoryStore) Users(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.docs))
	for id := range s.docs {
		users = append(users, id)
	}
	slices.Sort(users)
	return users, nil
}
