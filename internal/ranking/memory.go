package ranking

import (
	"context"
	"sync"
	"time"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
)

type memoryRecord struct {
	entry     entities.LeaderboardEntry
	updatedAt time.Time
}

// MemoryStore keeps the leaderboard in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryRecord),
		now:     time.Now,
	}
}

func (s *MemoryStore) Upsert(_ context.Context, e entities.LeaderboardEntry) (entities.LeaderboardEntry, error) {
	if err := Validate(e); err != nil {
		return entities.LeaderboardEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.records[e.ID]; ok {
		e.Score = max(e.Score, prev.entry.Score)
	}
	s.records[e.ID] = memoryRecord{entry: e, updatedAt: s.now()}
	return e, nil
}

func (s *MemoryStore) Top(_ context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	s.mu.RLock()
	entries := make([]entities.LeaderboardEntry, 0, len(s.records))
	for _, r := range s.records {
		entries = append(entries, r.entry)
	}
	s.mu.RUnlock()

	entities.SortEntries(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
