package service

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/clock"
)

// Registry keeps one Session per user, so every entry point that serves a
// user shares the same in-memory state.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	store  Storage
	words  WordSource
	clock  clock.Clock
	loc    *time.Location
	logger *zap.Logger
}

func NewRegistry(store Storage, words WordSource, clk clock.Clock, loc *time.Location, logger *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		store:    store,
		words:    words,
		clock:    clk,
		loc:      loc,
		logger:   logger,
	}
}

// Get returns the session of userID, loading it on first use.
func (r *Registry) Get(ctx context.Context, userID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[userID]; ok {
		return s, nil
	}

	s, err := OpenSession(ctx, userID, r.store, r.words, r.clock, r.loc, r.logger)
	if err != nil {
		return nil, err
	}
	r.sessions[userID] = s
	return s, nil
}

// Sessions returns the loaded sessions ordered by user id.
func (r *Registry) Sessions() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Session) int {
		return strings.Compare(a.UserID(), b.UserID())
	})
	return out
}

// Drop forgets the session of userID.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}
