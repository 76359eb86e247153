// Package storage keeps short-lived per-user state of the chat interface.
package storage

import (
	"sync"
	"time"

	"github.com/aliskhannn/wordplan/internal/service"
)

// TestRun is a multiple choice test in progress.
type TestRun struct {
	Scope     service.TestScope
	Questions []service.Question
	Index     int // current question
	Correct   int
	Mistakes  []string
	StartedAt time.Time
}

// Current returns the question being asked.
func (r *TestRun) Current() (service.Question, bool) {
	if r.Index >= len(r.Questions) {
		return service.Question{}, false
	}
	return r.Questions[r.Index], true
}

// Answer grades option against the current question and moves on.
func (r *TestRun) Answer(option int) (q service.Question, correct bool, ok bool) {
	q, ok = r.Current()
	if !ok {
		return q, false, false
	}

	correct = q.IsCorrect(option)
	if correct {
		r.Correct++
	} else {
		r.Mistakes = append(r.Mistakes, q.Word.Word)
	}
	r.Index++
	return q, correct, true
}

// Done reports whether every question was answered.
func (r *TestRun) Done() bool {
	return r.Index >= len(r.Questions)
}

// TestRunStorage provides in-memory storage for running tests by user ID.
type TestRunStorage struct {
	mu   sync.RWMutex
	runs map[string]*TestRun
}

// NewTestRunStorage creates a new TestRunStorage.
func NewTestRunStorage() *TestRunStorage {
	return &TestRunStorage{
		runs: make(map[string]*TestRun),
	}
}

// Store saves the run of a user, replacing any previous one.
func (s *TestRunStorage) Store(userID string, run *TestRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[userID] = run
}

// Get retrieves the run of a user.
func (s *TestRunStorage) Get(userID string) (*TestRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[userID]
	return run, ok
}

// Delete removes the run of a user.
func (s *TestRunStorage) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, userID)
}
