package service

import (
	"context"

	"github.com/aliskhannn/wordplan/internal/clock"
	"github.com/aliskhannn/wordplan/internal/domain/entities"
)

// TodayTask returns the new words left for today.
func (s *Session) TodayTask(ctx context.Context) []entities.Word {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick(ctx)
	return TodayTask(s.pool(), s.st.progress, s.st.plan, s.st.day)
}

// FetchRawNewWords returns up to count new words regardless of the quota.
func (s *Session) FetchRawNewWords(ctx context.Context, count int) []entities.Word {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick(ctx)
	return NewWords(s.pool(), s.st.progress, s.st.plan, count)
}

// ReviewTask returns the words to review in mode.
func (s *Session) ReviewTask(ctx context.Context, mode ReviewMode) []entities.Word {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick(ctx)
	start := clock.StartOfDay(now, s.loc)
	return ReviewTask(s.pool(), s.st.progress, mode, now, start)
}

// MistakesList returns missed words matching filter.
func (s *Session) MistakesList(ctx context.Context, filter MistakeFilter) []Mistake {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick(ctx)
	return MistakesList(s.pool(), s.st.progress, s.st.day, filter)
}

// Stats returns the progress overview of the active plan.
func (s *Session) Stats(ctx context.Context) entities.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick(ctx)
	return ComputeStats(s.pool(), s.st.progress, s.st.plan, s.st.day, now, s.loc)
}
