package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/repository"
)

// RecordLearnResult applies a learn answer to word. The first learn of a word
// counts towards today's quota; repeated learns do not.
func (s *Session) RecordLearnResult(ctx context.Context, word string, outcome entities.Outcome) (entities.ProgressRecord, error) {
	if word == "" {
		return entities.ProgressRecord{}, ErrEmptyWord
	}
	if !outcome.Valid() {
		return entities.ProgressRecord{}, fmt.Errorf("record learn result: %w: %q", entities.ErrUnknownOutcome, outcome)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick(ctx)

	rec, ok := s.st.progress[word]
	if !ok {
		rec = entities.NewProgressRecord()
		s.st.progress[word] = rec
	}

	if rec.Learn(outcome, now) {
		s.st.day.TodayLearnedCount++
	}
	if outcome == entities.OutcomeDontKnow {
		s.st.day.AddMistake(word)
	}

	s.persist(ctx, repository.KeyProgress, repository.KeyDay)
	return *rec, nil
}

// RecordReviewResult applies a review answer to a learned word. Words without
// a learned record are ignored and reported with ok = false.
func (s *Session) RecordReviewResult(ctx context.Context, word string, outcome entities.Outcome) (rec entities.ProgressRecord, ok bool, err error) {
	if !outcome.Valid() {
		return rec, false, fmt.Errorf("record review result: %w: %q", entities.ErrUnknownOutcome, outcome)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick(ctx)

	r, exists := s.st.progress[word]
	if !exists || !r.Review(outcome, now) {
		s.logger.Debug("review of unlearned word ignored",
			zap.String("user_id", s.userID),
			zap.String("word", word),
		)
		return rec, false, nil
	}

	keys := []repository.Key{repository.KeyProgress}
	if outcome == entities.OutcomeDontKnow {
		s.st.day.AddMistake(word)
		keys = append(keys, repository.KeyDay)
	}

	s.persist(ctx, keys...)
	return *r, true, nil
}

// RecordTestResult applies a test answer. Correct answers change nothing; a
// wrong answer regresses the word by one stage and marks it as a mistake.
func (s *Session) RecordTestResult(ctx context.Context, word string, correct bool) (entities.ProgressRecord, error) {
	if word == "" {
		return entities.ProgressRecord{}, ErrEmptyWord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick(ctx)

	rec, ok := s.st.progress[word]
	if correct {
		if ok {
			return *rec, nil
		}
		return *entities.NewProgressRecord(), nil
	}

	if !ok {
		rec = entities.NewProgressRecord()
		s.st.progress[word] = rec
	}
	rec.Test(false, now)
	s.st.day.AddMistake(word)

	s.persist(ctx, repository.KeyProgress, repository.KeyDay)
	return *rec, nil
}
