package service

import (
	"context"
	"encoding/binary"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/clock"
	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/repository"
)

// maxTestHistory bounds the stored test log.
const maxTestHistory = 200

// SavePlan applies a plan draft. When no plan exists or the book selection
// differs from the current one, the plan is reset: it gets a new identity and
// all progress, test history and day counters are wiped. Otherwise the draft
// is merged into the current plan. It reports whether a reset happened.
func (s *Session) SavePlan(ctx context.Context, d entities.PlanDraft) (reset bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == "" {
		return false, ErrNoUser
	}

	now := s.tick(ctx)

	if d.PlanMode == entities.PlanModeDays && d.DailyLimit == 0 && d.DaysTarget > 0 {
		d.DailyLimit = s.quotaForDays(d)
	}
	if err = d.Validate(); err != nil {
		return false, err
	}

	if s.st.plan != nil && s.st.plan.SameBooks(d.SelectedBooks) {
		s.st.plan.Merge(d)
		s.persist(ctx, repository.KeyPlan)
		s.logger.Info("plan updated",
			zap.String("user_id", s.userID),
			zap.String("plan_id", s.st.plan.ID),
		)
		return false, nil
	}

	id := uuid.New()
	seed := int64(binary.BigEndian.Uint64(id[:8]))

	s.st.plan = entities.NewPlan(id.String(), seed, d, now)
	s.st.progress = make(map[string]*entities.ProgressRecord)
	s.st.tests = []entities.TestRecord{}
	s.st.day = entities.NewDayState(clock.DayString(now, s.loc))

	s.persist(ctx, repository.KeyPlan, repository.KeyProgress, repository.KeyTests, repository.KeyDay)
	s.logger.Info("plan reset",
		zap.String("user_id", s.userID),
		zap.String("plan_id", s.st.plan.ID),
		zap.Strings("books", s.st.plan.SelectedBooks),
	)
	return true, nil
}

// quotaForDays spreads the pool of d evenly over its days target.
func (s *Session) quotaForDays(d entities.PlanDraft) int {
	books := make(map[string]struct{}, len(d.SelectedBooks))
	for _, id := range d.SelectedBooks {
		books[id] = struct{}{}
	}
	total := len(s.words.Pool(books))
	return max(1, (total+d.DaysTarget-1)/d.DaysTarget)
}

// AppendTestRecord adds an entry to the test history.
func (s *Session) AppendTestRecord(ctx context.Context, rec entities.TestRecord) entities.TestRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick(ctx)
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = now
	}
	rec.Mistakes = slices.Clone(rec.Mistakes)
	if rec.Mistakes == nil {
		rec.Mistakes = []string{}
	}

	s.st.tests = append(s.st.tests, rec)
	if len(s.st.tests) > maxTestHistory {
		s.st.tests = slices.Clone(s.st.tests[len(s.st.tests)-maxTestHistory:])
	}

	s.persist(ctx, repository.KeyTests)
	return rec
}

// TestHistory returns the test log, oldest first.
func (s *Session) TestHistory() []entities.TestRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.tests)
}
