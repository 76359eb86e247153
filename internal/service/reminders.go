package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/clock"
	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/repository"
)

// maxConcurrentReminders bounds the sessions processed at once.
const maxConcurrentReminders = 10

var errNoNotifier = errors.New("notifier not initialized")

// Reminders returns the reminder settings of the learner.
func (s *Session) Reminders() entities.ReminderSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remindersLocked()
}

func (s *Session) remindersLocked() entities.ReminderSettings {
	if s.st.reminder != nil {
		return *s.st.reminder
	}
	return entities.DefaultReminderSettings()
}

// SetReminders replaces the interval, the window and the enabled flag and
// reschedules the next reminder.
func (s *Session) SetReminders(ctx context.Context, r entities.ReminderSettings) (entities.ReminderSettings, error) {
	if err := r.Validate(); err != nil {
		return entities.ReminderSettings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == "" {
		return entities.ReminderSettings{}, ErrNoUser
	}
	now := s.tick(ctx)

	cur := s.remindersLocked()
	cur.Enabled = r.Enabled
	cur.IntervalHours = r.IntervalHours
	cur.StartHour = r.StartHour
	cur.EndHour = r.EndHour
	cur.NextSendAt = nil
	if cur.Enabled {
		next := cur.NextSend(now, s.loc)
		cur.NextSendAt = &next
	}

	s.st.reminder = &cur
	s.persist(ctx, repository.KeyReminders)

	s.logger.Info("reminders updated",
		zap.String("user_id", s.userID),
		zap.Bool("enabled", cur.Enabled),
		zap.Int("interval_hours", cur.IntervalHours),
	)
	return cur, nil
}

// SnoozeReminder enables reminders and postpones the next one to the next
// full hour.
func (s *Session) SnoozeReminder(ctx context.Context) entities.ReminderSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick(ctx)
	next := now.Truncate(time.Hour).Add(time.Hour)

	cur := s.remindersLocked()
	cur.Enabled = true
	cur.NextSendAt = &next
	s.st.reminder = &cur
	s.persist(ctx, repository.KeyReminders)
	return cur
}

// prepareReminder builds the reminder due at the current time. When one is
// due but there is nothing to suggest, the next one is rescheduled.
func (s *Session) prepareReminder(ctx context.Context) (entities.ReminderPayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick(ctx)
	loc := s.loc

	r := s.remindersLocked()
	if s.userID == "" || !r.Due(now, loc) {
		return entities.ReminderPayload{}, false
	}

	p, ok := s.reminderPayload(now, r.PreferredKind())
	if !ok {
		next := r.NextSend(now, loc)
		r.NextSendAt = &next
		s.st.reminder = &r
		s.persist(ctx, repository.KeyReminders)
		return entities.ReminderPayload{}, false
	}
	return p, true
}

// reminderPayload picks a word of the preferred kind, or of the other kind
// when there is none. The caller must hold s.mu.
func (s *Session) reminderPayload(now time.Time, prefer entities.ReminderKind) (entities.ReminderPayload, bool) {
	if s.st.plan == nil {
		return entities.ReminderPayload{}, false
	}

	loc := s.loc
	pool := s.pool()
	st := ComputeStats(pool, s.st.progress, s.st.plan, s.st.day, now, loc)
	today := TodayTask(pool, s.st.progress, s.st.plan, s.st.day)

	stats := entities.ReminderStats{
		DueCount:  st.DueCount,
		TodayLeft: len(today),
		Learned:   st.LearnedUnique,
		Remaining: st.Remaining,
	}
	if limit := s.st.plan.DailyLimit; limit > 0 {
		stats.DaysToComplete = (st.Remaining + limit - 1) / limit
	}

	candidates := map[entities.ReminderKind]*entities.Word{}
	if len(today) > 0 {
		candidates[entities.ReminderKindNew] = &today[0]
	}
	for _, w := range ReviewTask(pool, s.st.progress, ReviewScientific, now, clock.StartOfDay(now, loc)) {
		if r := s.st.progress[w.Word]; r != nil && r.IsDue(now) {
			candidates[entities.ReminderKindReview] = &w
			break
		}
	}

	other := entities.ReminderKindReview
	if prefer == entities.ReminderKindReview {
		other = entities.ReminderKindNew
	}
	for _, kind := range []entities.ReminderKind{prefer, other} {
		if w := candidates[kind]; w != nil {
			return entities.ReminderPayload{Kind: kind, Word: *w, Stats: stats}, true
		}
	}
	return entities.ReminderPayload{}, false
}

// markReminderSent records a delivered reminder and schedules the next one.
func (s *Session) markReminderSent(ctx context.Context, kind entities.ReminderKind) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	r := s.remindersLocked()
	next := r.NextSend(now, s.loc)

	r.LastSentAt = &now
	r.NextSendAt = &next
	r.LastKind = kind
	s.st.reminder = &r
	s.persist(ctx, repository.KeyReminders)
	return next
}

// ReminderService sends due study reminders to every known learner.
type ReminderService struct {
	registry *Registry
	store    Storage
	notifier ReminderNotifier
	loc      *time.Location
	spec     string
	logger   *zap.Logger
}

// NewReminderService creates a reminder service. An empty spec disables the
// periodic dispatch.
func NewReminderService(
	registry *Registry,
	store Storage,
	loc *time.Location,
	spec string,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		registry: registry,
		store:    store,
		loc:      loc,
		spec:     spec,
		logger:   logger,
	}
}

// SetNotifier sets the notifier (called after the delivery layer is created).
func (s *ReminderService) SetNotifier(n ReminderNotifier) {
	s.notifier = n
}

// Start schedules the dispatch and blocks until ctx is done.
func (s *ReminderService) Start(ctx context.Context) error {
	if s.spec == "" {
		s.logger.Info("reminders disabled")
		<-ctx.Done()
		return nil
	}

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.spec, func() {
		s.logger.Info("cron triggered: processing reminders")
		n := s.SendDueReminders(ctx)
		s.logger.Info("reminders processed", zap.Int("total_sent", n))
	}); err != nil {
		return fmt.Errorf("add reminder job: %w", err)
	}

	c.Start()
	s.logger.Info("reminder service started", zap.String("spec", s.spec))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")
	return nil
}

// SendDueReminders delivers every due reminder and returns how many were sent.
func (s *ReminderService) SendDueReminders(ctx context.Context) int {
	users, err := s.store.Users(ctx)
	if err != nil {
		s.logger.Error("failed to list users", zap.Error(err))
		return 0
	}

	sem := make(chan struct{}, maxConcurrentReminders)
	var wg sync.WaitGroup
	var sent atomic.Int64

	for _, userID := range users {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			ok, err := s.processReminder(ctx, userID)
			if err != nil {
				s.logger.Error("failed to process reminder",
					zap.String("user_id", userID),
					zap.Error(err),
				)
				return
			}
			if ok {
				sent.Add(1)
			}
		}()
	}

	wg.Wait()
	return int(sent.Load())
}

func (s *ReminderService) processReminder(ctx context.Context, userID string) (bool, error) {
	sess, err := s.registry.Get(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("get session: %w", err)
	}

	payload, ok := sess.prepareReminder(ctx)
	if !ok {
		s.logger.Debug("no reminder due", zap.String("user_id", userID))
		return false, nil
	}

	if s.notifier == nil {
		return false, errNoNotifier
	}
	if err = s.notifier.SendReminder(ctx, userID, payload); err != nil {
		return false, fmt.Errorf("send notification: %w", err)
	}

	next := sess.markReminderSent(ctx, payload.Kind)
	s.logger.Info("reminder sent",
		zap.String("user_id", userID),
		zap.String("kind", string(payload.Kind)),
		zap.String("word", payload.Word.Word),
		zap.Time("next_send_at", next),
	)
	return true, nil
}
