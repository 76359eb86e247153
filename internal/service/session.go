package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/clock"
	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/repository"
)

var (
	ErrNoUser    = errors.New("no active user")
	ErrEmptyWord = errors.New("empty word")
)

// Session owns the in-memory state of one learner. All methods are safe for
// concurrent use; mutations are applied in call order.
type Session struct {
	mu      sync.Mutex
	store   Storage
	words   WordSource
	clock   clock.Clock
	loc     *time.Location
	tracker *clock.DayTracker
	logger  *zap.Logger

	userID string
	st     *state
}

// NewSession creates a session without an active user.
func NewSession(store Storage, words WordSource, clk clock.Clock, loc *time.Location, logger *zap.Logger) *Session {
	tracker := clock.NewDayTracker(loc)
	return &Session{
		store:   store,
		words:   words,
		clock:   clk,
		loc:     tracker.Location(),
		tracker: tracker,
		logger:  logger,
		st:      emptyState(),
	}
}

// OpenSession creates a session and loads userID.
func OpenSession(
	ctx context.Context,
	userID string,
	store Storage,
	words WordSource,
	clk clock.Clock,
	loc *time.Location,
	logger *zap.Logger,
) (*Session, error) {
	s := NewSession(store, words, clk, loc, logger)
	if err := s.SwitchUser(ctx, userID); err != nil {
		return nil, err
	}
	return s, nil
}

// SwitchUser drops the in-memory state and reloads it for userID.
func (s *Session) SwitchUser(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrNoUser
	}

	st, err := loadState(ctx, s.store, userID, s.logger)
	if err != nil {
		return fmt.Errorf("switch user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.userID = userID
	s.st = st
	s.tracker = clock.NewDayTracker(s.loc)
	s.tick(ctx)

	s.logger.Debug("session loaded",
		zap.String("user_id", userID),
		zap.Bool("has_plan", st.plan != nil),
		zap.Int("records", len(st.progress)),
	)
	return nil
}

// UserID returns the active user.
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Location returns the time zone used for calendar days.
func (s *Session) Location() *time.Location {
	return s.loc
}

// tick reads the clock once and rolls the day over when the calendar day
// changed since the last observation. The caller must hold s.mu.
func (s *Session) tick(ctx context.Context) time.Time {
	now := s.clock.Now()
	if day, crossed := s.tracker.Observe(now); crossed {
		s.rollover(ctx, day)
	}
	return now
}

// rollover replaces stale day counters. Progress records are not touched.
func (s *Session) rollover(ctx context.Context, day string) bool {
	if s.st.day != nil && s.st.day.TodayDate == day {
		return false
	}

	prev := ""
	if s.st.day != nil {
		prev = s.st.day.TodayDate
	}
	s.st.day = entities.NewDayState(day)

	if s.userID != "" {
		s.logger.Info("day rollover",
			zap.String("user_id", s.userID),
			zap.String("from", prev),
			zap.String("to", day),
		)
		s.persist(ctx, repository.KeyDay)
	}
	return true
}

// Rollover checks the calendar day against the clock and resets the day
// counters when it changed. It reports whether a rollover happened.
func (s *Session) Rollover(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.tracker.Observe(now)
	return s.rollover(ctx, clock.DayString(now, s.loc))
}

// persist writes the given documents. Failures are logged, not returned:
// the in-memory state stays authoritative for the session.
func (s *Session) persist(ctx context.Context, keys ...repository.Key) {
	if s.userID == "" {
		return
	}

	docs, err := s.st.encode(keys...)
	if err == nil {
		err = s.store.SaveAll(ctx, s.userID, docs)
	}
	if err != nil {
		s.logger.Error("failed to persist state",
			zap.String("user_id", s.userID),
			zap.Any("keys", keys),
			zap.Error(err),
		)
	}
}

// pool returns the words of the active plan's books.
func (s *Session) pool() []entities.Word {
	if s.st.plan == nil {
		return nil
	}
	return s.words.Pool(s.st.plan.BookSet())
}

// Plan returns a copy of the active plan, or nil if none exists.
func (s *Session) Plan() *entities.PlanSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.plan == nil {
		return nil
	}
	p := *s.st.plan
	p.SelectedBooks = slices.Clone(p.SelectedBooks)
	return &p
}

// DayState returns a copy of today's counters.
func (s *Session) DayState(ctx context.Context) entities.DayState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick(ctx)
	d := *s.st.day
	d.TodayMistakes = slices.Clone(d.TodayMistakes)
	return d
}

// Progress returns a copy of the record of word.
func (s *Session) Progress(word string) (entities.ProgressRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.st.progress[word]
	if !ok {
		return entities.ProgressRecord{}, false
	}
	return *r, true
}

// ProgressSnapshot returns copies of all records.
func (s *Session) ProgressSnapshot() map[string]entities.ProgressRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]entities.ProgressRecord, len(s.st.progress))
	for k, r := range s.st.progress {
		out[k] = *r
	}
	return out
}

// Profile returns the public identity of the user.
func (s *Session) Profile() entities.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileLocked()
}

func (s *Session) profileLocked() entities.Profile {
	if s.st.profile != nil {
		return *s.st.profile
	}
	return entities.Profile{ID: s.userID, Username: s.userID, AvatarColor: defaultAvatarColor}
}

// SetProfile updates the public identity. The id always follows the user.
func (s *Session) SetProfile(ctx context.Context, p entities.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.userID
	if p.Username == "" {
		p.Username = s.userID
	}
	if p.AvatarColor == "" {
		p.AvatarColor = defaultAvatarColor
	}
	s.st.profile = &p
	s.persist(ctx, repository.KeyProfile)
}

// DerivedScore is the number of words that left the new status.
func (s *Session) DerivedScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.learnedCount()
}
