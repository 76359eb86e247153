package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
)

const (
	defaultAvatarColor = "#4f46e5"
	leaderboardSize    = 50
)

// ErrRankingOffline is returned when no ranking client is configured.
var ErrRankingOffline = errors.New("ranking service not configured")

// fillerEntries pad the local ranking when the service cannot be reached.
var fillerEntries = []entities.LeaderboardEntry{
	{ID: "filler-1", Username: "Lexi", AvatarColor: "#f97316", Score: 320},
	{ID: "filler-2", Username: "Wordsmith", AvatarColor: "#10b981", Score: 210},
	{ID: "filler-3", Username: "Polyglot", AvatarColor: "#3b82f6", Score: 150},
	{ID: "filler-4", Username: "Bookworm", AvatarColor: "#ec4899", Score: 90},
	{ID: "filler-5", Username: "Rookie", AvatarColor: "#a855f7", Score: 25},
}

// ScoreService publishes derived scores and assembles the leaderboard.
type ScoreService struct {
	client RankingClient
	store  Storage
	logger *zap.Logger
}

// NewScoreService creates a ScoreService. client may be nil to run offline.
func NewScoreService(client RankingClient, store Storage, logger *zap.Logger) *ScoreService {
	return &ScoreService{
		client: client,
		store:  store,
		logger: logger,
	}
}

// Entry builds the leaderboard entry of the session's user.
func (s *ScoreService) Entry(sess *Session) entities.LeaderboardEntry {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.profileLocked().Entry(sess.st.learnedCount())
}

// SyncScore pushes the session's score to the ranking service. Failures are
// logged and reported as an error but never change local state.
func (s *ScoreService) SyncScore(ctx context.Context, sess *Session) error {
	if s.client == nil {
		return ErrRankingOffline
	}

	entry := s.Entry(sess)
	if entry.ID == "" {
		return ErrNoUser
	}

	if err := s.client.Sync(ctx, entry); err != nil {
		s.logger.Warn("score sync failed",
			zap.String("user_id", entry.ID),
			zap.Int("score", entry.Score),
			zap.Error(err),
		)
		return err
	}

	s.logger.Debug("score synced", zap.String("user_id", entry.ID), zap.Int("score", entry.Score))
	return nil
}

// Leaderboard syncs the session's score and returns the shared ranking. When
// either call fails or the ranking is empty it returns a local ranking
// instead, with fallback set. The local ranking is never sent to the service.
func (s *ScoreService) Leaderboard(ctx context.Context, sess *Session) (entries []entities.LeaderboardEntry, fallback bool) {
	var err error
	if sess != nil {
		err = s.SyncScore(ctx, sess)
	} else if s.client == nil {
		err = ErrRankingOffline
	}

	if err == nil {
		entries, err = s.client.Leaderboard(ctx)
		if err != nil {
			s.logger.Warn("leaderboard fetch failed", zap.Error(err))
		}
	}

	if err == nil && len(entries) > 0 {
		if len(entries) > leaderboardSize {
			entries = entries[:leaderboardSize]
		}
		return entries, false
	}

	return s.LocalLeaderboard(ctx, sess), true
}

// LocalLeaderboard ranks the locally known learners together with the
// filler entries.
func (s *ScoreService) LocalLeaderboard(ctx context.Context, sess *Session) []entities.LeaderboardEntry {
	byID := make(map[string]entities.LeaderboardEntry)

	users, err := s.store.Users(ctx)
	if err != nil {
		s.logger.Warn("failed to list local users", zap.Error(err))
	}
	for _, id := range users {
		st, err := loadState(ctx, s.store, id, s.logger)
		if err != nil {
			s.logger.Warn("failed to load local user", zap.String("user_id", id), zap.Error(err))
			continue
		}

		profile := entities.Profile{ID: id, Username: id, AvatarColor: defaultAvatarColor}
		if st.profile != nil {
			profile = *st.profile
			profile.ID = id
		}
		byID[id] = profile.Entry(st.learnedCount())
	}

	if sess != nil {
		if e := s.Entry(sess); e.ID != "" {
			byID[e.ID] = e
		}
	}

	entries := make([]entities.LeaderboardEntry, 0, len(byID)+len(fillerEntries))
	for _, e := range byID {
		entries = append(entries, e)
	}
	entries = append(entries, fillerEntries...)

	entities.SortEntries(entries)
	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	return entries
}
