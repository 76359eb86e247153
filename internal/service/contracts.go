package service

import (
	"context"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/repository"
)

// Storage persists the documents of a learner.
type Storage interface {
	Load(ctx context.Context, userID string, key repository.Key) ([]byte, error)
	Save(ctx context.Context, userID string, key repository.Key, data []byte) error
	SaveAll(ctx context.Context, userID string, docs map[repository.Key][]byte) error
	Users(ctx context.Context) ([]string, error)
}

// WordSource provides the word pool of a set of books.
type WordSource interface {
	Pool(selected map[string]struct{}) []entities.Word
}

// RankingClient talks to the shared ranking service.
type RankingClient interface {
	Sync(ctx context.Context, entry entities.LeaderboardEntry) error
	Leaderboard(ctx context.Context) ([]entities.LeaderboardEntry, error)
}

// ReminderNotifier delivers a study reminder to a learner.
type ReminderNotifier interface {
	SendReminder(ctx context.Context, userID string, p entities.ReminderPayload) error
}
