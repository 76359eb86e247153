package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/service"
	"github.com/aliskhannn/wordplan/internal/storage"
)

// Sender is the part of *tgbotapi.BotAPI the handler uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type SessionProvider interface {
	Get(ctx context.Context, userID string) (*service.Session, error)
}

type ScoreService interface {
	Leaderboard(ctx context.Context, sess *service.Session) ([]entities.LeaderboardEntry, bool)
}

type BookLister interface {
	Books() []entities.Book
}

type TestRunStorage interface {
	Store(userID string, run *storage.TestRun)
	Get(userID string) (*storage.TestRun, bool)
	Delete(userID string)
}
