package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Commands lists the bot commands shown in the Telegram menu.
var Commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start the bot"},
	{Command: "books", Description: "List available books"},
	{Command: "plan", Description: "Show or change your study plan"},
	{Command: "today", Description: "Learn today's new words"},
	{Command: "review", Description: "Review words (add 'today' for today's words only)"},
	{Command: "test", Description: "Take a test (today, mistakes or learned)"},
	{Command: "mistakes", Description: "List missed words (today, high-freq or all)"},
	{Command: "stats", Description: "Show your progress"},
	{Command: "top", Description: "Show the leaderboard"},
	{Command: "remind", Description: "Configure study reminders"},
	{Command: "help", Description: "Help"},
}

type Handler struct {
	bot      Sender
	logger   *zap.Logger
	sessions SessionProvider
	scores   ScoreService
	books    BookLister
	tests    TestRunStorage
}

func NewHandler(
	bot Sender,
	logger *zap.Logger,
	sessions SessionProvider,
	scores ScoreService,
	books BookLister,
	tests TestRunStorage,
) *Handler {
	return &Handler{
		bot:      bot,
		logger:   logger,
		sessions: sessions,
		scores:   scores,
		books:    books,
		tests:    tests,
	}
}

// Run handles updates until ctx is done.
func (h *Handler) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func userKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	if !update.Message.IsCommand() {
		h.send(newHTMLMessage(chatID, msgUnknownCommand))
		return
	}

	from := update.Message.From
	args := update.Message.CommandArguments()

	var fn HandlerFunc
	switch update.Message.Command() {
	case "start":
		fn = h.startHandler(from)
	case "help":
		fn = h.helpHandler()
	case "books":
		fn = h.booksHandler()
	case "plan":
		fn = h.planHandler(args)
	case "today":
		fn = h.todayHandler()
	case "review":
		fn = h.reviewHandler(args)
	case "test":
		fn = h.testHandler(args)
	case "mistakes":
		fn = h.mistakesHandler(args)
	case "stats":
		fn = h.statsHandler()
	case "top":
		fn = h.topHandler()
	case "remind":
		fn = h.remindHandler(args)
	default:
		h.send(newHTMLMessage(chatID, msgUnknownCommand))
		return
	}

	_ = h.withSession(fn)(ctx, chatID, from.ID)
}

func (h *Handler) sendError(chatID int64, text string) {
	h.send(newHTMLMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
