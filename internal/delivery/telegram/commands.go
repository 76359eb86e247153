package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/service"
	"github.com/aliskhannn/wordplan/internal/storage"
)

const testSize = 10

func (h *Handler) startHandler(from *tgbotapi.User) HandlerFunc {
	return func(ctx context.Context, chatID int64, sess *service.Session) error {
		name := from.UserName
		if name == "" {
			name = strings.TrimSpace(from.FirstName + " " + from.LastName)
		}

		profile := sess.Profile()
		profile.Username = name
		sess.SetProfile(ctx, profile)

		h.send(newHTMLMessage(chatID, fmt.Sprintf(msgWelcome, esc(name))))
		return nil
	}
}

func (h *Handler) helpHandler() HandlerFunc {
	return func(_ context.Context, chatID int64, _ *service.Session) error {
		h.send(newHTMLMessage(chatID, msgHelp))
		return nil
	}
}

func (h *Handler) booksHandler() HandlerFunc {
	return func(_ context.Context, chatID int64, _ *service.Session) error {
		h.send(newHTMLMessage(chatID, renderBooks(h.books.Books())))
		return nil
	}
}

func (h *Handler) planHandler(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64, sess *service.Session) error {
		if strings.TrimSpace(args) == "" {
			p := sess.Plan()
			if p == nil {
				return userError{msgNoPlan}
			}
			h.send(newHTMLMessage(chatID, renderPlan(p)))
			return nil
		}

		draft, err := parsePlanArgs(args, sess.Plan())
		if err != nil {
			return userError{msgPlanUsage}
		}

		reset, err := sess.SavePlan(ctx, draft)
		if err != nil {
			if errors.Is(err, entities.ErrInvalidPlan) {
				return userError{esc(err.Error())}
			}
			return err
		}

		text := renderPlan(sess.Plan())
		if reset {
			text += "\n\n🔄 A new plan was started, previous progress was cleared."
		}
		h.send(newHTMLMessage(chatID, text))
		return nil
	}
}

// parsePlanArgs parses "BOOKS LIMIT [ORDER]" or "BOOKS days=N [ORDER]".
// The learn order defaults to the current plan's, or alphabetical.
func parsePlanArgs(args string, current *entities.PlanSettings) (entities.PlanDraft, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 || len(fields) > 3 {
		return entities.PlanDraft{}, fmt.Errorf("expected 2 or 3 arguments, got %d", len(fields))
	}

	d := entities.PlanDraft{
		SelectedBooks: strings.Split(fields[0], ","),
		PlanMode:      entities.PlanModeCount,
		LearnOrder:    entities.LearnOrderAlphabetical,
	}
	if current != nil {
		d.LearnOrder = current.LearnOrder
	}

	if v, ok := strings.CutPrefix(fields[1], "days="); ok {
		days, err := strconv.Atoi(v)
		if err != nil {
			return d, fmt.Errorf("days: %w", err)
		}
		d.PlanMode = entities.PlanModeDays
		d.DaysTarget = days
	} else {
		limit, err := strconv.Atoi(fields[1])
		if err != nil {
			return d, fmt.Errorf("limit: %w", err)
		}
		d.DailyLimit = limit
	}

	if len(fields) == 3 {
		d.LearnOrder = entities.LearnOrder(fields[2])
	}
	return d, nil
}

func (h *Handler) todayHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64, sess *service.Session) error {
		if sess.Plan() == nil {
			return userError{msgNoPlan}
		}
		text, kb := h.nextLearnCard(ctx, sess, "")
		msg := newHTMLMessage(chatID, text)
		msg.ReplyMarkup = kb
		h.send(msg)
		return nil
	}
}

// nextLearnCard renders the first word of today's task.
func (h *Handler) nextLearnCard(ctx context.Context, sess *service.Session, prefix string) (string, tgbotapi.InlineKeyboardMarkup) {
	task := sess.TodayTask(ctx)
	if len(task) == 0 {
		return prefix + msgTodayDone, buildStatsKeyboard()
	}
	header := prefix + fmt.Sprintf("🆕 New word (%d left today)", len(task))
	return renderWord(task[0], header), buildLearnKeyboard(task[0].Word)
}

func (h *Handler) reviewHandler(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64, sess *service.Session) error {
		mode := service.ReviewScientific
		if a := strings.TrimSpace(args); a != "" {
			m, err := service.ParseReviewMode(a)
			if err != nil {
				return userError{"Usage: /review [scientific|today]"}
			}
			mode = m
		}

		text, kb := h.reviewCard(ctx, sess, mode, "", "")
		msg := newHTMLMessage(chatID, text)
		msg.ReplyMarkup = kb
		h.send(msg)
		return nil
	}
}

// reviewCard renders the review word that follows after in the current task.
func (h *Handler) reviewCard(ctx context.Context, sess *service.Session, mode service.ReviewMode, after, prefix string) (string, tgbotapi.InlineKeyboardMarkup) {
	task := sess.ReviewTask(ctx, mode)

	next := 0
	if after != "" {
		next = len(task)
		for i, w := range task {
			if w.Word == after {
				next = i + 1
				break
			}
		}
	}
	if next >= len(task) {
		return prefix + msgNoReviews, buildStatsKeyboard()
	}

	header := prefix + fmt.Sprintf("🔁 Review %d/%d", next+1, len(task))
	return renderWord(task[next], header), buildReviewKeyboard(mode, task[next].Word)
}

func (h *Handler) testHandler(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64, sess *service.Session) error {
		scope := service.ScopeLearned
		if a := strings.TrimSpace(args); a != "" {
			s, err := service.ParseTestScope(a)
			if err != nil {
				return userError{"Usage: /test [today|mistakes|learned]"}
			}
			scope = s
		}

		questions := sess.BuildTest(ctx, scope, testSize)
		if len(questions) == 0 {
			return userError{msgNoTestWords}
		}

		run := &storage.TestRun{Scope: scope, Questions: questions}
		h.tests.Store(sess.UserID(), run)

		q, _ := run.Current()
		msg := newHTMLMessage(chatID, renderQuestion(q, 1, len(questions)))
		msg.ReplyMarkup = buildTestKeyboard(0, q)
		h.send(msg)
		return nil
	}
}

func (h *Handler) mistakesHandler(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64, sess *service.Session) error {
		filter := service.MistakesAll
		if a := strings.TrimSpace(args); a != "" {
			f, err := service.ParseMistakeFilter(a)
			if err != nil {
				return userError{"Usage: /mistakes [today|high-freq|all]"}
			}
			filter = f
		}

		h.send(newHTMLMessage(chatID, renderMistakes(sess.MistakesList(ctx, filter), filter)))
		return nil
	}
}

func (h *Handler) statsHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64, sess *service.Session) error {
		if sess.Plan() == nil {
			return userError{msgNoPlan}
		}
		h.send(newHTMLMessage(chatID, renderStats(sess.Stats(ctx))))
		return nil
	}
}

func (h *Handler) topHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64, sess *service.Session) error {
		entries, offline := h.scores.Leaderboard(ctx, sess)
		h.send(newHTMLMessage(chatID, renderLeaderboard(entries, sess.UserID(), offline)))
		return nil
	}
}
