package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	defer h.answerCallback(cb.ID)

	if cb.Message == nil {
		return
	}

	sess, err := h.sessions.Get(ctx, userKey(cb.From.ID))
	if err != nil {
		h.logger.Error("failed to load session", zap.Int64("user_id", cb.From.ID), zap.Error(err))
		return
	}

	var (
		text string
		kb   *tgbotapi.InlineKeyboardMarkup
		ok   bool
	)

	data := decodeCallback(cb.Data)
	switch data.Action {
	case actionLearn:
		text, kb, ok = h.handleLearnCallback(ctx, sess, data)
	case actionReview:
		text, kb, ok = h.handleReviewCallback(ctx, sess, data)
	case actionTest:
		text, kb, ok = h.handleTestCallback(ctx, sess, data)
	case actionStats:
		text, ok = renderStats(sess.Stats(ctx)), true
	case actionRemind:
		text, ok = h.handleRemindCallback(ctx, sess, data)
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	if !ok {
		return
	}

	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		edit.ReplyMarkup = kb
	}

	h.send(edit)
}

// answerCallback removes the loading indicator on the button.
func (h *Handler) answerCallback(id string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, "")); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

func (h *Handler) handleLearnCallback(ctx context.Context, sess *service.Session, data callbackData) (string, *tgbotapi.InlineKeyboardMarkup, bool) {
	if len(data.Params) != 2 {
		return "", nil, false
	}
	outcome, err := entities.ParseOutcome(data.Params[0])
	if err != nil {
		return "", nil, false
	}
	word := data.Params[1]

	if _, err = sess.RecordLearnResult(ctx, word, outcome); err != nil {
		h.logger.Error("record learn result", zap.String("word", word), zap.Error(err))
		return "", nil, false
	}

	text, kb := h.nextLearnCard(ctx, sess, feedback(word, outcome))
	return text, &kb, true
}

func (h *Handler) handleReviewCallback(ctx context.Context, sess *service.Session, data callbackData) (string, *tgbotapi.InlineKeyboardMarkup, bool) {
	if len(data.Params) != 3 {
		return "", nil, false
	}
	mode, err := service.ParseReviewMode(data.Params[0])
	if err != nil {
		return "", nil, false
	}
	outcome, err := entities.ParseOutcome(data.Params[1])
	if err != nil {
		return "", nil, false
	}
	word := data.Params[2]

	if _, _, err = sess.RecordReviewResult(ctx, word, outcome); err != nil {
		h.logger.Error("record review result", zap.String("word", word), zap.Error(err))
		return "", nil, false
	}

	text, kb := h.reviewCard(ctx, sess, mode, word, feedback(word, outcome))
	return text, &kb, true
}

func (h *Handler) handleTestCallback(ctx context.Context, sess *service.Session, data callbackData) (string, *tgbotapi.InlineKeyboardMarkup, bool) {
	if len(data.Params) != 2 {
		return "", nil, false
	}
	index, err1 := strconv.Atoi(data.Params[0])
	option, err2 := strconv.Atoi(data.Params[1])
	if err1 != nil || err2 != nil {
		return "", nil, false
	}

	run, ok := h.tests.Get(sess.UserID())
	if !ok || run.Index != index {
		return msgTestExpired, nil, true
	}

	q, correct, ok := run.Answer(option)
	if !ok {
		return msgTestExpired, nil, true
	}
	if _, err := sess.RecordTestResult(ctx, q.Word.Word, correct); err != nil {
		h.logger.Error("record test result", zap.String("word", q.Word.Word), zap.Error(err))
	}

	prefix := "✅ Correct!\n\n"
	if !correct {
		prefix = fmt.Sprintf("❌ <b>%s</b> means: %s\n\n", esc(q.Word.Word), esc(q.Word.Meaning))
	}

	if !run.Done() {
		next, _ := run.Current()
		kb := buildTestKeyboard(run.Index, next)
		return prefix + renderQuestion(next, run.Index+1, len(run.Questions)), &kb, true
	}

	h.tests.Delete(sess.UserID())
	rec := sess.AppendTestRecord(ctx, entities.TestRecord{
		Scope:    string(run.Scope),
		Count:    len(run.Questions),
		Score:    run.Correct,
		Mistakes: run.Mistakes,
	})
	kb := buildStatsKeyboard()
	return prefix + renderTestResult(rec), &kb, true
}

func feedback(word string, outcome entities.Outcome) string {
	if outcome == entities.OutcomeKnow {
		return fmt.Sprintf("✅ <b>%s</b> scheduled for review.\n\n", esc(word))
	}
	return fmt.Sprintf("❌ <b>%s</b> added to today's mistakes.\n\n", esc(word))
}
