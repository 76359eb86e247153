package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/service"
)

// buildLearnKeyboard builds the answer keyboard for a new word.
func buildLearnKeyboard(word string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ I know it", buildLearnCallback(entities.OutcomeKnow, word)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Don't know", buildLearnCallback(entities.OutcomeDontKnow, word)),
		),
	)
}

// buildReviewKeyboard builds the answer keyboard for a review word.
func buildReviewKeyboard(mode service.ReviewMode, word string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Remembered", buildReviewCallback(mode, entities.OutcomeKnow, word)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Forgot", buildReviewCallback(mode, entities.OutcomeDontKnow, word)),
		),
	)
}

// buildTestKeyboard builds one button per answer option.
func buildTestKeyboard(question int, q service.Question) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options))
	for i, opt := range q.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(truncate(opt, 60), buildTestAnswerCallback(question, i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildStatsKeyboard builds the keyboard shown after a finished session.
func buildStatsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My progress", buildStatsCallback()),
		),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// buildReminderKeyboard combines the answer buttons of the suggested word
// with reminder controls.
func buildReminderKeyboard(p entities.ReminderPayload) tgbotapi.InlineKeyboardMarkup {
	kb := buildLearnKeyboard(p.Word.Word)
	if p.Kind == entities.ReminderKindReview {
		kb = buildReviewKeyboard(service.ReviewScientific, p.Word.Word)
	}
	kb.InlineKeyboard = append(kb.InlineKeyboard, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⏰ Later", buildRemindCallback(remindSnooze)),
		tgbotapi.NewInlineKeyboardButtonData("🔕 Turn off", buildRemindCallback(remindOff)),
	))
	return kb
}
