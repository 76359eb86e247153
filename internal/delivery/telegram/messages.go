// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/service"
)

const (
	msgWelcome = "👋 Welcome, <b>%s</b>!\n\nPick books with /books and create a plan with /plan. " +
		"Then learn new words with /today and keep them fresh with /review."
	msgHelp = "<b>Commands</b>\n" +
		"/books — available books\n" +
		"/plan BOOKS LIMIT [alphabetical|random] — e.g. <code>/plan cet4,cet6 20 random</code>\n" +
		"/plan BOOKS days=N — finish the books in N days\n" +
		"/today — learn today's new words\n" +
		"/review [today] — review due words\n" +
		"/test [today|mistakes|learned] — take a test\n" +
		"/mistakes [today|high-freq|all] — missed words\n" +
		"/stats — your progress\n" +
		"/top — leaderboard\n" +
		"/remind [on|off|every N|window 8-20] — study reminders"
	msgUnknownCommand = "Unknown command. Send /help for the list of commands."
	msgInternalError  = "Something went wrong. Please try again later."
	msgNoPlan         = "You have no study plan yet. Create one with /plan, see /help."
	msgNoBooks        = "No books are available."
	msgTodayDone      = "🎉 You are done with today's new words. Use /review to reinforce them."
	msgNoReviews      = "Nothing to review right now."
	msgNoMistakes     = "No mistakes here. 👍"
	msgNoTestWords    = "There are no words to test yet. Learn some with /today first."
	msgTestExpired    = "This test is no longer active. Start a new one with /test."
	msgRemindUsage    = "Usage: <code>/remind on</code>, <code>/remind off</code>, <code>/remind every 3</code> or <code>/remind window 8-20</code>"
	msgSnoozed        = "⏰ Snoozed, the next reminder comes in about an hour."
	msgRemindersOff   = "🔕 Reminders are off. Turn them back on with /remind on."
	msgPlanUsage      = "Usage: <code>/plan BOOKS LIMIT [alphabetical|random]</code> or <code>/plan BOOKS days=N</code>"
)

const maxListed = 30

func esc(s string) string {
	return html.EscapeString(s)
}

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// renderWord formats a word card.
func renderWord(w entities.Word, header string) string {
	var b strings.Builder
	if header != "" {
		b.WriteString(header + "\n\n")
	}
	fmt.Fprintf(&b, "<b>%s</b>", esc(w.Word))
	if w.Phonetic != "" {
		fmt.Fprintf(&b, "  %s", esc(w.Phonetic))
	}
	if w.PartOfSpeech != "" {
		fmt.Fprintf(&b, "  <i>%s</i>", esc(w.PartOfSpeech))
	}
	b.WriteString("\n")
	if w.Meaning != "" {
		fmt.Fprintf(&b, "\n%s", esc(w.Meaning))
	}
	if w.Example != "" {
		fmt.Fprintf(&b, "\n\n<i>%s</i>", esc(w.Example))
	}
	return b.String()
}

// renderQuestion formats a test question.
func renderQuestion(q service.Question, n, total int) string {
	return fmt.Sprintf("📝 Question %d/%d\n\nWhat does <b>%s</b> mean?", n, total, esc(q.Word.Word))
}

func renderTestResult(run entities.TestRecord) string {
	text := fmt.Sprintf("✅ Test finished: %d/%d correct.", run.Score, run.Count)
	if len(run.Mistakes) > 0 {
		text += "\n\nMissed: " + esc(strings.Join(run.Mistakes, ", "))
	}
	return text
}

func renderPlan(p *entities.PlanSettings) string {
	mode := fmt.Sprintf("%d new words per day", p.DailyLimit)
	if p.PlanMode == entities.PlanModeDays {
		mode = fmt.Sprintf("finish in %d days (%d words per day)", p.DaysTarget, p.DailyLimit)
	}
	return fmt.Sprintf(
		"📚 <b>Your plan</b>\n\nBooks: %s\nPace: %s\nOrder: %s\nStarted: %s",
		esc(strings.Join(p.SelectedBooks, ", ")),
		mode,
		p.LearnOrder,
		p.CreatedAt.Format("2006-01-02"),
	)
}

func renderBooks(books []entities.Book) string {
	if len(books) == 0 {
		return msgNoBooks
	}
	var b strings.Builder
	b.WriteString("📖 <b>Books</b>\n")
	for _, book := range books {
		fmt.Fprintf(&b, "\n<code>%s</code> — %s (%d words)", esc(book.ID), esc(book.Title), len(book.Words))
	}
	return b.String()
}

func renderStats(st entities.Stats) string {
	return fmt.Sprintf(
		"📊 <b>Your progress</b>\n\n%s\n\n"+
			"✅ Learned: %d / %d\n"+
			"🏆 Mastered: %d\n"+
			"⏳ Remaining: %d\n"+
			"🔁 Due for review: %d\n\n"+
			"📅 Day %d of %d\n"+
			"🆕 Learned today: %d\n"+
			"❌ Mistakes today: %d",
		buildProgressBar(st.LearnedUnique, st.TotalWords, 20),
		st.LearnedUnique, st.TotalWords,
		st.MasteredCount,
		st.Remaining,
		st.DueCount,
		st.DaysSinceStart, st.DaysTarget,
		st.TodayLearned,
		st.TodayMistakes,
	)
}

func renderMistakes(ms []service.Mistake, filter service.MistakeFilter) string {
	if len(ms) == 0 {
		return msgNoMistakes
	}
	var b strings.Builder
	fmt.Fprintf(&b, "❌ <b>Mistakes (%s)</b>\n", filter)
	for i, m := range ms {
		if i == maxListed {
			fmt.Fprintf(&b, "\n… and %d more", len(ms)-maxListed)
			break
		}
		fmt.Fprintf(&b, "\n%s — %s (×%d)", esc(m.Word.Word), esc(m.Word.Meaning), m.ErrorCount)
	}
	return b.String()
}

func renderLeaderboard(entries []entities.LeaderboardEntry, selfID string, offline bool) string {
	var b strings.Builder
	b.WriteString("🏆 <b>Leaderboard</b>")
	if offline {
		b.WriteString(" <i>(offline)</i>")
	}
	b.WriteString("\n")
	for i, e := range entries {
		name := esc(e.Username)
		if e.ID == selfID {
			name = "<b>" + name + "</b>"
		}
		fmt.Fprintf(&b, "\n%d. %s — %d", i+1, name, e.Score)
	}
	return b.String()
}

// buildProgressBar renders done/total as a bar of width cells.
func buildProgressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = min(width, done*width/total)
	}
	return strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
}

func renderReminder(p entities.ReminderPayload) string {
	header := "⏰ Time for a new word!"
	if p.Kind == entities.ReminderKindReview {
		header = fmt.Sprintf("⏰ %d words are waiting for review.", p.Stats.DueCount)
	}

	text := renderWord(p.Word, header)
	text += fmt.Sprintf("\n\n📚 Learned %d, %d to go", p.Stats.Learned, p.Stats.Remaining)
	if p.Stats.DaysToComplete > 0 {
		text += fmt.Sprintf(" (about %d days)", p.Stats.DaysToComplete)
	}
	return text
}

func renderReminderSettings(r entities.ReminderSettings, loc *time.Location) string {
	if !r.Enabled {
		return msgRemindersOff
	}
	text := fmt.Sprintf("⏰ <b>Reminders</b>\n\nEvery %d h between %02d:00 and %02d:00",
		r.IntervalHours, r.StartHour, r.EndHour)
	if r.NextSendAt != nil {
		text += "\nNext: " + r.NextSendAt.In(loc).Format("Jan 2 15:04")
	}
	return text
}
