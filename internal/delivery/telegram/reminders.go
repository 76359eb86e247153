package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/service"
)

const (
	remindSnooze = "snooze"
	remindOff    = "off"
)

// SendReminder delivers a study reminder. In private chats the chat id
// equals the user id.
func (h *Handler) SendReminder(_ context.Context, userID string, p entities.ReminderPayload) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("chat id: %w", err)
	}

	msg := newHTMLMessage(chatID, renderReminder(p))
	msg.ReplyMarkup = buildReminderKeyboard(p)
	if _, err = h.bot.Send(msg); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}

func (h *Handler) remindHandler(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64, sess *service.Session) error {
		cur := sess.Reminders()
		if strings.TrimSpace(args) != "" {
			next, err := parseRemindArgs(args, cur)
			if err != nil {
				return userError{msgRemindUsage}
			}
			if cur, err = sess.SetReminders(ctx, next); err != nil {
				return userError{esc(err.Error())}
			}
		}

		h.send(newHTMLMessage(chatID, renderReminderSettings(cur, sess.Location())))
		return nil
	}
}

// parseRemindArgs applies "on", "off", "every N" or "window S-E" to cur.
func parseRemindArgs(args string, cur entities.ReminderSettings) (entities.ReminderSettings, error) {
	fields := strings.Fields(args)
	switch {
	case len(fields) == 1 && fields[0] == "on":
		cur.Enabled = true
	case len(fields) == 1 && fields[0] == "off":
		cur.Enabled = false
	case len(fields) == 2 && fields[0] == "every":
		n, err := strconv.Atoi(strings.TrimSuffix(fields[1], "h"))
		if err != nil {
			return cur, fmt.Errorf("interval: %w", err)
		}
		cur.Enabled = true
		cur.IntervalHours = n
	case len(fields) == 2 && fields[0] == "window":
		start, end, ok := strings.Cut(fields[1], "-")
		if !ok {
			return cur, fmt.Errorf("window %q: want START-END", fields[1])
		}
		s, err1 := strconv.Atoi(start)
		e, err2 := strconv.Atoi(end)
		if err1 != nil || err2 != nil {
			return cur, fmt.Errorf("window %q: hours must be numbers", fields[1])
		}
		cur.Enabled = true
		cur.StartHour, cur.EndHour = s, e
	default:
		return cur, fmt.Errorf("unknown arguments %q", args)
	}
	return cur, nil
}

func (h *Handler) handleRemindCallback(ctx context.Context, sess *service.Session, data callbackData) (string, bool) {
	if len(data.Params) != 1 {
		return "", false
	}

	switch data.Params[0] {
	case remindSnooze:
		sess.SnoozeReminder(ctx)
		return msgSnoozed, true
	case remindOff:
		r := sess.Reminders()
		r.Enabled = false
		if _, err := sess.SetReminders(ctx, r); err != nil {
			return esc(err.Error()), true
		}
		return msgRemindersOff, true
	default:
		return "", false
	}
}
