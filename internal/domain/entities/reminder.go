package entities

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidReminder = errors.New("invalid reminder settings")

// ReminderKind tells what a reminder asks the learner to do.
type ReminderKind string

const (
	ReminderKindNew    ReminderKind = "new"    // learn the next new word
	ReminderKindReview ReminderKind = "review" // review a due word
)

// ReminderSettings configures study reminders of a learner. Hours are local
// hours of the learner's time zone.
type ReminderSettings struct {
	Enabled       bool         `json:"enabled"`
	IntervalHours int          `json:"intervalHours"`
	StartHour     int          `json:"startHour"` // first hour of the window
	EndHour       int          `json:"endHour"`   // last hour of the window
	LastSentAt    *time.Time   `json:"lastSentAt,omitempty"`
	NextSendAt    *time.Time   `json:"nextSendAt,omitempty"`
	LastKind      ReminderKind `json:"lastKind,omitempty"`
}

// DefaultReminderSettings returns the settings of a learner who never
// configured reminders.
func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{
		Enabled:       true,
		IntervalHours: 4,
		StartHour:     8,
		EndHour:       20,
	}
}

// Validate checks the interval and the time window.
func (r ReminderSettings) Validate() error {
	if r.IntervalHours < 1 || r.IntervalHours > 24 {
		return fmt.Errorf("%w: interval must be between 1 and 24 hours", ErrInvalidReminder)
	}
	if r.StartHour < 0 || r.EndHour > 23 || r.StartHour >= r.EndHour {
		return fmt.Errorf("%w: window must satisfy 0 <= start < end <= 23", ErrInvalidReminder)
	}
	return nil
}

// NextSend returns the next full hour after now that lies on the interval
// grid of the window. Past the window it is the window start of the next day.
func (r ReminderSettings) NextSend(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	interval := max(1, r.IntervalHours)

	var next int
	switch hour := local.Hour(); {
	case hour < r.StartHour:
		next = r.StartHour
	case hour >= r.EndHour:
		next = r.StartHour + 24
	default:
		next = r.StartHour + ((hour-r.StartHour)/interval+1)*interval
		if next > r.EndHour {
			next = r.StartHour + 24
		}
	}

	return time.Date(local.Year(), local.Month(), local.Day()+next/24, next%24, 0, 0, 0, loc)
}

// Due reports whether a reminder should be sent at now. Without a scheduled
// time, any hour inside the window is due.
func (r ReminderSettings) Due(now time.Time, loc *time.Location) bool {
	if !r.Enabled {
		return false
	}
	if r.NextSendAt == nil {
		if loc == nil {
			loc = time.UTC
		}
		hour := now.In(loc).Hour()
		return hour >= r.StartHour && hour <= r.EndHour
	}
	return !now.Before(*r.NextSendAt)
}

// PreferredKind alternates between new words and reviews.
func (r ReminderSettings) PreferredKind() ReminderKind {
	if r.LastKind == ReminderKindNew {
		return ReminderKindReview
	}
	return ReminderKindNew
}

// ReminderStats summarizes the learner's situation for a reminder.
type ReminderStats struct {
	DueCount       int
	TodayLeft      int
	Learned        int
	Remaining      int
	DaysToComplete int
}

// ReminderPayload is what gets delivered to the learner.
type ReminderPayload struct {
	Kind  ReminderKind
	Word  Word
	Stats ReminderStats
}
