package entities

import (
	"errors"
	"testing"
	"time"
)

func TestReminderNextSend(t *testing.T) {
	r := ReminderSettings{Enabled: true, IntervalHours: 4, StartHour: 8, EndHour: 20}
	day := func(d, h, m int) time.Time { return time.Date(2024, 5, d, h, m, 0, 0, time.UTC) }

	cases := []struct {
		now  time.Time
		want time.Time
	}{
		{day(1, 7, 30), day(1, 8, 0)},
		{day(1, 8, 0), day(1, 12, 0)},
		{day(1, 13, 10), day(1, 16, 0)},
		{day(1, 19, 0), day(1, 20, 0)},
		{day(1, 20, 30), day(2, 8, 0)},
		{day(1, 23, 59), day(2, 8, 0)},
	}
	for _, tc := range cases {
		if got := r.NextSend(tc.now, time.UTC); !got.Equal(tc.want) {
			t.Errorf("NextSend(%s) = %s, want %s", tc.now.Format(time.Kitchen), got, tc.want)
		}
	}

	r.IntervalHours = 5
	if got := r.NextSend(day(1, 18, 0), time.UTC); !got.Equal(day(2, 8, 0)) {
		t.Errorf("NextSend past window = %s", got)
	}
}

func TestReminderNextSendUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	r := DefaultReminderSettings()

	// 04:00 UTC is 07:00 local, so the first reminder is at 08:00 local.
	got := r.NextSend(time.Date(2024, 5, 1, 4, 0, 0, 0, time.UTC), loc)
	if want := time.Date(2024, 5, 1, 5, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("NextSend = %s, want %s", got.UTC(), want)
	}
}

func TestReminderDue(t *testing.T) {
	r := DefaultReminderSettings()
	if !r.Due(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), time.UTC) {
		t.Error("unscheduled reminder inside the window should be due")
	}
	if r.Due(time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC), time.UTC) {
		t.Error("unscheduled reminder outside the window should not be due")
	}

	next := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r.NextSendAt = &next
	if r.Due(next.Add(-time.Minute), time.UTC) || !r.Due(next, time.UTC) {
		t.Error("scheduled reminder is due exactly from NextSendAt")
	}

	r.Enabled = false
	if r.Due(next, time.UTC) {
		t.Error("disabled reminder is never due")
	}
}

func TestReminderValidate(t *testing.T) {
	cases := []struct {
		name string
		r    ReminderSettings
		ok   bool
	}{
		{"default", DefaultReminderSettings(), true},
		{"zero interval", ReminderSettings{IntervalHours: 0, StartHour: 8, EndHour: 20}, false},
		{"empty window", ReminderSettings{IntervalHours: 1, StartHour: 9, EndHour: 9}, false},
		{"end past midnight", ReminderSettings{IntervalHours: 1, StartHour: 9, EndHour: 24}, false},
	}
	for _, tc := range cases {
		err := tc.r.Validate()
		if (err == nil) != tc.ok {
			t.Errorf("%s: err = %v", tc.name, err)
		}
		if err != nil && !errors.Is(err, ErrInvalidReminder) {
			t.Errorf("%s: err = %v, want ErrInvalidReminder", tc.name, err)
		}
	}
}

func TestReminderAlternates(t *testing.T) {
	var r ReminderSettings
	if r.PreferredKind() != ReminderKindNew {
		t.Error("first reminder should prefer new words")
	}
	r.LastKind = ReminderKindNew
	if r.PreferredKind() != ReminderKindReview {
		t.Error("after a new word a review is preferred")
	}
}
