package clock

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, 3, 10, 22, 30, 0, 0, time.UTC)

func TestLogicalAdvance(t *testing.T) {
	c := NewLogical(t0)
	if got := c.Now(); !got.Equal(t0) {
		t.Fatalf("Now = %v, want %v", got, t0)
	}
	got := c.Advance(90 * time.Minute)
	if want := t0.Add(90 * time.Minute); !got.Equal(want) || !c.Now().Equal(want) {
		t.Fatalf("Advance = %v, want %v", got, want)
	}
	c.Set(t0)
	if !c.Now().Equal(t0) {
		t.Fatalf("Set did not move the clock")
	}
}

func TestDayStringUsesLocation(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*3600)
	if got := DayString(t0, time.UTC); got != "2025-03-10" {
		t.Errorf("UTC day = %q", got)
	}
	if got := DayString(t0, moscow); got != "2025-03-11" {
		t.Errorf("MSK day = %q", got)
	}
	if got := DayString(t0, nil); got != "2025-03-10" {
		t.Errorf("nil location day = %q", got)
	}
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(t0, time.UTC)
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("StartOfDay = %v, want %v", got, want)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{"same day", t0, t0.Add(time.Hour), 0},
		{"crosses midnight", t0, t0.Add(2 * time.Hour), 1},
		{"a week", t0, t0.AddDate(0, 0, 7), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to, time.UTC); got != tt.want {
				t.Errorf("DaysBetween = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	from := time.Date(2025, 3, 8, 12, 0, 0, 0, ny)
	to := time.Date(2025, 3, 10, 0, 30, 0, 0, ny)
	if got := DaysBetween(from, to, ny); got != 2 {
		t.Fatalf("DaysBetween = %d, want 2", got)
	}
}

func TestDayTrackerObserve(t *testing.T) {
	tr := NewDayTracker(time.UTC)

	day, crossed := tr.Observe(t0)
	if day != "2025-03-10" || !crossed {
		t.Fatalf("first Observe = %q, %v", day, crossed)
	}

	if _, crossed = tr.Observe(t0); crossed {
		t.Error("repeated observation must not cross")
	}
	if _, crossed = tr.Observe(t0.Add(time.Hour)); crossed {
		t.Error("same-day observation must not cross")
	}

	day, crossed = tr.Observe(t0.Add(2 * time.Hour))
	if day != "2025-03-11" || !crossed {
		t.Fatalf("next-day Observe = %q, %v", day, crossed)
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in      string
		offset  int
		wantErr bool
	}{
		{"", 0, false},
		{"UTC", 0, false},
		{"gmt", 0, false},
		{"UTC+3", 3 * 3600, false},
		{"UTC-7", -7 * 3600, false},
		{"+5:30", 5*3600 + 30*60, false},
		{"-03:30", -(3*3600 + 30*60), false},
		{"UTC+15", 0, true},
		{"Mars/Olympus", 0, true},
	}
	for _, tt := range tests {
		loc, err := ParseLocation(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLocation(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLocation(%q): %v", tt.in, err)
			continue
		}
		if _, off := t0.In(loc).Zone(); off != tt.offset {
			t.Errorf("ParseLocation(%q) offset = %d, want %d", tt.in, off, tt.offset)
		}
	}
}
