package entities

import (
	"errors"
	"slices"
	"testing"
)

func validDraft() PlanDraft {
	return PlanDraft{
		SelectedBooks: []string{"cet4"},
		PlanMode:      PlanModeCount,
		DailyLimit:    10,
		LearnOrder:    LearnOrderAlphabetical,
	}
}

func TestPlanDraftValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PlanDraft)
		ok     bool
	}{
		{"valid", func(*PlanDraft) {}, true},
		{"no books", func(d *PlanDraft) { d.SelectedBooks = []string{" "} }, false},
		{"zero limit", func(d *PlanDraft) { d.DailyLimit = 0 }, false},
		{"unknown mode", func(d *PlanDraft) { d.PlanMode = "weeks" }, false},
		{"days without target", func(d *PlanDraft) { d.PlanMode = PlanModeDays }, false},
		{"days with target", func(d *PlanDraft) { d.PlanMode = PlanModeDays; d.DaysTarget = 30 }, true},
		{"unknown order", func(d *PlanDraft) { d.LearnOrder = "frequency" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			err := d.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidPlan) {
				t.Fatalf("Validate err = %v, want ErrInvalidPlan", err)
			}
		})
	}
}

func TestNewPlanNormalizesBooks(t *testing.T) {
	d := validDraft()
	d.SelectedBooks = []string{"toefl", "cet4", " toefl "}
	p := NewPlan("id-1", 7, d, t0)

	if !slices.Equal(p.SelectedBooks, []string{"cet4", "toefl"}) {
		t.Errorf("SelectedBooks = %v", p.SelectedBooks)
	}
	if p.ID != "id-1" || p.Seed != 7 || !p.CreatedAt.Equal(t0) {
		t.Errorf("identity = %+v", p)
	}
	if !p.SameBooks([]string{"toefl", "cet4"}) {
		t.Error("SameBooks must ignore order")
	}
	if p.SameBooks([]string{"cet4"}) || p.SameBooks([]string{"cet4", "toefl", "ielts"}) {
		t.Error("SameBooks must compare membership")
	}
}

func TestMergeKeepsIdentity(t *testing.T) {
	p := NewPlan("id-1", 7, validDraft(), t0)
	d := validDraft()
	d.DailyLimit = 25
	d.LearnOrder = LearnOrderRandom
	p.Merge(d)

	if p.ID != "id-1" || p.Seed != 7 || !p.CreatedAt.Equal(t0) {
		t.Errorf("identity changed: %+v", p)
	}
	if p.DailyLimit != 25 || p.LearnOrder != LearnOrderRandom {
		t.Errorf("fields not merged: %+v", p)
	}
	if got := p.Draft(); got.DailyLimit != 25 {
		t.Errorf("Draft = %+v", got)
	}
}

func TestDayStateMistakes(t *testing.T) {
	d := NewDayState("2025-06-15")
	d.AddMistake("cat")
	d.AddMistake("dog")
	d.AddMistake("cat")

	if !slices.Equal(d.TodayMistakes, []string{"cat", "dog"}) {
		t.Errorf("TodayMistakes = %v", d.TodayMistakes)
	}
	if !d.HasMistake("dog") || d.HasMistake("Dog") {
		t.Error("HasMistake must be case-sensitive")
	}
}

func TestHasMistakeOnCopy(t *testing.T) {
	d := NewDayState("2025-06-15")
	d.AddMistake("cat")

	snapshot := *d
	if !snapshot.HasMistake("cat") || snapshot.HasMistake("dog") {
		t.Errorf("copy mistakes = %v", snapshot.TodayMistakes)
	}
}
