package entities

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ErrInvalidPlan is returned when plan settings fail validation.
var ErrInvalidPlan = errors.New("invalid plan")

// PlanMode selects how the daily target is expressed.
type PlanMode string

const (
	PlanModeCount PlanMode = "count" // fixed number of new words per day
	PlanModeDays  PlanMode = "days"  // finish the pool in a number of days
)

// LearnOrder selects the order in which new words are introduced.
type LearnOrder string

const (
	LearnOrderAlphabetical LearnOrder = "alphabetical"
	LearnOrderRandom       LearnOrder = "random"
)

// PlanDraft holds the user-editable part of a plan.
type PlanDraft struct {
	SelectedBooks []string
	PlanMode      PlanMode
	DailyLimit    int
	DaysTarget    int // used only with PlanModeDays
	LearnOrder    LearnOrder
}

// Validate checks the draft and returns an error wrapping ErrInvalidPlan.
func (d PlanDraft) Validate() error {
	if len(normalizeBooks(d.SelectedBooks)) == 0 {
		return fmt.Errorf("%w: no books selected", ErrInvalidPlan)
	}
	if d.PlanMode != PlanModeCount && d.PlanMode != PlanModeDays {
		return fmt.Errorf("%w: unknown plan mode %q", ErrInvalidPlan, d.PlanMode)
	}
	if d.DailyLimit < 1 {
		return fmt.Errorf("%w: daily limit must be positive", ErrInvalidPlan)
	}
	if d.PlanMode == PlanModeDays && d.DaysTarget < 1 {
		return fmt.Errorf("%w: days target must be positive", ErrInvalidPlan)
	}
	if d.LearnOrder != LearnOrderAlphabetical && d.LearnOrder != LearnOrderRandom {
		return fmt.Errorf("%w: unknown learn order %q", ErrInvalidPlan, d.LearnOrder)
	}
	return nil
}

// PlanSettings is the active study configuration.
type PlanSettings struct {
	ID            string     `json:"id"`
	CreatedAt     time.Time  `json:"createdAt"`
	Seed          int64      `json:"seed"` // drives the random learn order
	SelectedBooks []string   `json:"selectedBooks"`
	PlanMode      PlanMode   `json:"planMode"`
	DailyLimit    int        `json:"dailyLimit"`
	DaysTarget    int        `json:"daysTarget,omitempty"`
	LearnOrder    LearnOrder `json:"learnOrder"`
}

// NewPlan creates a plan with a fresh identity from a validated draft.
func NewPlan(id string, seed int64, d PlanDraft, now time.Time) *PlanSettings {
	p := &PlanSettings{
		ID:        id,
		CreatedAt: now,
		Seed:      seed,
	}
	p.Merge(d)
	return p
}

// Merge copies the editable fields of d into the plan, keeping its identity.
func (p *PlanSettings) Merge(d PlanDraft) {
	p.SelectedBooks = normalizeBooks(d.SelectedBooks)
	p.PlanMode = d.PlanMode
	p.DailyLimit = d.DailyLimit
	p.DaysTarget = d.DaysTarget
	p.LearnOrder = d.LearnOrder
}

// Draft returns the editable part of the plan.
func (p *PlanSettings) Draft() PlanDraft {
	return PlanDraft{
		SelectedBooks: slices.Clone(p.SelectedBooks),
		PlanMode:      p.PlanMode,
		DailyLimit:    p.DailyLimit,
		DaysTarget:    p.DaysTarget,
		LearnOrder:    p.LearnOrder,
	}
}

// BookSet returns the selected books as a set.
func (p *PlanSettings) BookSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.SelectedBooks))
	for _, id := range p.SelectedBooks {
		set[id] = struct{}{}
	}
	return set
}

// SameBooks reports whether the plan selects exactly the books in ids.
func (p *PlanSettings) SameBooks(ids []string) bool {
	return slices.Equal(p.SelectedBooks, normalizeBooks(ids))
}

// normalizeBooks trims, deduplicates and sorts book ids.
func normalizeBooks(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
