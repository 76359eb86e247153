package service

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
)

// ReviewMode selects which learned words a review session contains.
type ReviewMode string

const (
	ReviewScientific ReviewMode = "scientific" // due words plus words touched today
	ReviewToday      ReviewMode = "today"      // only words touched today
)

// MistakeFilter selects which missed words are listed.
type MistakeFilter string

const (
	MistakesToday    MistakeFilter = "today"
	MistakesHighFreq MistakeFilter = "high-freq"
	MistakesAll      MistakeFilter = "all"
)

// highFreqErrors is the error count from which a word is a frequent mistake.
const highFreqErrors = 2

func ParseReviewMode(s string) (ReviewMode, error) {
	switch m := ReviewMode(s); m {
	case ReviewScientific, ReviewToday:
		return m, nil
	}
	return "", fmt.Errorf("unknown review mode %q", s)
}

func ParseMistakeFilter(s string) (MistakeFilter, error) {
	switch f := MistakeFilter(s); f {
	case MistakesToday, MistakesHighFreq, MistakesAll:
		return f, nil
	}
	return "", fmt.Errorf("unknown mistake filter %q", s)
}

// isNew reports whether word has no record or was never learned.
func isNew(progress map[string]*entities.ProgressRecord, word string) bool {
	r, ok := progress[word]
	return !ok || r.Status == entities.StatusNew
}

// NewWords returns up to count unlearned words of pool in the plan's order.
// The random order is a permutation of the whole pool derived from the plan
// seed, so it stays stable while words are being learned.
func NewWords(
	pool []entities.Word,
	progress map[string]*entities.ProgressRecord,
	plan *entities.PlanSettings,
	count int,
) []entities.Word {
	if plan == nil || count <= 0 {
		return []entities.Word{}
	}

	ordered := slices.Clone(pool)
	switch plan.LearnOrder {
	case entities.LearnOrderRandom:
		rng := rand.New(rand.NewPCG(uint64(plan.Seed), uint64(len(pool))))
		rng.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	default:
		slices.SortStableFunc(ordered, func(a, b entities.Word) int {
			return cmp.Compare(a.Word, b.Word)
		})
	}

	out := make([]entities.Word, 0, min(count, len(ordered)))
	for _, w := range ordered {
		if len(out) == count {
			break
		}
		if isNew(progress, w.Word) {
			out = append(out, w)
		}
	}
	return out
}

// TodayTask returns the new words still allowed by today's quota.
func TodayTask(
	pool []entities.Word,
	progress map[string]*entities.ProgressRecord,
	plan *entities.PlanSettings,
	day *entities.DayState,
) []entities.Word {
	if plan == nil {
		return []entities.Word{}
	}

	learned := 0
	if day != nil {
		learned = day.TodayLearnedCount
	}
	return NewWords(pool, progress, plan, max(0, plan.DailyLimit-learned))
}

// ReviewTask returns learned words of pool that need review, in pool order.
func ReviewTask(
	pool []entities.Word,
	progress map[string]*entities.ProgressRecord,
	mode ReviewMode,
	now, startOfToday time.Time,
) []entities.Word {
	out := []entities.Word{}
	for _, w := range pool {
		r, ok := progress[w.Word]
		if !ok || !r.IsLearned() {
			continue
		}

		touchedToday := !r.LastReview.IsZero() && !r.LastReview.Before(startOfToday)
		due := mode == ReviewScientific && r.IsDue(now)
		if touchedToday || due {
			out = append(out, w)
		}
	}
	return out
}

// Mistake is a missed word with its error count.
type Mistake struct {
	Word       entities.Word
	ErrorCount int
}

// MistakesList returns missed words of pool. The today filter keeps pool
// order; the other filters sort by error count, highest first.
func MistakesList(
	pool []entities.Word,
	progress map[string]*entities.ProgressRecord,
	day *entities.DayState,
	filter MistakeFilter,
) []Mistake {
	out := []Mistake{}
	for _, w := range pool {
		r, ok := progress[w.Word]
		if !ok || r.ErrorCount == 0 {
			continue
		}

		switch filter {
		case MistakesToday:
			if day == nil || !day.HasMistake(w.Word) {
				continue
			}
		case MistakesHighFreq:
			if r.ErrorCount < highFreqErrors {
				continue
			}
		}
		out = append(out, Mistake{Word: w, ErrorCount: r.ErrorCount})
	}

	if filter != MistakesToday {
		slices.SortStableFunc(out, func(a, b Mistake) int {
			return cmp.Compare(b.ErrorCount, a.ErrorCount)
		})
	}
	return out
}
