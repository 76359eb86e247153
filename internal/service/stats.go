package service

import (
	"time"

	"github.com/aliskhannn/wordplan/internal/clock"
	"github.com/aliskhannn/wordplan/internal/domain/entities"
)

// ComputeStats derives the progress overview of a plan.
func ComputeStats(
	pool []entities.Word,
	progress map[string]*entities.ProgressRecord,
	plan *entities.PlanSettings,
	day *entities.DayState,
	now time.Time,
	loc *time.Location,
) entities.Stats {
	var st entities.Stats
	if plan == nil {
		return st
	}

	st.TotalWords = len(pool)
	for _, r := range progress {
		if r.IsLearned() {
			st.LearnedUnique++
		}
		if r.Status == entities.StatusMastered {
			st.MasteredCount++
		}
		if r.IsDue(now) {
			st.DueCount++
		}
	}

	st.Remaining = max(0, st.TotalWords-st.LearnedUnique)
	st.IsFinished = st.Remaining == 0
	st.DaysSinceStart = max(1, clock.DaysBetween(plan.CreatedAt, now, loc)+1)

	if plan.PlanMode == entities.PlanModeDays && plan.DaysTarget > 0 {
		st.DaysTarget = plan.DaysTarget
	} else {
		limit := max(1, plan.DailyLimit)
		st.DaysTarget = (st.TotalWords + limit - 1) / limit
	}

	if day != nil {
		st.TodayLearned = day.TodayLearnedCount
		st.TodayMistakes = len(day.TodayMistakes)
	}
	return st
}
