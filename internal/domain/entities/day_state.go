package entities

import "slices"

// DayState holds the counters of one calendar day.
type DayState struct {
	TodayDate         string   `json:"todayDate"`
	TodayLearnedCount int      `json:"todayLearnedCount"`
	TodayMistakes     []string `json:"todayMistakes"` // word keys, in order of the first mistake
}

// NewDayState creates empty counters for day.
func NewDayState(day string) *DayState {
	return &DayState{TodayDate: day, TodayMistakes: []string{}}
}

// AddMistake marks word as missed today.
func (d *DayState) AddMistake(word string) {
	if !d.HasMistake(word) {
		d.TodayMistakes = append(d.TodayMistakes, word)
	}
}

// HasMistake reports whether word was missed today.
func (d DayState) HasMistake(word string) bool {
	return slices.Contains(d.TodayMistakes, word)
}
