package entities

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownOutcome is returned for an answer that is neither know nor dont-know.
var ErrUnknownOutcome = errors.New("unknown outcome")

// Status represents the learning status of a word.
type Status string

const (
	StatusNew      Status = "new"      // never learned
	StatusLearning Status = "learning" // learned at least once
	StatusMastered Status = "mastered" // reached MasteryStage
)

// Outcome is the learner's self-assessment of a learn or review step.
type Outcome string

const (
	OutcomeKnow     Outcome = "know"
	OutcomeDontKnow Outcome = "dont-know"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	return o == OutcomeKnow || o == OutcomeDontKnow
}

// ParseOutcome converts user input into an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(s)
	if !o.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
	}
	return o, nil
}

const (
	MaxStage     = 8               // last index of the interval table
	MasteryStage = 5               // stage at which a learning word becomes mastered
	RetryDelay   = 5 * time.Minute // next review after a failed step
)

// stageIntervals holds the review delay for each stage: 5m, 30m, 12h, 1d, 2d, 4d, 7d, 14d, 21d.
var stageIntervals = [MaxStage + 1]time.Duration{
	5 * time.Minute,
	30 * time.Minute,
	12 * time.Hour,
	24 * time.Hour,
	2 * 24 * time.Hour,
	4 * 24 * time.Hour,
	7 * 24 * time.Hour,
	14 * 24 * time.Hour,
	21 * 24 * time.Hour,
}

// StageInterval returns the review delay for stage, clamped to [0, MaxStage].
func StageInterval(stage int) time.Duration {
	return stageIntervals[clampStage(stage)]
}

// ProgressRecord stores the learning progress of a single word.
type ProgressRecord struct {
	Status         Status    `json:"status"`
	Stage          int       `json:"stage"`          // index into the interval table
	NextReview     time.Time `json:"nextReview"`     // when the word becomes due
	LastReview     time.Time `json:"lastReview"`     // last learn, review or failed test
	FirstLearnedAt time.Time `json:"firstLearnedAt"` // zero while status is new
	ErrorCount     int       `json:"errorCount"`     // never decreases
}

// NewProgressRecord creates a record for a word that has not been learned yet.
func NewProgressRecord() *ProgressRecord {
	return &ProgressRecord{Status: StatusNew}
}

// IsLearned reports whether the word left the new status.
func (p *ProgressRecord) IsLearned() bool {
	return p.Status != StatusNew
}

// IsDue reports whether a learned word is scheduled for review at or before now.
func (p *ProgressRecord) IsDue(now time.Time) bool {
	return p.IsLearned() && !p.NextReview.After(now)
}

// Learn applies a learn step. It returns true when this step moved the word
// out of the new status, which happens at most once per record.
func (p *ProgressRecord) Learn(outcome Outcome, now time.Time) (firstLearn bool) {
	if p.Status == StatusNew {
		p.Status = StatusLearning
		p.FirstLearnedAt = now
		firstLearn = true
	}

	p.advance(outcome, now)
	return firstLearn
}

// Review applies a review step. Words that were never learned are left untouched.
func (p *ProgressRecord) Review(outcome Outcome, now time.Time) bool {
	if !p.IsLearned() {
		return false
	}

	p.advance(outcome, now)
	return true
}

// Test applies a test answer. Correct answers do not change the record;
// a wrong answer regresses the stage by one and counts an error.
func (p *ProgressRecord) Test(correct bool, now time.Time) bool {
	if correct {
		return false
	}

	p.ErrorCount++
	p.Stage = max(p.Stage-1, 0)
	p.LastReview = now
	return true
}

// advance moves the stage after a learn or review step.
func (p *ProgressRecord) advance(outcome Outcome, now time.Time) {
	p.LastReview = now

	if outcome == OutcomeDontKnow {
		p.ErrorCount++
		p.Stage = 0
		p.NextReview = now.Add(RetryDelay)
		return
	}

	p.Stage = clampStage(p.Stage + 1)
	p.NextReview = now.Add(StageInterval(p.Stage))

	if p.Stage >= MasteryStage && p.Status == StatusLearning {
		p.Status = StatusMastered
	}
}

func clampStage(stage int) int {
	return min(max(stage, 0), MaxStage)
}
