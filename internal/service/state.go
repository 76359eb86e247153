package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/repository"
)

// state is the persisted slice of one learner.
type state struct {
	plan     *entities.PlanSettings
	day      *entities.DayState
	progress map[string]*entities.ProgressRecord
	tests    []entities.TestRecord
	profile  *entities.Profile
	reminder *entities.ReminderSettings
}

func emptyState() *state {
	return &state{
		progress: make(map[string]*entities.ProgressRecord),
		tests:    []entities.TestRecord{},
	}
}

// loadState reads every document of userID. Missing documents yield
// defaults; undecodable ones are logged and treated as missing.
func loadState(ctx context.Context, store Storage, userID string, logger *zap.Logger) (*state, error) {
	st := emptyState()

	targets := []struct {
		key    repository.Key
		decode func([]byte) error
	}{
		{repository.KeyPlan, decodeInto(&st.plan)},
		{repository.KeyDay, decodeInto(&st.day)},
		{repository.KeyProgress, decodeInto(&st.progress)},
		{repository.KeyTests, decodeInto(&st.tests)},
		{repository.KeyProfile, decodeInto(&st.profile)},
		{repository.KeyReminders, decodeInto(&st.reminder)},
	}

	for _, t := range targets {
		data, err := store.Load(ctx, userID, t.key)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("load %s: %w", t.key, err)
		}

		if err = t.decode(data); err != nil {
			logger.Warn("discarding undecodable document",
				zap.String("user_id", userID),
				zap.String("key", string(t.key)),
				zap.Error(err),
			)
			continue
		}
	}

	// JSON null decodes into nil maps and slices.
	if st.progress == nil {
		st.progress = make(map[string]*entities.ProgressRecord)
	}
	maps.DeleteFunc(st.progress, func(_ string, r *entities.ProgressRecord) bool { return r == nil })
	if st.tests == nil {
		st.tests = []entities.TestRecord{}
	}

	return st, nil
}

// decodeInto returns a decoder that assigns dst only on success.
func decodeInto[T any](dst *T) func([]byte) error {
	return func(data []byte) error {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// encode marshals the documents named by keys.
func (st *state) encode(keys ...repository.Key) (map[repository.Key][]byte, error) {
	docs := make(map[repository.Key][]byte, len(keys))
	for _, key := range keys {
		var v any
		switch key {
		case repository.KeyPlan:
			v = st.plan
		case repository.KeyDay:
			v = st.day
		case repository.KeyProgress:
			v = st.progress
		case repository.KeyTests:
			v = st.tests
		case repository.KeyProfile:
			v = st.profile
		case repository.KeyReminders:
			v = st.reminder
		default:
			return nil, fmt.Errorf("encode: unknown key %q", key)
		}

		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		docs[key] = data
	}
	return docs, nil
}

// learnedCount counts records that left the new status.
func (st *state) learnedCount() int {
	n := 0
	for _, r := range st.progress {
		if r.IsLearned() {
			n++
		}
	}
	return n
}
