// Package repository persists per-user learner state as JSON documents.
//
// Every user owns a small set of documents addressed by Key. Writes replace
// the whole document; there is no versioning, the last write wins.
package repository

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("document not found")

// Key names one persisted document of a user.
type Key string

const (
	KeyPlan      Key = "plan"
	KeyDay       Key = "day"
	KeyProgress  Key = "progress"
	KeyTests     Key = "tests"
	KeyProfile   Key = "profile"
	KeyReminders Key = "reminders"
)

// Keys lists every document key in a stable order.
var Keys = []Key{KeyPlan, KeyDay, KeyProgress, KeyTests, KeyProfile, KeyReminders}

// Valid reports whether k is a known key.
func (k Key) Valid() bool {
	for _, known := range Keys {
		if k == known {
			return true
		}
	}
	return false
}

// Store is implemented by every backend.
type Store interface {
	Load(ctx context.Context, userID string, key Key) ([]byte, error)
	Save(ctx context.Context, userID string, key Key, data []byte) error
	// SaveAll writes several documents of one user at once. Backends with
	// transactions apply them atomically.
	SaveAll(ctx context.Context, userID string, docs map[Key][]byte) error
	Users(ctx context.Context) ([]string, error)
}

func checkArgs(userID string, key Key) error {
	if userID == "" {
		return errors.New("empty user id")
	}
	if !key.Valid() {
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}
