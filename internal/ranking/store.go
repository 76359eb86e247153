// Package ranking implements the shared leaderboard service and its client.
//
// Scores are merged with a monotonic max: a stored score never decreases, so
// repeated or out-of-order syncs from any number of writers converge.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
)

// TopLimit is the number of entries served by the leaderboard.
const TopLimit = 50

var ErrInvalidEntry = errors.New("invalid leaderboard entry")

// Store persists leaderboard entries.
type Store interface {
	// Upsert merges e into the stored entry with the same id: the score becomes
	// the larger of both, the profile fields are replaced. It returns the
	// stored entry.
	Upsert(ctx context.Context, e entities.LeaderboardEntry) (entities.LeaderboardEntry, error)
	// Top returns up to limit entries ordered by score descending.
	Top(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error)
}

// Validate checks an incoming entry.
func Validate(e entities.LeaderboardEntry) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidEntry)
	}
	if e.Score < 0 {
		return fmt.Errorf("%w: negative score", ErrInvalidEntry)
	}
	return nil
}
