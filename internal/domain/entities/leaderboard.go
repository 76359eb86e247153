package entities

import (
	"cmp"
	"slices"
)

// Profile is the public identity of a learner.
type Profile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	AvatarID    string `json:"avatarId,omitempty"`
	AvatarColor string `json:"avatarColor"`
}

// LeaderboardEntry is one row of the shared ranking.
type LeaderboardEntry struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	AvatarID    string `json:"avatarId,omitempty"`
	AvatarColor string `json:"avatarColor"`
	Score       int    `json:"score"`
}

// Entry builds a leaderboard entry for the profile.
func (p Profile) Entry(score int) LeaderboardEntry {
	return LeaderboardEntry{
		ID:          p.ID,
		Username:    p.Username,
		AvatarID:    p.AvatarID,
		AvatarColor: p.AvatarColor,
		Score:       score,
	}
}

// SortEntries orders entries by score descending, then by username.
func SortEntries(entries []LeaderboardEntry) {
	slices.SortStableFunc(entries, func(a, b LeaderboardEntry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})
}
