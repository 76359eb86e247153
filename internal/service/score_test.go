package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/clock"
	"github.com/aliskhannn/wordplan/internal/domain/entities"
)

type fakeRanking struct {
	synced  []entities.LeaderboardEntry
	board   []entities.LeaderboardEntry
	syncErr error
	listErr error
}

func (f *fakeRanking) Sync(_ context.Context, e entities.LeaderboardEntry) error {
	if f.syncErr != nil {
		return f.syncErr
	}
	f.synced = append(f.synced, e)
	return nil
}

func (f *fakeRanking) Leaderboard(context.Context) ([]entities.LeaderboardEntry, error) {
	return f.board, f.listErr
}

func TestSyncScoreSendsDerivedScore(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 5, entities.LearnOrderAlphabetical)
	f.learn(t, "apple", entities.OutcomeKnow)
	f.learn(t, "banana", entities.OutcomeDontKnow)
	_, _ = f.sess.RecordTestResult(f.ctx, "cherry", false)
	f.sess.SetProfile(f.ctx, entities.Profile{Username: "Alice", AvatarID: "fox"})

	client := &fakeRanking{}
	scores := NewScoreService(client, f.store, zap.NewNop())
	if err := scores.SyncScore(f.ctx, f.sess); err != nil {
		t.Fatalf("SyncScore: %v", err)
	}

	want := entities.LeaderboardEntry{ID: "alice", Username: "Alice", AvatarID: "fox", AvatarColor: defaultAvatarColor, Score: 2}
	if len(client.synced) != 1 || client.synced[0] != want {
		t.Errorf("synced = %+v, want %+v", client.synced, want)
	}
}

func TestLeaderboardFromService(t *testing.T) {
	f := newFixture(t)
	client := &fakeRanking{board: []entities.LeaderboardEntry{{ID: "x", Username: "X", Score: 99}}}
	scores := NewScoreService(client, f.store, zap.NewNop())

	entries, fallback := scores.Leaderboard(f.ctx, f.sess)
	if fallback || len(entries) != 1 || entries[0].ID != "x" {
		t.Errorf("Leaderboard = %+v, fallback %v", entries, fallback)
	}
}

func TestLeaderboardFallback(t *testing.T) {
	cases := []struct {
		name   string
		client RankingClient
	}{
		{"offline", nil},
		{"sync fails", &fakeRanking{syncErr: errors.New("connection refused")}},
		{"fetch fails", &fakeRanking{listErr: errors.New("500")}},
		{"empty", &fakeRanking{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.savePlan(t, []string{"fruits"}, 5, entities.LearnOrderAlphabetical)
			f.learn(t, "apple", entities.OutcomeKnow)

			other, err := OpenSession(f.ctx, "bob", f.store, testCatalog(), f.clock, time.UTC, zap.NewNop())
			if err != nil {
				t.Fatal(err)
			}
			_, _ = other.SavePlan(f.ctx, entities.PlanDraft{
				SelectedBooks: []string{"pets"}, PlanMode: entities.PlanModeCount,
				DailyLimit: 5, LearnOrder: entities.LearnOrderAlphabetical,
			})
			for _, w := range []string{"cat", "dog"} {
				_, _ = other.RecordLearnResult(f.ctx, w, entities.OutcomeKnow)
			}

			scores := NewScoreService(tc.client, f.store, zap.NewNop())
			entries, fallback := scores.Leaderboard(f.ctx, f.sess)
			if !fallback {
				t.Fatal("expected fallback ranking")
			}
			if len(entries) != 2+len(fillerEntries) {
				t.Fatalf("entries = %d, want %d", len(entries), 2+len(fillerEntries))
			}

			scoreOf := make(map[string]int)
			for i, e := range entries {
				scoreOf[e.ID] = e.Score
				if i > 0 && entries[i-1].Score < e.Score {
					t.Errorf("entries not sorted at %d: %+v", i, entries)
				}
			}
			if scoreOf["alice"] != 1 || scoreOf["bob"] != 2 {
				t.Errorf("local scores = %v", scoreOf)
			}

			if c, ok := tc.client.(*fakeRanking); ok && len(c.synced) > 1 {
				t.Errorf("fallback ranking was written back: %+v", c.synced)
			}
		})
	}
}

func TestMaintenanceRolloverAndSync(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	registry := NewRegistry(f.store, testCatalog(), f.clock, time.UTC, zap.NewNop())

	alice, err := registry.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if again, _ := registry.Get(ctx, "alice"); again != alice {
		t.Error("registry returned a second session for the same user")
	}
	_, _ = registry.Get(ctx, "bob")

	client := &fakeRanking{}
	m := NewMaintenance(registry, NewScoreService(client, f.store, zap.NewNop()), time.UTC, "@daily", "@every 1h", zap.NewNop())

	if n := m.RolloverAll(ctx); n != 0 {
		t.Errorf("RolloverAll on the same day = %d, want 0", n)
	}
	f.clock.Advance(24 * time.Hour)
	if n := m.RolloverAll(ctx); n != 2 {
		t.Errorf("RolloverAll = %d, want 2", n)
	}

	if n := m.SyncAll(ctx); n != 2 || len(client.synced) != 2 {
		t.Errorf("SyncAll = %d, synced %d", n, len(client.synced))
	}
	if client.synced[0].ID != "alice" || client.synced[1].ID != "bob" {
		t.Errorf("sync order = %+v", client.synced)
	}
}

func TestMaintenanceStartStops(t *testing.T) {
	registry := NewRegistry(nil, testCatalog(), clock.System{}, time.UTC, zap.NewNop())
	m := NewMaintenance(registry, nil, time.UTC, "@daily", "", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}

	bad := NewMaintenance(registry, nil, time.UTC, "not a spec", "", zap.NewNop())
	if err := bad.Start(context.Background()); err == nil {
		t.Error("expected error for invalid cron spec")
	}
}
