package ranking

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
)

// RedisStore keeps scores in a sorted set and profiles in one hash per id.
// ZADD GT makes the score merge atomic on the server.
type RedisStore struct {
	rdb *goredis.Client
	key string
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr, key string) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if key == "" {
		key = "leaderboard"
	}
	return &RedisStore{rdb: rdb, key: key}, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) profileKey(id string) string {
	return s.key + ":profile:" + id
}

func (s *RedisStore) Upsert(ctx context.Context, e entities.LeaderboardEntry) (entities.LeaderboardEntry, error) {
	if err := Validate(e); err != nil {
		return entities.LeaderboardEntry{}, err
	}

	var score *goredis.FloatCmd
	_, err := s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.ZAddArgs(ctx, s.key, goredis.ZAddArgs{
			GT:      true,
			Members: []goredis.Z{{Score: float64(e.Score), Member: e.ID}},
		})
		p.HSet(ctx, s.profileKey(e.ID),
			"username", e.Username,
			"avatar_id", e.AvatarID,
			"avatar_color", e.AvatarColor,
			"updated_at", time.Now().UTC().Format(time.RFC3339),
		)
		score = p.ZScore(ctx, s.key, e.ID)
		return nil
	})
	if err != nil {
		return entities.LeaderboardEntry{}, fmt.Errorf("redis upsert: %w", err)
	}

	e.Score = int(score.Val())
	return e, nil
}

func (s *RedisStore) Top(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	zs, err := s.rdb.ZRevRangeWithScores(ctx, s.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis top: %w", err)
	}
	if len(zs) == 0 {
		return []entities.LeaderboardEntry{}, nil
	}

	profiles := make([]*goredis.MapStringStringCmd, len(zs))
	_, err = s.rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
		for i, z := range zs {
			profiles[i] = p.HGetAll(ctx, s.profileKey(fmt.Sprint(z.Member)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis profiles: %w", err)
	}

	entries := make([]entities.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		id := fmt.Sprint(z.Member)
		fields := profiles[i].Val()
		username := fields["username"]
		if username == "" {
			username = id
		}
		entries = append(entries, entities.LeaderboardEntry{
			ID:          id,
			Username:    username,
			AvatarID:    fields["avatar_id"],
			AvatarColor: fields["avatar_color"],
			Score:       int(z.Score),
		})
	}

	entities.SortEntries(entries)
	return entries, nil
}
