package ranking

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/infra/postgres"
)

// PostgresStore keeps the leaderboard in a table and merges scores in SQL.
type PostgresStore struct {
	db postgres.DBTX
}

func NewPostgresStore(db postgres.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the leaderboard table.
func (r *PostgresStore) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS leaderboard (
			id           TEXT PRIMARY KEY,
			username     TEXT NOT NULL,
			avatar_id    TEXT NOT NULL DEFAULT '',
			avatar_color TEXT NOT NULL DEFAULT '',
			score        INTEGER NOT NULL CHECK (score >= 0),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS leaderboard_score_idx ON leaderboard (score DESC)
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("migrate leaderboard: %w", err)
	}
	return nil
}

// Upsert inserts the entry or merges it with GREATEST on conflict.
func (r *PostgresStore) Upsert(ctx context.Context, e entities.LeaderboardEntry) (entities.LeaderboardEntry, error) {
	if err := Validate(e); err != nil {
		return entities.LeaderboardEntry{}, err
	}

	query := `
		INSERT INTO leaderboard (id, username, avatar_id, avatar_color, score, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			avatar_id = EXCLUDED.avatar_id,
			avatar_color = EXCLUDED.avatar_color,
			score = GREATEST(leaderboard.score, EXCLUDED.score),
			updated_at = NOW()
		RETURNING id, username, avatar_id, avatar_color, score
	`

	var out entities.LeaderboardEntry
	err := r.db.QueryRow(ctx, query, e.ID, e.Username, e.AvatarID, e.AvatarColor, e.Score).Scan(
		&out.ID,
		&out.Username,
		&out.AvatarID,
		&out.AvatarColor,
		&out.Score,
	)
	if err != nil {
		return entities.LeaderboardEntry{}, fmt.Errorf("upsert leaderboard: %w", err)
	}
	return out, nil
}

// Top returns the highest scores.
func (r *PostgresStore) Top(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	query := `
		SELECT id, username, avatar_id, avatar_color, score
		FROM leaderboard
		ORDER BY score DESC, username
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.LeaderboardEntry, error) {
		var e entities.LeaderboardEntry
		err := row.Scan(&e.ID, &e.Username, &e.AvatarID, &e.AvatarColor, &e.Score)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan leaderboard: %w", err)
	}
	return entries, nil
}
