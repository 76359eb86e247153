package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/wordplan/internal/infra/postgres"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS user_documents (
	user_id    TEXT NOT NULL,
	doc_key    TEXT NOT NULL,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, doc_key)
)`

// PostgresStore keeps documents in a JSONB table.
type PostgresStore struct {
	db postgres.DBTX
	tr *postgres.Transactor
}

// NewPostgresStore creates a PostgresStore. tr may be nil, in which case
// SaveAll writes documents without a transaction.
func NewPostgresStore(db postgres.DBTX, tr *postgres.Transactor) *PostgresStore {
	return &PostgresStore{db: db, tr: tr}
}

// Migrate creates the documents table.
func (r *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate user_documents: %w", err)
	}
	return nil
}

// Load retrieves a document.
func (r *PostgresStore) Load(ctx context.Context, userID string, key Key) ([]byte, error) {
	if err := checkArgs(userID, key); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	query := `
		SELECT data
		FROM user_documents
		WHERE user_id = $1 AND doc_key = $2
	`

	var data []byte
	err := r.db.QueryRow(ctx, query, userID, string(key)).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return data, nil
}

// Save creates or replaces a document.
func (r *PostgresStore) Save(ctx context.Context, userID string, key Key, data []byte) error {
	if err := checkArgs(userID, key); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	query := `
		INSERT INTO user_documents (user_id, doc_key, data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, doc_key) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.Exec(ctx, query, userID, string(key), data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SaveAll writes all documents within one transaction.
func (r *PostgresStore) SaveAll(ctx context.Context, userID string, docs map[Key][]byte) error {
	write := func(ctx context.Context, db postgres.DBTX) error {
		repo := NewPostgresStore(db, nil)
		for _, key := range Keys {
			data, ok := docs[key]
			if !ok {
				continue
			}
			if err := repo.Save(ctx, userID, key, data); err != nil {
				return err
			}
		}
		return nil
	}

	if r.tr == nil {
		return write(ctx, r.db)
	}
	return r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return write(ctx, tx)
	})
}

// Users lists users that have stored documents.
func (r *PostgresStore) Users(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT user_id FROM user_documents ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	return users, nil
}
