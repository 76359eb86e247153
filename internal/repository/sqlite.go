package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS user_documents (
	user_id    TEXT NOT NULL,
	doc_key    TEXT NOT NULL,
	data       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, doc_key)
)`

const sqliteUpsert = `
INSERT INTO user_documents (user_id, doc_key, data, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, doc_key) DO UPDATE SET
	data = excluded.data,
	updated_at = excluded.updated_at`

// SQLiteStore keeps documents in a single SQLite table.
type SQLiteStore struct {
	db *sqlx.DB
}

// OpenSQLite opens (and creates if needed) the database at path.
// Use ":memory:" for a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: shared.
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context, userID string, key Key) ([]byte, error) {
	if err := checkArgs(userID, key); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	var data []byte
	err := s.db.GetContext(ctx, &data,
		`SELECT data FROM user_documents WHERE user_id = ? AND doc_key = ?`, userID, string(key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return data, nil
}

func (s *SQLiteStore) Save(ctx context.Context, userID string, key Key, data []byte) error {
	if err := checkArgs(userID, key); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, sqliteUpsert, userID, string(key), data, time.Now().UTC()); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SaveAll writes all documents in one transaction.
func (s *SQLiteStore) SaveAll(ctx context.Context, userID string, docs map[Key][]byte) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, key := range Keys {
		data, ok := docs[key]
		if !ok {
			continue
		}
		if err = checkArgs(userID, key); err != nil {
			return fmt.Errorf("save: %w", err)
		}
		if _, err = tx.ExecContext(ctx, sqliteUpsert, userID, string(key), data, now); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Users(ctx context.Context) ([]string, error) {
	var users []string
	if err := s.db.SelectContext(ctx, &users,
		`SELECT DISTINCT user_id FROM user_documents ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
