package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

const fileExt = ".json"

// FileStore keeps every document in its own file under root/<user>/<key>.json.
type FileStore struct {
	fs   afero.Fs
	root string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{fs: fs, root: dir}, nil
}

func (s *FileStore) path(userID string, key Key) string {
	return filepath.Join(s.root, url.PathEscape(userID), string(key)+fileExt)
}

// Load reads a document.
func (s *FileStore) Load(_ context.Context, userID string, key Key) ([]byte, error) {
	if err := checkArgs(userID, key); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	data, err := afero.ReadFile(s.fs, s.path(userID, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Save writes a document through a temporary file and a rename.
func (s *FileStore) Save(_ context.Context, userID string, key Key, data []byte) error {
	if err := checkArgs(userID, key); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	dst := s.path(userID, key)
	if err := s.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create user dir: %w", err)
	}

	tmp := dst + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, dst); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// SaveAll writes documents one by one in key order.
func (s *FileStore) SaveAll(ctx context.Context, userID string, docs map[Key][]byte) error {
	for _, key := range Keys {
		data, ok := docs[key]
		if !ok {
			continue
		}
		if err := s.Save(ctx, userID, key, data); err != nil {
			return err
		}
	}
	return nil
}

// Users lists the user directories.
func (s *FileStore) Users(_ context.Context) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var users []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		id, err := url.PathUnescape(e.Name())
		if err != nil {
			continue
		}
		users = append(users, id)
	}
	slices.Sort(users)
	return users, nil
}
