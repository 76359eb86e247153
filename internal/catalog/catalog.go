// Package catalog provides the vocabulary books a plan draws its words from.
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrDuplicateBook = errors.New("book already exists")
)

// Catalog holds the loaded books and the word overrides.
// Source entries are never modified; overrides are merged when words are read.
type Catalog struct {
	mu        sync.RWMutex
	books     []entities.Book
	overrides map[string]entities.WordOverride
}

// New creates a catalog from books and overrides keyed by word text.
func New(books []entities.Book, overrides map[string]entities.WordOverride) *Catalog {
	c := &Catalog{overrides: make(map[string]entities.WordOverride, len(overrides))}
	for _, b := range books {
		c.books = append(c.books, normalizeBook(b))
	}
	for word, o := range overrides {
		c.overrides[entities.OverrideKey(word)] = o
	}
	return c
}

// Books returns all books with overrides applied.
func (c *Catalog) Books() []entities.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entities.Book, 0, len(c.books))
	for _, b := range c.books {
		out = append(out, c.resolve(b))
	}
	return out
}

// Book returns a single book with overrides applied.
func (c *Catalog) Book(id string) (entities.Book, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, b := range c.books {
		if b.ID == id {
			return c.resolve(b), nil
		}
	}
	return entities.Book{}, fmt.Errorf("%w: %s", ErrBookNotFound, id)
}

// AddBook registers a user-added book.
func (c *Catalog) AddBook(b entities.Book) error {
	if b.ID == "" {
		return fmt.Errorf("add book: empty id")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.books {
		if existing.ID == b.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateBook, b.ID)
		}
	}
	c.books = append(c.books, normalizeBook(b))
	return nil
}

// SetOverride patches the display fields of word.
func (c *Catalog) SetOverride(word string, o entities.WordOverride) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overrides[entities.OverrideKey(word)] = o
}

// Overrides returns a copy of the override map.
func (c *Catalog) Overrides() map[string]entities.WordOverride {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.overrides)
}

// Pool returns the words of the selected books in catalog order.
// A word key listed in several books appears once, from the first book.
func (c *Catalog) Pool(selected map[string]struct{}) []entities.Word {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	var pool []entities.Word
	for _, b := range c.books {
		if _, ok := selected[b.ID]; !ok {
			continue
		}
		for _, w := range b.Words {
			if _, dup := seen[w.Word]; dup {
				continue
			}
			seen[w.Word] = struct{}{}
			pool = append(pool, c.apply(w))
		}
	}
	return pool
}

func (c *Catalog) resolve(b entities.Book) entities.Book {
	words := make([]entities.Word, len(b.Words))
	for i, w := range b.Words {
		words[i] = c.apply(w)
	}
	b.Words = words
	return b
}

func (c *Catalog) apply(w entities.Word) entities.Word {
	if o, ok := c.overrides[entities.OverrideKey(w.Word)]; ok {
		return w.WithOverride(o)
	}
	return w
}

// normalizeBook copies the word slice and fills missing book ids.
func normalizeBook(b entities.Book) entities.Book {
	b.Words = slices.Clone(b.Words)
	for i := range b.Words {
		if b.Words[i].BookID == "" {
			b.Words[i].BookID = b.ID
		}
	}
	if b.Title == "" {
		b.Title = b.ID
	}
	return b
}
