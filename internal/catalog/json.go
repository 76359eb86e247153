package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
)

// document is the on-disk catalog format.
type document struct {
	Books     []entities.Book                  `json:"books"`
	Overrides map[string]entities.WordOverride `json:"overrides"`
}

// LoadJSON reads a catalog document from path.
func LoadJSON(fs afero.Fs, path string) (*Catalog, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var doc document
	if err = json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog JSON: %w", err)
	}

	for _, b := range doc.Books {
		if b.ID == "" {
			return nil, fmt.Errorf("catalog %s: book without id", path)
		}
	}

	return New(doc.Books, doc.Overrides), nil
}

// SaveJSON writes c as a catalog document to path.
func SaveJSON(fs afero.Fs, path string, c *Catalog) error {
	doc := document{Books: c.Books(), Overrides: c.Overrides()}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err = afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
