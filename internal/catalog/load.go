package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Load reads a catalog from a .json document or an .xlsx sheet.
func Load(fs afero.Fs, path, sheet string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		cfg := DefaultImportConfig()
		if sheet != "" {
			cfg.SheetName = sheet
		}
		books, _, err := ImportExcel(fs, path, cfg)
		if err != nil {
			return nil, err
		}
		return New(books, nil), nil
	case ".json":
		return LoadJSON(fs, path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}
}
