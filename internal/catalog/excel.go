package catalog

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
)

// ImportConfig describes the layout of a word sheet.
type ImportConfig struct {
	SheetName          string
	StartRow           int // 1-based, rows above are headers
	WordColumn         string
	PartOfSpeechColumn string
	MeaningColumn      string
	LevelColumn        string
	BookColumn         string
	PhoneticColumn     string
	AudioColumn        string
	ExampleColumn      string
	DefaultBook        string // used when the book cell is empty
}

// DefaultImportConfig returns the layout A..H with a header row.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SheetName:          "Sheet1",
		StartRow:           2,
		WordColumn:         "A",
		PartOfSpeechColumn: "B",
		MeaningColumn:      "C",
		LevelColumn:        "D",
		BookColumn:         "E",
		PhoneticColumn:     "F",
		AudioColumn:        "G",
		ExampleColumn:      "H",
		DefaultBook:        "imported",
	}
}

// ImportResult summarizes an import.
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportExcel reads books from a spreadsheet. Rows are grouped into books by
// the book column, in order of first appearance.
func ImportExcel(fs afero.Fs, path string, cfg ImportConfig) ([]entities.Book, *ImportResult, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(cfg.SheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rows: %w", err)
	}

	cols, err := resolveColumns(cfg)
	if err != nil {
		return nil, nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	var books []entities.Book
	index := make(map[string]int)
	seen := make(map[string]struct{})

	for i, row := range rows {
		if i < cfg.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		w := cols.parseRow(row)
		if w.Word == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: empty word", i+1))
			continue
		}
		if w.BookID == "" {
			w.BookID = cfg.DefaultBook
		}

		key := w.BookID + "\x00" + w.Word
		if _, dup := seen[key]; dup {
			result.Skipped++
			continue
		}
		seen[key] = struct{}{}

		pos, ok := index[w.BookID]
		if !ok {
			pos = len(books)
			index[w.BookID] = pos
			books = append(books, entities.Book{ID: w.BookID, Title: w.BookID})
		}
		books[pos].Words = append(books[pos].Words, w)
		result.Imported++
	}

	return books, result, nil
}

type columns struct {
	word, pos, meaning, level, book, phonetic, audio, example int
}

func resolveColumns(cfg ImportConfig) (columns, error) {
	var c columns
	targets := []struct {
		name string
		dst  *int
	}{
		{cfg.WordColumn, &c.word},
		{cfg.PartOfSpeechColumn, &c.pos},
		{cfg.MeaningColumn, &c.meaning},
		{cfg.LevelColumn, &c.level},
		{cfg.BookColumn, &c.book},
		{cfg.PhoneticColumn, &c.phonetic},
		{cfg.AudioColumn, &c.audio},
		{cfg.ExampleColumn, &c.example},
	}
	for _, t := range targets {
		if t.name == "" {
			*t.dst = -1
			continue
		}
		n, err := excelize.ColumnNameToNumber(t.name)
		if err != nil {
			return c, fmt.Errorf("invalid column %q: %w", t.name, err)
		}
		*t.dst = n - 1
	}
	if c.word < 0 {
		return c, fmt.Errorf("word column is required")
	}
	return c, nil
}

func (c columns) parseRow(row []string) entities.Word {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	return entities.Word{
		Word:         cell(c.word),
		PartOfSpeech: cell(c.pos),
		Meaning:      cell(c.meaning),
		Level:        cell(c.level),
		BookID:       cell(c.book),
		Phonetic:     cell(c.phonetic),
		AudioURL:     cell(c.audio),
		Example:      cell(c.example),
	}
}
