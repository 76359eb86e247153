// Package entities contains domain entities used across the application.
package entities

import "strings"

// Word is a single vocabulary entry of a book.
type Word struct {
	Word         string `json:"word"` // unique, case-sensitive key
	PartOfSpeech string `json:"partOfSpeech"`
	Meaning      string `json:"meaning"`
	Level        string `json:"level"`
	BookID       string `json:"bookId"`
	Phonetic     string `json:"phonetic,omitempty"`
	AudioURL     string `json:"audioUrl,omitempty"`
	Example      string `json:"example,omitempty"`
}

// Book is an ordered collection of words.
type Book struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Words []Word `json:"words"`
}

// WordOverride patches display fields of a word. Empty fields are ignored.
type WordOverride struct {
	Meaning  string `json:"meaning,omitempty"`
	Phonetic string `json:"phonetic,omitempty"`
	AudioURL string `json:"audioUrl,omitempty"`
	Example  string `json:"example,omitempty"`
}

// OverrideKey normalizes a word into the key used by the override map.
func OverrideKey(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// WithOverride returns a copy of w with the non-empty override fields applied.
func (w Word) WithOverride(o WordOverride) Word {
	if o.Meaning != "" {
		w.Meaning = o.Meaning
	}
	if o.Phonetic != "" {
		w.Phonetic = o.Phonetic
	}
	if o.AudioURL != "" {
		w.AudioURL = o.AudioURL
	}
	if o.Example != "" {
		w.Example = o.Example
	}
	return w
}
