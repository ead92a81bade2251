// Package document holds the single in-memory document the worker operates
// on and applies delta edits to it (spec.md §4.7).
//
// A Store holds at most one document plus its version counter. All methods
// are safe for concurrent use, though the worker loop that owns a Store
// only ever calls into it from one goroutine at a time (spec.md §4.8's
// single-threaded cooperative scheduling model).
package document

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNoDocument is returned by ApplyDelta when no document has been set.
var ErrNoDocument = errors.New("document: no document set")

// Document is an immutable snapshot of the store's state at one version.
type Document struct {
	FileName   string
	LanguageID string
	Text       string
	Version    int
}

// Change is one delta edit, 0-based and half-open at the end position
// (spec.md §4.7).
type Change struct {
	StartLine int
	StartChar int
	EndLine   int
	EndChar   int
	NewText   string
}

// Store owns exactly one document.
type Store struct {
	mu  sync.RWMutex
	doc *Document
}

// New constructs an empty Store.
func New() *Store {
	return &Store{}
}

// SetDocument replaces the store's state atomically. version becomes the
// authoritative version; it need not be 1.
func (s *Store) SetDocument(fileName, languageID, content string, version int) Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &Document{FileName: fileName, LanguageID: languageID, Text: content, Version: version}
	return *s.doc
}

// Current returns the current document and whether one has been set.
func (s *Store) Current() (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return Document{}, false
	}
	return *s.doc, true
}

// ApplyDelta requires version == current version + 1. Each change is
// applied against the result of its predecessors; on any validation
// failure the state is left unchanged and an error is returned.
func (s *Store) ApplyDelta(version int, changes []Change) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return Document{}, ErrNoDocument
	}
	if version != s.doc.Version+1 {
		return Document{}, fmt.Errorf("document: expected version %d, got %d", s.doc.Version+1, version)
	}

	text := s.doc.Text
	for _, c := range changes {
		next, err := applyChange(text, c)
		if err != nil {
			return Document{}, err
		}
		text = next
	}

	s.doc.Text = text
	s.doc.Version = version
	return *s.doc, nil
}

// applyChange replaces the half-open [startLine:startChar, endLine:endChar)
// range of text with newText.
func applyChange(text string, c Change) (string, error) {
	if c.StartLine < 0 || c.EndLine < 0 || c.StartChar < 0 || c.EndChar < 0 {
		return "", fmt.Errorf("document: negative delta coordinate in %+v", c)
	}
	if c.EndLine < c.StartLine || (c.EndLine == c.StartLine && c.EndChar < c.StartChar) {
		return "", fmt.Errorf("document: end position precedes start position in %+v", c)
	}

	lines := splitKeepingTerminators(text)
	startOffset, err := offsetOf(lines, c.StartLine, c.StartChar)
	if err != nil {
		return "", err
	}
	endOffset, err := offsetOf(lines, c.EndLine, c.EndChar)
	if err != nil {
		return "", err
	}
	if endOffset < startOffset {
		return "", fmt.Errorf("document: resolved end offset precedes start offset in %+v", c)
	}

	var b strings.Builder
	b.Grow(len(text) - (endOffset - startOffset) + len(c.NewText))
	b.WriteString(text[:startOffset])
	b.WriteString(c.NewText)
	b.WriteString(text[endOffset:])
	return b.String(), nil
}

// splitKeepingTerminators splits text into lines, each retaining its
// trailing "\n" or "\r\n" (the final line may have none). This lets
// offsetOf compute a byte offset without losing the separator's width.
func splitKeepingTerminators(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i+1])
			start = i + 1
		}
	}
	lines = append(lines, text[start:])
	return lines
}

// offsetOf converts a 0-based (line, char) position into a byte offset
// into the original text. char is a count of bytes into the line's
// content, excluding its line terminator; it may equal the length of the
// line's content (one past the last character) to address the terminator
// boundary itself.
func offsetOf(lines []string, line, char int) (int, error) {
	if line < 0 || line >= len(lines) {
		return 0, fmt.Errorf("document: line %d out of range (document has %d lines)", line, len(lines))
	}
	offset := 0
	for i := 0; i < line; i++ {
		offset += len(lines[i])
	}
	content := strings.TrimRight(lines[line], "\n")
	content = strings.TrimRight(content, "\r")
	if char < 0 || char > len(content) {
		return 0, fmt.Errorf("document: char %d out of range on line %d (line has %d bytes)", char, line, len(content))
	}
	return offset + char, nil
}
