// Package docsrc is the shared, read-only view of one source file that
// internal/astscope, internal/fallbackscope, and internal/guard all walk
// over. It exists so the scope resolvers and the guard processor agree on
// line numbering (1-based, spec.md §2) without each reimplementing line
// splitting.
package docsrc

import "strings"

// Source is a text body plus the language id its guard tags and scope
// resolution should be interpreted under.
type Source struct {
	Text       string
	LanguageID string

	lines []string
}

// New splits text into lines, accepting both "\n" and "\r\n" separators.
// The separators themselves are not retained; they exist only as line
// boundaries.
func New(text, languageID string) Source {
	return Source{
		Text:       text,
		LanguageID: languageID,
		lines:      splitLines(text),
	}
}

func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, "\n")
}

// LineCount returns the number of lines in the source.
func (s Source) LineCount() int {
	return len(s.lines)
}

// Line returns the content of the 1-based line n, or "" if n is out of
// range.
func (s Source) Line(n int) string {
	if n < 1 || n > len(s.lines) {
		return ""
	}
	return s.lines[n-1]
}

// IsBlank reports whether 1-based line n is empty or whitespace-only.
// Out-of-range lines count as blank so callers can trim end-of-range
// without a separate bounds check.
func (s Source) IsBlank(n int) bool {
	return strings.TrimSpace(s.Line(n)) == ""
}

// Bytes returns the full text as a byte slice, suitable for feeding a
// tree-sitter parser.
func (s Source) Bytes() []byte {
	return []byte(s.Text)
}
