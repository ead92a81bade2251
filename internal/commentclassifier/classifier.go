// Package commentclassifier decides whether a line of source text is a
// comment-only line for a given host language.
//
// The classification is intentionally shallow: it never builds an AST. It
// exists so internal/guard can bound a "context" documentation run
// (spec.md §4.6) without depending on a full parser.
package commentclassifier

import "strings"

// rules describes the comment syntax of one language.
type rules struct {
	linePrefixes  []string // e.g. "//", "#", "--"
	blockOpen     string   // e.g. "/*", "<!--"
	blockClose    string   // e.g. "*/", "-->"
	docstringOpen []string // e.g. `"""`, `'''` for Python
}

// langRules maps a language id to its comment syntax. Language ids not
// present fall back to the "//" default (defaultRules), matching the
// reference tree's per-language table pattern with an implicit common
// base (services/code_buddy/lsp/languages.go).
var langRules = map[string]rules{
	"go":         {linePrefixes: []string{"//"}, blockOpen: "/*", blockClose: "*/"},
	"javascript": {linePrefixes: []string{"//"}, blockOpen: "/*", blockClose: "*/"},
	"typescript": {linePrefixes: []string{"//"}, blockOpen: "/*", blockClose: "*/"},
	"jsx":        {linePrefixes: []string{"//"}, blockOpen: "/*", blockClose: "*/"},
	"tsx":        {linePrefixes: []string{"//"}, blockOpen: "/*", blockClose: "*/"},
	"c":          {linePrefixes: []string{"//"}, blockOpen: "/*", blockClose: "*/"},
	"cpp":        {linePrefixes: []string{"//"}, blockOpen: "/*", blockClose: "*/"},
	"java":       {linePrefixes: []string{"//"}, blockOpen: "/*", blockClose: "*/"},
	"rust":       {linePrefixes: []string{"//"}, blockOpen: "/*", blockClose: "*/"},
	"css":        {blockOpen: "/*", blockClose: "*/"},

	"python":     {linePrefixes: []string{"#"}, docstringOpen: []string{`"""`, `'''`}},
	"bash":       {linePrefixes: []string{"#"}},
	"sh":         {linePrefixes: []string{"#"}},
	"ruby":       {linePrefixes: []string{"#"}, blockOpen: "=begin", blockClose: "=end"},
	"yaml":       {linePrefixes: []string{"#"}},
	"dockerfile": {linePrefixes: []string{"#"}},
	"toml":       {linePrefixes: []string{"#"}},

	"sql": {linePrefixes: []string{"--"}, blockOpen: "/*", blockClose: "*/"},

	"html":     {blockOpen: "<!--", blockClose: "-->"},
	"markdown": {blockOpen: "<!--", blockClose: "-->"},
	"xml":      {blockOpen: "<!--", blockClose: "-->"},
}

var defaultRules = rules{linePrefixes: []string{"//"}, blockOpen: "/*", blockClose: "*/"}

func rulesFor(languageID string) rules {
	if r, ok := langRules[strings.ToLower(languageID)]; ok {
		return r
	}
	return defaultRules
}

// IsCommentOnly reports whether line, stripped of leading whitespace, is
// entirely a comment for languageID.
//
// inBlockComment should be threaded across successive calls for the same
// document: it is the block-comment/docstring continuation state left by
// the previous line, and the returned state must be passed back in on the
// next call. A fresh scan starts with inBlockComment=false.
func IsCommentOnly(line, languageID string, inBlockComment bool) (isComment bool, stillInBlock bool) {
	trimmed := strings.TrimSpace(line)
	r := rulesFor(languageID)

	if inBlockComment {
		closer := r.blockClose
		if closer == "" && len(r.docstringOpen) > 0 {
			// Docstrings use the same token to open and close.
			for _, open := range r.docstringOpen {
				if strings.Contains(trimmed, open) {
					return true, false
				}
			}
			return true, true
		}
		if closer != "" && strings.Contains(trimmed, closer) {
			return true, false
		}
		return true, true
	}

	if trimmed == "" {
		return false, false
	}

	for _, p := range r.linePrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true, false
		}
	}

	if r.blockOpen != "" && strings.HasPrefix(trimmed, r.blockOpen) {
		closed := r.blockClose != "" && strings.Contains(trimmed[len(r.blockOpen):], r.blockClose)
		return true, !closed
	}

	for _, open := range r.docstringOpen {
		if strings.HasPrefix(trimmed, open) {
			rest := trimmed[len(open):]
			closedOnSameLine := strings.Contains(rest, open)
			return true, !closedOnSameLine
		}
	}

	return false, false
}
