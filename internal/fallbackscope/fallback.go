// Package fallbackscope implements the same resolveSemantic contract as
// internal/astscope using regex header matching and indentation/brace
// nesting instead of a parsed tree (spec.md §4.5). It is consulted only
// when no AST grammar is available for a document's language, or when the
// AST resolver itself could not find a match.
package fallbackscope

import (
	"regexp"
	"strings"

	"github.com/codeguard-core/codeguard/internal/docsrc"
)

// headerPattern recognizes a function/class declaration header for one
// language family.
type headerPattern struct {
	function *regexp.Regexp
	class    *regexp.Regexp
	indented bool // Python-style: body ends when indentation returns to <= header's
}

var patterns = map[string]headerPattern{
	"go": {
		function: regexp.MustCompile(`^\s*func\s`),
		class:    regexp.MustCompile(`^\s*type\s+\w+\s+(struct|interface)\b`),
	},
	"python": {
		function: regexp.MustCompile(`^\s*(async\s+def|def)\s`),
		class:    regexp.MustCompile(`^\s*class\s`),
		indented: true,
	},
	"javascript": {
		function: regexp.MustCompile(`^\s*(export\s+)?(async\s+)?function\b|=>\s*\{?\s*$`),
		class:    regexp.MustCompile(`^\s*(export\s+)?class\s`),
	},
	"typescript": {
		function: regexp.MustCompile(`^\s*(export\s+)?(async\s+)?function\b|=>\s*\{?\s*$`),
		class:    regexp.MustCompile(`^\s*(export\s+)?(class|interface)\s`),
	},
	"bash": {
		function: regexp.MustCompile(`^\s*(function\s+)?\w+\s*\(\)\s*\{?`),
	},
	"ruby": {
		function: regexp.MustCompile(`^\s*def\s`),
		class:    regexp.MustCompile(`^\s*class\s`),
		indented: false,
	},
}

var defaultPattern = headerPattern{
	function: regexp.MustCompile(`^\s*function\b`),
}

func patternFor(languageID string) headerPattern {
	if p, ok := patterns[strings.ToLower(languageID)]; ok {
		return p
	}
	return defaultPattern
}

// Resolver resolves scope ranges without a parser.
type Resolver struct{}

// New constructs a Resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve implements the shared resolveSemantic(document, guardLine, scope)
// contract (spec.md §4.4/§4.5) by pattern-matching headers and using
// indentation or brace depth to find the enclosing range's end.
func (r *Resolver) Resolve(src docsrc.Source, guardLine int, scope string) (startLine, endLine int, ok bool) {
	if scope == "" || scope == "context" {
		return 0, 0, false
	}

	p := patternFor(src.LanguageID)

	switch scope {
	case "function", "class", "signature", "body":
		return r.resolveDeclaration(src, guardLine, scope, p)
	case "block":
		return r.resolveBlock(src, guardLine, p)
	case "statement", "expression":
		return guardLine, guardLine, true
	default:
		return r.resolveDeclaration(src, guardLine, "function", p)
	}
}

// resolveDeclaration finds the next matching header at or after
// guardLine+1 and determines where its body ends, either via indentation
// (Python-style) or brace-depth tracking.
func (r *Resolver) resolveDeclaration(src docsrc.Source, guardLine int, scope string, p headerPattern) (int, int, bool) {
	re := p.function
	if scope == "class" && p.class != nil {
		re = p.class
	}
	if re == nil {
		re = p.function
	}

	headerLine := 0
	for ln := guardLine + 1; ln <= src.LineCount(); ln++ {
		if re.MatchString(src.Line(ln)) {
			headerLine = ln
			break
		}
	}
	if headerLine == 0 {
		return 0, 0, false
	}

	var bodyEnd int
	if p.indented {
		bodyEnd = indentEnd(src, headerLine)
	} else {
		bodyEnd = braceEnd(src, headerLine)
	}

	switch scope {
	case "signature":
		return headerLine, headerLine, true
	case "body":
		start := headerLine + 1
		end := bodyEnd
		if start > end {
			return guardLine, guardLine, true
		}
		return start, end, true
	default: // function, class
		return guardLine, bodyEnd, true
	}
}

// resolveBlock implements the "consecutive statements" fallback: the guard
// line itself plus the run of contiguous non-blank, non-guard lines that
// follow it, matching the AST path's convention of folding the guard line
// into the start (astscope.resolveForward).
func (r *Resolver) resolveBlock(src docsrc.Source, guardLine int, p headerPattern) (int, int, bool) {
	end := guardLine
	for ln := guardLine + 1; ln <= src.LineCount(); ln++ {
		line := src.Line(ln)
		if strings.TrimSpace(line) == "" || strings.Contains(line, "@guard:") {
			break
		}
		end = ln
	}
	return guardLine, end, true
}

// indentEnd returns the last line whose indentation exceeds header's base
// indentation, scanning forward from header+1. Blank lines do not
// terminate the run; they are skipped when deciding the final boundary.
func indentEnd(src docsrc.Source, header int) int {
	base := leadingWhitespace(src.Line(header))
	end := header
	for ln := header + 1; ln <= src.LineCount(); ln++ {
		line := src.Line(ln)
		if strings.TrimSpace(line) == "" {
			continue
		}
		if leadingWhitespace(line) <= base {
			break
		}
		end = ln
	}
	return end
}

// braceEnd tracks `{`/`}` nesting starting at header, returning the line on
// which the brace opened at header's line finally closes.
func braceEnd(src docsrc.Source, header int) int {
	depth := 0
	seenOpen := false
	for ln := header; ln <= src.LineCount(); ln++ {
		line := src.Line(ln)
		for _, r := range line {
			switch r {
			case '{':
				depth++
				seenOpen = true
			case '}':
				depth--
			}
		}
		if seenOpen && depth <= 0 {
			return ln
		}
	}
	return src.LineCount()
}

func leadingWhitespace(line string) int {
	n := 0
	for _, r := range line {
		if r == ' ' {
			n++
		} else if r == '\t' {
			n += 8
		} else {
			break
		}
	}
	return n
}
