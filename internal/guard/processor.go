// Package guard is the processor at the center of the core: it walks a
// document line by line, recognizes guard tags, resolves each to a line
// range, and evaluates the resulting overlapping guards into a per-line
// permission map (spec.md §4.6).
package guard

import (
	"sort"
	"strings"

	"github.com/codeguard-core/codeguard/internal/astscope"
	"github.com/codeguard-core/codeguard/internal/commentclassifier"
	"github.com/codeguard-core/codeguard/internal/docsrc"
	"github.com/codeguard-core/codeguard/internal/fallbackscope"
	"github.com/codeguard-core/codeguard/internal/tagparser"
)

// GuardTag is a recognized tag plus its resolved, inclusive 1-based line
// range.
type GuardTag struct {
	tagparser.Tag
	ScopeStart int
	ScopeEnd   int
}

// LinePermission is the effective permission state at one line.
type LinePermission struct {
	Line            int
	AIPermission    tagparser.Permission
	HumanPermission tagparser.Permission
	AIIsContext     bool
	HumanIsContext  bool
}

const (
	defaultAI    = tagparser.PermissionRead
	defaultHuman = tagparser.PermissionWrite
)

// stackEntry is one active guard's contribution, a full snapshot of both
// targets at the moment it was pushed (spec.md's Guard Stack Entry).
type stackEntry struct {
	aiPermission    tagparser.Permission
	humanPermission tagparser.Permission
	aiIsContext     bool
	humanIsContext  bool
	startLine       int
	endLine         int
	isLineLimited   bool
}

func (e stackEntry) carriesContext() bool {
	return e.aiIsContext || e.humanIsContext
}

// Processor runs the recognizer and scope resolvers over a document and
// evaluates the guard stack.
type Processor struct {
	ast      *astscope.Resolver
	fallback *fallbackscope.Resolver
}

// New constructs a Processor.
func New() *Processor {
	return &Processor{ast: astscope.New(), fallback: fallbackscope.New()}
}

// Parse walks every line of src, recognizing and resolving every guard tag
// found.
func (p *Processor) Parse(src docsrc.Source) []GuardTag {
	var tags []GuardTag
	for ln := 1; ln <= src.LineCount(); ln++ {
		for _, t := range tagparser.Recognize(src.Line(ln), ln) {
			gt := GuardTag{Tag: t}
			p.resolveScope(src, &gt)
			tags = append(tags, gt)
		}
	}
	return tags
}

func (p *Processor) resolveScope(src docsrc.Source, gt *GuardTag) {
	n := src.LineCount()

	switch {
	case gt.LineCount > 0:
		gt.ScopeStart = gt.LineNumber
		end := gt.LineNumber + gt.LineCount - 1
		if end > n {
			end = n
		}
		gt.ScopeEnd = end

	case gt.Scope == "context" || ((gt.AIIsContext || gt.HumanIsContext) && gt.Scope == ""):
		p.resolveContextRun(src, gt)

	case gt.Scope != "":
		p.resolveViaScopeName(src, gt, gt.Scope)

	default:
		p.resolveViaScopeName(src, gt, "block")
	}
}

// resolveContextRun computes the documentation run immediately following a
// context-bearing tag (spec.md §4.6, second bullet).
func (p *Processor) resolveContextRun(src docsrc.Source, gt *GuardTag) {
	gt.ScopeStart = gt.LineNumber + 1

	lastContent := 0
	inBlock := false
	for ln := gt.ScopeStart; ln <= src.LineCount(); ln++ {
		line := src.Line(ln)
		if strings.Contains(line, "@guard:") {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		isComment, stillIn := commentclassifier.IsCommentOnly(line, src.LanguageID, inBlock)
		if !isComment {
			break
		}
		inBlock = stillIn
		lastContent = ln
	}

	if lastContent == 0 {
		gt.ScopeEnd = gt.ScopeStart - 1 // contributes nothing (spec.md §8 context exclusion)
		return
	}
	gt.ScopeEnd = lastContent
}

// resolveViaScopeName tries the AST resolver then the fallback resolver;
// on total failure the tag degrades to a self-scoped single line (spec.md
// §4.6 failure semantics).
func (p *Processor) resolveViaScopeName(src docsrc.Source, gt *GuardTag, scope string) {
	if astscope.Supports(src.LanguageID) {
		if s, e, ok := p.ast.Resolve(src, gt.LineNumber, scope); ok {
			gt.ScopeStart, gt.ScopeEnd = s, e
			return
		}
	}
	if s, e, ok := p.fallback.Resolve(src, gt.LineNumber, scope); ok {
		gt.ScopeStart, gt.ScopeEnd = s, e
		return
	}
	gt.ScopeStart, gt.ScopeEnd = gt.LineNumber, gt.LineNumber
}

// Permissions evaluates the guard stack over every line of src, given the
// tags already resolved by Parse.
func (p *Processor) Permissions(src docsrc.Source, tags []GuardTag) map[int]LinePermission {
	sorted := make([]GuardTag, len(tags))
	copy(sorted, tags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LineNumber < sorted[j].LineNumber
	})

	n := src.LineCount()
	result := make(map[int]LinePermission, n)

	var stack []stackEntry
	idx := 0

	// running is the effective permission in force up through the line just
	// processed, independent of whether the stack entry that produced it has
	// since expired. A tag that leaves an axis unset inherits from this, not
	// from whatever the stack reverts to after popping expired entries: the
	// two differ exactly when a tag pushes on the line a prior tag's range
	// ends, and it is the prior tag's value that must carry over.
	running := stackEntry{aiPermission: defaultAI, humanPermission: defaultHuman}

	for line := 1; line <= n; line++ {
		stack = popExpired(stack, line)

		for idx < len(sorted) && sorted[idx].LineNumber == line {
			tag := sorted[idx]
			idx++
			if tag.ScopeEnd < tag.ScopeStart {
				continue // degenerate range (e.g. an empty context run) contributes nothing
			}

			stack = popTrailingContext(stack)

			base := running
			entry := stackEntry{
				startLine:     tag.LineNumber,
				endLine:       tag.ScopeEnd,
				isLineLimited: tag.LineCount > 0,
			}

			if tag.HasAI() {
				entry.aiIsContext = tag.AIIsContext
				if tag.AIIsContext && tag.AIPermission == "" {
					entry.aiPermission = base.aiPermission
				} else {
					entry.aiPermission = tag.AIPermission
				}
			} else {
				entry.aiPermission = base.aiPermission
				entry.aiIsContext = base.aiIsContext
			}

			if tag.HasHuman() {
				entry.humanIsContext = tag.HumanIsContext
				if tag.HumanIsContext && tag.HumanPermission == "" {
					entry.humanPermission = base.humanPermission
				} else {
					entry.humanPermission = tag.HumanPermission
				}
			} else {
				entry.humanPermission = base.humanPermission
				entry.humanIsContext = base.humanIsContext
			}

			stack = append(stack, entry)
			running = entry
		}

		top := topOrDefault(stack)
		result[line] = LinePermission{
			Line:            line,
			AIPermission:    top.aiPermission,
			HumanPermission: top.humanPermission,
			AIIsContext:     top.aiIsContext,
			HumanIsContext:  top.humanIsContext,
		}
		running = top
	}

	return result
}

// popExpired removes every entry whose endLine < line, and after each such
// pop also removes any context entries newly exposed at the top: a context
// guard interrupted by something stacked above it cannot resume once that
// interruption ends (spec.md §4.6).
func popExpired(stack []stackEntry, line int) []stackEntry {
	for len(stack) > 0 && stack[len(stack)-1].endLine < line {
		stack = stack[:len(stack)-1]
		stack = popTrailingContext(stack)
	}
	return stack
}

func popTrailingContext(stack []stackEntry) []stackEntry {
	for len(stack) > 0 && stack[len(stack)-1].carriesContext() {
		stack = stack[:len(stack)-1]
	}
	return stack
}

func topOrDefault(stack []stackEntry) stackEntry {
	if len(stack) == 0 {
		return stackEntry{aiPermission: defaultAI, humanPermission: defaultHuman}
	}
	return stack[len(stack)-1]
}
