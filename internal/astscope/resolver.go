// Package astscope resolves a semantic scope name ("function", "class",
// "block", "signature", "body", "statement", ...) anchored at a guard tag's
// line into a concrete [startLine, endLine] range, by parsing the host
// source with the matching tree-sitter grammar and walking the resulting
// tree (spec.md §4.4).
//
// Only languages with a registered grammar are handled here. Everything
// else is internal/fallbackscope's job; Resolve reports ok=false for any
// language it has no grammar for so the caller can fall through.
package astscope

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/codeguard-core/codeguard/internal/docsrc"
	"github.com/codeguard-core/codeguard/internal/scopemap"
)

type languageFactory func() *sitter.Language

var registry = map[string]languageFactory{
	"go":         golang.GetLanguage,
	"python":     python.GetLanguage,
	"typescript": typescript.GetLanguage,
	"javascript": typescript.GetLanguage, // nearest grammar available; JS is a TS subset for our scope tables
	"bash":       bash.GetLanguage,
	"sh":         bash.GetLanguage,
	"html":       html.GetLanguage,
	"yaml":       yaml.GetLanguage,
}

// Supports reports whether languageID has a registered grammar.
func Supports(languageID string) bool {
	_, ok := registry[strings.ToLower(languageID)]
	return ok
}

// Resolver parses source text on demand. It holds no state between calls
// and is safe for concurrent use: each Resolve call builds its own
// tree-sitter parser, matching the reference parsers' "new instance per
// call" thread-safety rule (services/code_buddy/ast/go_parser.go).
type Resolver struct{}

// New constructs a Resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve anchors scope at the 1-based line guardLine within src and
// returns the node-derived line range. ok is false when src.LanguageID has
// no grammar, the source fails to parse, or no node satisfies scope.
func (r *Resolver) Resolve(src docsrc.Source, guardLine int, scope string) (startLine, endLine int, ok bool) {
	if scope == "" || scope == "context" {
		return 0, 0, false
	}
	factory, known := registry[strings.ToLower(src.LanguageID)]
	if !known {
		return 0, 0, false
	}

	types := scopemap.NodeTypesFor(src.LanguageID, scope)
	if len(types) == 0 && scope != "body" {
		// "body" has no scope-map entry of its own: resolveBody finds the
		// function node heuristically and its block child via "block".
		return 0, 0, false
	}
	typeSet := toSet(types)

	parser := sitter.NewParser()
	parser.SetLanguage(factory())
	tree, err := parser.ParseCtx(context.Background(), nil, src.Bytes())
	if err != nil || tree == nil {
		return 0, 0, false
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return 0, 0, false
	}

	switch scope {
	case "signature":
		return r.resolveSignature(root, src, guardLine, typeSet)
	case "body":
		return r.resolveBody(root, src, guardLine, typeSet)
	case "statement", "expression":
		return r.resolveEnclosing(root, src, guardLine, typeSet)
	default:
		return r.resolveForward(root, src, guardLine, scope, typeSet)
	}
}

// resolveForward implements the "function/class/block" rule: walk forward
// from the line after the guard tag for the nearest node whose type
// satisfies scope, and report its range with the guard line itself folded
// into the start.
func (r *Resolver) resolveForward(root *sitter.Node, src docsrc.Source, guardLine int, scope string, typeSet map[string]bool) (int, int, bool) {
	if scope == "block" && !hasEnclosingDeclaration(root, guardLine) {
		// No surrounding function/class: caller falls through to the
		// fallback resolver's consecutive-statements rule (spec.md §4.5).
		return 0, 0, false
	}

	minRow := uint32(guardLine) // row index of the line *after* guardLine
	node := earliestMatch(root, typeSet, minRow)
	if node == nil {
		return 0, 0, false
	}

	end := adjustEnd(node)
	if src.LanguageID == "python" && scope == "class" {
		end = trimTrailingBlank(src, guardLine, end)
	}
	return guardLine, end, true
}

// hasEnclosingDeclaration reports whether guardLine sits inside a
// function/method/class node.
func hasEnclosingDeclaration(root *sitter.Node, guardLine int) bool {
	row := uint32(0)
	if guardLine > 1 {
		row = uint32(guardLine - 1)
	}
	n := deepestContaining(root, row)
	for n != nil {
		t := n.Type()
		if strings.Contains(t, "function") || strings.Contains(t, "method") || strings.Contains(t, "class") {
			return true
		}
		n = n.Parent()
	}
	return false
}

// resolveSignature finds the nearest enclosing (or, failing that, the
// nearest following) function/method node and returns its header only: from
// the declaration line up to, but not including, the line its body block
// opens on.
func (r *Resolver) resolveSignature(root *sitter.Node, src docsrc.Source, guardLine int, typeSet map[string]bool) (int, int, bool) {
	node := enclosingOrFollowing(root, guardLine, typeSet)
	if node == nil {
		return 0, 0, false
	}

	start := int(node.StartPoint().Row) + 1
	end := adjustEnd(node)
	if body := firstBlockChild(node, src.LanguageID); body != nil {
		bodyStartLine := int(body.StartPoint().Row) + 1
		end = bodyStartLine - 1
		if end < start {
			// The body opens on the same line the signature ends on
			// (common for Go/JS); include that line itself.
			end = bodyStartLine
		}
	}
	if end < start {
		end = start
	}
	return start, end, true
}

// resolveBody is the inverse of resolveSignature: the interior of the
// function's body block, with the opening/closing delimiter lines trimmed
// off.
func (r *Resolver) resolveBody(root *sitter.Node, src docsrc.Source, guardLine int, typeSet map[string]bool) (int, int, bool) {
	node := enclosingOrFollowing(root, guardLine, nil)
	if node == nil {
		return 0, 0, false
	}
	body := firstBlockChild(node, src.LanguageID)
	if body == nil {
		return 0, 0, false
	}

	bodyStart := int(body.StartPoint().Row) + 1
	bodyEnd := adjustEnd(body)
	start := bodyStart + 1
	end := bodyEnd - 1
	if start > end {
		return guardLine, guardLine, true
	}
	return start, end, true
}

// resolveEnclosing finds the smallest node containing guardLine whose type
// satisfies scope, walking up from the deepest node at that position.
func (r *Resolver) resolveEnclosing(root *sitter.Node, src docsrc.Source, guardLine int, typeSet map[string]bool) (int, int, bool) {
	row := uint32(0)
	if guardLine > 1 {
		row = uint32(guardLine - 1)
	}
	n := deepestContaining(root, row)
	for n != nil {
		if typeSet[n.Type()] {
			return int(n.StartPoint().Row) + 1, adjustEnd(n), true
		}
		n = n.Parent()
	}
	return 0, 0, false
}

// enclosingOrFollowing finds the function/method node enclosing guardLine;
// if none encloses it (the guard tag sits on a line above an upcoming
// declaration), it falls back to the nearest following declaration. A nil
// typeSet is replaced by functionLikeTypes(root), the function/method node
// types found near the top of the tree, for both phases.
func enclosingOrFollowing(root *sitter.Node, guardLine int, typeSet map[string]bool) *sitter.Node {
	if typeSet == nil {
		typeSet = functionLikeTypes(root)
	}

	row := uint32(0)
	if guardLine > 1 {
		row = uint32(guardLine - 1)
	}
	n := deepestContaining(root, row)
	for n != nil {
		if typeSet[n.Type()] {
			return n
		}
		n = n.Parent()
	}
	return earliestMatch(root, typeSet, uint32(guardLine))
}

// functionLikeTypes collects every distinct node type seen at the top two
// levels of the tree that looks like a function/method declaration. It is
// the best-effort type set resolveBody searches with, since no language's
// scope table defines a "body" entry.
func functionLikeTypes(root *sitter.Node) map[string]bool {
	set := map[string]bool{}
	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		if n == nil || depth > 2 {
			return
		}
		if strings.Contains(n.Type(), "function") || strings.Contains(n.Type(), "method") {
			set[n.Type()] = true
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), depth+1)
		}
	}
	walk(root, 0)
	return set
}

// firstBlockChild returns the first direct child of node whose type is one
// of languageID's "block" scope node types.
func firstBlockChild(node *sitter.Node, languageID string) *sitter.Node {
	blockTypes := toSet(scopemap.NodeTypesFor(languageID, "block"))
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c != nil && blockTypes[c.Type()] {
			return c
		}
	}
	return nil
}

// earliestMatch returns the node of minimal start position, among all nodes
// in the tree rooted at root whose type is in typeSet and whose start row
// is >= minRow. Filtering to start rows at or after minRow is what gives a
// sibling starting exactly at the search line priority over an ancestor
// that began earlier and merely encloses it.
func earliestMatch(root *sitter.Node, typeSet map[string]bool, minRow uint32) *sitter.Node {
	var best *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if typeSet[n.Type()] && n.StartPoint().Row >= minRow {
			if best == nil || isEarlier(n, best) {
				best = n
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return best
}

func isEarlier(a, b *sitter.Node) bool {
	ap, bp := a.StartPoint(), b.StartPoint()
	if ap.Row != bp.Row {
		return ap.Row < bp.Row
	}
	return ap.Column < bp.Column
}

// deepestContaining returns the most specific node in the tree whose range
// spans row (0-based).
func deepestContaining(n *sitter.Node, row uint32) *sitter.Node {
	if n == nil {
		return nil
	}
	if row < n.StartPoint().Row || row > n.EndPoint().Row {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if row >= c.StartPoint().Row && row <= c.EndPoint().Row {
			if d := deepestContaining(c, row); d != nil {
				return d
			}
			break
		}
	}
	return n
}

// adjustEnd converts node's end position to a 1-based line number. A node
// whose end column is 0 actually closes on the previous line (the newline
// that terminates it belongs to the node, the line after does not).
func adjustEnd(node *sitter.Node) int {
	end := node.EndPoint()
	line := int(end.Row) + 1
	start := int(node.StartPoint().Row) + 1
	if end.Column == 0 && line > start {
		line--
	}
	return line
}

func trimTrailingBlank(src docsrc.Source, start, end int) int {
	for end > start && src.IsBlank(end) {
		end--
	}
	return end
}

func toSet(types []string) map[string]bool {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}
