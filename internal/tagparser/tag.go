// Package tagparser recognizes `@guard:` annotations inside a single line
// of source text and normalizes them into structured tags.
//
// The recognizer is deliberately line-local: it knows nothing about scope
// resolution, comment classification, or the permission stack. Those
// concerns live in internal/scopemap, internal/astscope,
// internal/fallbackscope, and internal/guard.
package tagparser

import "strings"

// Permission is a normalized access level.
type Permission string

const (
	PermissionRead         Permission = "r"
	PermissionWrite        Permission = "w"
	PermissionNone         Permission = "n"
	PermissionContext      Permission = "context"
	PermissionContextWrite Permission = "contextWrite"
)

// Target identifies which class of agent a permission applies to.
type Target string

const (
	TargetAI    Target = "ai"
	TargetHuman Target = "human"
)

// Tag is a single recognized `@guard:` occurrence, normalized.
//
// A line may carry more than one `@guard:` occurrence (e.g.
// "@guard:ai:r @guard:human:w"); Recognize returns one Tag per
// occurrence, in source order. A comma list inside one occurrence (e.g.
// "@guard:ai:r,human:w") yields a single Tag with both targets set.
// internal/guard pushes each Tag as its own stack entry in source order,
// so on a shared line a later Tag overrides earlier ones for the targets
// it sets and inherits the rest.
type Tag struct {
	LineNumber int // 1-based declaration line

	Identifier string // verbatim "[...]" content, if present

	Scope     string // normalized semantic scope name, empty if unset
	LineCount int     // positive when the tag used ".N" instead of a scope name

	AddScopes    []string
	RemoveScopes []string

	AIPermission    Permission
	HumanPermission Permission

	AIIsContext    bool
	HumanIsContext bool

	// Metadata and Condition are captured verbatim; the core does not
	// interpret them (spec.md §4.1).
	Metadata  string
	Condition string
}

// HasAI reports whether the tag carries any AI-target permission or
// context flag.
func (t Tag) HasAI() bool {
	return t.AIPermission != "" || t.AIIsContext
}

// HasHuman reports whether the tag carries any human-target permission or
// context flag.
func (t Tag) HasHuman() bool {
	return t.HumanPermission != "" || t.HumanIsContext
}

// scopeAliases maps surface scope tokens to their normalized form.
var scopeAliases = map[string]string{
	"sig":  "signature",
	"func": "function",
	"stmt": "statement",
	"doc":  "docstring",
	"dec":  "decorator",
	"val":  "value",
	"expr": "expression",
}

// permissionAliases maps surface permission tokens to their normalized
// single-letter (or "context") form.
var permissionAliases = map[string]Permission{
	"r":         PermissionRead,
	"read":      PermissionRead,
	"readonly":  PermissionRead,
	"read-only": PermissionRead,
	"w":         PermissionWrite,
	"write":     PermissionWrite,
	"n":         PermissionNone,
	"noaccess":  PermissionNone,
	"none":      PermissionNone,
	"context":   PermissionContext,
}

// normalizeScope resolves a scope alias to its canonical name. Names with
// no registered alias pass through unchanged (lowercased).
func normalizeScope(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if canon, ok := scopeAliases[s]; ok {
		return canon
	}
	return s
}

// normalizePermission resolves a permission alias. The second return
// value is false when the token is not a recognized permission.
func normalizePermission(s string) (Permission, bool) {
	p, ok := permissionAliases[strings.ToLower(strings.TrimSpace(s))]
	return p, ok
}

// normalizeTargets expands a target token, returning the canonical targets
// it denotes. "all" expands to both ai and human; "hu" aliases to human.
func normalizeTargets(raw string) []Target {
	var out []Target
	for _, part := range strings.Split(raw, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "ai":
			out = append(out, TargetAI)
		case "human", "hu":
			out = append(out, TargetHuman)
		case "all":
			out = append(out, TargetAI, TargetHuman)
		}
	}
	return out
}
