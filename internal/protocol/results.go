package protocol

import (
	"sort"

	"github.com/codeguard-core/codeguard/internal/guard"
	"github.com/codeguard-core/codeguard/internal/tagparser"
	"github.com/codeguard-core/codeguard/internal/theme"
)

// guardTagWire is the wire shape for one entry of setDocument/applyDelta's
// guardTags array.
type guardTagWire struct {
	Line            int                  `json:"line"`
	Identifier      string               `json:"identifier,omitempty"`
	Scope           string               `json:"scope,omitempty"`
	LineCount       int                  `json:"lineCount,omitempty"`
	AddScopes       []string             `json:"addScopes,omitempty"`
	RemoveScopes    []string             `json:"removeScopes,omitempty"`
	AIPermission    tagparser.Permission `json:"aiPermission,omitempty"`
	HumanPermission tagparser.Permission `json:"humanPermission,omitempty"`
	AIIsContext     bool                 `json:"aiIsContext"`
	HumanIsContext  bool                 `json:"humanIsContext"`
	Metadata        string               `json:"metadata,omitempty"`
	Condition       string               `json:"condition,omitempty"`
	ScopeStart      int                  `json:"scopeStart"`
	ScopeEnd        int                  `json:"scopeEnd"`
}

type linePermissionWire struct {
	Line            int                  `json:"line"`
	AIPermission    tagparser.Permission `json:"aiPermission"`
	HumanPermission tagparser.Permission `json:"humanPermission"`
	AIIsContext     bool                 `json:"aiIsContext"`
	HumanIsContext  bool                 `json:"humanIsContext"`
}

// documentResult is the shared shape returned by setDocument and
// applyDelta (spec.md §6).
type documentResult struct {
	GuardTags       []guardTagWire       `json:"guardTags"`
	LinePermissions []linePermissionWire `json:"linePermissions"`
	DocumentVersion int                  `json:"documentVersion"`
}

func toGuardTagWire(tags []guard.GuardTag) []guardTagWire {
	out := make([]guardTagWire, len(tags))
	for i, t := range tags {
		out[i] = guardTagWire{
			Line:            t.LineNumber,
			Identifier:      t.Identifier,
			Scope:           t.Scope,
			LineCount:       t.LineCount,
			AddScopes:       t.AddScopes,
			RemoveScopes:    t.RemoveScopes,
			AIPermission:    t.AIPermission,
			HumanPermission: t.HumanPermission,
			AIIsContext:     t.AIIsContext,
			HumanIsContext:  t.HumanIsContext,
			Metadata:        t.Metadata,
			Condition:       t.Condition,
			ScopeStart:      t.ScopeStart,
			ScopeEnd:        t.ScopeEnd,
		}
	}
	return out
}

func toLinePermissionWire(perms map[int]guard.LinePermission) []linePermissionWire {
	out := make([]linePermissionWire, 0, len(perms))
	for _, p := range perms {
		out = append(out, linePermissionWire{
			Line:            p.Line,
			AIPermission:    p.AIPermission,
			HumanPermission: p.HumanPermission,
			AIIsContext:     p.AIIsContext,
			HumanIsContext:  p.HumanIsContext,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

type versionResult struct {
	Version       string `json:"version"`
	MinCompatible string `json:"minCompatible"`
	Compatible    bool   `json:"compatible"`
}

type pingResult struct {
	Pong   bool  `json:"pong"`
	Uptime int64 `json:"uptime"`
}

type themesResult struct {
	BuiltIn map[string]theme.Theme `json:"builtIn"`
	Custom  map[string]theme.Theme `json:"custom"`
}

type createThemeResult struct {
	ThemeID string `json:"themeId"`
	Message string `json:"message"`
}

type messageResult struct {
	Message string `json:"message"`
}

type exportThemeResult struct {
	Name       string       `json:"name"`
	ExportData theme.Export `json:"exportData"`
}

type importThemeResult struct {
	ThemeID string `json:"themeId"`
	Message string `json:"message"`
}

type currentThemeResult struct {
	SelectedTheme string                 `json:"selectedTheme"`
	IsBuiltIn     bool                   `json:"isBuiltIn"`
	Colors        map[string]theme.Style `json:"colors"`
}

type setCurrentThemeResult struct {
	Message string                 `json:"message"`
	Colors  map[string]theme.Style `json:"colors"`
}
