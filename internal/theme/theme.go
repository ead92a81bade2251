// Package theme manages the editor color themes the worker serves: a fixed
// built-in set plus a user-editable custom set, validated and persisted
// under a stable per-user directory (spec.md §4.9, §6).
package theme

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requiredPermissionKeys are the eight style slots every theme must define
// (spec.md §6's theme validation rule).
var requiredPermissionKeys = []string{
	"aiWrite", "aiRead", "aiNoAccess",
	"humanWrite", "humanRead", "humanNoAccess",
	"contextRead", "contextWrite",
}

var validMixPatterns = map[string]bool{
	"aiBorder": true, "aiPriority": true, "average": true,
	"humanBorder": true, "humanPriority": true,
}

// Style is the visual treatment for one permission key.
type Style struct {
	Enabled             bool     `json:"enabled"`
	Color               string   `json:"color" validate:"required,appcolor"`
	Transparency        float64  `json:"transparency" validate:"gte=0,lte=1"`
	BorderOpacity       *float64 `json:"borderOpacity,omitempty" validate:"omitempty,gte=0,lte=1"`
	HighlightEntireLine *bool    `json:"highlightEntireLine,omitempty"`
	MixPattern          *string  `json:"mixPattern,omitempty"`
}

// Theme is one named set of per-permission-key styles.
type Theme struct {
	ID     string           `json:"id"`
	Name   string           `json:"name" validate:"required,max=100"`
	Colors map[string]Style `json:"colors" validate:"required,dive"`
}

var appcolorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// colorValidate is the shared validator instance, matching the reference
// tree's package-level RegisterValidation pattern.
var colorValidate *validator.Validate

func init() {
	colorValidate = validator.New()
	_ = colorValidate.RegisterValidation("appcolor", validateAppColor)
}

// validateAppColor checks a #RGB or #RRGGBB hex color.
func validateAppColor(fl validator.FieldLevel) bool {
	return appcolorPattern.MatchString(fl.Field().String())
}

// Validate runs struct-tag validation plus the structural checks a tag
// alone cannot express: all eight permission keys present, and any
// mixPattern value drawn from the fixed enum.
func (t Theme) Validate() error {
	if err := colorValidate.Struct(t); err != nil {
		return err
	}
	for _, key := range requiredPermissionKeys {
		if _, ok := t.Colors[key]; !ok {
			return fmt.Errorf("theme: missing required permission key %q", key)
		}
	}
	for key, style := range t.Colors {
		if style.MixPattern != nil && !validMixPatterns[*style.MixPattern] {
			return fmt.Errorf("theme: colors[%s].mixPattern %q is not a recognized pattern", key, *style.MixPattern)
		}
	}
	return nil
}

// NormalizeName reduces a display name to a lowercase, punctuation-stripped
// identifier used as the theme's map key (spec.md §4.9).
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
