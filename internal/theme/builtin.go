package theme

// builtin is the fixed set of themes shipped with the core. It is never
// written to disk and never mutated at runtime.
var builtin = map[string]Theme{
	"default": {
		ID:   "default",
		Name: "Default",
		Colors: map[string]Style{
			"aiWrite":       {Enabled: true, Color: "#2ecc71", Transparency: 0.15},
			"aiRead":        {Enabled: true, Color: "#3498db", Transparency: 0.10},
			"aiNoAccess":    {Enabled: true, Color: "#e74c3c", Transparency: 0.15},
			"humanWrite":    {Enabled: true, Color: "#f1c40f", Transparency: 0.10},
			"humanRead":     {Enabled: true, Color: "#9b59b6", Transparency: 0.08},
			"humanNoAccess": {Enabled: true, Color: "#c0392b", Transparency: 0.15},
			"contextRead":   {Enabled: true, Color: "#95a5a6", Transparency: 0.08},
			"contextWrite":  {Enabled: true, Color: "#7f8c8d", Transparency: 0.10},
		},
	},
	"high-contrast": {
		ID:   "high-contrast",
		Name: "High Contrast",
		Colors: map[string]Style{
			"aiWrite":       {Enabled: true, Color: "#00ff00", Transparency: 0.25},
			"aiRead":        {Enabled: true, Color: "#00aaff", Transparency: 0.20},
			"aiNoAccess":    {Enabled: true, Color: "#ff0000", Transparency: 0.25},
			"humanWrite":    {Enabled: true, Color: "#ffff00", Transparency: 0.20},
			"humanRead":     {Enabled: true, Color: "#ff00ff", Transparency: 0.15},
			"humanNoAccess": {Enabled: true, Color: "#aa0000", Transparency: 0.25},
			"contextRead":   {Enabled: true, Color: "#ffffff", Transparency: 0.12},
			"contextWrite":  {Enabled: true, Color: "#cccccc", Transparency: 0.15},
		},
	},
	"monochrome": {
		ID:   "monochrome",
		Name: "Monochrome",
		Colors: map[string]Style{
			"aiWrite":       {Enabled: true, Color: "#333", Transparency: 0.10},
			"aiRead":        {Enabled: true, Color: "#555", Transparency: 0.08},
			"aiNoAccess":    {Enabled: true, Color: "#000", Transparency: 0.15},
			"humanWrite":    {Enabled: true, Color: "#777", Transparency: 0.08},
			"humanRead":     {Enabled: true, Color: "#999", Transparency: 0.06},
			"humanNoAccess": {Enabled: true, Color: "#111", Transparency: 0.15},
			"contextRead":   {Enabled: true, Color: "#ccc", Transparency: 0.06},
			"contextWrite":  {Enabled: true, Color: "#aaa", Transparency: 0.08},
		},
	},
}

// BuiltIn returns a copy of the fixed built-in theme map, keyed by id.
func BuiltIn() map[string]Theme {
	out := make(map[string]Theme, len(builtin))
	for k, v := range builtin {
		out[k] = v
	}
	return out
}

// IsBuiltIn reports whether id names a built-in theme.
func IsBuiltIn(id string) bool {
	_, ok := builtin[id]
	return ok
}
