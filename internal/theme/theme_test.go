package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validColors() map[string]Style {
	return map[string]Style{
		"aiWrite":       {Enabled: true, Color: "#0f0", Transparency: 0.2},
		"aiRead":        {Enabled: true, Color: "#00ff00", Transparency: 0.1},
		"aiNoAccess":    {Enabled: true, Color: "#f00", Transparency: 0.2},
		"humanWrite":    {Enabled: true, Color: "#ff0", Transparency: 0.1},
		"humanRead":     {Enabled: true, Color: "#00f", Transparency: 0.1},
		"humanNoAccess": {Enabled: true, Color: "#a00", Transparency: 0.2},
		"contextRead":   {Enabled: true, Color: "#ccc", Transparency: 0.05},
		"contextWrite":  {Enabled: true, Color: "#bbb", Transparency: 0.08},
	}
}

func TestValidate_AcceptsCompleteTheme(t *testing.T) {
	th := Theme{ID: "x", Name: "X", Colors: validColors()}
	require.NoError(t, th.Validate())
}

func TestValidate_RejectsMissingPermissionKey(t *testing.T) {
	colors := validColors()
	delete(colors, "contextWrite")
	th := Theme{ID: "x", Name: "X", Colors: colors}
	assert.Error(t, th.Validate())
}

func TestValidate_RejectsBadHexColor(t *testing.T) {
	colors := validColors()
	style := colors["aiWrite"]
	style.Color = "green"
	colors["aiWrite"] = style
	th := Theme{ID: "x", Name: "X", Colors: colors}
	assert.Error(t, th.Validate())
}

func TestValidate_RejectsOutOfRangeTransparency(t *testing.T) {
	colors := validColors()
	style := colors["aiWrite"]
	style.Transparency = 1.5
	colors["aiWrite"] = style
	th := Theme{ID: "x", Name: "X", Colors: colors}
	assert.Error(t, th.Validate())
}

func TestValidate_RejectsUnknownMixPattern(t *testing.T) {
	colors := validColors()
	style := colors["aiWrite"]
	bogus := "rainbow"
	style.MixPattern = &bogus
	colors["aiWrite"] = style
	th := Theme{ID: "x", Name: "X", Colors: colors}
	assert.Error(t, th.Validate())
}

func TestValidate_RejectsEmptyName(t *testing.T) {
	th := Theme{ID: "x", Name: "", Colors: validColors()}
	assert.Error(t, th.Validate())
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"My Theme!":     "my-theme",
		"  Leading":     "leading",
		"Trailing  ":    "trailing",
		"ALL CAPS":      "all-caps",
		"dots.and,punc": "dotsandpunc",
		"":               "",
		"!!!":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), "input %q", in)
	}
}
