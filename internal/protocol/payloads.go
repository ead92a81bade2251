package protocol

import "github.com/codeguard-core/codeguard/internal/theme"

type setDocumentPayload struct {
	FileName   string `json:"fileName"`
	LanguageID string `json:"languageId"`
	Content    string `json:"content"`
	Version    int    `json:"version"`
}

type changePayload struct {
	StartLine int    `json:"startLine"`
	StartChar int    `json:"startChar"`
	EndLine   int    `json:"endLine"`
	EndChar   int    `json:"endChar"`
	NewText   string `json:"newText"`
}

type applyDeltaPayload struct {
	Version int             `json:"version"`
	Changes []changePayload `json:"changes"`
}

type createThemePayload struct {
	Name   string                 `json:"name"`
	Colors map[string]theme.Style `json:"colors"`
}

type updateThemePayload struct {
	ThemeID string                 `json:"themeId"`
	Name    *string                `json:"name,omitempty"`
	Colors  map[string]theme.Style `json:"colors"`
}

type themeIDPayload struct {
	ThemeID string `json:"themeId"`
}

type importThemePayload struct {
	ExportData theme.Export `json:"exportData"`
}
