package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeguard-core/codeguard/internal/theme"
	"github.com/codeguard-core/codeguard/pkg/logging"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ts, err := theme.New(t.TempDir(), "1.0.0-test")
	require.NoError(t, err)
	return NewServer("1.0.0-test", "0.9.0", ts, logging.New(logging.Config{Quiet: true}))
}

func decodeResult(t *testing.T, resp Response, out any) {
	t.Helper()
	require.Equal(t, "success", resp.Status)
	data, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestDispatch_Version(t *testing.T) {
	s := newTestServer(t)
	resp := s.Dispatch(Request{ID: "1", Command: "version"})
	var res versionResult
	decodeResult(t, resp, &res)
	assert.Equal(t, "1.0.0-test", res.Version)
	assert.Equal(t, "0.9.0", res.MinCompatible)
	assert.True(t, res.Compatible)
}

func TestDispatch_Ping(t *testing.T) {
	s := newTestServer(t)
	resp := s.Dispatch(Request{ID: "1", Command: "ping"})
	var res pingResult
	decodeResult(t, resp, &res)
	assert.True(t, res.Pong)
	assert.GreaterOrEqual(t, res.Uptime, int64(0))
}

func TestDispatch_UnknownCommand(t *testing.T) {
	s := newTestServer(t)
	resp := s.Dispatch(Request{ID: "1", Command: "bogus"})
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, string(CodeUnknownCommand), resp.Code)
}

func TestDispatch_SetDocumentAndApplyDelta(t *testing.T) {
	s := newTestServer(t)

	setPayload, _ := json.Marshal(setDocumentPayload{
		FileName:   "a.js",
		LanguageID: "javascript",
		Content:    "// @guard:ai:r\nfunction hello() {\n  return 'world';\n}",
		Version:    3,
	})
	resp := s.Dispatch(Request{ID: "1", Command: "setDocument", Payload: setPayload})
	var setRes documentResult
	decodeResult(t, resp, &setRes)
	require.Len(t, setRes.GuardTags, 1)
	assert.Equal(t, 1, setRes.GuardTags[0].Line)
	assert.Equal(t, 4, setRes.GuardTags[0].ScopeEnd)
	assert.Equal(t, 3, setRes.DocumentVersion)
	require.Len(t, setRes.LinePermissions, 4)

	deltaPayload, _ := json.Marshal(applyDeltaPayload{
		Version: 4,
		Changes: []changePayload{
			{StartLine: 0, StartChar: 0, EndLine: 0, EndChar: 0, NewText: "// header\n"},
		},
	})
	resp = s.Dispatch(Request{ID: "2", Command: "applyDelta", Payload: deltaPayload})
	var deltaRes documentResult
	decodeResult(t, resp, &deltaRes)
	assert.Equal(t, 4, deltaRes.DocumentVersion)
}

func TestDispatch_ApplyDeltaWithoutDocument(t *testing.T) {
	s := newTestServer(t)
	deltaPayload, _ := json.Marshal(applyDeltaPayload{Version: 1})
	resp := s.Dispatch(Request{ID: "1", Command: "applyDelta", Payload: deltaPayload})
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, string(CodeNoDocument), resp.Code)
}

func TestDispatch_ApplyDeltaVersionMismatch(t *testing.T) {
	s := newTestServer(t)
	setPayload, _ := json.Marshal(setDocumentPayload{Content: "a\nb", Version: 1})
	s.Dispatch(Request{ID: "1", Command: "setDocument", Payload: setPayload})

	deltaPayload, _ := json.Marshal(applyDeltaPayload{Version: 9})
	resp := s.Dispatch(Request{ID: "2", Command: "applyDelta", Payload: deltaPayload})
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, string(CodeInvalidDelta), resp.Code)
}

func TestDispatch_InvalidJSONPayload(t *testing.T) {
	s := newTestServer(t)
	resp := s.Dispatch(Request{ID: "1", Command: "setDocument", Payload: json.RawMessage(`{not json`)})
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, string(CodeInvalidJSON), resp.Code)
}

func TestDispatch_ThemeLifecycle(t *testing.T) {
	s := newTestServer(t)

	colors := validWireColors()
	createPayload, _ := json.Marshal(createThemePayload{Name: "Sunset", Colors: colors})
	resp := s.Dispatch(Request{ID: "1", Command: "createTheme", Payload: createPayload})
	var created createThemeResult
	decodeResult(t, resp, &created)
	assert.Equal(t, "sunset", created.ThemeID)

	resp = s.Dispatch(Request{ID: "2", Command: "getThemes"})
	var list themesResult
	decodeResult(t, resp, &list)
	assert.Contains(t, list.BuiltIn, "default")
	assert.Contains(t, list.Custom, "sunset")

	setCurrentPayload, _ := json.Marshal(themeIDPayload{ThemeID: "sunset"})
	resp = s.Dispatch(Request{ID: "3", Command: "setCurrentTheme", Payload: setCurrentPayload})
	assert.Equal(t, "success", resp.Status)

	resp = s.Dispatch(Request{ID: "4", Command: "getCurrentTheme"})
	var current currentThemeResult
	decodeResult(t, resp, &current)
	assert.Equal(t, "sunset", current.SelectedTheme)
	assert.False(t, current.IsBuiltIn)

	exportPayload, _ := json.Marshal(themeIDPayload{ThemeID: "sunset"})
	resp = s.Dispatch(Request{ID: "5", Command: "exportTheme", Payload: exportPayload})
	var exported exportThemeResult
	decodeResult(t, resp, &exported)
	assert.Equal(t, "Sunset", exported.Name)

	deletePayload, _ := json.Marshal(themeIDPayload{ThemeID: "sunset"})
	resp = s.Dispatch(Request{ID: "6", Command: "deleteTheme", Payload: deletePayload})
	assert.Equal(t, "success", resp.Status)

	resp = s.Dispatch(Request{ID: "7", Command: "getCurrentTheme"})
	decodeResult(t, resp, &current)
	assert.Equal(t, "default", current.SelectedTheme)
	assert.True(t, current.IsBuiltIn)
}

func TestDispatch_ImportTheme(t *testing.T) {
	s := newTestServer(t)

	createPayload, _ := json.Marshal(createThemePayload{Name: "Dawn", Colors: validWireColors()})
	s.Dispatch(Request{ID: "1", Command: "createTheme", Payload: createPayload})

	exportPayload, _ := json.Marshal(themeIDPayload{ThemeID: "dawn"})
	resp := s.Dispatch(Request{ID: "2", Command: "exportTheme", Payload: exportPayload})
	var exported exportThemeResult
	decodeResult(t, resp, &exported)

	s.Dispatch(Request{ID: "3", Command: "deleteTheme", Payload: exportPayload})

	exported.ExportData.Name = "Dawn Reborn"
	importPayload, _ := json.Marshal(importThemePayload{ExportData: exported.ExportData})
	resp = s.Dispatch(Request{ID: "4", Command: "importTheme", Payload: importPayload})
	var imported importThemeResult
	decodeResult(t, resp, &imported)
	assert.Equal(t, "dawn-reborn", imported.ThemeID)
}

func TestDispatch_ImportTheme_MissingFieldsRejected(t *testing.T) {
	s := newTestServer(t)
	payload, _ := json.Marshal(importThemePayload{})
	resp := s.Dispatch(Request{ID: "1", Command: "importTheme", Payload: payload})
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, string(CodeInvalidExportData), resp.Code)
}

func TestDispatch_CreateTheme_BuiltinCollision(t *testing.T) {
	s := newTestServer(t)
	payload, _ := json.Marshal(createThemePayload{Name: "Default", Colors: validWireColors()})
	resp := s.Dispatch(Request{ID: "1", Command: "createTheme", Payload: payload})
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, string(CodeThemeAlreadyExist), resp.Code)
}

func TestDispatch_DeleteTheme_BuiltinReadOnly(t *testing.T) {
	s := newTestServer(t)
	payload, _ := json.Marshal(themeIDPayload{ThemeID: "default"})
	resp := s.Dispatch(Request{ID: "1", Command: "deleteTheme", Payload: payload})
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, string(CodeBuiltinReadOnly), resp.Code)
}

func TestDispatch_Shutdown(t *testing.T) {
	s := newTestServer(t)
	resp := s.Dispatch(Request{ID: "1", Command: "shutdown"})
	assert.Equal(t, "success", resp.Status)
	assert.True(t, s.shuttingDown)
}

func TestRunHandler_RecoversPanic(t *testing.T) {
	s := newTestServer(t)
	panicking := func(s *Server, payload json.RawMessage) (any, *Error) {
		panic("boom")
	}
	_, err := s.runHandler(panicking, nil)
	require.NotNil(t, err)
	assert.Equal(t, CodeInternalError, err.Code)
}

func validWireColors() map[string]theme.Style {
	return map[string]theme.Style{
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
