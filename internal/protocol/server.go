// Package protocol implements the Worker Loop: a framed stdio request and
// response cycle dispatching the commands in spec.md §6 to the document
// store, guard processor, and theme store.
package protocol

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/codeguard-core/codeguard/internal/docsrc"
	"github.com/codeguard-core/codeguard/internal/document"
	"github.com/codeguard-core/codeguard/internal/guard"
	"github.com/codeguard-core/codeguard/internal/theme"
	"github.com/codeguard-core/codeguard/pkg/logging"
)

// Capabilities advertised in the startup banner. Kept as a package
// variable rather than a literal in Startup so tests can assert against
// the same slice the server emits.
var Capabilities = []string{"guardTags", "linePermissions", "themes"}

type handlerFunc func(s *Server, payload json.RawMessage) (any, *Error)

var handlers = map[string]handlerFunc{
	"version":          handleVersion,
	"ping":             handlePing,
	"setDocument":      handleSetDocument,
	"applyDelta":       handleApplyDelta,
	"getThemes":        handleGetThemes,
	"createTheme":      handleCreateTheme,
	"updateTheme":      handleUpdateTheme,
	"deleteTheme":      handleDeleteTheme,
	"exportTheme":      handleExportTheme,
	"importTheme":      handleImportTheme,
	"getCurrentTheme":  handleGetCurrentTheme,
	"setCurrentTheme":  handleSetCurrentTheme,
	"shutdown":         handleShutdown,
}

// Server owns the document store, guard processor, and theme store for one
// worker process lifetime, plus the bookkeeping the protocol needs:
// version negotiation, uptime, and the startup-once guard.
type Server struct {
	Version       string
	MinCompatible string

	documents *document.Store
	processor *guard.Processor
	themes    *theme.Store
	log       *logging.Logger

	startedAt   time.Time
	startupOnce sync.Once

	// shuttingDown is set by the shutdown handler; the loop checks it
	// after writing the response and exits.
	shuttingDown bool
}

// NewServer constructs a Server. themes may be nil only in tests that do
// not exercise theme commands; production callers always supply a
// themeStore rooted at the per-user config directory.
func NewServer(version, minCompatible string, themes *theme.Store, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Default()
	}
	return &Server{
		Version:       version,
		MinCompatible: minCompatible,
		documents:     document.New(),
		processor:     guard.New(),
		themes:        themes,
		log:           log.With("component", "protocol"),
		startedAt:     time.Now(),
	}
}

// StartupBanner returns the unsolicited startup object. It is safe to
// call more than once; only the first call's result should ever be
// written by a Loop (see startupOnce in Loop).
func (s *Server) StartupBanner() Startup {
	return Startup{
		Type:         "startup",
		Version:      s.Version,
		Capabilities: Capabilities,
		Ready:        true,
	}
}

// Dispatch runs one request to completion and returns its response. It
// never panics: a handler panic is recovered and reported as
// CodeInternalError.
func (s *Server) Dispatch(req Request) Response {
	start := time.Now()

	h, ok := handlers[req.Command]
	if !ok {
		err := newError(CodeUnknownCommand, fmt.Errorf("unknown command %q", req.Command))
		return errorResponse(req.ID, err)
	}

	result, protoErr := s.runHandler(h, req.Payload)
	if protoErr != nil {
		s.log.Debug("request failed", "command", req.Command, "id", req.ID, "code", protoErr.Code)
		return errorResponse(req.ID, protoErr)
	}

	timing := time.Since(start).Milliseconds()
	return successResponse(req.ID, result, timing)
}

// runHandler invokes h under a recover() guard, converting a panic into
// an INTERNAL_ERROR response per spec.md §7 (extended, see DESIGN.md).
func (s *Server) runHandler(h handlerFunc, payload json.RawMessage) (result any, protoErr *Error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("handler panicked", "panic", fmt.Sprintf("%v", r))
			protoErr = newError(CodeInternalError, fmt.Errorf("panic: %v", r))
		}
	}()
	return h(s, payload)
}

func decodePayload(payload json.RawMessage, out any) *Error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return newError(CodeInvalidJSON, err)
	}
	return nil
}

func handleVersion(s *Server, _ json.RawMessage) (any, *Error) {
	compatible := s.MinCompatible == "" || compareVersions(s.Version, s.MinCompatible) >= 0
	return versionResult{Version: s.Version, MinCompatible: s.MinCompatible, Compatible: compatible}, nil
}

func handlePing(s *Server, _ json.RawMessage) (any, *Error) {
	return pingResult{Pong: true, Uptime: time.Since(s.startedAt).Milliseconds()}, nil
}

func (s *Server) documentResultFor(doc document.Document) documentResult {
	src := docsrc.New(doc.Text, doc.LanguageID)
	tags := s.processor.Parse(src)
	perms := s.processor.Permissions(src, tags)
	return documentResult{
		GuardTags:       toGuardTagWire(tags),
		LinePermissions: toLinePermissionWire(perms),
		DocumentVersion: doc.Version,
	}
}

func handleSetDocument(s *Server, payload json.RawMessage) (any, *Error) {
	var p setDocumentPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	doc := s.documents.SetDocument(p.FileName, p.LanguageID, p.Content, p.Version)
	return s.documentResultFor(doc), nil
}

func handleApplyDelta(s *Server, payload json.RawMessage) (any, *Error) {
	var p applyDeltaPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	if _, ok := s.documents.Current(); !ok {
		return nil, newError(CodeNoDocument, nil)
	}
	changes := make([]document.Change, len(p.Changes))
	for i, c := range p.Changes {
		changes[i] = document.Change{
			StartLine: c.StartLine,
			StartChar: c.StartChar,
			EndLine:   c.EndLine,
			EndChar:   c.EndChar,
			NewText:   c.NewText,
		}
	}
	doc, err := s.documents.ApplyDelta(p.Version, changes)
	if err != nil {
		return nil, newError(CodeInvalidDelta, err)
	}
	return s.documentResultFor(doc), nil
}

func handleGetThemes(s *Server, _ json.RawMessage) (any, *Error) {
	builtIn, custom := s.themes.List()
	return themesResult{BuiltIn: builtIn, Custom: custom}, nil
}

func handleCreateTheme(s *Server, payload json.RawMessage) (any, *Error) {
	var p createThemePayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	th, err := s.themes.Create(p.Name, p.Colors)
	if err != nil {
		return nil, themeError(err)
	}
	return createThemeResult{ThemeID: th.ID, Message: "theme created"}, nil
}

func handleUpdateTheme(s *Server, payload json.RawMessage) (any, *Error) {
	var p updateThemePayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	if _, err := s.themes.Update(p.ThemeID, p.Name, p.Colors); err != nil {
		return nil, themeError(err)
	}
	return messageResult{Message: "theme updated"}, nil
}

func handleDeleteTheme(s *Server, payload json.RawMessage) (any, *Error) {
	var p themeIDPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	if err := s.themes.Delete(p.ThemeID); err != nil {
		return nil, themeError(err)
	}
	return messageResult{Message: "theme deleted"}, nil
}

func handleExportTheme(s *Server, payload json.RawMessage) (any, *Error) {
	var p themeIDPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	exp, err := s.themes.Export(p.ThemeID, time.Now())
	if err != nil {
		return nil, themeError(err)
	}
	return exportThemeResult{Name: exp.Name, ExportData: exp}, nil
}

func handleImportTheme(s *Server, payload json.RawMessage) (any, *Error) {
	var p importThemePayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	if p.ExportData.Name == "" || p.ExportData.Colors == nil {
		return nil, newError(CodeInvalidExportData, fmt.Errorf("exportData missing name or colors"))
	}
	th, err := s.themes.Import(p.ExportData)
	if err != nil {
		return nil, importThemeError(err)
	}
	return importThemeResult{ThemeID: th.ID, Message: "theme imported"}, nil
}

func handleGetCurrentTheme(s *Server, _ json.RawMessage) (any, *Error) {
	th, isBuiltIn := s.themes.CurrentTheme()
	return currentThemeResult{SelectedTheme: th.ID, IsBuiltIn: isBuiltIn, Colors: th.Colors}, nil
}

func handleSetCurrentTheme(s *Server, payload json.RawMessage) (any, *Error) {
	var p themeIDPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	th, err := s.themes.SetCurrentTheme(p.ThemeID)
	if err != nil {
		return nil, themeError(err)
	}
	return setCurrentThemeResult{Message: "current theme set", Colors: th.Colors}, nil
}

func handleShutdown(s *Server, _ json.RawMessage) (any, *Error) {
	s.shuttingDown = true
	return messageResult{Message: "shutting down"}, nil
}

// themeError maps a theme-package error to the codes createTheme,
// updateTheme, deleteTheme, exportTheme, and setCurrentTheme can return.
func themeError(err error) *Error {
	switch err.(type) {
	case theme.ErrNotFound:
		return newError(CodeThemeNotFound, err)
	case theme.ErrAlreadyExists:
		return newError(CodeThemeAlreadyExist, err)
	case theme.ErrBuiltinReadOnly:
		return newError(CodeBuiltinReadOnly, err)
	default:
		return newError(CodeInvalidThemeData, err)
	}
}

// importThemeError maps a theme-package error for importTheme, which
// fails on bad export payloads rather than bad theme payloads.
func importThemeError(err error) *Error {
	if _, ok := err.(theme.ErrAlreadyExists); ok {
		return newError(CodeThemeAlreadyExist, err)
	}
	return newError(CodeInvalidExportData, err)
}
