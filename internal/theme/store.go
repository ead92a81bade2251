package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	customThemesFile   = "themes.json"
	currentSelectFile  = "current_theme.json"
	defaultCurrentID   = "default"
)

// ErrNotFound indicates no theme (built-in or custom) has the given id.
type ErrNotFound struct{ ID string }

func (e ErrNotFound) Error() string { return fmt.Sprintf("theme: %q not found", e.ID) }

// ErrAlreadyExists indicates a create/import collided with an existing
// normalized name, built-in or custom.
type ErrAlreadyExists struct{ ID string }

func (e ErrAlreadyExists) Error() string { return fmt.Sprintf("theme: %q already exists", e.ID) }

// ErrBuiltinReadOnly indicates an update/delete targeted a built-in theme.
type ErrBuiltinReadOnly struct{ ID string }

func (e ErrBuiltinReadOnly) Error() string { return fmt.Sprintf("theme: %q is a built-in theme and is read-only", e.ID) }

// currentSelection is the persisted shape of current_theme.json.
type currentSelection struct {
	ThemeID string `json:"themeId"`
}

// Export is the wire/export shape for a theme (spec.md §6's exportTheme
// result and importTheme payload).
type Export struct {
	Name       string           `json:"name"`
	Colors     map[string]Style `json:"colors"`
	ExportedAt string           `json:"exportedAt"`
	Version    string           `json:"version"`
}

// Store owns the custom theme map and the current-theme selection,
// persisted under dir. Built-in themes are never written to dir.
type Store struct {
	mu             sync.Mutex
	dir            string
	coreVersion    string
	custom         map[string]Theme
	currentThemeID string
}

// New constructs a Store rooted at dir, loading any previously persisted
// custom themes and selection. dir is created if it does not exist.
func New(dir, coreVersion string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("theme: create config dir: %w", err)
	}
	s := &Store{dir: dir, coreVersion: coreVersion, custom: map[string]Theme{}, currentThemeID: defaultCurrentID}

	if err := s.loadCustom(); err != nil {
		return nil, err
	}
	if err := s.loadSelection(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) loadCustom() error {
	path := filepath.Join(s.dir, customThemesFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("theme: read custom themes: %w", err)
	}
	var m map[string]Theme
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("theme: parse custom themes: %w", err)
	}
	s.custom = m
	return nil
}

func (s *Store) loadSelection() error {
	path := filepath.Join(s.dir, currentSelectFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("theme: read current selection: %w", err)
	}
	var sel currentSelection
	if err := json.Unmarshal(data, &sel); err != nil {
		return fmt.Errorf("theme: parse current selection: %w", err)
	}
	if sel.ThemeID != "" {
		s.currentThemeID = sel.ThemeID
	}
	return nil
}

// writeAtomic writes data to filename under dir via temp-file-then-rename,
// matching the reference tree's diagnostics storage write discipline.
func writeAtomic(dir, filename string, data []byte) error {
	path := filepath.Join(dir, filename)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0640); err != nil {
		return fmt.Errorf("theme: write %s: %w", filename, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("theme: finalize %s: %w", filename, err)
	}
	return nil
}

func (s *Store) persistCustomLocked() error {
	data, err := json.MarshalIndent(s.custom, "", "  ")
	if err != nil {
		return fmt.Errorf("theme: marshal custom themes: %w", err)
	}
	return writeAtomic(s.dir, customThemesFile, data)
}

func (s *Store) persistSelectionLocked() error {
	data, err := json.MarshalIndent(currentSelection{ThemeID: s.currentThemeID}, "", "  ")
	if err != nil {
		return fmt.Errorf("theme: marshal current selection: %w", err)
	}
	return writeAtomic(s.dir, currentSelectFile, data)
}

// List returns the built-in and custom theme maps, partitioned.
func (s *Store) List() (builtIn, custom map[string]Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	custom = make(map[string]Theme, len(s.custom))
	for k, v := range s.custom {
		custom[k] = v
	}
	return BuiltIn(), custom
}

// lookupLocked finds a theme by id across both built-in and custom maps.
func (s *Store) lookupLocked(id string) (Theme, bool, bool) {
	if t, ok := builtin[id]; ok {
		return t, true, true
	}
	if t, ok := s.custom[id]; ok {
		return t, false, true
	}
	return Theme{}, false, false
}

// Get returns the theme named id, reporting whether it is built-in.
func (s *Store) Get(id string) (Theme, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, isBuiltIn, ok := s.lookupLocked(id)
	if !ok {
		return Theme{}, false, ErrNotFound{ID: id}
	}
	return t, isBuiltIn, nil
}

// Create adds a new custom theme. It rejects a duplicate normalized name,
// whether the collision is with an existing custom theme or a built-in.
func (s *Store) Create(name string, colors map[string]Style) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := NormalizeName(name)
	if id == "" {
		id = "theme-" + uuid.NewString()
	}
	if _, _, exists := s.lookupLocked(id); exists {
		return Theme{}, ErrAlreadyExists{ID: id}
	}

	t := Theme{ID: id, Name: name, Colors: colors}
	if err := t.Validate(); err != nil {
		return Theme{}, err
	}

	s.custom[id] = t
	if err := s.persistCustomLocked(); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// Update replaces a custom theme's name and/or colors. Built-in themes
// cannot be updated.
func (s *Store) Update(id string, name *string, colors map[string]Style) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if IsBuiltIn(id) {
		return Theme{}, ErrBuiltinReadOnly{ID: id}
	}
	existing, ok := s.custom[id]
	if !ok {
		return Theme{}, ErrNotFound{ID: id}
	}

	updated := existing
	if name != nil {
		updated.Name = *name
	}
	if colors != nil {
		updated.Colors = colors
	}
	if err := updated.Validate(); err != nil {
		return Theme{}, err
	}

	s.custom[id] = updated
	if err := s.persistCustomLocked(); err != nil {
		return Theme{}, err
	}
	return updated, nil
}

// Delete removes a custom theme. Built-in themes cannot be deleted.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if IsBuiltIn(id) {
		return ErrBuiltinReadOnly{ID: id}
	}
	if _, ok := s.custom[id]; !ok {
		return ErrNotFound{ID: id}
	}
	delete(s.custom, id)
	if s.currentThemeID == id {
		s.currentThemeID = defaultCurrentID
		if err := s.persistSelectionLocked(); err != nil {
			return err
		}
	}
	return s.persistCustomLocked()
}

// Export returns id's theme plus an export envelope (ISO-8601 timestamp,
// core version) suitable for Import.
func (s *Store) Export(id string, now time.Time) (Export, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, _, ok := s.lookupLocked(id)
	if !ok {
		return Export{}, ErrNotFound{ID: id}
	}
	return Export{
		Name:       t.Name,
		Colors:     t.Colors,
		ExportedAt: now.UTC().Format(time.RFC3339),
		Version:    s.coreVersion,
	}, nil
}

// Import creates a new custom theme from a previously exported envelope.
func (s *Store) Import(exp Export) (Theme, error) {
	return s.Create(exp.Name, exp.Colors)
}

// CurrentTheme returns the currently selected theme and whether it is
// built-in. If the selection points at a theme that no longer exists
// (e.g. its custom theme was deleted out from under a stale selection
// file), it falls back to the default built-in.
func (s *Store) CurrentTheme() (Theme, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, isBuiltIn, ok := s.lookupLocked(s.currentThemeID); ok {
		return t, isBuiltIn
	}
	return builtin[defaultCurrentID], true
}

// SetCurrentTheme changes the current selection. id must name an
// existing theme, built-in or custom.
func (s *Store) SetCurrentTheme(id string) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, _, ok := s.lookupLocked(id)
	if !ok {
		return Theme{}, ErrNotFound{ID: id}
	}
	s.currentThemeID = id
	if err := s.persistSelectionLocked(); err != nil {
		return Theme{}, err
	}
	return t, nil
}
