// Package projection derives the four text artifacts
// from the store, immediately after each dump: the operable index, the
// interactive snapshot, the screen-reader view, and the active-status
// marker. Every artifact is written via a temp-file-then-rename so a reader
// polling the profile directory never observes a half-written file.
package projection

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/directshell/core/internal/app"
	"github.com/directshell/core/internal/model"
	"github.com/directshell/core/internal/roletable"
)

// storedElement is the full row shape projections query out of the elements
// table — wider than model.Element's in-memory shape isn't needed here, so
// this simply reuses it.
type storedElement = model.Element

// Generate derives and writes the three per-app artifacts (operable index,
// interactive snapshot, screen-reader view) for appName under profileDir;
// the is_active marker is written by WriteActiveStatus. focusName is the live-queried focused element's name; callers pass
// "" when the platform can't resolve one.
func Generate(db *sql.DB, profileDir, appName string, focusName string) error {
	elements, err := loadElements(db)
	if err != nil {
		return fmt.Errorf("load elements for projection: %w", err)
	}
	paths := app.Artifacts(profileDir, appName)

	if err := writeOperableIndex(paths.OperableIndex, elements); err != nil {
		return err
	}
	if err := writeInteractiveSnapshot(paths.Interactive, elements); err != nil {
		return err
	}
	if err := writeScreenReaderView(paths.ScreenReader, elements, focusName); err != nil {
		return err
	}
	return nil
}

// WriteActiveStatus writes the is_active marker under profileDir. When
// snapped is false appName is ignored and the marker becomes the single
// line "none".
func WriteActiveStatus(profileDir, appName string, snapped bool) error {
	paths := app.Artifacts(profileDir, appName)
	content := "none\n"
	if snapped {
		content = strings.Join([]string{appName, paths.ScreenReader, paths.Interactive}, "\n") + "\n"
	}
	return atomicWrite(paths.IsActive, []byte(content))
}

func loadElements(db *sql.DB) ([]storedElement, error) {
	rows, err := db.Query(`SELECT id, parent_id, depth, role, name, value, automation_id, enabled, offscreen, x, y, w, h FROM elements`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []storedElement
	for rows.Next() {
		var el storedElement
		var role string
		var enabled, offscreen int
		if err := rows.Scan(&el.ID, &el.ParentID, &el.Depth, &role, &el.Name, &el.Value,
			&el.AutomationID, &enabled, &offscreen, &el.Rect.X, &el.Rect.Y, &el.Rect.W, &el.Rect.H); err != nil {
			return nil, err
		}
		el.Role = model.Role(role)
		el.Enabled = enabled != 0
		el.Offscreen = offscreen != 0
		out = append(out, el)
	}
	return out, rows.Err()
}

// operableFilter is shared by the operable index and interactive snapshot.
func operableFilter(els []storedElement) []storedElement {
	var out []storedElement
	for _, el := range els {
		if !el.Enabled || el.Offscreen || el.Name == "" {
			continue
		}
		if el.Rect.W <= 10 || el.Rect.H <= 10 {
			continue
		}
		if !roletable.IsOperableRole(el.Role) {
			continue
		}
		out = append(out, el)
	}
	sortByPosition(out)
	return out
}

func sortByPosition(els []storedElement) {
	sort.SliceStable(els, func(i, j int) bool {
		if els[i].Rect.Y != els[j].Rect.Y {
			return els[i].Rect.Y < els[j].Rect.Y
		}
		return els[i].Rect.X < els[j].Rect.X
	})
}

func writeOperableIndex(path string, elements []storedElement) error {
	var b strings.Builder
	for i, el := range operableFilter(elements) {
		tool := roletable.ToolForRole(el.Role)
		fmt.Fprintf(&b, "[%d] [%s] %q @ %d,%d (%dx%d)\n", i+1, tool, el.Name, el.Rect.X, el.Rect.Y, el.Rect.W, el.Rect.H)
	}
	return atomicWrite(path, []byte(b.String()))
}

func writeInteractiveSnapshot(path string, elements []storedElement) error {
	var b strings.Builder
	for _, el := range operableFilter(elements) {
		tool := roletable.ToolForRole(el.Role)
		if el.AutomationID != "" {
			fmt.Fprintf(&b, "[%s] %q (%s) @ %d,%d (%dx%d)\n", tool, el.Name, el.AutomationID, el.Rect.X, el.Rect.Y, el.Rect.W, el.Rect.H)
		} else {
			fmt.Fprintf(&b, "[%s] %q @ %d,%d (%dx%d)\n", tool, el.Name, el.Rect.X, el.Rect.Y, el.Rect.W, el.Rect.H)
		}
	}
	return atomicWrite(path, []byte(b.String()))
}

func writeScreenReaderView(path string, elements []storedElement, focusName string) error {
	var b strings.Builder

	b.WriteString("== Focus ==\n")
	if focusName != "" {
		fmt.Fprintf(&b, "%s\n", focusName)
	}

	b.WriteString("\n== Input Targets ==\n")
	var inputs []storedElement
	for _, el := range elements {
		if roletable.InputTargetRoles[el.Role] && el.Name != "" {
			inputs = append(inputs, el)
		}
	}
	sortByPosition(inputs)
	for _, el := range inputs {
		value := el.Value
		// Truncation is by characters, not bytes: a byte slice could split
		// a multibyte rune mid-sequence.
		if runes := []rune(value); len(runes) > 100 {
			value = string(runes[:100])
		}
		fmt.Fprintf(&b, "%q: %s\n", el.Name, value)
	}

	b.WriteString("\n== Content ==\n")
	var content []storedElement
	for _, el := range elements {
		if roletable.ContentRoles[el.Role] && el.Rect.W > 20 && el.Rect.H > 10 {
			content = append(content, el)
		}
	}
	sortByPosition(content)
	for _, el := range content {
		fmt.Fprintf(&b, "%s\n", el.Name)
	}

	return atomicWrite(path, []byte(b.String()))
}

// atomicWrite writes data to a temp file in the same directory as path then
// renames it into place, so no reader ever observes a partially written
// artifact.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure artifact dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename artifact into place: %w", err)
	}
	return nil
}
