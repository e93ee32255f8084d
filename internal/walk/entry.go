// Package walkfs provides lazy, filter-aware filesystem traversal.
//
// A walk is a pull-based sequence: no filesystem work happens until the
// consumer asks for the next entry, and every stat or listing is a single
// blocking call completed before control returns. The tree is allowed to
// mutate underneath a walk in progress; entries that vanish between being
// listed and being stat'ed are skipped silently.
package walkfs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PathView holds the identity of one filesystem entry together with its
// derived relative views. All path fields use forward-slash separators
// regardless of the host convention.
type PathView struct {
	// RootPath is the absolute path the walk started from.
	RootPath string `json:"rootpath"`
	// Workspace is the base for the Workspace* views. It defaults to the
	// walk root but may name a logical project root elsewhere.
	Workspace string `json:"workspace"`
	// EntryPath is the absolute path of this entry.
	EntryPath string `json:"entrypath"`
	// DirPath is the absolute path of the parent directory.
	DirPath string `json:"dirpath"`
	// EntryName is the base name of the entry.
	EntryName string `json:"entryname"`

	// RelativePath is EntryPath relative to RootPath.
	RelativePath string `json:"relativepath"`
	// RelativeDirPath is DirPath relative to RootPath.
	RelativeDirPath string `json:"relativedirpath"`
	// WorkspacePath is EntryPath relative to Workspace.
	WorkspacePath string `json:"workspacepath"`
	// WorkspaceDirPath is DirPath relative to Workspace.
	WorkspaceDirPath string `json:"workspacedirpath"`
}

// NewPathView computes the derived views for entrypath against rootpath and
// workspace. dirpath and entryname may be empty, in which case they are
// derived from entrypath.
func NewPathView(rootpath, workspace, entrypath, dirpath, entryname string) PathView {
	if dirpath == "" {
		dirpath = filepath.Dir(entrypath)
	}
	if entryname == "" {
		entryname = filepath.Base(entrypath)
	}
	return PathView{
		RootPath:         filepath.ToSlash(rootpath),
		Workspace:        filepath.ToSlash(workspace),
		EntryPath:        filepath.ToSlash(entrypath),
		DirPath:          filepath.ToSlash(dirpath),
		EntryName:        entryname,
		RelativePath:     relTo(rootpath, entrypath),
		RelativeDirPath:  relTo(rootpath, dirpath),
		WorkspacePath:    relTo(workspace, entrypath),
		WorkspaceDirPath: relTo(workspace, dirpath),
	}
}

// relTo returns target relative to base in slash form. When no relative path
// exists (unrelated roots, e.g. different drives) it falls back to the
// slash-normalized absolute target.
func relTo(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

// Stat re-stats the entry on every call, so the result always reflects the
// current on-disk state and fails if the path has since vanished.
func (v *PathView) Stat() (os.FileInfo, error) {
	return os.Stat(v.EntryPath)
}

// Entry is one filesystem object discovered during a walk. It is a closed
// union: the only implementations are *FileEntry and *DirEntry.
type Entry interface {
	View() *PathView
	IsFile() bool
	IsDir() bool
	Stat() (os.FileInfo, error)
}

// FileEntry is a regular file discovered during a walk.
type FileEntry struct {
	PathView
}

// DirEntry is a directory discovered during a walk. Listing a directory is
// the walker's job, so DirEntry carries identity only.
type DirEntry struct {
	PathView
}

func (e *FileEntry) View() *PathView { return &e.PathView }
func (e *FileEntry) IsFile() bool    { return true }
func (e *FileEntry) IsDir() bool     { return false }

func (e *DirEntry) View() *PathView { return &e.PathView }
func (e *DirEntry) IsFile() bool    { return false }
func (e *DirEntry) IsDir() bool     { return true }

// Read returns the file's content.
func (e *FileEntry) Read() ([]byte, error) {
	data, err := os.ReadFile(e.EntryPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", e.EntryPath, err)
	}
	return data, nil
}

// ReadText returns the file's content as a string.
func (e *FileEntry) ReadText() (string, error) {
	data, err := e.Read()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadJSON reads the file and unmarshals its content into v.
func (e *FileEntry) ReadJSON(v any) error {
	data, err := e.Read()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", e.EntryPath, err)
	}
	return nil
}

// Write replaces the file's content.
func (e *FileEntry) Write(data []byte) error {
	if err := os.WriteFile(e.EntryPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", e.EntryPath, err)
	}
	return nil
}

// WriteText replaces the file's content with s.
func (e *FileEntry) WriteText(s string) error {
	return e.Write([]byte(s))
}

// WriteJSON marshals v and writes it to the file. A non-empty indent selects
// indented output.
func (e *FileEntry) WriteJSON(v any, indent string) error {
	var (
		data []byte
		err  error
	)
	if indent == "" {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", indent)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.EntryPath, err)
	}
	return e.Write(data)
}

// UpdateText reads the current content, applies updater and writes the
// result back only when it differs. A no-op update touches nothing, so the
// file's mtime survives.
func (e *FileEntry) UpdateText(updater func(string) string) error {
	current, err := e.ReadText()
	if err != nil {
		return err
	}
	updated := updater(current)
	if updated == current {
		return nil
	}
	return e.WriteText(updated)
}
