package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileEdit is the full new content of one file.
type FileEdit struct {
	Path    string
	Content string
	mode    os.FileMode
}

// ReleaseEdits holds the file rewrites for one release. Both are computed
// before either file is written, so a missing version or marker leaves the
// working tree untouched.
type ReleaseEdits struct {
	Files []FileEdit
}

// ReleaseInput describes the edits one release makes.
type ReleaseInput struct {
	MetadataPath  string
	ChangelogPath string
	HistoryMarker string
	OldVersion    string
	NewVersion    string
	Message       string
}

// PrepareEdits reads the metadata and changelog files and computes their new
// contents without writing anything.
func PrepareEdits(in ReleaseInput) (*ReleaseEdits, error) {
	metaContent, metaMode, err := readFile(in.MetadataPath)
	if err != nil {
		return nil, err
	}

	newMeta, err := SubstituteVersion(metaContent, in.OldVersion, in.NewVersion)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", in.MetadataPath, err)
	}

	entry := FormatEntry(in.NewVersion, in.Message)

	if samePath(in.MetadataPath, in.ChangelogPath) {
		combined, err := InsertHistoryEntry(newMeta, in.HistoryMarker, entry)
		if err != nil {
			return nil, fmt.Errorf("update %s: %w", in.ChangelogPath, err)
		}
		return &ReleaseEdits{Files: []FileEdit{{Path: in.MetadataPath, Content: combined, mode: metaMode}}}, nil
	}

	logContent, logMode, err := readFile(in.ChangelogPath)
	if err != nil {
		return nil, err
	}

	newLog, err := InsertHistoryEntry(logContent, in.HistoryMarker, entry)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", in.ChangelogPath, err)
	}

	return &ReleaseEdits{Files: []FileEdit{
		{Path: in.MetadataPath, Content: newMeta, mode: metaMode},
		{Path: in.ChangelogPath, Content: newLog, mode: logMode},
	}}, nil
}

// Apply writes every edit in order, keeping each file's permissions.
func (e *ReleaseEdits) Apply() error {
	for _, f := range e.Files {
		mode := f.mode
		if mode == 0 {
			mode = 0o644
		}
		if err := os.WriteFile(f.Path, []byte(f.Content), mode); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
	}
	return nil
}

// Paths returns the files the edits rewrite.
func (e *ReleaseEdits) Paths() []string {
	paths := make([]string, len(e.Files))
	for i, f := range e.Files {
		paths[i] = f.Path
	}
	return paths
}

func readFile(path string) (string, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from pyrelease config
	if err != nil {
		return "", 0, fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), info.Mode().Perm(), nil
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
