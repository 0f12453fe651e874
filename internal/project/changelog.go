package project

import (
	"fmt"
	"os"
	"strings"

	relerrors "github.com/mrz1836/pyrelease/internal/errors"
)

// Entry is one released version recorded in the changelog.
type Entry struct {
	Version string `json:"version"`
	Message string `json:"message"`
}

// FormatEntry renders a changelog line: "* <version>\t<message>".
func FormatEntry(version, message string) string {
	return "* " + version + "\t" + message
}

// findMarker returns the index of the history marker line. A line whose
// trimmed text equals marker is preferred; otherwise the first line that
// contains marker is used. Returns -1 when neither exists.
func findMarker(lines []string, marker string) int {
	contains := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == marker {
			return i
		}
		if contains < 0 && strings.Contains(line, marker) {
			contains = i
		}
	}
	return contains
}

// InsertHistoryEntry inserts entry on the line directly after the history
// marker. CRLF files keep their line endings.
func InsertHistoryEntry(content, marker, entry string) (string, error) {
	if marker == "" {
		return "", fmt.Errorf("history marker: %w", relerrors.ErrEmptyValue)
	}

	lines := strings.Split(content, "\n")
	idx := findMarker(lines, marker)
	if idx < 0 {
		return "", fmt.Errorf("%q: %w", marker, relerrors.ErrHistoryMarkerNotFound)
	}

	if strings.HasSuffix(lines[idx], "\r") {
		entry += "\r"
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:idx+1]...)
	out = append(out, entry)
	out = append(out, lines[idx+1:]...)
	return strings.Join(out, "\n"), nil
}

// ParseHistory returns the entries listed after the history marker, newest
// first, stopping at the first line that is not an entry. Blank lines and
// heading underlines directly after the marker are skipped.
func ParseHistory(content, marker string) ([]Entry, error) {
	lines := strings.Split(content, "\n")
	idx := findMarker(lines, marker)
	if idx < 0 {
		return nil, fmt.Errorf("%q: %w", marker, relerrors.ErrHistoryMarkerNotFound)
	}

	var entries []Entry
	for _, raw := range lines[idx+1:] {
		line := strings.TrimRight(raw, "\r")
		if entry, ok := parseEntry(line); ok {
			entries = append(entries, entry)
			continue
		}
		if len(entries) == 0 && isSeparator(line) {
			continue
		}
		break
	}
	return entries, nil
}

// parseEntry parses "* <version>\t<message>". A space may stand in for the
// tab in hand-written entries.
func parseEntry(line string) (Entry, bool) {
	rest, ok := strings.CutPrefix(line, "* ")
	if !ok {
		return Entry{}, false
	}
	version, message, found := strings.Cut(rest, "\t")
	if !found {
		version, message, _ = strings.Cut(rest, " ")
	}
	version = strings.TrimSpace(version)
	if version == "" {
		return Entry{}, false
	}
	return Entry{Version: version, Message: strings.TrimSpace(message)}, true
}

// isSeparator reports whether line is blank or a heading underline.
func isSeparator(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.Trim(trimmed, "-=#") == ""
}

// ReadChangelog returns the changelog contents.
func ReadChangelog(path string) (string, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from pyrelease config
	if err != nil {
		return "", fmt.Errorf("read changelog %s: %w", path, err)
	}
	return string(data), nil
}
