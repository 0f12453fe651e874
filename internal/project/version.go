package project

import (
	"fmt"
	"strings"

	relerrors "github.com/mrz1836/pyrelease/internal/errors"
)

// SubstituteVersion replaces every literal occurrence of oldVersion in
// content with newVersion. Matching is plain substring matching, so an
// occurrence inside a longer token is replaced too.
//
// It fails with ErrVersionNotFound when oldVersion does not occur, since the
// release commit would otherwise carry an unchanged metadata file.
func SubstituteVersion(content, oldVersion, newVersion string) (string, error) {
	if oldVersion == "" {
		return "", fmt.Errorf("current version: %w", relerrors.ErrEmptyValue)
	}
	if !strings.Contains(content, oldVersion) {
		return "", fmt.Errorf("%q: %w", oldVersion, relerrors.ErrVersionNotFound)
	}
	return strings.ReplaceAll(content, oldVersion, newVersion), nil
}
