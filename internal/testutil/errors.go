// Package testutil provides testing utilities for pyrelease.
//
// This package contains sentinel errors and a fake command runner shared by
// package tests.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
var (
	// ErrMockNetwork stands in for a failed remote or git query.
	ErrMockNetwork = errors.New("network error")

	// ErrMockPrompt stands in for a broken operator prompt.
	ErrMockPrompt = errors.New("prompt failed")
)
