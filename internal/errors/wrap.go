package errors

import "fmt"

// Wrap adds context to errors at package boundaries.
// It returns nil if err is nil, allowing for safe inline usage:
//
//	if err := runner.Commit(ctx, msg); err != nil {
//	    return errors.Wrap(err, "commit release")
//	}
//
// The original chain is preserved, so errors.Is() keeps working against
// sentinels such as ErrGitOperation.
//
// Only wrap errors at package boundaries to avoid overly nested messages.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context to errors at package boundaries.
// It returns nil if err is nil.
//
//	return errors.Wrapf(err, "create tag %s", version)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, err)
}
