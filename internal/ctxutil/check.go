// Package ctxutil provides context helpers shared by the release steps.
package ctxutil

import "context"

// Canceled returns the context error once ctx is done, nil otherwise.
// Release steps call it on entry so a Ctrl+C between steps stops the run
// before the next external command starts.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
