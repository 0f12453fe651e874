// Package main provides the entry point for the pyrelease CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/pyrelease/internal/cli"
	"github.com/mrz1836/pyrelease/internal/signal"
)

// Set via ldflags at build time.
var (
	version = "dev"     //nolint:gochecknoglobals // set by ldflags
	commit  = "none"    //nolint:gochecknoglobals // set by ldflags
	date    = "unknown" //nolint:gochecknoglobals // set by ldflags
)

func main() {
	os.Exit(run())
}

func run() int {
	h := signal.NewHandler(context.Background())
	defer h.Stop()
	defer cli.CloseLogFile()

	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err != nil && h.WasInterrupted() {
		logger := cli.GetLogger()
		logger.Warn().Stringer("signal", h.Received()).Msg("release interrupted")
		return signal.ExitCodeInterrupted
	}
	return cli.ExitCodeForError(err)
}
