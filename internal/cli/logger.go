package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/pyrelease/internal/config"
	"github.com/mrz1836/pyrelease/internal/constants"
	"github.com/mrz1836/pyrelease/internal/logging"
)

// logFileWriter holds the log file writer for cleanup purposes.
var logFileWriter io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup

// logFileMu protects logFileWriter.
var logFileMu sync.Mutex //nolint:gochecknoglobals // Protects logFileWriter

// zerologGlobalMu protects concurrent writes to the zerolog global logger.
var zerologGlobalMu sync.Mutex //nolint:gochecknoglobals // Protects zerolog global

// InitLogger creates the CLI logger.
//
// Log levels are set as follows:
//   - verbose=true: Debug level
//   - quiet=true: Warn level
//   - default: Info level
//
// Console output goes to stderr: a console writer on a color TTY, JSON
// otherwise. Every entry is also appended to <home>/logs/pyrelease.log with
// rotation and credential redaction. If the log file cannot be created the
// logger continues with console-only output.
//
// Each invocation gets a run_id so one release can be found in the log file.
func InitLogger(verbose, quiet bool) zerolog.Logger {
	console := selectOutput()

	var writer io.Writer = console
	if fileWriter, err := createLogFileWriter(); err == nil {
		logFileMu.Lock()
		logFileWriter = fileWriter
		logFileMu.Unlock()
		writer = zerolog.MultiLevelWriter(console, fileWriter)
	}

	logger := newLogger(writer, selectLevel(verbose, quiet))
	setGlobalLogger(logger)
	return logger
}

// InitLoggerWithWriter creates a logger writing only to w.
// This is primarily intended for testing purposes.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	logger := newLogger(w, selectLevel(verbose, quiet))
	setGlobalLogger(logger)
	return logger
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		Hook(logging.NewSensitiveDataHook()).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
}

// setGlobalLogger points the zerolog/log package logger at the CLI logger.
func setGlobalLogger(cliLogger zerolog.Logger) {
	zerologGlobalMu.Lock()
	defer zerologGlobalMu.Unlock()
	log.Logger = cliLogger
}

// CloseLogFile closes the log file writer if it was opened.
func CloseLogFile() {
	logFileMu.Lock()
	defer logFileMu.Unlock()
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// selectLevel determines the appropriate log level based on flags.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// selectOutput picks the console log writer for stderr.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

// filteringWriteCloser wraps a WriteCloser with sensitive data filtering.
type filteringWriteCloser struct {
	filter *logging.FilteringWriter
	closer io.Closer
}

// Write implements io.Writer by delegating to the filtering writer.
func (fwc *filteringWriteCloser) Write(p []byte) (n int, err error) {
	return fwc.filter.Write(p)
}

// Close implements io.Closer by delegating to the underlying closer.
func (fwc *filteringWriteCloser) Close() error {
	return fwc.closer.Close()
}

// createLogFileWriter creates the rotating, redacting log file writer.
func createLogFileWriter() (io.WriteCloser, error) {
	logPath, err := LogFilePath()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}

	return &filteringWriteCloser{
		filter: logging.NewFilteringWriter(lj),
		closer: lj,
	}, nil
}

// LogFilePath returns the path to the CLI log file.
func LogFilePath() (string, error) {
	home, err := config.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, constants.LogsDir, constants.CLILogFileName), nil
}
