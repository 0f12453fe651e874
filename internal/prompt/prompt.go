// Package prompt reads the operator answers a release needs: the new
// version, the release message and the final confirmation.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	relerrors "github.com/mrz1836/pyrelease/internal/errors"
)

// Prompter shows a prompt and returns one line of operator input without
// its line terminator.
type Prompter interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// affirmative holds the confirmation answers that mean "go ahead".
// Matching is exact: "Yes", "YES" and " y" are all refusals.
//
//nolint:gochecknoglobals // fixed answer set
var affirmative = map[string]bool{
	"":    true,
	"yes": true,
	"y":   true,
	"Y":   true,
	" ":   true,
}

// IsAffirmative reports whether a confirmation answer approves the release.
func IsAffirmative(answer string) bool {
	return affirmative[answer]
}

// LinePrompter writes prompts to out and reads answers line by line from in.
// It is used when stdin is not a terminal.
type LinePrompter struct {
	mu     sync.Mutex
	reader *bufio.Reader
	out    io.Writer
}

// NewLinePrompter creates a LinePrompter.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{reader: bufio.NewReader(in), out: out}
}

// ReadLine prints prompt followed by a space and reads up to the next
// newline. Only the "\n" or "\r\n" terminator is removed; other whitespace
// is part of the answer. End of input after a partial line returns that
// line; end of input with nothing read returns ErrPromptCanceled.
//
// The read blocks until input arrives. A canceled context is only noticed
// before the read starts.
func (p *LinePrompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := fmt.Fprint(p.out, prompt+" "); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return trimTerminator(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", relerrors.ErrPromptCanceled
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return trimTerminator(line), nil
}

func trimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// ScriptedPrompter answers prompts from fixed values, falling back to
// another Prompter for prompts it has no answer for. Answers are consumed
// in order, one per ReadLine call. A nil answer defers to the fallback.
type ScriptedPrompter struct {
	mu       sync.Mutex
	answers  []*string
	fallback Prompter
	asked    []string
}

// NewScriptedPrompter creates a ScriptedPrompter.
func NewScriptedPrompter(fallback Prompter, answers ...*string) *ScriptedPrompter {
	return &ScriptedPrompter{answers: answers, fallback: fallback}
}

// Answer returns a pointer suitable for NewScriptedPrompter.
func Answer(s string) *string {
	return &s
}

// ReadLine returns the next scripted answer or asks the fallback.
func (p *ScriptedPrompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	p.asked = append(p.asked, prompt)
	var next *string
	if len(p.answers) > 0 {
		next = p.answers[0]
		p.answers = p.answers[1:]
	}
	p.mu.Unlock()

	if next != nil {
		return *next, nil
	}
	if p.fallback == nil {
		return "", fmt.Errorf("no answer for %q: %w", prompt, relerrors.ErrPromptCanceled)
	}
	return p.fallback.ReadLine(ctx, prompt)
}

// Asked returns every prompt shown so far, scripted or not.
func (p *ScriptedPrompter) Asked() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.asked...)
}
