// Package input reads successive "initial facts" lines for
// expertsystem's interactive mode, from either a piped stream (tests,
// scripts) or an interactive TTY.
package input

import (
	"bufio"
	"fmt"
	"io"

	"github.com/chzyer/readline"
)

// DirectFactReader reads fact lines from any generic io.Reader, with
// no line editing or history. It can be used with piped input or in
// tests.
//
// DirectFactReader should not be used directly; create one with
// [NewDirectReader].
type DirectFactReader struct {
	r *bufio.Reader
}

// InteractiveFactReader reads fact lines from stdin using
// chzyer/readline, giving line editing and history for a TTY session.
//
// InteractiveFactReader should not be used directly; create one with
// [NewInteractiveReader].
type InteractiveFactReader struct {
	rl     *readline.Instance
	prompt string
}

// NewDirectReader creates a DirectFactReader wrapping r.
func NewDirectReader(r io.Reader) *DirectFactReader {
	return &DirectFactReader{r: bufio.NewReader(r)}
}

// NewInteractiveReader creates an InteractiveFactReader prompting with
// "Initial facts = ". The returned reader must have Close called on it
// before disposal to tear down readline resources.
func NewInteractiveReader() (*InteractiveFactReader, error) {
	const prompt = "Initial facts = "
	rl, err := readline.NewEx(&readline.Config{
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &InteractiveFactReader{rl: rl, prompt: prompt}, nil
}

// Close is a no-op for DirectFactReader; it exists so both readers
// satisfy the same Close-before-disposal contract.
func (dfr *DirectFactReader) Close() error {
	return nil
}

// Close tears down readline resources.
func (ifr *InteractiveFactReader) Close() error {
	return ifr.rl.Close()
}

// ReadFacts reads the next raw line, untrimmed: callers distinguish a
// genuinely empty line (exit interactive mode) from a line containing
// only whitespace (declare all facts false) from a line of letters
// (declare those facts true). At end of input the returned string is
// empty and the error is io.EOF.
func (dfr *DirectFactReader) ReadFacts() (string, error) {
	line, err := dfr.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if err == io.EOF && line == "" {
		return "", io.EOF
	}
	return trimNewline(line), nil
}

// ReadFacts reads the next raw line from the interactive prompt. See
// DirectFactReader.ReadFacts for how the empty-vs-whitespace-only
// distinction is used by the caller.
func (ifr *InteractiveFactReader) ReadFacts() (string, error) {
	line, err := ifr.rl.Readline()
	if err != nil {
		return "", err
	}
	return line, nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// SetPrompt updates the interactive prompt text.
func (ifr *InteractiveFactReader) SetPrompt(p string) {
	ifr.prompt = p
	ifr.rl.SetPrompt(p)
}
