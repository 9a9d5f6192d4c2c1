// Package prompt reads interactive input for the one-time setup
// flows. It wraps an arbitrary reader/writer pair so the flows can be
// driven by tests without a real terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrCancelled is returned when the user ends input (EOF or a closed
// stdin) instead of answering a prompt.
var ErrCancelled = errors.New("cancelled")

// Prompter writes prompts and reads line-oriented answers.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Line prints label and reads one line of input, trimmed of
// surrounding whitespace. Returns ErrCancelled when input ends before
// a line is available.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)

	line, err := p.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			// A final line without a trailing newline still counts.
			return line, nil
		}
		return "", ErrCancelled
	}

	return line, nil
}

// Pause prints label and waits for the user to press Enter. Returns
// ErrCancelled when input ends first.
func (p *Prompter) Pause(label string) error {
	fmt.Fprint(p.out, label)

	if _, err := p.in.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return ErrCancelled
	}
	return nil
}
