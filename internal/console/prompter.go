// Package console holds the interactive terminal surface: prompts, banners and tables.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// Prompter asks the user for input. Ask returns io.EOF when input is exhausted or aborted.
type Prompter interface {
	// Ask shows prompt and returns one line of input without the trailing newline.
	Ask(prompt string) (string, error)
	// Pause shows message and blocks until the user acknowledges it.
	Pause(message string) error
}

const continueHint = "Press Enter to continue..."

// LinePrompter is a Prompter backed by a line editor with history.
type LinePrompter struct {
	line *liner.State
	out  io.Writer
}

// NewLinePrompter takes over the terminal until Close is called.
func NewLinePrompter(out io.Writer) *LinePrompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	return &LinePrompter{line: line, out: out}
}

func (p *LinePrompter) Ask(prompt string) (string, error) {
	input, err := p.line.Prompt(prompt)
	if err != nil {
		if err == liner.ErrPromptAborted {
			return "", io.EOF
		}

		return "", err
	}

	if strings.TrimSpace(input) != "" {
		p.line.AppendHistory(input)
	}

	return input, nil
}

func (p *LinePrompter) Pause(message string) error {
	fmt.Fprintln(p.out, message)

	_, err := p.Ask(continueHint)

	return err
}

// Close restores the terminal.
func (p *LinePrompter) Close() error {
	return p.line.Close()
}

// ReaderPrompter reads answers line by line from any reader. Used for pipes and tests.
type ReaderPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewReaderPrompter(in io.Reader, out io.Writer) *ReaderPrompter {
	return &ReaderPrompter{in: bufio.NewReader(in), out: out}
}

func (p *ReaderPrompter) Ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	line, err := p.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}

		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func (p *ReaderPrompter) Pause(message string) error {
	fmt.Fprintln(p.out, message)

	_, err := p.Ask(continueHint)

	return err
}
