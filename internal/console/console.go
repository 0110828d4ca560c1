// Package console is the operator's text interface: menus, checkout entry
// and admin dialogs on top of the catalog and the receipt store.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrClosed is returned once the input stream is exhausted.
var ErrClosed = errors.New("console input closed")

// Console reads operator lines and writes prompts.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// New creates a console over in and out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Out is the writer prompts and listings go to.
func (c *Console) Out() io.Writer {
	return c.out
}

// Println writes a line.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Printf writes formatted output.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Prompt prints prompt and returns the next input line without surrounding
// blanks.
func (c *Console) Prompt(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrClosed
	}
	return strings.TrimSpace(c.scanner.Text()), nil
}

// Choose shows menu until the operator picks an option in [0, maxOption].
func (c *Console) Choose(menu string, maxOption int) (int, error) {
	for {
		c.Println(menu)
		line, err := c.Prompt("> ")
		if err != nil {
			return 0, err
		}
		if choice, err := ParseChoice(line, maxOption); err == nil {
			return choice, nil
		}
	}
}

// Pause waits for the operator to press enter.
func (c *Console) Pause() error {
	_, err := c.Prompt("continue > ")
	return err
}
