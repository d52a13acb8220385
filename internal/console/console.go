// Package console reads single-character commands from a host-attached
// stream and maps them onto selection-state transitions.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/sweeney/pattern-gallery/internal/logic"
)

// Class is the lexical class of a console character.
type Class int

const (
	ClassInvalid Class = iota
	ClassDigit
	ClassAlpha
)

func (c Class) String() string {
	switch c {
	case ClassDigit:
		return "digit"
	case ClassAlpha:
		return "alpha"
	}
	return "invalid"
}

// Classify returns the class of c.
func Classify(c byte) Class {
	switch {
	case c >= '0' && c <= '9':
		return ClassDigit
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return ClassAlpha
	}
	return ClassInvalid
}

var (
	// ErrInvalidInput is returned for characters that are neither digits
	// nor letters.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownCommand is returned for letters with no command bound.
	ErrUnknownCommand = errors.New("unknown command")
)

// ctrlC arrives as a byte instead of SIGINT while the terminal is raw.
const ctrlC = 0x03

// Command is a parsed console character.
type Command struct {
	Char   byte
	Action logic.Action
	// Index is the target for ActionSet.
	Index int
	Menu  bool
	Quit  bool
}

// Parse maps c to a command. Digits select a pattern directly; letters are
// case-insensitive commands.
func Parse(c byte) (Command, error) {
	cmd := Command{Char: c}
	if c == ctrlC {
		cmd.Quit = true
		return cmd, nil
	}
	switch Classify(c) {
	case ClassDigit:
		cmd.Action = logic.ActionSet
		cmd.Index = int(c - '0')
		return cmd, nil
	case ClassAlpha:
		switch c | 0x20 {
		case 'n':
			cmd.Action = logic.ActionIncrement
		case 'p':
			cmd.Action = logic.ActionDecrement
		case 'g':
			cmd.Action = logic.ActionToggleGreen
		case 'b':
			cmd.Action = logic.ActionToggleBlue
		case 'm', 'h':
			cmd.Menu = true
		case 'q':
			cmd.Quit = true
		default:
			return cmd, fmt.Errorf("%q: %w", c, ErrUnknownCommand)
		}
		return cmd, nil
	}
	return cmd, fmt.Errorf("%q: %w", c, ErrInvalidInput)
}

// Reader yields console characters one at a time.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Next blocks until a character is available. Line terminators are skipped
// so line-buffered input behaves like single keystrokes.
func (r *Reader) Next() (byte, error) {
	for {
		c, err := r.br.ReadByte()
		if err != nil {
			return 0, err
		}
		if c == '\r' || c == '\n' {
			continue
		}
		return c, nil
	}
}

// Run sends characters to out until the stream ends, then closes out.
// It returns nil at end of input.
func (r *Reader) Run(out chan<- byte) error {
	defer close(out)
	for {
		c, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read console: %w", err)
		}
		out <- c
	}
}

// WriteMenu prints the command summary. Lines end in CRLF so the menu
// renders correctly on a raw terminal.
func WriteMenu(w io.Writer, mode logic.Mode) {
	fmt.Fprintf(w, "\r\n=== pattern gallery (%s mode) ===\r\n", mode)
	fmt.Fprint(w, "  0-9  show pattern\r\n")
	fmt.Fprint(w, "  n/p  next / previous pattern\r\n")
	fmt.Fprint(w, "  g/b  toggle green / blue LED\r\n")
	fmt.Fprint(w, "  m    show this menu\r\n")
	fmt.Fprint(w, "  q    quit\r\n")
	fmt.Fprint(w, "command: ")
}
