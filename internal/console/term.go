package console

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// OpenStdin returns standard input, switched to raw mode when it is a
// terminal so each keystroke arrives without Enter. The returned func
// restores the terminal and is safe to call when stdin is not a TTY.
func OpenStdin() (io.Reader, func() error, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return os.Stdin, func() error { return nil }, nil
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, fmt.Errorf("raw terminal: %w", err)
	}
	return os.Stdin, func() error { return term.Restore(fd, old) }, nil
}
