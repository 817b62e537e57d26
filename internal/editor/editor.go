// Package editor launches the user's text editor on a file.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/folco/internal/errors"
)

// Session describes the terminal the editor runs on.
type Session struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Terminal returns a Session bound to the process's standard streams.
func Terminal() Session {
	return Session{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Open runs the editor on path and waits for it to exit.
// $EDITOR may carry arguments, e.g. "code --wait".
func (s Session) Open(ctx context.Context, path string) error {
	argv := strings.Fields(Command())
	if len(argv) == 0 {
		return errors.New("no editor configured")
	}

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}
	return nil
}

// Command returns the editor to run: $EDITOR, then $VISUAL, then nano if
// installed, then vi.
func Command() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}

	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
