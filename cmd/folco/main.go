// Package main is the entry point for the folco CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/folco/cmd/folco/commands"
	"github.com/thoreinstein/folco/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	var exitErr *errors.ExitError
	isExit := errors.As(err, &exitErr)

	// An ExitError without a cause only carries a status; the command has
	// already reported.
	if !isExit || exitErr.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if isExit && exitErr.Suggestion != "" {
		fmt.Fprintln(os.Stderr, exitErr.Suggestion)
	}
	os.Exit(errors.ExitCode(err))
}
