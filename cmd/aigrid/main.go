// Package main is the entry point for the aigrid CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/thoreinstein/aigrid/cmd/aigrid/commands"
	"github.com/thoreinstein/aigrid/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	var exitErr *errors.ExitError
	switch {
	case errors.As(err, &exitErr) && exitErr.Err == nil:
		// Already reported by the command.
	default:
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
	}
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", exitErr.Suggestion)
	}
	os.Exit(errors.ExitCode(err))
}
