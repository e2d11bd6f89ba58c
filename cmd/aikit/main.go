// Package main is the entry point for the aikit CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/keboola/ai-kit/cmd/aikit/commands"
	"github.com/keboola/ai-kit/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx)
	stop()

	if err == nil {
		return
	}

	var exitErr *errors.ExitError
	isExit := errors.As(err, &exitErr)
	// An ExitError without a cause carries only a status; the command
	// already reported why.
	if !isExit || exitErr.Err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
	}
	if isExit && exitErr.Suggestion != "" {
		fmt.Fprintln(os.Stderr, exitErr.Suggestion)
	}
	os.Exit(errors.ExitCode(err))
}
