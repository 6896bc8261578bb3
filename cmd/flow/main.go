// Package main is the entry point for the flow CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.trai.ch/flow/cmd/flow/commands"
	"go.trai.ch/flow/internal/app"
	"go.trai.ch/flow/internal/core/domain"
	_ "go.trai.ch/flow/internal/wiring"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, app.NewApp))
}

// run executes the CLI and maps the outcome to an exit code: 2 for unknown entities and
// invalid arguments, 1 for everything else that failed.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, factory commands.Factory) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli := commands.New(factory)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	err := cli.Execute(ctx)
	if err == nil {
		return 0
	}

	// zerr prints a report with metadata and stack when using %+v
	_, _ = fmt.Fprintf(stderr, "Error: %+v\n", err)
	switch domain.Classify(err) {
	case domain.OutcomeNotFound, domain.OutcomeInvalid:
		return 2
	default:
		return 1
	}
}
