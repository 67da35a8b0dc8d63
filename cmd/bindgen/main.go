package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/bindgen/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := cli.NewRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	// Failures (exit 1) already printed their report.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || (exitErr.Code == cli.ExitCommandError && !exitErr.Reported) {
		fmt.Fprintf(os.Stderr, "bindgen: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
