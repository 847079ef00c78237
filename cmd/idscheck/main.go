// Package main provides the idscheck binary entry point.
// idscheck validates model snapshots against IDS rule documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
)

const (
	Version = "0.1.0"
	appName = "idscheck"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(3)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit status: 0 on success, 1
// when a specification failed, 2 for any other error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, errSpecificationsFailed) {
		return 1
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 2
}
