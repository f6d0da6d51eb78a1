package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Checker-Finance/repurpose-client/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, newApp(os.Stdin, os.Stdout, os.Stderr), os.Args[1:])
	stop()
	logger.Sync()
	os.Exit(code)
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, a *app, args []string) int {
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errNoResult) {
			_, _ = fmt.Fprintln(a.stderr, "Error:", err)
		}
		return 1
	}
	return 0
}
