// Command frenchreader serves the article analysis API and provides offline
// tools for migrations and for re-aligning saved model output.
//
// Usage:
//
//	frenchreader serve
//	frenchreader migrate [up|down|status]
//	frenchreader analyze --file article.txt --level B1
//	frenchreader reconcile --file article.txt --payload payload.json [--render]
//	frenchreader version
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
