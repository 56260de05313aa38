package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	cutrcmd "github.com/cutr-cli/cutr/cutr/cmd"
	"github.com/cutr-cli/cutr/cutr/pkg/clilog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		// Restore the default handler so a second interrupt kills the process
		// even while it is blocked on input.
		<-ctx.Done()
		stop()
	}()

	err := cutrcmd.New().ExecuteContext(ctx)
	if errors.Is(err, context.Canceled) {
		stop()
		os.Exit(130)
	}
	if err != nil {
		clilog.PrintError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
