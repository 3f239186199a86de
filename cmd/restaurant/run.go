package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

// run blocks until a signal arrives or the app asks to shut down,
// then stops the app within its configured stop timeout.
func run(ctx context.Context, app *fx.App) {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start restaurant: %v\n", err)
		os.Exit(1)
	}

	exitCode := 0
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		exitCode = sig.ExitCode
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	err := app.Stop(stopCtx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop restaurant: %v\n", err)
		os.Exit(1)
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
