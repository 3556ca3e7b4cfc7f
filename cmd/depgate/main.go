// Package main is the entry point for the depgate configure-time probe tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/depgate/cmd/depgate/commands"
	"go.trai.ch/depgate/internal/app"
	"go.trai.ch/depgate/internal/core/domain"
	_ "go.trai.ch/depgate/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available if initialization failed; write directly to stderr.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrDependencyNotSatisfied) {
			// Strict mode: the diagnostics were already emitted per probe.
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
