// Package main starts the localegate web service.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	webcmd "github.com/louisbranch/localegate/internal/cmd/web"
	"github.com/louisbranch/localegate/internal/platform/cmd"
)

func main() {
	cfg, err := webcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		slog.Error("parse config", slog.Any("error", err))
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.RunWithTelemetry(ctx, cmd.ServiceWeb, func(ctx context.Context) error {
		return webcmd.Run(ctx, cfg)
	}); err != nil {
		slog.Error("web service stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
