// Package main is the entry point for the taskboard CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskboard/internal/backend/taskapi"
	"taskboard/internal/cli"
	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/service"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return taskapi.New(cfg), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
