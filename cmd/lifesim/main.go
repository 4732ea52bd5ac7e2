package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joeycumines/lifesim/internal/command"
	"github.com/joeycumines/lifesim/internal/config"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: %v\n", err)
		cfg = config.New()
	}
	for _, w := range cfg.Warnings {
		_, _ = fmt.Fprintf(stderr, "Warning: config: %s\n", w)
	}
	path, _ := config.Path()
	schema := config.DefaultSchema()

	logger, closeLog, err := command.NewLogger(cfg, schema, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	env := &command.Env{
		Config:     cfg,
		Schema:     schema,
		ConfigPath: path,
		Logger:     logger,
	}

	registry := command.NewRegistry()
	registry.Register(command.NewHelpCommand(registry))
	registry.Register(command.NewVersionCommand(version))
	registry.Register(command.NewConfigCommand(env))
	registry.Register(command.NewSimulateCommand(env))
	registry.Register(command.NewServeCommand(env))
	registry.Register(command.NewHistoryCommand(env))

	return registry.Run(ctx, args, stdout, stderr)
}
