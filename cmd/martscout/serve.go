package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/martscout/martscout/internal/api"
	"github.com/martscout/martscout/internal/config"
)

var (
	serveHost string
	servePort int
)

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve search and detail lookups over an HTTP JSON API",
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&serveHost, "host", "", "bind address (default: configured, all interfaces)")
	cmd.Flags().IntVar(&servePort, "port", 0, "listen port (default: configured, 8000)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(&cfg.Server, svc, logger)
	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info("server stopped, browser session released")
	return nil
}
