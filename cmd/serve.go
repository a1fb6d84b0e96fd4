package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mcp-telegram/mcp-telegram/internal/config"
	"github.com/mcp-telegram/mcp-telegram/internal/container"
)

var serveVerbose bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP over stdin/stdout",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Verbose logging")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg, serveVerbose)

	c, err := container.New(cfg, version)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}
	defer c.Client().Close()

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// The MCP client owns the process lifetime: when it closes stdin,
		// the pump and retention jobs come down too.
		defer stop()
		return c.Server().Serve(gctx, os.Stdin, os.Stdout)
	})

	if cfg.Telegram.Token != "" {
		g.Go(func() error { return c.Client().RunUpdates(gctx) })
		g.Go(func() error { return c.Client().RunRetention(gctx) })
	} else {
		slog.Warn("telegram: no bot token configured; update pump disabled")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
