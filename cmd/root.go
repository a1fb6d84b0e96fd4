// Package cmd implements the mcp-telegram CLI using cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcp-telegram/mcp-telegram/internal/config"
)

const version = "0.1.0"
const logo = "📨"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "mcp-telegram",
	Short: logo + " mcp-telegram — Telegram MCP server",
	Long:  logo + " mcp-telegram — expose a Telegram bot account as MCP tools over stdio",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listToolsCmd)
	rootCmd.AddCommand(callToolCmd)
}

// setupLogging points slog at stderr. stdout stays reserved for the MCP
// wire, so every command routes its logs the same way.
func setupLogging(cfg *config.Config, verbose bool) {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
