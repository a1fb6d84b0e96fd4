package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcp-telegram/mcp-telegram/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show mcp-telegram status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	fmt.Printf("%s mcp-telegram Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:    %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	tokenMark := "(not set)"
	if cfg.Telegram.Token != "" {
		tokenMark = "✓"
	}
	fmt.Printf("Bot token: %s\n", tokenMark)

	stateDir := cfg.StateDir()
	_, stateErr := os.Stat(stateDir)
	stateMark := "✗"
	if stateErr == nil {
		stateMark = "✓"
	}
	fmt.Printf("State:     %s %s\n", stateDir, stateMark)

	fmt.Printf("Retention: %d days, %d messages per dialog (%s)\n",
		cfg.Store.RetentionDays, cfg.Store.MaxPerDialog, cfg.Store.PruneSchedule)
	return nil
}
