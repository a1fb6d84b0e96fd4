package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mcp-telegram/mcp-telegram/internal/config"
	"github.com/mcp-telegram/mcp-telegram/internal/telegram"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect a Telegram bot account",
	RunE:  runConnect,
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Log out and wipe local state",
	RunE:  runDisconnect,
}

func runConnect(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Print("Bot token: ")
	token, err := readSecret()
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	me, err := telegram.Connect(token)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	cfg.Telegram.Token = token
	if err := config.Save(cfg, cfgPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Hey %s! You are connected!\n", me.UserName)
	return nil
}

func runDisconnect(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg.Telegram.Token = ""
	if err := config.Save(cfg, cfgPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if err := telegram.Reset(cfg); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}

	fmt.Println("You are now logged out from Telegram.")
	return nil
}

// readSecret reads a line without echo on a terminal, with a plain-line
// fallback for piped input.
func readSecret() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
