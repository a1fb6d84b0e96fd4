// Package telegram wraps the Bot API connection, the local account-state
// store and the long-poll update pump behind per-call sessions.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mcp-telegram/mcp-telegram/internal/config"
	"github.com/mcp-telegram/mcp-telegram/internal/store"
)

// Client owns the Bot API handle and the account-state store. Both are
// created on first use and shared by every session, so listing operations
// keep working against local state even before the bot ever connects.
type Client struct {
	cfg *config.Config

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
	st  *store.Store
}

// NewClient builds a Client from configuration. No network or disk activity
// happens until a session needs it.
func NewClient(cfg *config.Config) *Client {
	return &Client{cfg: cfg}
}

// WithSession runs fn with a live session. Store state touched by fn is
// flushed when fn returns.
func (c *Client) WithSession(ctx context.Context, fn func(*Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	st, err := c.store()
	if err != nil {
		return err
	}

	s := &Session{client: c, store: st, mediaDir: c.cfg.MediaDir()}
	defer func() {
		if err := st.Flush(); err != nil {
			slog.Warn("telegram: flush store", "err", err)
		}
	}()
	return fn(s)
}

// store returns the shared Store, opening it on first use.
func (c *Client) store() (*store.Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.st != nil {
		return c.st, nil
	}
	st, err := store.Open(c.cfg.StateDir())
	if err != nil {
		return nil, fmt.Errorf("telegram: open store: %w", err)
	}
	c.st = st
	return st, nil
}

// api returns the shared Bot API handle, connecting on first use.
func (c *Client) api() (*tgbotapi.BotAPI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bot != nil {
		return c.bot, nil
	}
	token := c.cfg.Telegram.Token
	if token == "" {
		return nil, fmt.Errorf("telegram: bot token not configured")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: create bot: %w", err)
	}
	slog.Info("telegram: connected", "username", bot.Self.UserName)
	c.bot = bot
	return bot, nil
}

// Close flushes pending store state.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.st == nil {
		return nil
	}
	return c.st.Close()
}

// Connect validates a token against the Bot API and returns the bot's
// identity.
func Connect(token string) (tgbotapi.User, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return tgbotapi.User{}, fmt.Errorf("telegram: create bot: %w", err)
	}
	return bot.Self, nil
}

// Reset removes the local account state. Clearing the stored token is the
// caller's job.
func Reset(cfg *config.Config) error {
	if err := os.RemoveAll(cfg.StateDir()); err != nil {
		return fmt.Errorf("telegram: remove state: %w", err)
	}
	return nil
}
