package telegram

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mcp-telegram/mcp-telegram/internal/store"
)

// RunUpdates long-polls the Bot API and folds every update into the store.
// It blocks until ctx is done.
func (c *Client) RunUpdates(ctx context.Context) error {
	bot, err := c.api()
	if err != nil {
		return err
	}
	st, err := c.store()
	if err != nil {
		return err
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = c.cfg.Telegram.UpdateTimeout
	updates := bot.GetUpdatesChan(u)

	slog.Info("telegram: update pump started", "timeout", u.Timeout)
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			applyUpdate(st, bot.Self.UserName, update)
			if err := st.Flush(); err != nil {
				slog.Warn("telegram: flush store", "err", err)
			}
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

// applyUpdate folds one update into the store.
func applyUpdate(st *store.Store, self string, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		if update.Message.PinnedMessage != nil {
			st.SetPinned(update.Message.Chat.ID, true)
		}
		recordMessage(st, update.Message, false, self)
	case update.EditedMessage != nil:
		recordEdit(st, update.EditedMessage, self)
	case update.ChannelPost != nil:
		if update.ChannelPost.PinnedMessage != nil {
			st.SetPinned(update.ChannelPost.Chat.ID, true)
		}
		recordMessage(st, update.ChannelPost, false, self)
	case update.EditedChannelPost != nil:
		recordEdit(st, update.EditedChannelPost, self)
	}
}

// recordMessage mirrors a Bot API message into the store.
func recordMessage(st *store.Store, m *tgbotapi.Message, outgoing bool, self string) {
	if m == nil || m.Chat == nil {
		return
	}

	st.UpsertDialog(store.Dialog{
		ID:        m.Chat.ID,
		Name:      chatName(m.Chat),
		Kind:      store.Kind(m.Chat.Type),
		UpdatedAt: m.Time(),
	})

	msg := store.Message{
		ID:       m.MessageID,
		DialogID: m.Chat.ID,
		Text:     messageText(m),
		Date:     m.Time(),
		Outgoing: outgoing,
	}
	if m.From != nil {
		msg.SenderID = m.From.ID
		msg.Sender = senderName(m.From)
	}
	if m.ReplyToMessage != nil {
		msg.ReplyTo = m.ReplyToMessage.MessageID
	}
	msg.MediaKind, msg.MediaID = mediaRef(m)
	if !outgoing && self != "" {
		msg.Mentioned = strings.Contains(msg.Text, "@"+self)
	}

	if err := st.Append(msg); err != nil {
		slog.Warn("telegram: record message", "err", err)
	}
}

// recordEdit updates a mirrored message in place, falling back to a fresh
// append when the original predates the mirror.
func recordEdit(st *store.Store, m *tgbotapi.Message, self string) {
	if m == nil || m.Chat == nil {
		return
	}
	if st.ApplyEdit(m.Chat.ID, m.MessageID, messageText(m)) {
		return
	}
	recordMessage(st, m, false, self)
}

func chatName(c *tgbotapi.Chat) string {
	switch {
	case c.Title != "":
		return c.Title
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	default:
		return c.UserName
	}
}

func senderName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}

func messageText(m *tgbotapi.Message) string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}

// mediaRef picks the file reference for a message's attachment, if any.
// Photos use the largest size.
func mediaRef(m *tgbotapi.Message) (kind, fileID string) {
	switch {
	case len(m.Photo) > 0:
		return "photo", m.Photo[len(m.Photo)-1].FileID
	case m.Document != nil:
		return "document", m.Document.FileID
	case m.Video != nil:
		return "video", m.Video.FileID
	case m.Voice != nil:
		return "voice", m.Voice.FileID
	case m.Audio != nil:
		return "audio", m.Audio.FileID
	case m.Sticker != nil:
		return "sticker", m.Sticker.FileID
	case m.Animation != nil:
		return "animation", m.Animation.FileID
	case m.VideoNote != nil:
		return "video_note", m.VideoNote.FileID
	}
	return "", ""
}
