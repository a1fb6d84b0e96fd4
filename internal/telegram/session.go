package telegram

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mcp-telegram/mcp-telegram/internal/store"
)

// Session is a live handle on the backend for the duration of one tool call.
// Listing operations read the local mirror; everything else talks to the
// Bot API and keeps the mirror in sync.
type Session struct {
	client   *Client
	store    *store.Store
	mediaDir string
}

func (s *Session) api() (*tgbotapi.BotAPI, error) {
	return s.client.api()
}

// ---------------------------------------------------------------------------
// Identity

// Me returns the bot's own identity.
func (s *Session) Me() (tgbotapi.User, error) {
	bot, err := s.api()
	if err != nil {
		return tgbotapi.User{}, err
	}
	return bot.Self, nil
}

// ---------------------------------------------------------------------------
// Dialog and message views (served from the mirror)

// DialogInfo is a dialog plus its derived unread counters.
type DialogInfo struct {
	store.Dialog
	Unread   int
	Mentions int
}

// Dialogs lists known dialogs, pinned first, most recent activity next.
func (s *Session) Dialogs(archived, ignorePinned bool) []DialogInfo {
	ds := s.store.Dialogs(store.Filter{Archived: archived, IgnorePinned: ignorePinned})
	out := make([]DialogInfo, 0, len(ds))
	for _, d := range ds {
		out = append(out, DialogInfo{
			Dialog:   d,
			Unread:   s.store.UnreadCount(d.ID),
			Mentions: s.store.MentionCount(d.ID),
		})
	}
	return out
}

// History returns stored messages with text, newest first. With unreadOnly
// only messages past the read cursor are returned, capped at limit, and the
// cursor advances so they are not listed again.
func (s *Session) History(dialogID int64, limit int, unreadOnly bool) ([]store.Message, error) {
	d, ok := s.store.Dialog(dialogID)
	if !ok {
		return nil, fmt.Errorf("dialog not found: %d", dialogID)
	}

	msgs := s.store.Messages(dialogID)
	if unreadOnly {
		var unread []store.Message
		for _, m := range msgs {
			if m.ID > d.LastReadID && !m.Outgoing {
				unread = append(unread, m)
			}
		}
		msgs = unread
	}
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	if unreadOnly && len(msgs) > 0 {
		s.store.MarkRead(dialogID, msgs[len(msgs)-1].ID)
	}

	out := make([]store.Message, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Text == "" {
			continue
		}
		out = append(out, msgs[i])
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Sending and editing

// Send posts text to a dialog and mirrors it locally.
func (s *Session) Send(dialogID int64, text string) (int, error) {
	bot, err := s.api()
	if err != nil {
		return 0, err
	}
	sent, err := bot.Send(tgbotapi.NewMessage(dialogID, text))
	if err != nil {
		return 0, err
	}
	recordMessage(s.store, &sent, true, "")
	return sent.MessageID, nil
}

// Reply posts text as a reply to an existing message.
func (s *Session) Reply(dialogID int64, replyTo int, text string, silent bool) (int, error) {
	bot, err := s.api()
	if err != nil {
		return 0, err
	}
	m := tgbotapi.NewMessage(dialogID, text)
	m.ReplyToMessageID = replyTo
	m.DisableNotification = silent
	sent, err := bot.Send(m)
	if err != nil {
		return 0, err
	}
	recordMessage(s.store, &sent, true, "")
	return sent.MessageID, nil
}

// Edit replaces the text of a previously sent message.
func (s *Session) Edit(dialogID int64, messageID int, text string) error {
	bot, err := s.api()
	if err != nil {
		return err
	}
	if _, err := bot.Send(tgbotapi.NewEditMessageText(dialogID, messageID, text)); err != nil {
		return err
	}
	s.store.ApplyEdit(dialogID, messageID, text)
	return nil
}

// Delete removes a message for all participants.
func (s *Session) Delete(dialogID int64, messageID int) error {
	bot, err := s.api()
	if err != nil {
		return err
	}
	if _, err := bot.Request(tgbotapi.NewDeleteMessage(dialogID, messageID)); err != nil {
		return err
	}
	s.store.MarkDeleted(dialogID, messageID)
	return nil
}

// Forward copies a message to another dialog and returns the new message ID.
func (s *Session) Forward(toDialogID, fromDialogID int64, messageID int, silent bool) (int, error) {
	bot, err := s.api()
	if err != nil {
		return 0, err
	}
	fc := tgbotapi.NewForward(toDialogID, fromDialogID, messageID)
	fc.DisableNotification = silent
	sent, err := bot.Send(fc)
	if err != nil {
		return 0, err
	}
	recordMessage(s.store, &sent, true, "")
	return sent.MessageID, nil
}

// ---------------------------------------------------------------------------
// Pinning

// Pin pins a message. pmOneside is accepted for parity with user accounts
// but the Bot API applies pins to both sides of a private chat.
func (s *Session) Pin(dialogID int64, messageID int, notify, pmOneside bool) error {
	bot, err := s.api()
	if err != nil {
		return err
	}
	_ = pmOneside // no Bot API equivalent
	cfg := tgbotapi.PinChatMessageConfig{
		ChatID:              dialogID,
		MessageID:           messageID,
		DisableNotification: !notify,
	}
	if _, err := bot.Request(cfg); err != nil {
		return err
	}
	s.store.SetPinned(dialogID, true)
	return nil
}

// Unpin removes one pinned message.
func (s *Session) Unpin(dialogID int64, messageID int) error {
	bot, err := s.api()
	if err != nil {
		return err
	}
	cfg := tgbotapi.UnpinChatMessageConfig{ChatID: dialogID, MessageID: messageID}
	_, err = bot.Request(cfg)
	return err
}

// UnpinAll removes every pinned message in the dialog.
func (s *Session) UnpinAll(dialogID int64) error {
	bot, err := s.api()
	if err != nil {
		return err
	}
	if _, err := bot.Request(tgbotapi.UnpinAllChatMessagesConfig{ChatID: dialogID}); err != nil {
		return err
	}
	s.store.SetPinned(dialogID, false)
	return nil
}

// ---------------------------------------------------------------------------
// Reactions

// Reactions returns the recorded reactions on a stored message.
func (s *Session) Reactions(dialogID int64, messageID int) (map[string]int, bool) {
	msg, ok := s.store.Message(dialogID, messageID)
	if !ok {
		return nil, false
	}
	return msg.Reactions, true
}

// React sets or clears the bot's reaction on a message. A numeric emoji
// value is sent as a custom emoji ID. setMessageReaction postdates the
// library's typed configs, so the request goes through MakeRequest.
func (s *Session) React(dialogID int64, messageID int, emoji string, add, big bool) error {
	bot, err := s.api()
	if err != nil {
		return err
	}

	reaction := []map[string]string{}
	if add {
		if isDigits(emoji) {
			reaction = append(reaction, map[string]string{
				"type":            "custom_emoji",
				"custom_emoji_id": emoji,
			})
		} else {
			reaction = append(reaction, map[string]string{
				"type":  "emoji",
				"emoji": emoji,
			})
		}
	}
	payload, err := json.Marshal(reaction)
	if err != nil {
		return fmt.Errorf("encode reaction: %w", err)
	}

	params := tgbotapi.Params{
		"chat_id":    strconv.FormatInt(dialogID, 10),
		"message_id": strconv.Itoa(messageID),
		"reaction":   string(payload),
	}
	if big {
		params["is_big"] = "true"
	}
	if _, err := bot.MakeRequest("setMessageReaction", params); err != nil {
		return err
	}
	s.store.SetReaction(dialogID, messageID, emoji, add)
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Media

// SendFile uploads a local file, as a photo when the extension looks like an
// image, otherwise as a document.
func (s *Session) SendFile(dialogID int64, path, caption string) (int, error) {
	bot, err := s.api()
	if err != nil {
		return 0, err
	}
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}

	var cfg tgbotapi.Chattable
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		p := tgbotapi.NewPhoto(dialogID, tgbotapi.FilePath(path))
		p.Caption = caption
		cfg = p
	default:
		d := tgbotapi.NewDocument(dialogID, tgbotapi.FilePath(path))
		d.Caption = caption
		cfg = d
	}

	sent, err := bot.Send(cfg)
	if err != nil {
		return 0, err
	}
	recordMessage(s.store, &sent, true, "")
	return sent.MessageID, nil
}

// Download fetches the media attached to a stored message and returns the
// local path together with the media kind. An empty dest saves into the
// media directory under a name derived from the message.
func (s *Session) Download(dialogID int64, messageID int, dest string) (string, string, error) {
	msg, ok := s.store.Message(dialogID, messageID)
	if !ok {
		return "", "", fmt.Errorf("message not found: %d", messageID)
	}
	if msg.MediaID == "" {
		return "", "", fmt.Errorf("message %d has no media", messageID)
	}

	bot, err := s.api()
	if err != nil {
		return "", "", err
	}
	file, err := bot.GetFile(tgbotapi.FileConfig{FileID: msg.MediaID})
	if err != nil {
		return "", "", err
	}

	if dest == "" {
		ext := filepath.Ext(file.FilePath)
		if ext == "" && msg.MediaKind == "photo" {
			ext = ".jpg"
		}
		dest = filepath.Join(s.mediaDir, fmt.Sprintf("%d_%d%s", dialogID, messageID, ext))
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", "", fmt.Errorf("create media dir: %w", err)
	}
	if err := downloadToFile(file.Link(bot.Token), dest); err != nil {
		return "", "", err
	}
	return dest, msg.MediaKind, nil
}

func downloadToFile(url, dest string) error {
	resp, err := http.Get(url) //nolint:noctx
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

// ---------------------------------------------------------------------------
// Chat management

// ChatInfo fetches chat details and refreshes the mirror entry.
func (s *Session) ChatInfo(dialogID int64) (tgbotapi.Chat, error) {
	bot, err := s.api()
	if err != nil {
		return tgbotapi.Chat{}, err
	}
	chat, err := bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: dialogID},
	})
	if err != nil {
		return tgbotapi.Chat{}, err
	}
	s.store.UpsertDialog(store.Dialog{
		ID:   chat.ID,
		Name: chatName(&chat),
		Kind: store.Kind(chat.Type),
	})
	return chat, nil
}

// ChatAdmins lists the administrators of a group or channel.
func (s *Session) ChatAdmins(dialogID int64) ([]tgbotapi.ChatMember, error) {
	bot, err := s.api()
	if err != nil {
		return nil, err
	}
	return bot.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: dialogID},
	})
}

// SetChatTitle renames a group or channel.
func (s *Session) SetChatTitle(dialogID int64, title string) error {
	bot, err := s.api()
	if err != nil {
		return err
	}
	if _, err := bot.Request(tgbotapi.SetChatTitleConfig{ChatID: dialogID, Title: title}); err != nil {
		return err
	}
	s.store.UpsertDialog(store.Dialog{ID: dialogID, Name: title})
	return nil
}

// SetChatDescription updates a group or channel description.
func (s *Session) SetChatDescription(dialogID int64, description string) error {
	bot, err := s.api()
	if err != nil {
		return err
	}
	_, err = bot.Request(tgbotapi.SetChatDescriptionConfig{
		ChatID:      dialogID,
		Description: description,
	})
	return err
}

// Ban removes a member from a group or channel. With revoke, their messages
// go too.
func (s *Session) Ban(dialogID, userID int64, revoke bool) error {
	bot, err := s.api()
	if err != nil {
		return err
	}
	_, err = bot.Request(tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: dialogID, UserID: userID},
		RevokeMessages:   revoke,
	})
	return err
}

// Unban lifts a ban. OnlyIfBanned keeps the call from kicking an active
// member.
func (s *Session) Unban(dialogID, userID int64) error {
	bot, err := s.api()
	if err != nil {
		return err
	}
	_, err = bot.Request(tgbotapi.UnbanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: dialogID, UserID: userID},
		OnlyIfBanned:     true,
	})
	return err
}

// CreateInviteLink creates an additional invite link for the chat.
func (s *Session) CreateInviteLink(dialogID int64, name string, memberLimit int) (string, error) {
	bot, err := s.api()
	if err != nil {
		return "", err
	}
	resp, err := bot.Request(tgbotapi.CreateChatInviteLinkConfig{
		ChatConfig:  tgbotapi.ChatConfig{ChatID: dialogID},
		Name:        name,
		MemberLimit: memberLimit,
	})
	if err != nil {
		return "", err
	}
	var link tgbotapi.ChatInviteLink
	if err := json.Unmarshal(resp.Result, &link); err != nil {
		return "", fmt.Errorf("decode invite link: %w", err)
	}
	return link.InviteLink, nil
}

// Leave makes the bot exit the chat and drops it from the mirror.
func (s *Session) Leave(dialogID int64) error {
	bot, err := s.api()
	if err != nil {
		return err
	}
	if _, err := bot.Request(tgbotapi.LeaveChatConfig{ChatID: dialogID}); err != nil {
		return err
	}
	s.store.Forget(dialogID)
	return nil
}
