package telegram

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mcp-telegram/mcp-telegram/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return st
}

func privateMessage(id int, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: id,
		From:      &tgbotapi.User{ID: 42, UserName: "alice", FirstName: "Alice"},
		Chat:      &tgbotapi.Chat{ID: 100, Type: "private", FirstName: "Alice"},
		Text:      text,
		Date:      int(time.Date(2026, 1, 1, 10, 0, id, 0, time.UTC).Unix()),
	}
}

func TestApplyUpdate_RecordsMessage(t *testing.T) {
	st := testStore(t)

	applyUpdate(st, "mybot", tgbotapi.Update{Message: privateMessage(1, "hello @mybot")})

	d, ok := st.Dialog(100)
	if !ok {
		t.Fatal("dialog not recorded")
	}
	if d.Name != "Alice" || d.Kind != store.KindPrivate {
		t.Errorf("unexpected dialog: %+v", d)
	}

	msg, ok := st.Message(100, 1)
	if !ok {
		t.Fatal("message not recorded")
	}
	if msg.Text != "hello @mybot" || msg.Sender != "alice" || msg.SenderID != 42 {
		t.Errorf("unexpected message: %+v", msg)
	}
	if !msg.Mentioned {
		t.Error("expected mention of @mybot to be flagged")
	}
	if msg.Outgoing {
		t.Error("incoming update recorded as outgoing")
	}
}

func TestApplyUpdate_EditRewritesText(t *testing.T) {
	st := testStore(t)

	applyUpdate(st, "mybot", tgbotapi.Update{Message: privateMessage(1, "first")})
	applyUpdate(st, "mybot", tgbotapi.Update{EditedMessage: privateMessage(1, "second")})

	msg, ok := st.Message(100, 1)
	if !ok {
		t.Fatal("message not found")
	}
	if msg.Text != "second" {
		t.Errorf("expected edited text, got %q", msg.Text)
	}
	if got := len(st.Messages(100)); got != 1 {
		t.Errorf("edit duplicated the message: %d entries", got)
	}
}

func TestApplyUpdate_EditOfUnknownMessageAppends(t *testing.T) {
	st := testStore(t)

	applyUpdate(st, "mybot", tgbotapi.Update{EditedMessage: privateMessage(7, "late arrival")})

	msg, ok := st.Message(100, 7)
	if !ok {
		t.Fatal("expected edit of unknown message to append")
	}
	if msg.Text != "late arrival" {
		t.Errorf("unexpected text: %q", msg.Text)
	}
}

func TestApplyUpdate_ChannelPost(t *testing.T) {
	st := testStore(t)

	post := &tgbotapi.Message{
		MessageID: 3,
		Chat:      &tgbotapi.Chat{ID: -1001234, Type: "channel", Title: "Announcements"},
		Text:      "release out",
		Date:      int(time.Now().Unix()),
	}
	applyUpdate(st, "mybot", tgbotapi.Update{ChannelPost: post})

	d, ok := st.Dialog(-1001234)
	if !ok {
		t.Fatal("channel dialog not recorded")
	}
	if d.Kind != store.KindChannel || d.Name != "Announcements" {
		t.Errorf("unexpected dialog: %+v", d)
	}
}

func TestApplyUpdate_PinnedServiceMessage(t *testing.T) {
	st := testStore(t)

	applyUpdate(st, "mybot", tgbotapi.Update{Message: privateMessage(1, "hi")})

	service := privateMessage(2, "")
	service.PinnedMessage = privateMessage(1, "hi")
	applyUpdate(st, "mybot", tgbotapi.Update{Message: service})

	d, ok := st.Dialog(100)
	if !ok {
		t.Fatal("dialog not found")
	}
	if !d.Pinned {
		t.Error("pinned service message did not set the pinned flag")
	}
}

func TestRecordMessage_CaptionAsText(t *testing.T) {
	st := testStore(t)

	m := privateMessage(1, "")
	m.Caption = "photo caption"
	m.Photo = []tgbotapi.PhotoSize{
		{FileID: "small", Width: 90},
		{FileID: "large", Width: 800},
	}
	recordMessage(st, m, false, "mybot")

	msg, ok := st.Message(100, 1)
	if !ok {
		t.Fatal("message not recorded")
	}
	if msg.Text != "photo caption" {
		t.Errorf("expected caption as text, got %q", msg.Text)
	}
	if msg.MediaKind != "photo" || msg.MediaID != "large" {
		t.Errorf("expected largest photo size, got %s/%s", msg.MediaKind, msg.MediaID)
	}
}

func TestMediaRef_Document(t *testing.T) {
	m := &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc123", FileName: "report.pdf"}}
	kind, id := mediaRef(m)
	if kind != "document" || id != "doc123" {
		t.Errorf("unexpected media ref: %s/%s", kind, id)
	}
}

func TestChatName(t *testing.T) {
	cases := []struct {
		chat *tgbotapi.Chat
		want string
	}{
		{&tgbotapi.Chat{Title: "Group"}, "Group"},
		{&tgbotapi.Chat{FirstName: "Alice", LastName: "Smith"}, "Alice Smith"},
		{&tgbotapi.Chat{FirstName: "Alice"}, "Alice"},
		{&tgbotapi.Chat{UserName: "alice_bot"}, "alice_bot"},
	}
	for _, tc := range cases {
		if got := chatName(tc.chat); got != tc.want {
			t.Errorf("chatName(%+v) = %q, want %q", tc.chat, got, tc.want)
		}
	}
}
