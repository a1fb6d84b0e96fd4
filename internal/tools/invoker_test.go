package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mcp-telegram/mcp-telegram/internal/config"
	"github.com/mcp-telegram/mcp-telegram/internal/schema"
	"github.com/mcp-telegram/mcp-telegram/internal/store"
	"github.com/mcp-telegram/mcp-telegram/internal/telegram"
)

// newTestInvoker wires a full registry to a client with no token and a
// throwaway state directory. Mirror-backed tools work offline; API-backed
// tools fail inside their handlers.
func newTestInvoker(t *testing.T) (*Invoker, string) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Store.Dir = t.TempDir()
	cfg.Telegram.Token = ""
	t.Setenv(config.EnvToken, "")

	reg, err := NewRegistry(Definitions())
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return NewInvoker(reg, telegram.NewClient(&cfg)), cfg.Store.Dir
}

// seedStore writes state directly into the invoker's store directory before
// the lazy client opens it.
func seedStore(t *testing.T, dir string, d store.Dialog, msgs ...store.Message) {
	t.Helper()
	st, err := store.Open(dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	st.UpsertDialog(d)
	for _, m := range msgs {
		if err := st.Append(m); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
}

func incomingMsg(dialogID int64, id int, text string) store.Message {
	return store.Message{
		ID:       id,
		DialogID: dialogID,
		SenderID: 42,
		Sender:   "alice",
		Text:     text,
		Date:     time.Date(2026, 2, 1, 9, 0, id, 0, time.UTC),
	}
}

func textOf(t *testing.T, item schema.Content) string {
	t.Helper()
	tc, ok := item.(schema.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", item)
	}
	return tc.Text
}

func TestInvoke_UnknownTool(t *testing.T) {
	inv, _ := newTestInvoker(t)
	_, err := inv.Invoke(context.Background(), "Teleport", nil)
	if !errors.Is(err, schema.ErrUnknownTool) {
		t.Fatalf("got %v, want ErrUnknownTool", err)
	}
}

func TestInvoke_ArgumentsNotObject(t *testing.T) {
	inv, _ := newTestInvoker(t)
	for _, bad := range []any{"text", []any{1, 2}, 7} {
		if _, err := inv.Invoke(context.Background(), "ListDialogs", bad); !errors.Is(err, schema.ErrBadArguments) {
			t.Errorf("arguments %T: got %v, want ErrBadArguments", bad, err)
		}
	}
}

func TestInvoke_MissingRequiredField(t *testing.T) {
	inv, _ := newTestInvoker(t)
	_, err := inv.Invoke(context.Background(), "ListMessages", map[string]any{})

	var argErr *schema.ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("got %v, want ArgumentError", err)
	}
	if argErr.Field != "dialog_id" {
		t.Errorf("field %q, want dialog_id", argErr.Field)
	}
	if argErr.Tool != "ListMessages" {
		t.Errorf("tool %q, want ListMessages", argErr.Tool)
	}
}

func TestInvoke_WrongFieldType(t *testing.T) {
	inv, _ := newTestInvoker(t)
	_, err := inv.Invoke(context.Background(), "ListMessages", map[string]any{"dialog_id": "forty-two"})

	var argErr *schema.ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("got %v, want ArgumentError", err)
	}
	if argErr.Field != "dialog_id" {
		t.Errorf("field %q, want dialog_id", argErr.Field)
	}
}

func TestInvoke_ListDialogs_Defaults(t *testing.T) {
	inv, dir := newTestInvoker(t)
	seedStore(t, dir,
		store.Dialog{ID: 7, Name: "lobby", Kind: store.KindGroup},
		incomingMsg(7, 1, "hi"),
		func() store.Message {
			m := incomingMsg(7, 2, "ping @bot")
			m.Mentioned = true
			return m
		}(),
	)

	items, err := inv.Invoke(context.Background(), "ListDialogs", nil)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d dialogs, want 1", len(items))
	}
	got := textOf(t, items[0])
	want := "name='lobby' id=7 unread=2 mentions=1"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInvoke_ListDialogs_UnreadFilter(t *testing.T) {
	inv, dir := newTestInvoker(t)
	read := store.Dialog{ID: 1, Name: "quiet", Kind: store.KindPrivate, LastReadID: 5}
	seedStore(t, dir, read, incomingMsg(1, 5, "old news"))
	seedStore(t, dir,
		store.Dialog{ID: 2, Name: "busy", Kind: store.KindPrivate},
		incomingMsg(2, 1, "new"),
	)

	items, err := inv.Invoke(context.Background(), "ListDialogs", map[string]any{"unread": true})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d dialogs, want 1", len(items))
	}
	if got := textOf(t, items[0]); !strings.Contains(got, "name='busy'") {
		t.Errorf("got %q, want the dialog with unread messages", got)
	}
}

func TestInvoke_ListMessages_NewestFirst(t *testing.T) {
	inv, dir := newTestInvoker(t)
	seedStore(t, dir,
		store.Dialog{ID: 3, Name: "log", Kind: store.KindPrivate},
		incomingMsg(3, 1, "first"),
		incomingMsg(3, 2, "second"),
		incomingMsg(3, 3, "third"),
	)

	items, err := inv.Invoke(context.Background(), "ListMessages", map[string]any{"dialog_id": 3})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	want := []string{"third", "second", "first"}
	if len(items) != len(want) {
		t.Fatalf("got %d messages, want %d", len(items), len(want))
	}
	for i, w := range want {
		if got := textOf(t, items[i]); got != w {
			t.Errorf("message %d: got %q, want %q", i, got, w)
		}
	}
}

func TestInvoke_HandlerFailureIsExecutionError(t *testing.T) {
	inv, dir := newTestInvoker(t)
	seedStore(t, dir, store.Dialog{ID: 4, Name: "alive", Kind: store.KindPrivate}, incomingMsg(4, 1, "hello"))

	_, err := inv.Invoke(context.Background(), "ListMessages", map[string]any{"dialog_id": 999})
	var execErr *schema.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("got %v, want ExecutionError", err)
	}
	if execErr.Tool != "ListMessages" {
		t.Errorf("tool %q, want ListMessages", execErr.Tool)
	}
	if !strings.Contains(execErr.Message, "dialog not found") {
		t.Errorf("message %q does not name the missing dialog", execErr.Message)
	}

	// One failed call must not poison the dispatcher.
	items, err := inv.Invoke(context.Background(), "ListMessages", map[string]any{"dialog_id": 4})
	if err != nil {
		t.Fatalf("follow-up invoke: %v", err)
	}
	if len(items) != 1 || textOf(t, items[0]) != "hello" {
		t.Errorf("follow-up returned %v", items)
	}
}

func TestInvoke_APIToolWithoutToken(t *testing.T) {
	inv, _ := newTestInvoker(t)
	items, err := inv.Invoke(context.Background(), "SendMessage", map[string]any{
		"dialog_id": 1,
		"message":   "hi there",
	})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if got := textOf(t, items[0]); !strings.HasPrefix(got, "Failed to send message:") {
		t.Errorf("got %q, want a send failure report", got)
	}
}

func TestInvoke_GetMessageReactions(t *testing.T) {
	inv, dir := newTestInvoker(t)
	withReactions := incomingMsg(5, 1, "nice")
	withReactions.Reactions = map[string]int{"👍": 2, "❤": 1}
	seedStore(t, dir,
		store.Dialog{ID: 5, Name: "fans", Kind: store.KindGroup},
		withReactions,
		incomingMsg(5, 2, "plain"),
	)

	t.Run("listed sorted", func(t *testing.T) {
		items, err := inv.Invoke(context.Background(), "GetMessageReactions", map[string]any{
			"dialog_id": 5, "message_id": 1,
		})
		if err != nil {
			t.Fatalf("invoke: %v", err)
		}
		got := textOf(t, items[0])
		if !strings.HasPrefix(got, "Reactions on message:\n") {
			t.Fatalf("got %q, want reaction listing", got)
		}
		if !strings.Contains(got, "👍: 2") || !strings.Contains(got, "❤: 1") {
			t.Errorf("got %q, missing reaction counts", got)
		}
	})

	t.Run("no reactions", func(t *testing.T) {
		items, err := inv.Invoke(context.Background(), "GetMessageReactions", map[string]any{
			"dialog_id": 5, "message_id": 2,
		})
		if err != nil {
			t.Fatalf("invoke: %v", err)
		}
		if got := textOf(t, items[0]); got != "No reactions on this message" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("message missing", func(t *testing.T) {
		items, err := inv.Invoke(context.Background(), "GetMessageReactions", map[string]any{
			"dialog_id": 5, "message_id": 99,
		})
		if err != nil {
			t.Fatalf("invoke: %v", err)
		}
		if got := textOf(t, items[0]); got != "Message not found" {
			t.Errorf("got %q", got)
		}
	})
}

func TestInvoke_LimitKeepsNewest(t *testing.T) {
	inv, dir := newTestInvoker(t)
	seedStore(t, dir,
		store.Dialog{ID: 6, Name: "stream", Kind: store.KindChannel},
		incomingMsg(6, 1, "a"),
		incomingMsg(6, 2, "b"),
		incomingMsg(6, 3, "c"),
		incomingMsg(6, 4, "d"),
	)

	items, err := inv.Invoke(context.Background(), "ListMessages", map[string]any{
		"dialog_id": 6, "limit": 2,
	})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	want := []string{"d", "c"}
	if len(items) != len(want) {
		t.Fatalf("got %d messages, want %d", len(items), len(want))
	}
	for i, w := range want {
		if got := textOf(t, items[i]); got != w {
			t.Errorf("message %d: got %q, want %q", i, got, w)
		}
	}
}
