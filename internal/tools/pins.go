package tools

import (
	"context"

	"github.com/mcp-telegram/mcp-telegram/internal/schema"
	"github.com/mcp-telegram/mcp-telegram/internal/telegram"
)

// ---------------------------------------------------------------------------
// PinMessage

type pinMessageArgs struct {
	DialogID  int64 `json:"dialog_id"`
	MessageID int   `json:"message_id"`
	Notify    bool  `json:"notify"`
	PMOneside bool  `json:"pm_oneside"`
}

func pinMessage() Definition {
	return define(
		"PinMessage",
		"Pin a message in a chat. Requires the chat ID and message ID to pin. "+
			"Optionally, you can disable notification for the pinned message and "+
			"pin the message silently.",
		schema.Object(map[string]*schema.Property{
			"dialog_id":  {Type: "integer", Description: "Dialog, chat or channel ID"},
			"message_id": {Type: "integer", Description: "ID of the message to pin"},
			"notify":     {Type: "boolean", Description: "Notify chat members about the pin", Default: defTrue},
			"pm_oneside": {Type: "boolean", Description: "Pin only on your side of a private chat", Default: defFalse},
		}, "dialog_id", "message_id"),
		pinMessageArgs{Notify: true},
		runPinMessage,
	)
}

func runPinMessage(ctx context.Context, sess *telegram.Session, args pinMessageArgs) ([]schema.Content, error) {
	if err := sess.Pin(args.DialogID, args.MessageID, args.Notify, args.PMOneside); err != nil {
		return schema.TextResult("Failed to pin message: %v", err), nil
	}
	return schema.TextResult("Successfully pinned message %d", args.MessageID), nil
}

// ---------------------------------------------------------------------------
// UnpinMessage

type unpinMessageArgs struct {
	DialogID  int64 `json:"dialog_id"`
	MessageID *int  `json:"message_id"`
}

func unpinMessage() Definition {
	return define(
		"UnpinMessage",
		"Unpin a message from a chat. Requires the chat ID and optionally the "+
			"specific message ID to unpin. If no message ID is provided, all "+
			"pinned messages will be unpinned.",
		schema.Object(map[string]*schema.Property{
			"dialog_id":  {Type: "integer", Description: "Dialog, chat or channel ID"},
			"message_id": {Type: "integer", Description: "ID of the message to unpin; omit to unpin everything"},
		}, "dialog_id"),
		unpinMessageArgs{},
		runUnpinMessage,
	)
}

func runUnpinMessage(ctx context.Context, sess *telegram.Session, args unpinMessageArgs) ([]schema.Content, error) {
	if args.MessageID == nil {
		if err := sess.UnpinAll(args.DialogID); err != nil {
			return schema.TextResult("Failed to unpin message(s): %v", err), nil
		}
		return schema.TextResult("Successfully unpinned all messages"), nil
	}
	if err := sess.Unpin(args.DialogID, *args.MessageID); err != nil {
		return schema.TextResult("Failed to unpin message(s): %v", err), nil
	}
	return schema.TextResult("Successfully unpinned message %d", *args.MessageID), nil
}
