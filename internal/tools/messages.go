package tools

import (
	"context"

	"github.com/mcp-telegram/mcp-telegram/internal/schema"
	"github.com/mcp-telegram/mcp-telegram/internal/telegram"
)

// ---------------------------------------------------------------------------
// SendMessage

type sendMessageArgs struct {
	DialogID int64  `json:"dialog_id"`
	Message  string `json:"message"`
}

func sendMessage() Definition {
	return define(
		"SendMessage",
		"Send a message to a specified dialog, chat, or channel. Allows sending "+
			"text messages to a specified chat identified by its dialog_id. The "+
			"message will be sent as plain text.",
		schema.Object(map[string]*schema.Property{
			"dialog_id": {Type: "integer", Description: "Dialog, chat or channel ID"},
			"message":   {Type: "string", Description: "Text to send"},
		}, "dialog_id", "message"),
		sendMessageArgs{},
		runSendMessage,
	)
}

func runSendMessage(ctx context.Context, sess *telegram.Session, args sendMessageArgs) ([]schema.Content, error) {
	id, err := sess.Send(args.DialogID, args.Message)
	if err != nil {
		return schema.TextResult("Failed to send message: %v", err), nil
	}
	return schema.TextResult("Message sent successfully. Message ID: %d", id), nil
}

// ---------------------------------------------------------------------------
// ReplyToMessage

type replyToMessageArgs struct {
	DialogID  int64  `json:"dialog_id"`
	MessageID int    `json:"message_id"`
	Text      string `json:"text"`
	Silent    bool   `json:"silent"`
}

func replyToMessage() Definition {
	return define(
		"ReplyToMessage",
		"Reply to a specific message in a chat. Creates a new message that is a "+
			"reply to the specified message. You can optionally send the reply "+
			"silently (without notification).",
		schema.Object(map[string]*schema.Property{
			"dialog_id":  {Type: "integer", Description: "Dialog, chat or channel ID"},
			"message_id": {Type: "integer", Description: "ID of the message to reply to"},
			"text":       {Type: "string", Description: "Reply text"},
			"silent":     {Type: "boolean", Description: "Send the reply without notification", Default: defFalse},
		}, "dialog_id", "message_id", "text"),
		replyToMessageArgs{},
		runReplyToMessage,
	)
}

func runReplyToMessage(ctx context.Context, sess *telegram.Session, args replyToMessageArgs) ([]schema.Content, error) {
	id, err := sess.Reply(args.DialogID, args.MessageID, args.Text, args.Silent)
	if err != nil {
		return schema.TextResult("Failed to send reply: %v", err), nil
	}
	return schema.TextResult("Reply sent successfully. New message ID: %d", id), nil
}

// ---------------------------------------------------------------------------
// EditMessage

type editMessageArgs struct {
	DialogID  int64  `json:"dialog_id"`
	MessageID int    `json:"message_id"`
	NewText   string `json:"new_text"`
}

func editMessage() Definition {
	return define(
		"EditMessage",
		"Edit an existing message in a dialog, chat, or channel. Requires the "+
			"dialog_id, message_id, and the new text to replace the original message.",
		schema.Object(map[string]*schema.Property{
			"dialog_id":  {Type: "integer", Description: "Dialog, chat or channel ID"},
			"message_id": {Type: "integer", Description: "ID of the message to edit"},
			"new_text":   {Type: "string", Description: "Replacement text"},
		}, "dialog_id", "message_id", "new_text"),
		editMessageArgs{},
		runEditMessage,
	)
}

func runEditMessage(ctx context.Context, sess *telegram.Session, args editMessageArgs) ([]schema.Content, error) {
	if err := sess.Edit(args.DialogID, args.MessageID, args.NewText); err != nil {
		return schema.TextResult("Failed to edit message: %v", err), nil
	}
	return schema.TextResult("Successfully edited message %d", args.MessageID), nil
}

// ---------------------------------------------------------------------------
// DeleteMessage

type deleteMessageArgs struct {
	DialogID  int64 `json:"dialog_id"`
	MessageID int   `json:"message_id"`
}

func deleteMessage() Definition {
	return define(
		"DeleteMessage",
		"Delete a specific message from a dialog, chat, or channel. Requires "+
			"both the dialog_id and the specific message_id to delete.",
		schema.Object(map[string]*schema.Property{
			"dialog_id":  {Type: "integer", Description: "Dialog, chat or channel ID"},
			"message_id": {Type: "integer", Description: "ID of the message to delete"},
		}, "dialog_id", "message_id"),
		deleteMessageArgs{},
		runDeleteMessage,
	)
}

func runDeleteMessage(ctx context.Context, sess *telegram.Session, args deleteMessageArgs) ([]schema.Content, error) {
	if err := sess.Delete(args.DialogID, args.MessageID); err != nil {
		return schema.TextResult("Failed to delete message: %v", err), nil
	}
	return schema.TextResult("Successfully deleted message %d", args.MessageID), nil
}

// ---------------------------------------------------------------------------
// ForwardMessage

type forwardMessageArgs struct {
	FromDialogID int64 `json:"from_dialog_id"`
	MessageID    int   `json:"message_id"`
	ToDialogID   int64 `json:"to_dialog_id"`
	Silent       bool  `json:"silent"`
}

func forwardMessage() Definition {
	return define(
		"ForwardMessage",
		"Forward a message from one chat to another. Requires the source chat ID, "+
			"message ID to forward, and the destination chat ID. Optionally, you "+
			"can disable notification for the forwarded message.",
		schema.Object(map[string]*schema.Property{
			"from_dialog_id": {Type: "integer", Description: "Source dialog, chat or channel ID"},
			"message_id":     {Type: "integer", Description: "ID of the message to forward"},
			"to_dialog_id":   {Type: "integer", Description: "Destination dialog, chat or channel ID"},
			"silent":         {Type: "boolean", Description: "Forward without notification", Default: defFalse},
		}, "from_dialog_id", "message_id", "to_dialog_id"),
		forwardMessageArgs{},
		runForwardMessage,
	)
}

func runForwardMessage(ctx context.Context, sess *telegram.Session, args forwardMessageArgs) ([]schema.Content, error) {
	id, err := sess.Forward(args.ToDialogID, args.FromDialogID, args.MessageID, args.Silent)
	if err != nil {
		return schema.TextResult("Failed to forward message: %v", err), nil
	}
	return schema.TextResult("Message forwarded successfully. New message ID: %d", id), nil
}
