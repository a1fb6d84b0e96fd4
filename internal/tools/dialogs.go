package tools

import (
	"context"
	"encoding/json"

	"github.com/mcp-telegram/mcp-telegram/internal/schema"
	"github.com/mcp-telegram/mcp-telegram/internal/telegram"
)

// Raw JSON default values shared by the schema literals.
var (
	defFalse = json.RawMessage(`false`)
	defTrue  = json.RawMessage(`true`)
	defZero  = json.RawMessage(`0`)
)

// ---------------------------------------------------------------------------
// ListDialogs

type listDialogsArgs struct {
	Unread       bool `json:"unread"`
	Archived     bool `json:"archived"`
	IgnorePinned bool `json:"ignore_pinned"`
}

func listDialogs() Definition {
	return define(
		"ListDialogs",
		"List available dialogs, chats and channels.",
		schema.Object(map[string]*schema.Property{
			"unread":        {Type: "boolean", Description: "List only dialogs with unread messages", Default: defFalse},
			"archived":      {Type: "boolean", Description: "List archived dialogs instead of active ones", Default: defFalse},
			"ignore_pinned": {Type: "boolean", Description: "Leave pinned dialogs out of the listing", Default: defFalse},
		}),
		listDialogsArgs{},
		runListDialogs,
	)
}

func runListDialogs(ctx context.Context, sess *telegram.Session, args listDialogsArgs) ([]schema.Content, error) {
	var out []schema.Content
	for _, d := range sess.Dialogs(args.Archived, args.IgnorePinned) {
		if args.Unread && d.Unread == 0 {
			continue
		}
		out = append(out, schema.NewTextf("name='%s' id=%d unread=%d mentions=%d",
			d.Name, d.ID, d.Unread, d.Mentions))
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// ListMessages

type listMessagesArgs struct {
	DialogID int64 `json:"dialog_id"`
	Unread   bool  `json:"unread"`
	Limit    int   `json:"limit"`
}

func listMessages() Definition {
	return define(
		"ListMessages",
		"List messages in a given dialog, chat or channel. The messages are listed "+
			"in order from newest to oldest.\n\n"+
			"If `unread` is set to `true`, only unread messages will be listed. Once "+
			"a message is read, it will not be listed again.\n\n"+
			"If `limit` is set, only the last `limit` messages will be listed. If "+
			"`unread` is set, the limit will be the minimum between the unread "+
			"messages and the limit.",
		schema.Object(map[string]*schema.Property{
			"dialog_id": {Type: "integer", Description: "Dialog, chat or channel ID"},
			"unread":    {Type: "boolean", Description: "List only unread messages", Default: defFalse},
			"limit":     {Type: "integer", Description: "Maximum number of messages to return", Default: json.RawMessage(`100`)},
		}, "dialog_id"),
		listMessagesArgs{Limit: 100},
		runListMessages,
	)
}

func runListMessages(ctx context.Context, sess *telegram.Session, args listMessagesArgs) ([]schema.Content, error) {
	msgs, err := sess.History(args.DialogID, args.Limit, args.Unread)
	if err != nil {
		return nil, err
	}
	var out []schema.Content
	for _, m := range msgs {
		out = append(out, schema.NewText(m.Text))
	}
	return out, nil
}
