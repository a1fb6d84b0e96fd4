package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mcp-telegram/mcp-telegram/internal/schema"
	"github.com/mcp-telegram/mcp-telegram/internal/telegram"
)

// ---------------------------------------------------------------------------
// GetMessageReactions

type getMessageReactionsArgs struct {
	DialogID  int64 `json:"dialog_id"`
	MessageID int   `json:"message_id"`
}

func getMessageReactions() Definition {
	return define(
		"GetMessageReactions",
		"Get all reactions for a specific message. Returns a list of reactions "+
			"and the count of each reaction on the message.",
		schema.Object(map[string]*schema.Property{
			"dialog_id":  {Type: "integer", Description: "Dialog, chat or channel ID"},
			"message_id": {Type: "integer", Description: "ID of the message to inspect"},
		}, "dialog_id", "message_id"),
		getMessageReactionsArgs{},
		runGetMessageReactions,
	)
}

func runGetMessageReactions(ctx context.Context, sess *telegram.Session, args getMessageReactionsArgs) ([]schema.Content, error) {
	reactions, ok := sess.Reactions(args.DialogID, args.MessageID)
	if !ok {
		return schema.TextResult("Message not found"), nil
	}
	if len(reactions) == 0 {
		return schema.TextResult("No reactions on this message"), nil
	}

	emojis := make([]string, 0, len(reactions))
	for e := range reactions {
		emojis = append(emojis, e)
	}
	sort.Strings(emojis)

	var b strings.Builder
	b.WriteString("Reactions on message:\n")
	for _, e := range emojis {
		fmt.Fprintf(&b, "%s: %d\n", e, reactions[e])
	}
	return schema.TextResult("%s", strings.TrimRight(b.String(), "\n")), nil
}

// ---------------------------------------------------------------------------
// ReactToMessage

type reactToMessageArgs struct {
	DialogID    int64  `json:"dialog_id"`
	MessageID   int    `json:"message_id"`
	Emoji       string `json:"emoji"`
	AddReaction bool   `json:"add_reaction"`
	Big         bool   `json:"big"`
}

func reactToMessage() Definition {
	return define(
		"ReactToMessage",
		"Add or remove a reaction to/from a message. You can react with either "+
			"an emoji or a custom emoji ID. Set add_reaction to false to remove "+
			"the reaction instead of adding it.",
		schema.Object(map[string]*schema.Property{
			"dialog_id":    {Type: "integer", Description: "Dialog, chat or channel ID"},
			"message_id":   {Type: "integer", Description: "ID of the message to react to"},
			"emoji":        {Type: "string", Description: "Emoji, or a numeric custom emoji ID"},
			"add_reaction": {Type: "boolean", Description: "Add the reaction; false removes it", Default: defTrue},
			"big":          {Type: "boolean", Description: "Show the reaction with a big animation", Default: defFalse},
		}, "dialog_id", "message_id", "emoji"),
		reactToMessageArgs{AddReaction: true},
		runReactToMessage,
	)
}

func runReactToMessage(ctx context.Context, sess *telegram.Session, args reactToMessageArgs) ([]schema.Content, error) {
	err := sess.React(args.DialogID, args.MessageID, args.Emoji, args.AddReaction, args.Big)
	if err != nil {
		return schema.TextResult("Failed to handle reaction: %v", err), nil
	}
	action := "added to"
	if !args.AddReaction {
		action = "removed from"
	}
	return schema.TextResult("Reaction %s successfully %s message %d", args.Emoji, action, args.MessageID), nil
}
