package tools

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mcp-telegram/mcp-telegram/internal/schema"
	"github.com/mcp-telegram/mcp-telegram/internal/telegram"
)

// ---------------------------------------------------------------------------
// GetMe

type getMeArgs struct{}

func getMe() Definition {
	return define(
		"GetMe",
		"Get information about the connected bot account. Returns the bot's "+
			"name, username and ID.",
		schema.Object(nil),
		getMeArgs{},
		runGetMe,
	)
}

func runGetMe(ctx context.Context, sess *telegram.Session, args getMeArgs) ([]schema.Content, error) {
	me, err := sess.Me()
	if err != nil {
		return schema.TextResult("Failed to get bot info: %v", err), nil
	}
	return schema.TextResult("name='%s' username='%s' id=%d", me.FirstName, me.UserName, me.ID), nil
}

// ---------------------------------------------------------------------------
// GetChatInfo

type getChatInfoArgs struct {
	DialogID int64 `json:"dialog_id"`
}

func getChatInfo() Definition {
	return define(
		"GetChatInfo",
		"Get detailed information about a dialog, chat, or channel. Returns the "+
			"name, type, username and description where available.",
		schema.Object(map[string]*schema.Property{
			"dialog_id": {Type: "integer", Description: "Dialog, chat or channel ID"},
		}, "dialog_id"),
		getChatInfoArgs{},
		runGetChatInfo,
	)
}

func runGetChatInfo(ctx context.Context, sess *telegram.Session, args getChatInfoArgs) ([]schema.Content, error) {
	chat, err := sess.ChatInfo(args.DialogID)
	if err != nil {
		return schema.TextResult("Failed to get chat info: %v", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "name='%s' id=%d type=%s", displayName(&chat), chat.ID, chat.Type)
	if chat.UserName != "" {
		fmt.Fprintf(&b, " username=@%s", chat.UserName)
	}
	if chat.Description != "" {
		fmt.Fprintf(&b, "\ndescription: %s", chat.Description)
	}
	return schema.TextResult("%s", b.String()), nil
}

func displayName(chat *tgbotapi.Chat) string {
	if chat.Title != "" {
		return chat.Title
	}
	name := chat.FirstName
	if chat.LastName != "" {
		name += " " + chat.LastName
	}
	if name != "" {
		return name
	}
	return chat.UserName
}

// ---------------------------------------------------------------------------
// ListChatAdmins

type listChatAdminsArgs struct {
	DialogID int64 `json:"dialog_id"`
}

func listChatAdmins() Definition {
	return define(
		"ListChatAdmins",
		"List the administrators of a group or channel. Returns the name, ID "+
			"and status of every administrator.",
		schema.Object(map[string]*schema.Property{
			"dialog_id": {Type: "integer", Description: "Group or channel ID"},
		}, "dialog_id"),
		listChatAdminsArgs{},
		runListChatAdmins,
	)
}

func runListChatAdmins(ctx context.Context, sess *telegram.Session, args listChatAdminsArgs) ([]schema.Content, error) {
	admins, err := sess.ChatAdmins(args.DialogID)
	if err != nil {
		return schema.TextResult("Failed to list administrators: %v", err), nil
	}
	var out []schema.Content
	for _, a := range admins {
		name := ""
		if a.User != nil {
			name = a.User.UserName
			if name == "" {
				name = a.User.FirstName
			}
		}
		var id int64
		if a.User != nil {
			id = a.User.ID
		}
		out = append(out, schema.NewTextf("name='%s' id=%d status=%s", name, id, a.Status))
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// SetChatTitle

type setChatTitleArgs struct {
	DialogID int64  `json:"dialog_id"`
	Title    string `json:"title"`
}

func setChatTitle() Definition {
	return define(
		"SetChatTitle",
		"Change the title of a group or channel. Requires the chat ID and the "+
			"new title.",
		schema.Object(map[string]*schema.Property{
			"dialog_id": {Type: "integer", Description: "Group or channel ID"},
			"title":     {Type: "string", Description: "New chat title"},
		}, "dialog_id", "title"),
		setChatTitleArgs{},
		runSetChatTitle,
	)
}

func runSetChatTitle(ctx context.Context, sess *telegram.Session, args setChatTitleArgs) ([]schema.Content, error) {
	if err := sess.SetChatTitle(args.DialogID, args.Title); err != nil {
		return schema.TextResult("Failed to set chat title: %v", err), nil
	}
	return schema.TextResult("Successfully set chat title to '%s'", args.Title), nil
}

// ---------------------------------------------------------------------------
// SetChatDescription

type setChatDescriptionArgs struct {
	DialogID    int64  `json:"dialog_id"`
	Description string `json:"description"`
}

func setChatDescription() Definition {
	return define(
		"SetChatDescription",
		"Change the description of a group or channel. Requires the chat ID; "+
			"an empty description clears the current one.",
		schema.Object(map[string]*schema.Property{
			"dialog_id":   {Type: "integer", Description: "Group or channel ID"},
			"description": {Type: "string", Description: "New chat description; empty clears it"},
		}, "dialog_id"),
		setChatDescriptionArgs{},
		runSetChatDescription,
	)
}

func runSetChatDescription(ctx context.Context, sess *telegram.Session, args setChatDescriptionArgs) ([]schema.Content, error) {
	if err := sess.SetChatDescription(args.DialogID, args.Description); err != nil {
		return schema.TextResult("Failed to set chat description: %v", err), nil
	}
	return schema.TextResult("Successfully updated chat description"), nil
}

// ---------------------------------------------------------------------------
// BanChatMember

type banChatMemberArgs struct {
	DialogID       int64 `json:"dialog_id"`
	UserID         int64 `json:"user_id"`
	RevokeMessages bool  `json:"revoke_messages"`
}

func banChatMember() Definition {
	return define(
		"BanChatMember",
		"Ban a user from a group or channel. Optionally revoke all of their "+
			"messages in the chat.",
		schema.Object(map[string]*schema.Property{
			"dialog_id":       {Type: "integer", Description: "Group or channel ID"},
			"user_id":         {Type: "integer", Description: "ID of the user to ban"},
			"revoke_messages": {Type: "boolean", Description: "Also delete the user's messages", Default: defFalse},
		}, "dialog_id", "user_id"),
		banChatMemberArgs{},
		runBanChatMember,
	)
}

func runBanChatMember(ctx context.Context, sess *telegram.Session, args banChatMemberArgs) ([]schema.Content, error) {
	if err := sess.Ban(args.DialogID, args.UserID, args.RevokeMessages); err != nil {
		return schema.TextResult("Failed to ban user: %v", err), nil
	}
	return schema.TextResult("Successfully banned user %d", args.UserID), nil
}

// ---------------------------------------------------------------------------
// UnbanChatMember

type unbanChatMemberArgs struct {
	DialogID int64 `json:"dialog_id"`
	UserID   int64 `json:"user_id"`
}

func unbanChatMember() Definition {
	return define(
		"UnbanChatMember",
		"Lift a ban from a user in a group or channel. The user has to join "+
			"again on their own; unbanning does not re-add them.",
		schema.Object(map[string]*schema.Property{
			"dialog_id": {Type: "integer", Description: "Group or channel ID"},
			"user_id":   {Type: "integer", Description: "ID of the user to unban"},
		}, "dialog_id", "user_id"),
		unbanChatMemberArgs{},
		runUnbanChatMember,
	)
}

func runUnbanChatMember(ctx context.Context, sess *telegram.Session, args unbanChatMemberArgs) ([]schema.Content, error) {
	if err := sess.Unban(args.DialogID, args.UserID); err != nil {
		return schema.TextResult("Failed to unban user: %v", err), nil
	}
	return schema.TextResult("Successfully unbanned user %d", args.UserID), nil
}

// ---------------------------------------------------------------------------
// CreateInviteLink

type createInviteLinkArgs struct {
	DialogID    int64  `json:"dialog_id"`
	Name        string `json:"name"`
	MemberLimit int    `json:"member_limit"`
}

func createInviteLink() Definition {
	return define(
		"CreateInviteLink",
		"Create an additional invite link for a group or channel. The link can "+
			"carry a name and a limit on how many members may join through it.",
		schema.Object(map[string]*schema.Property{
			"dialog_id":    {Type: "integer", Description: "Group or channel ID"},
			"name":         {Type: "string", Description: "Label for the invite link"},
			"member_limit": {Type: "integer", Description: "Maximum members that can join via the link; 0 for no limit", Default: defZero},
		}, "dialog_id"),
		createInviteLinkArgs{},
		runCreateInviteLink,
	)
}

func runCreateInviteLink(ctx context.Context, sess *telegram.Session, args createInviteLinkArgs) ([]schema.Content, error) {
	link, err := sess.CreateInviteLink(args.DialogID, args.Name, args.MemberLimit)
	if err != nil {
		return schema.TextResult("Failed to create invite link: %v", err), nil
	}
	return schema.TextResult("Invite link: %s", link), nil
}

// ---------------------------------------------------------------------------
// LeaveChat

type leaveChatArgs struct {
	DialogID int64 `json:"dialog_id"`
}

func leaveChat() Definition {
	return define(
		"LeaveChat",
		"Make the bot leave a group or channel. The chat is also removed from "+
			"the local dialog list.",
		schema.Object(map[string]*schema.Property{
			"dialog_id": {Type: "integer", Description: "Group or channel ID"},
		}, "dialog_id"),
		leaveChatArgs{},
		runLeaveChat,
	)
}

func runLeaveChat(ctx context.Context, sess *telegram.Session, args leaveChatArgs) ([]schema.Content, error) {
	if err := sess.Leave(args.DialogID); err != nil {
		return schema.TextResult("Failed to leave chat: %v", err), nil
	}
	return schema.TextResult("Successfully left chat %d", args.DialogID), nil
}
