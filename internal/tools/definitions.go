package tools

// Definitions returns the static table of every tool this server exposes.
// Adding a tool means adding a row here; nothing is discovered at runtime.
// The order is the order clients see in tool listings.
func Definitions() []Definition {
	return []Definition{
		listDialogs(),
		listMessages(),
		sendMessage(),
		deleteMessage(),
		editMessage(),
		forwardMessage(),
		pinMessage(),
		unpinMessage(),
		getMessageReactions(),
		reactToMessage(),
		replyToMessage(),
		getMe(),
		sendFile(),
		downloadMedia(),
		getChatInfo(),
		listChatAdmins(),
		setChatTitle(),
		setChatDescription(),
		banChatMember(),
		unbanChatMember(),
		createInviteLink(),
		leaveChat(),
	}
}
