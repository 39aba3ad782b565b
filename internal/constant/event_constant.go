package constant

const (
	EventUserRegistered     = "USER_REGISTERED"
	EventUserLogin          = "USER_LOGIN"
	EventChatSessionCreated = "CHAT_SESSION_CREATED"
	EventChatSessionDeleted = "CHAT_SESSION_DELETED"
)
