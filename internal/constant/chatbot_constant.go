package constant

const (
	ChatWelcomeMessage = "How can I help you today?"
	ChatUntitledTitle  = "Untitled Chat"

	// Sidebar titles are cut to this many runes and suffixed with an ellipsis.
	ChatTitleDisplayMaxLength = 25

	ChatSystemPromptV1 = `You are NeoMind - a professional AI Assistant. Your tasks:
    - Provide comprehensive, detailed answers
    - Include explanations and analysis
    - Use examples when necessary
    - Maintain technical accuracy`
)
