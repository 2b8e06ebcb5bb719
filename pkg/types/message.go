package types

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // RoleSystem is an instruction message that frames the conversation.
	RoleUser      MessageRole = "user"      // RoleUser is input supplied by the caller.
	RoleAssistant MessageRole = "assistant" // RoleAssistant is output produced by the LLM.
)

// Message is a single conversation message exchanged with an LLM provider.
type Message struct {
	// Role indicates who authored the message.
	Role MessageRole

	// Content is the text content of the message.
	Content string
}

// NewSystemMessage creates a system-role message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user-role message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant-role message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}

// ModelInfo describes the LLM model behind a provider.
type ModelInfo struct {
	// Metadata holds provider-specific details (base URL, deployment, etc.).
	Metadata map[string]interface{}

	// Provider is the provider family name (e.g. "openai").
	Provider string

	// Name is the model identifier.
	Name string

	// MaxTokens is the advertised context window size.
	MaxTokens int

	// SupportsStreaming indicates whether the provider can stream completions.
	SupportsStreaming bool
}
