package types

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // RoleSystem is a system instruction.
	RoleUser      MessageRole = "user"      // RoleUser is a message from the caller.
	RoleAssistant MessageRole = "assistant" // RoleAssistant is a model response.
)

// Message is a single chat message exchanged with an LLM provider.
type Message struct {
	// Role is who authored the message.
	Role MessageRole

	// Content is the message text.
	Content string
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}

// ModelInfo describes the model behind a provider.
type ModelInfo struct {
	// Metadata holds provider specific details such as a custom base URL.
	Metadata map[string]interface{}

	Provider          string
	Name              string
	MaxTokens         int
	SupportsStreaming bool
}
