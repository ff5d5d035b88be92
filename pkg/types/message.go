package types

// MessageRole identifies who produced a transcript entry.
type MessageRole string

const (
	RoleUser      MessageRole = "user"      // RoleUser marks input from the operator.
	RoleAssistant MessageRole = "assistant" // RoleAssistant marks output from the research agent.
	RoleSystem    MessageRole = "system"    // RoleSystem marks prompt/system content sent to the model.
	RoleError     MessageRole = "error"     // RoleError marks a visible error entry in the transcript.
)

// Message is one role-tagged entry in a session's transcript.
type Message struct {
	Role    MessageRole
	Content string
}

// NewUserMessage creates a transcript entry from the operator.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates a transcript entry from the agent.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}

// NewSystemMessage creates a system transcript entry.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewErrorMessage creates a visible error transcript entry.
func NewErrorMessage(content string) *Message {
	return &Message{Role: RoleError, Content: content}
}

// IsError returns true if this entry records an error.
func (m *Message) IsError() bool {
	return m.Role == RoleError
}
