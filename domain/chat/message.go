package chat

// Role is the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the sidebar conversation
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Greeting opens every conversation
var Greeting = Message{Role: RoleAssistant, Content: "How can I help you?"}

// MissingKeyNotice is shown instead of sending a request when no API key is set
const MissingKeyNotice = "Please add your OpenAI API key to continue."
