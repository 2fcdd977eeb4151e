// internal/llm/types.go
package llm

import "context"

// Message roles understood by every OpenAI-compatible provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Binding pairs a provider with a concrete model id.
type Binding struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Invoker is the single operation the orchestration engines depend on:
// send role-tagged messages to a provider/model, get the full text back.
// Implementations must not retry internally; an error means the call failed.
type Invoker interface {
	Complete(ctx context.Context, binding Binding, msgs []Message, maxTokens int) (string, error)
}

// Streamer is the incremental form used by the plain chat path only.
// The orchestrators never stream.
type Streamer interface {
	Stream(ctx context.Context, binding Binding, msgs []Message, maxTokens int, onChunk func(string)) (string, error)
}

// SystemPrompt builds a system message.
func SystemPrompt(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
