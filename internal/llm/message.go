package llm

import "time"

// Message is a single prompt message in chat-completions form.
type Message struct {
	Role    string
	Content string
}

// ConversationMessage is one dialogue turn as stored in history.
// Immutable once created.
type ConversationMessage struct {
	Role      string `json:"role"` // "user", "assistant", "system"
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"` // RFC 3339
}

func NewConversationMessage(role, content string) ConversationMessage {
	return ConversationMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// TokenUsage mirrors the usage block of a chat-completions response.
type TokenUsage struct {
	Prompt     int
	Completion int
	Total      int
}

// Metadata describes how a reply was produced.
type Metadata struct {
	Source       string // "skill", "ai", "hybrid", "fallback"
	Model        string
	Tokens       TokenUsage
	Cached       bool
	FinishReason string
	SkillData    map[string]any
}

// PromptContext carries session facts interpolated into the system prompt.
type PromptContext struct {
	Time     string
	Location string
	UserName string
}
