package history

import (
	"sync"

	"github.com/Mas562/voiceai-assistant/internal/llm"
)

const DefaultMax = 100

// Manager owns the ordered conversation history for one session.
// The list is bounded: once max is exceeded the oldest messages are
// dropped first.
type Manager struct {
	mu   sync.RWMutex
	msgs []llm.ConversationMessage
	max  int
}

func NewManager(max int) *Manager {
	if max <= 0 {
		max = DefaultMax
	}
	return &Manager{max: max}
}

// Append records a new message and trims the history to the configured
// maximum, keeping the newest entries.
func (m *Manager) Append(role, content string) llm.ConversationMessage {
	msg := llm.NewConversationMessage(role, content)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	if len(m.msgs) > m.max {
		m.msgs = m.msgs[len(m.msgs)-m.max:]
	}
	return msg
}

// All returns a copy of the history in insertion order.
func (m *Manager) All() []llm.ConversationMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]llm.ConversationMessage, len(m.msgs))
	copy(out, m.msgs)
	return out
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.msgs)
}

func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = nil
}
