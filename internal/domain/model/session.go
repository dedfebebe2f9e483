package model

import (
	"time"
)

// ChatMessage represents one message within a practice session.
type ChatMessage struct {
	SessionID string    `json:"-"`
	Role      string    `json:"role"` // "system" | "user" | "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionContext is the free-text triple shaping the customer persona.
// Scenario may be empty; the persona template substitutes a default then.
type SessionContext struct {
	Product         string `json:"product"`
	CustomerProfile string `json:"customerProfile"`
	Scenario        string `json:"scenario,omitempty"`
}

// PracticeSession is the aggregate root for one roleplay conversation.
// Messages[0] is always the persona system message; UpdateSystemPrompt
// replaces that slot in place when the context changes.
type PracticeSession struct {
	ID           string
	Context      SessionContext
	Messages     []ChatMessage
	TurnCount    int
	StartedAt    time.Time
	LastActivity time.Time // zero until the first completed turn
}

func NewPracticeSession(id string, ctx SessionContext, systemPrompt string) *PracticeSession {
	now := time.Now()
	s := &PracticeSession{
		ID:        id,
		Context:   ctx,
		Messages:  make([]ChatMessage, 0, 8),
		StartedAt: now,
	}
	s.Messages = append(s.Messages, ChatMessage{
		SessionID: id,
		Role:      "system",
		Content:   systemPrompt,
		Timestamp: now,
	})
	return s
}

func (s *PracticeSession) AddMessage(role, content string) {
	s.Messages = append(s.Messages, ChatMessage{
		SessionID: s.ID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// UpdateSystemPrompt rewrites the index-0 system message. Earlier persona
// prompts are not retained.
func (s *PracticeSession) UpdateSystemPrompt(prompt string) {
	s.Messages[0] = ChatMessage{
		SessionID: s.ID,
		Role:      "system",
		Content:   prompt,
		Timestamp: time.Now(),
	}
}

// Transcript returns the conversation without the persona system message.
func (s *PracticeSession) Transcript() []ChatMessage {
	if len(s.Messages) <= 1 {
		return nil
	}
	return s.Messages[1:]
}

// Duration reports how long the session has been running.
func (s *PracticeSession) Duration() time.Duration {
	return time.Since(s.StartedAt)
}
