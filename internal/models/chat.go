// Package models defines the data structures for chatdeck conversations
// and sidebar organization.
package models

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// DefaultTitle is the title given to a chat before it is derived from the
// first user message.
const DefaultTitle = "New Chat"

// Message is a single chat message. Messages are immutable once created and
// live inside their parent chat's message sequence.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	// ModelID is the sub-model that produced an assistant message.
	// Never set on user messages.
	ModelID string `json:"modelId,omitempty"`
}

// Chat is a persisted conversation: ordered messages plus metadata.
// The ID is application-assigned and globally unique.
type Chat struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Messages   []Message `json:"messages"`
	FolderID   string    `json:"folderId,omitempty"`
	FolderSlug string    `json:"folderSlug,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// URL returns the canonical view path for the chat.
func (c Chat) URL() string {
	return ChatURL(c.ID)
}

// Clone returns a deep copy of the chat. Stores hand out copies so callers
// can't mutate shared state behind the store's back.
func (c Chat) Clone() Chat {
	out := c
	if c.Messages != nil {
		out.Messages = make([]Message, len(c.Messages))
		copy(out.Messages, c.Messages)
	}
	return out
}
