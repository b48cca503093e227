package domain

import "fmt"

// Conversation is the ordered transcript resent with every completion request.
// The first message is always the system message; messages are never removed.
type Conversation struct {
	messages []Message
}

func NewConversation(systemPrompt string) *Conversation {
	return &Conversation{
		messages: []Message{{Role: RoleSystem, Content: systemPrompt}},
	}
}

func (c *Conversation) Append(role Role, content string) error {
	if !role.Valid() {
		return fmt.Errorf("unsupported message role %q", role)
	}
	if role == RoleSystem {
		return fmt.Errorf("system message is fixed at conversation start")
	}

	c.messages = append(c.messages, Message{Role: role, Content: content})
	return nil
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// With returns the transcript followed by extra, without changing the conversation.
func (c *Conversation) With(extra ...Message) []Message {
	out := make([]Message, 0, len(c.messages)+len(extra))
	out = append(out, c.messages...)
	return append(out, extra...)
}

func (c *Conversation) Len() int {
	return len(c.messages)
}
