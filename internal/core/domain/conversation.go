package domain

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message in a conversation.
type ConversationTurn struct {
	Role    Role
	Content string
}

// Conversation is the ordered, append-only history of a chat session.
// The zero value is an empty conversation ready to use.
type Conversation struct {
	turns []ConversationTurn
}

// Append adds turns to the end of the conversation.
func (c *Conversation) Append(turns ...ConversationTurn) {
	c.turns = append(c.turns, turns...)
}

// Turns returns a copy of the turns in order.
func (c *Conversation) Turns() []ConversationTurn {
	out := make([]ConversationTurn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Reset removes all turns.
func (c *Conversation) Reset() {
	c.turns = nil
}
