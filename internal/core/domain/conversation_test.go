package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversation_ZeroValue(t *testing.T) {
	var c Conversation
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Turns())
}

func TestConversation_AppendPreservesOrder(t *testing.T) {
	var c Conversation
	c.Append(ConversationTurn{Role: RoleUser, Content: "q1"}, ConversationTurn{Role: RoleAssistant, Content: "a1"})
	c.Append(ConversationTurn{Role: RoleUser, Content: "q2"})

	turns := c.Turns()
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "q1", turns[0].Content)
	assert.Equal(t, RoleAssistant, turns[1].Role)
	assert.Equal(t, "q2", turns[2].Content)
}

func TestConversation_TurnsIsCopy(t *testing.T) {
	var c Conversation
	c.Append(ConversationTurn{Role: RoleUser, Content: "original"})

	turns := c.Turns()
	turns[0].Content = "mutated"

	assert.Equal(t, "original", c.Turns()[0].Content)
}

func TestConversation_Reset(t *testing.T) {
	var c Conversation
	c.Append(ConversationTurn{Role: RoleUser, Content: "q"})
	c.Reset()
	assert.Equal(t, 0, c.Len())
}
