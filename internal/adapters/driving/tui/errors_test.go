package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	assert.EqualError(t, ErrMissingChatService, "tui: chat service is required")
	assert.EqualError(t, ErrMissingIndexService, "tui: index service is required")
}
