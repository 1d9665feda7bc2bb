package chat_history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToHistory_FormatsTurns(t *testing.T) {
	history := NewChatHistory()

	history.AddToHistory("what does this do?", "It renders the tree.")
	history.AddToHistory("and this?", "It filters it.")

	turns := history.GetHistory()
	require.Len(t, turns, 2)
	assert.Equal(t, "## User\nwhat does this do?\n\n## Assistant\nIt renders the tree.", turns[0])
	assert.Equal(t, "## User\nand this?\n\n## Assistant\nIt filters it.", turns[1])
}

func TestClearHistory(t *testing.T) {
	history := NewChatHistory()
	history.AddToHistory("q", "a")

	history.ClearHistory()

	assert.Empty(t, history.GetHistory())
}
