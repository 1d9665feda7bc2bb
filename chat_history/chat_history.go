// Package chat_history keeps the transcript of the current chat session so
// every turn carries the context of the previous ones.
package chat_history

import (
	"fmt"

	"github.com/codeviz-ai/codeviz/chat_history/contracts"
)

type chatHistory struct {
	turns []string
}

// NewChatHistory creates an empty session transcript.
func NewChatHistory() contracts.IChatHistory {
	return &chatHistory{}
}

func (ch *chatHistory) AddToHistory(userInput string, aiResponse string) {
	ch.turns = append(ch.turns, fmt.Sprintf("## User\n%s\n\n## Assistant\n%s", userInput, aiResponse))
}

func (ch *chatHistory) GetHistory() []string {
	return ch.turns
}

func (ch *chatHistory) ClearHistory() {
	ch.turns = nil
}
