package contracts

import (
	"context"

	analyzer_models "github.com/codeviz-ai/codeviz/analyzer/models"
	"github.com/codeviz-ai/codeviz/providers/models"
)

// INarrativeProvider is the AI capability behind the narrative overview and
// the follow-up chat.
type INarrativeProvider interface {
	// Analyze sends the narrative prompt and returns the structured
	// overview plus the total token usage of the call.
	Analyze(ctx context.Context, prompt string) (*analyzer_models.NarrativeAnalysis, int, error)

	// ChatCompletionRequest streams one chat turn. The channel delivers
	// increments in arrival order and closes after a Done or Err response.
	ChatCompletionRequest(ctx context.Context, userInput string, prompt string) <-chan models.StreamResponse
}
