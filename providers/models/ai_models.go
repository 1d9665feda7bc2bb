package models

import "errors"

// StreamResponse carries one increment of a streamed AI response.
type StreamResponse struct {
	Content string
	Done    bool
	Err     error
}

// AIError is the error payload shape returned by the AI API.
type AIError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Classified provider failures. The rest of the analysis stays usable when
// one of these is returned; only the narrative/chat portion is affected.
var (
	ErrRateLimited   = errors.New("the AI request quota has been exceeded; wait a moment and retry, or check your plan and usage")
	ErrInvalidAPIKey = errors.New("the AI API key is not valid; check the configured key")
)
