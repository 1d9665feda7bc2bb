package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	analyzer_models "github.com/codeviz-ai/codeviz/analyzer/models"
	"github.com/codeviz-ai/codeviz/providers/contracts"
	gemini_models "github.com/codeviz-ai/codeviz/providers/gemini/models"
	"github.com/codeviz-ai/codeviz/providers/models"
	contracts2 "github.com/codeviz-ai/codeviz/token_management/contracts"
)

// GeminiConfig implements the narrative provider against the Gemini API.
type GeminiConfig struct {
	BaseURL         string
	Model           string
	Temperature     *float32
	ApiKey          string
	TokenManagement contracts2.ITokenManagement
}

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// fenceRegex strips a surrounding markdown code fence from a JSON answer.
var fenceRegex = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

// NewGeminiProvider initializes a new Gemini narrative provider.
func NewGeminiProvider(config *GeminiConfig) contracts.INarrativeProvider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &GeminiConfig{
		BaseURL:         baseURL,
		Model:           config.Model,
		Temperature:     config.Temperature,
		ApiKey:          config.ApiKey,
		TokenManagement: config.TokenManagement,
	}
}

// Analyze sends the narrative prompt in JSON mode and parses the structured
// overview out of the answer.
func (provider *GeminiConfig) Analyze(ctx context.Context, prompt string) (*analyzer_models.NarrativeAnalysis, int, error) {
	reqBody := gemini_models.GenerateContentRequest{
		Contents: []gemini_models.Content{
			{Role: "user", Parts: []gemini_models.Part{{Text: prompt}}},
		},
		GenerationConfig: &gemini_models.GenerationConfig{
			Temperature:      provider.Temperature,
			ResponseMimeType: "application/json",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("error marshalling request body: %v", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", provider.BaseURL, provider.Model, provider.ApiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, 0, fmt.Errorf("request canceled: %v", err)
		}
		return nil, 0, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, classifyAPIError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading response: %v", err)
	}

	var response gemini_models.GenerateContentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, 0, fmt.Errorf("error unmarshalling response: %v", err)
	}

	tokenCount := 0
	if response.UsageMetadata != nil {
		tokenCount = response.UsageMetadata.TotalTokenCount
		if provider.TokenManagement != nil {
			provider.TokenManagement.UsedTokens(response.UsageMetadata.PromptTokenCount, response.UsageMetadata.CandidatesTokenCount)
		}
	}

	jsonStr := strings.TrimSpace(response.Text())
	if match := fenceRegex.FindStringSubmatch(jsonStr); match != nil {
		jsonStr = strings.TrimSpace(match[2])
	}

	var analysis analyzer_models.NarrativeAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		return nil, 0, fmt.Errorf("error parsing analysis answer: %v", err)
	}

	return &analysis, tokenCount, nil
}

// ChatCompletionRequest streams one chat turn over server-sent events.
func (provider *GeminiConfig) ChatCompletionRequest(ctx context.Context, userInput string, prompt string) <-chan models.StreamResponse {
	responseChan := make(chan models.StreamResponse)
	var markdownBuffer strings.Builder // Buffer to accumulate content until newline

	go func() {
		defer close(responseChan)

		reqBody := gemini_models.GenerateContentRequest{
			SystemInstruction: &gemini_models.Content{
				Parts: []gemini_models.Part{{Text: prompt}},
			},
			Contents: []gemini_models.Content{
				{Role: "user", Parts: []gemini_models.Part{{Text: userInput}}},
			},
			GenerationConfig: &gemini_models.GenerationConfig{
				Temperature: provider.Temperature,
			},
		}

		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			responseChan <- models.StreamResponse{Err: fmt.Errorf("error marshalling request body: %v", err)}
			return
		}

		endpoint := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s", provider.BaseURL, provider.Model, provider.ApiKey)
		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonData))
		if err != nil {
			responseChan <- models.StreamResponse{Err: fmt.Errorf("error creating request: %v", err)}
			return
		}
		req.Header.Set("Content-Type", "application/json")

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				responseChan <- models.StreamResponse{Err: fmt.Errorf("request canceled: %v", err)}
				return
			}
			responseChan <- models.StreamResponse{Err: fmt.Errorf("error sending request: %v", err)}
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			responseChan <- models.StreamResponse{Err: classifyAPIError(resp)}
			return
		}

		reader := bufio.NewReader(resp.Body)
		var promptTokens, outputTokens int

		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					break
				}
				responseChan <- models.StreamResponse{Err: fmt.Errorf("error reading stream: %v", err)}
				return
			}

			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "" || payload == "[DONE]" {
				continue
			}

			var response gemini_models.GenerateContentResponse
			if err := json.Unmarshal([]byte(payload), &response); err != nil {
				responseChan <- models.StreamResponse{Err: fmt.Errorf("error unmarshalling chunk: %v", err)}
				return
			}

			if content := response.Text(); content != "" {
				markdownBuffer.WriteString(content)

				// Send chunk if it contains a newline, and then reset the buffer
				if strings.Contains(content, "\n") {
					responseChan <- models.StreamResponse{Content: markdownBuffer.String()}
					markdownBuffer.Reset()
				}
			}

			if response.UsageMetadata != nil {
				promptTokens = response.UsageMetadata.PromptTokenCount
				outputTokens = response.UsageMetadata.CandidatesTokenCount
			}
		}

		// Send any remaining content in the buffer
		if markdownBuffer.Len() > 0 {
			responseChan <- models.StreamResponse{Content: markdownBuffer.String()}
		}

		if promptTokens > 0 && provider.TokenManagement != nil {
			provider.TokenManagement.UsedTokens(promptTokens, outputTokens)
		}

		responseChan <- models.StreamResponse{Done: true}
	}()

	return responseChan
}

// classifyAPIError maps a non-success response to a classified failure so no
// raw API detail reaches the display layer unmapped.
func classifyAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusTooManyRequests {
		return models.ErrRateLimited
	}

	var apiError models.AIError
	if err := json.Unmarshal(body, &apiError); err == nil && apiError.Error.Message != "" {
		if strings.Contains(apiError.Error.Message, "API key not valid") || resp.StatusCode == http.StatusUnauthorized {
			return models.ErrInvalidAPIKey
		}
		return fmt.Errorf("API request failed with status code '%d' - %s", resp.StatusCode, apiError.Error.Message)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return models.ErrInvalidAPIKey
	}
	return fmt.Errorf("API request failed with status code '%d'", resp.StatusCode)
}
