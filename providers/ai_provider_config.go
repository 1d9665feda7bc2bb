package providers

import (
	"fmt"

	"github.com/codeviz-ai/codeviz/providers/contracts"
	"github.com/codeviz-ai/codeviz/providers/gemini"
	contracts2 "github.com/codeviz-ai/codeviz/token_management/contracts"
)

// AIProviderConfig is the provider block of the configuration file.
type AIProviderConfig struct {
	Provider    string   `mapstructure:"provider"`
	BaseURL     string   `mapstructure:"base_url"`
	Model       string   `mapstructure:"model"`
	Temperature *float32 `mapstructure:"temperature"`
	ApiKey      string   `mapstructure:"api_key"`
}

// NarrativeProviderFactory creates the configured narrative provider.
func NarrativeProviderFactory(config *AIProviderConfig, tokenManagement contracts2.ITokenManagement) (contracts.INarrativeProvider, error) {
	switch config.Provider {
	case "gemini":
		return gemini.NewGeminiProvider(&gemini.GeminiConfig{
			BaseURL:         config.BaseURL,
			Model:           config.Model,
			Temperature:     config.Temperature,
			ApiKey:          config.ApiKey,
			TokenManagement: tokenManagement,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}
