package token_management

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsedTokens_Accumulates(t *testing.T) {
	tm := NewTokenManager()

	tm.UsedTokens(100, 50)
	tm.UsedTokens(10, 5)

	total, input, output := tm.GetCurrentTokenUsage()
	assert.Equal(t, 165, total)
	assert.Equal(t, 110, input)
	assert.Equal(t, 55, output)
}

func TestClearToken(t *testing.T) {
	tm := NewTokenManager()
	tm.UsedTokens(100, 50)

	tm.ClearToken()

	total, input, output := tm.GetCurrentTokenUsage()
	assert.Equal(t, 0, total)
	assert.Equal(t, 0, input)
	assert.Equal(t, 0, output)
}

func TestCalculateCost(t *testing.T) {
	tm := NewTokenManager()

	// gemini-2.5-flash: 0.30 $/M input, 2.50 $/M output.
	cost := tm.CalculateCost("gemini-2.5-flash", 1_000_000, 1_000_000)
	assert.InDelta(t, 2.80, cost, 0.0001)

	// Model lookup is case-insensitive.
	assert.InDelta(t, cost, tm.CalculateCost("Gemini-2.5-Flash", 1_000_000, 1_000_000), 0.0001)

	// Unknown models cost nothing rather than failing the display path.
	assert.Equal(t, 0.0, tm.CalculateCost("unknown-model", 1_000_000, 1_000_000))
}
