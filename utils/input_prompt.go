package utils

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/codeviz-ai/codeviz/constants/lipgloss"
)

// InputPromptWithContext prompts the user and reads one line, honoring
// context cancellation (Ctrl+C) while the read blocks.
func InputPromptWithContext(ctx context.Context, reader *bufio.Reader) (string, error) {
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		fmt.Print(lipgloss.BlueSky.Render("> "))

		userInput, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				errChan <- nil
			} else {
				errChan <- fmt.Errorf("error reading input: %w", err)
			}
			return
		}

		inputChan <- strings.TrimSpace(userInput)
	}()

	select {
	case <-ctx.Done():
		fmt.Println()
		return "", ctx.Err()
	case err := <-errChan:
		return "", err
	case input := <-inputChan:
		return input, nil
	}
}

// ConfirmPrompt asks a yes/no question and defaults to no.
func ConfirmPrompt(question string, reader *bufio.Reader) (bool, error) {
	fmt.Printf("%s (y/N): ", question)

	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
