package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CredentialSource says where the active API key came from.
type CredentialSource string

const (
	CredentialEnv  CredentialSource = "env"
	CredentialUser CredentialSource = "user"
	CredentialNone CredentialSource = "none"
)

// Credential is the AI API key resolved once at startup. An ambient
// environment key always wins over a stored user key.
type Credential struct {
	Source CredentialSource
	Value  string
}

// Available reports whether a usable key was resolved. A missing credential
// is not an error; it gates the narrative and chat stages only.
func (c Credential) Available() bool {
	return c.Value != ""
}

// envKeyNames are checked in order; the first non-empty one wins.
var envKeyNames = []string{"GEMINI_API_KEY", "API_KEY"}

const userKeyFileName = "api_key"

// DefaultCredentialDir is where the user-supplied key is persisted.
func DefaultCredentialDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".codeviz"), nil
}

// ResolveCredential resolves the active credential against the default
// credential directory.
func ResolveCredential() Credential {
	dir, err := DefaultCredentialDir()
	if err != nil {
		dir = ""
	}
	return ResolveCredentialAt(dir)
}

// ResolveCredentialAt resolves the active credential: environment first,
// then the key stored under dir.
func ResolveCredentialAt(dir string) Credential {
	for _, name := range envKeyNames {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return Credential{Source: CredentialEnv, Value: value}
		}
	}

	if dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, userKeyFileName)); err == nil {
			if value := strings.TrimSpace(string(data)); value != "" {
				return Credential{Source: CredentialUser, Value: value}
			}
		}
	}

	return Credential{Source: CredentialNone}
}

// SaveUserKeyAt persists a user-supplied key under dir and returns the newly
// resolved credential. A key that trims to empty clears the stored state.
func SaveUserKeyAt(dir, key string) (Credential, error) {
	trimmed := strings.TrimSpace(key)

	keyPath := filepath.Join(dir, userKeyFileName)
	if trimmed == "" {
		if err := os.Remove(keyPath); err != nil && !os.IsNotExist(err) {
			return Credential{}, fmt.Errorf("failed to clear stored key: %w", err)
		}
		return ResolveCredentialAt(dir), nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return Credential{}, fmt.Errorf("failed to create credential directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(trimmed), 0600); err != nil {
		return Credential{}, fmt.Errorf("failed to store key: %w", err)
	}

	return ResolveCredentialAt(dir), nil
}
