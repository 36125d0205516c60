package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/crucial707/blogspace/internal/client"
)

const (
	defaultAPIURL = "http://localhost:5000"
	tokenFileName = ".blogspace_token"
)

// APIURL returns the base URL for the blogspace API.
// It can be overridden with the BLOGSPACE_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("BLOGSPACE_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// NewClient returns an API client for APIURL.
func NewClient() *client.Client {
	return client.New(APIURL())
}

// TokenPath is where login stores the token: BLOGSPACE_TOKEN_FILE, or
// ~/.blogspace_token.
func TokenPath() string {
	if v := os.Getenv("BLOGSPACE_TOKEN_FILE"); v != "" {
		return v
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return tokenFileName
	}
	return filepath.Join(dir, tokenFileName)
}

// ErrNotLoggedIn is returned by LoadToken when no token is stored.
var ErrNotLoggedIn = errors.New("not logged in, run `blogcli login` first")

func SaveToken(token string) error {
	return os.WriteFile(TokenPath(), []byte(token), 0o600)
}

func LoadToken() (string, error) {
	data, err := os.ReadFile(TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// ClearToken removes the stored token and reports whether one existed.
func ClearToken() (bool, error) {
	err := os.Remove(TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
