// Package rsclient provides the main entry point for creating Responsys API clients
package rsclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/responsys-client/internal/client"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
)

// New creates a new Responsys API client. The login URL is normalized and
// the config is copied, so later changes by the caller have no effect. No
// request is sent until the first call.
func New(config *responsys.Config) (responsys.Client, error) {
	if config == nil {
		return nil, responsys.ErrConfigRequired
	}

	normalized := *config
	normalized.LoginURL = NormalizeLoginURL(config.LoginURL)

	c, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewWithPassword creates a new client from a login URL and API user
// credentials, using defaults for everything else.
func NewWithPassword(loginURL, username, password string) (responsys.Client, error) {
	return New(&responsys.Config{
		LoginURL: loginURL,
		Username: username,
		Password: password,
	})
}

// NormalizeLoginURL trims a trailing slash and defaults the scheme to https.
func NormalizeLoginURL(loginURL string) string {
	loginURL = strings.TrimSuffix(strings.TrimSpace(loginURL), "/")
	if loginURL == "" {
		return ""
	}

	if !strings.HasPrefix(loginURL, "http://") && !strings.HasPrefix(loginURL, "https://") {
		loginURL = "https://" + loginURL
	}

	return loginURL
}
