//go:build integration

package integration

import (
	"os"

	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	LoginURL  string
	Username  string
	Password  string
	List      string
	Extension string
	Folder    string
	Table     string
	Verbose   bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		LoginURL:  os.Getenv("RESPONSYS_LOGIN_URL"),
		Username:  os.Getenv("RESPONSYS_USERNAME"),
		Password:  os.Getenv("RESPONSYS_PASSWORD"),
		List:      os.Getenv("RESPONSYS_TEST_LIST"),
		Extension: os.Getenv("RESPONSYS_TEST_EXTENSION"),
		Folder:    os.Getenv("RESPONSYS_TEST_FOLDER"),
		Table:     os.Getenv("RESPONSYS_TEST_TABLE"),
		Verbose:   os.Getenv("RESPONSYS_VERBOSE") == "true",
	}
}

// HasCredentials reports whether a live account is configured.
func (c *TestConfig) HasCredentials() bool {
	return c.LoginURL != "" && c.Username != "" && c.Password != ""
}

// ClientConfig builds the client configuration for the live account.
func (c *TestConfig) ClientConfig() *responsys.Config {
	return &responsys.Config{
		LoginURL: c.LoginURL,
		Username: c.Username,
		Password: c.Password,
		Debug:    c.Verbose,
	}
}
