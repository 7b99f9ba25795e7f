package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fivetwenty-io/responsys-client/internal/constants"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
	"github.com/fivetwenty-io/responsys-client/pkg/rsclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configDirName  = ".responsys"
	configFileName = "config.yml"
)

// Config represents the CLI configuration file. Tokens are never stored.
type Config struct {
	LoginURL string        `json:"login_url,omitempty" yaml:"login_url,omitempty"`
	Username string        `json:"username,omitempty"  yaml:"username,omitempty"`
	Password string        `json:"password,omitempty"  yaml:"password,omitempty"`
	Output   string        `json:"output,omitempty"    yaml:"output,omitempty"`
	Cache    CacheSettings `json:"cache"               yaml:"cache,omitempty"`
}

// CacheSettings selects the schema cache used by the CLI.
type CacheSettings struct {
	Type    string `json:"type,omitempty"     yaml:"type,omitempty"`
	NATSURL string `json:"nats_url,omitempty" yaml:"nats_url,omitempty"`
	Bucket  string `json:"bucket,omitempty"   yaml:"bucket,omitempty"`
	TTL     string `json:"ttl,omitempty"      yaml:"ttl,omitempty"`
}

// configKeys lists the keys accepted by 'config set' and 'config unset'.
var configKeys = []string{
	"login_url", "username", "password", "output",
	"cache.type", "cache.nats_url", "cache.bucket", "cache.ttl",
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage the Responsys CLI configuration file (" + filepath.Join("~", configDirName, configFileName) + ")",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration from flags, environment and the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskConfig(loadConfig())
			w := cmd.OutOrStdout()

			return render(w, config, func() error {
				return displayConfigTable(w, config)
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + strings.Join(configKeys, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath()
			if err != nil {
				return err
			}

			config, err := readConfigFile(path)
			if err != nil {
				return err
			}

			err = setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = writeConfigFile(path, config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath()
			if err != nil {
				return err
			}

			config, err := readConfigFile(path)
			if err != nil {
				return err
			}

			err = setConfigValue(config, args[0], "")
			if err != nil {
				return err
			}

			err = writeConfigFile(path, config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

// loadConfig returns the effective configuration: flags, then RESPONSYS_*
// environment variables, then the config file.
func loadConfig() *Config {
	return &Config{
		LoginURL: viper.GetString("login_url"),
		Username: viper.GetString("username"),
		Password: viper.GetString("password"),
		Output:   viper.GetString("output"),
		Cache: CacheSettings{
			Type:    viper.GetString("cache.type"),
			NATSURL: viper.GetString("cache.nats_url"),
			Bucket:  viper.GetString("cache.bucket"),
			TTL:     viper.GetString("cache.ttl"),
		},
	}
}

// configFilePath returns the config file in use, or the default location.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, configDirName, configFileName), nil
}

// readConfigFile reads only the file, so values from flags or the
// environment are never written back. A missing file is an empty config.
func readConfigFile(path string) (*Config, error) {
	// path is the CLI's own config file
	// #nosec G304
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &config, nil
}

func writeConfigFile(path string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setConfigValue validates and sets key. An empty value clears it.
func setConfigValue(config *Config, key, value string) error {
	if value != "" {
		err := validateConfigValue(key, value)
		if err != nil {
			return err
		}
	}

	switch key {
	case "login_url":
		config.LoginURL = value
	case "username":
		config.Username = value
	case "password":
		config.Password = value
	case "output":
		config.Output = value
	case "cache.type":
		config.Cache.Type = value
	case "cache.nats_url":
		config.Cache.NATSURL = value
	case "cache.bucket":
		config.Cache.Bucket = value
	case "cache.ttl":
		config.Cache.TTL = value
	default:
		return fmt.Errorf("%w: %s (valid keys: %s)", constants.ErrUnknownConfig, key, strings.Join(configKeys, ", "))
	}

	return nil
}

func validateConfigValue(key, value string) error {
	switch key {
	case "output":
		switch value {
		case constants.FormatJSON, constants.FormatYAML, constants.FormatTable:
			return nil
		}

		return fmt.Errorf("%w: output must be json, yaml or table, got %q", constants.ErrInvalidConfig, value)
	case "cache.type":
		switch responsys.CacheType(value) {
		case responsys.CacheTypeMemory, responsys.CacheTypeNATS, responsys.CacheTypeNone:
			return nil
		}

		return fmt.Errorf("%w: cache.type must be memory, nats or none, got %q", constants.ErrInvalidConfig, value)
	case "cache.ttl":
		_, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: cache.ttl: %w", constants.ErrInvalidConfig, err)
		}
	}

	return nil
}

func maskConfig(config *Config) *Config {
	masked := *config
	if masked.Password != "" {
		masked.Password = constants.MaskedSecret
	}

	return &masked
}

func displayConfigTable(w io.Writer, config *Config) error {
	rows := [][]string{
		{"login_url", formatConfigValue(config.LoginURL)},
		{"username", formatConfigValue(config.Username)},
		{"password", formatConfigValue(config.Password)},
		{"output", formatConfigValue(config.Output)},
		{"cache.type", formatConfigValue(config.Cache.Type)},
		{"cache.nats_url", formatConfigValue(config.Cache.NATSURL)},
		{"cache.bucket", formatConfigValue(config.Cache.Bucket)},
		{"cache.ttl", formatConfigValue(config.Cache.TTL)},
	}

	return renderTable(w, []string{"Key", "Value"}, rows)
}

func formatConfigValue(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

// clientConfig builds a client configuration from the CLI configuration.
func clientConfig(config *Config, logger responsys.Logger) (*responsys.Config, error) {
	if config.LoginURL == "" {
		return nil, constants.ErrNoLoginURL
	}

	if config.Username == "" {
		return nil, constants.ErrNoUsername
	}

	if config.Password == "" {
		return nil, constants.ErrNoPassword
	}

	clientConfig := &responsys.Config{
		LoginURL: config.LoginURL,
		Username: config.Username,
		Password: config.Password,
		Debug:    viper.GetBool("verbose"),
		Logger:   logger,
	}

	if config.Cache.TTL != "" {
		ttl, err := time.ParseDuration(config.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("%w: cache.ttl: %w", constants.ErrInvalidConfig, err)
		}

		clientConfig.CacheTTL = ttl
	}

	return clientConfig, nil
}

// buildCache creates the schema cache selected by settings. The returned
// function releases it.
func buildCache(settings CacheSettings) (responsys.Cache, func(), error) {
	cacheConfig := responsys.DefaultCacheConfig()

	if settings.Type != "" {
		cacheConfig.Type = responsys.CacheType(settings.Type)
	}

	if cacheConfig.Type == responsys.CacheTypeNATS {
		cacheConfig.NATS = &responsys.NATSKVConfig{URL: settings.NATSURL, Bucket: settings.Bucket}
	}

	cache, err := responsys.NewCacheFromConfig(cacheConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("creating cache: %w", err)
	}

	closer := func() {}
	if natsCache, ok := cache.(*responsys.NATSKVCache); ok {
		closer = natsCache.Close
	}

	return cache, closer, nil
}

// CreateClient creates a Responsys client from the effective configuration.
// The returned function releases resources held by the client.
func CreateClient(logger responsys.Logger) (responsys.Client, func(), error) {
	config := loadConfig()

	clientCfg, err := clientConfig(config, logger)
	if err != nil {
		return nil, nil, err
	}

	cache, closer, err := buildCache(config.Cache)
	if err != nil {
		return nil, nil, err
	}

	clientCfg.Cache = cache

	client, err := rsclient.New(clientCfg)
	if err != nil {
		closer()

		return nil, nil, err
	}

	return client, closer, nil
}
