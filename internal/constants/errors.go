package constants

import "errors"

// Configuration errors.
var (
	ErrNoLoginURL      = errors.New("no login URL configured, use --login-url or 'responsys config set login_url <url>'")
	ErrNoUsername      = errors.New("no username configured, use --username or 'responsys config set username <name>'")
	ErrNoPassword      = errors.New("no password available, use --password or set RESPONSYS_PASSWORD")
	ErrUnknownConfig   = errors.New("unknown configuration key")
	ErrInvalidConfig   = errors.New("invalid configuration value")
	ErrUnsupportedFile = errors.New("unsupported records file format, use .json, .yaml or .yml")
)

// Operation errors.
var (
	ErrRecordsFileRequired = errors.New("--file flag is required")
	ErrEmptyRecordsFile    = errors.New("records file contains no records")
)
