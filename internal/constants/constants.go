package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Responsys REST API paths.
const (
	// AuthTokenPath is used for both password login and token refresh.
	AuthTokenPath = "/rest/api/v1.1/auth/token"

	// ListsPath is the collection of profile lists.
	ListsPath = "/rest/api/v1.1/lists"

	// FoldersPath is the root for supplemental table paths.
	FoldersPath = "/rest/api/v1.1/folders"
)

// Authentication form values.
const (
	AuthTypePassword = "password"
	AuthTypeToken    = "token"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout bounds every physical request to Responsys.
	DefaultHTTPTimeout = 60 * time.Second

	// RateLimitWait is how long to sleep after a 429 before the single retry.
	RateLimitWait = 60 * time.Second

	// AuthTokenRefreshThreshold is the session age after which the token is refreshed.
	AuthTokenRefreshThreshold = time.Hour
)

// Request limits and API markers.
const (
	// RecordProcessLimit is the maximum number of records per merge call.
	RecordProcessLimit = 200

	// InvalidTokenDetail is the detail Responsys sends with a 500 for an expired token.
	InvalidTokenDetail = "Not a valid authentication token"

	// RIIDField holds the recipient ID in member lookups.
	RIIDField = "RIID_"
)

// Member lookup query values.
const (
	// QueryAttributeCustomerID selects profile and extension members by customer ID.
	QueryAttributeCustomerID = "c"

	// QueryAttributeSupplementalCustomerID selects supplemental rows by their key column.
	QueryAttributeSupplementalCustomerID = "CUSTOMER_ID_"

	// FieldSelectionAll returns every field of a member.
	FieldSelectionAll = "all"
)

// Merge defaults.
const (
	// DefaultProfileMatchColumn is the profile list column used to match records.
	DefaultProfileMatchColumn = "CUSTOMER_ID_"

	// DefaultExtensionMatchColumn is the list extension column used to match records.
	DefaultExtensionMatchColumn = "CUSTOMER_ID"
)

// Cache defaults.
const (
	// DefaultCacheTTL is how long schema responses stay cached.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCacheSize is the entry limit of the memory cache.
	DefaultCacheSize = 1000

	// DefaultCacheBucket is the NATS key-value bucket name.
	DefaultCacheBucket = "responsys_cache"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Display helpers.
const (
	// JSONIndentSize is the indentation used for JSON and YAML output.
	JSONIndentSize = 2

	// MaskedSecret replaces secrets in displayed configuration.
	MaskedSecret = "***"

	// NotAvailable is shown for missing values.
	NotAvailable = "N/A"
)
