package responsys

import (
	"context"
	"time"
)

// ListsClient reads profile list metadata.
type ListsClient interface {
	List(ctx context.Context) ([]ProfileList, error)
	ListExtensions(ctx context.Context, profileList string) ([]ListExtension, error)
}

// ProfileMembersClient manages members of a profile list.
type ProfileMembersClient interface {
	// Merge inserts or replaces up to 200 members, matching on matchColumn
	// (CUSTOMER_ID_ when empty).
	Merge(ctx context.Context, profileList string, members []Record, matchColumn string) (*MergeResult, error)
	// GetByCustomerID returns the first matching member. Numeric fields are
	// json.Number values.
	GetByCustomerID(ctx context.Context, profileList, customerID string) (Record, error)
	Delete(ctx context.Context, profileList, customerID string) error
}

// ExtensionMembersClient manages rows of a profile extension table.
type ExtensionMembersClient interface {
	// Merge inserts or replaces up to 200 rows, matching on matchColumn
	// (CUSTOMER_ID when empty).
	Merge(ctx context.Context, profileList, extension string, rows []Record, matchColumn string) (*MergeResult, error)
	GetByCustomerID(ctx context.Context, profileList, extension, customerID string) (Record, error)
	Delete(ctx context.Context, profileList, extension, customerID string) error
}

// SupplementalMembersClient manages rows of a supplemental table.
type SupplementalMembersClient interface {
	Merge(ctx context.Context, folder, table string, rows []Record) (*MergeResult, error)
	GetByCustomerID(ctx context.Context, folder, table, customerID string) (Record, error)
	Delete(ctx context.Context, folder, table, customerID string) error
}

// SessionClient exposes the authentication session.
type SessionClient interface {
	// Login authenticates with the configured credentials, replacing any
	// current session.
	Login(ctx context.Context) error
	// Session returns a copy of the current session, if any.
	Session() (SessionInfo, bool)
}

// Client is the Responsys API client. A Client holds one session and does
// no internal locking: callers sharing it across goroutines must serialize
// access themselves.
type Client interface {
	SessionClient

	Lists() ListsClient
	ProfileMembers() ProfileMembersClient
	ExtensionMembers() ExtensionMembersClient
	SupplementalMembers() SupplementalMembersClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a responsys.Client.
//
// Only LoginURL, Username and Password are required. Zero values of the
// remaining fields select the documented defaults.
type Config struct {
	// LoginURL is the account's login host, for example
	// "https://login2.responsys.net". rsclient.New trims a trailing slash and
	// adds "https://" when no scheme is present.
	LoginURL string
	Username string
	Password string

	// RequestTimeout bounds each physical request. Default 60s.
	RequestTimeout time.Duration
	// RateLimitWait is the pause before retrying a 429. Default 60s.
	RateLimitWait time.Duration
	// RefreshThreshold is the session age that triggers a token refresh. Default 1h.
	RefreshThreshold time.Duration
	// RequestsPerSecond paces every physical request, 429 retries included.
	// Zero disables pacing.
	RequestsPerSecond float64

	UserAgent string
	Debug     bool
	Logger    Logger

	// Cache stores list and extension metadata. Nil disables caching.
	Cache    Cache
	CacheTTL time.Duration
}
