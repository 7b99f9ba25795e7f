package client

import (
	"context"
	"errors"

	"github.com/fivetwenty-io/responsys-client/internal/auth"
	rshttp "github.com/fivetwenty-io/responsys-client/internal/http"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
)

// Static errors for err113 compliance.
var (
	ErrNoSession = errors.New("no authentication session")
)

// Client implements the responsys.Client interface.
type Client struct {
	transport  *rshttp.Client
	sessions   *auth.SessionManager
	dispatcher *Dispatcher
	logger     rshttp.Logger

	// Resource clients
	lists               *ListsClient
	profileMembers      *ProfileMembersClient
	extensionMembers    *ExtensionMembersClient
	supplementalMembers *SupplementalMembersClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *responsys.Config) []rshttp.Option {
	var httpOpts []rshttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, rshttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, rshttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, rshttp.WithUserAgent(config.UserAgent))
	}

	httpOpts = append(httpOpts,
		rshttp.WithTimeout(config.RequestTimeout),
		rshttp.WithRateLimitWait(config.RateLimitWait),
		rshttp.WithRequestsPerSecond(config.RequestsPerSecond),
	)

	return httpOpts
}

func validateConfig(config *responsys.Config) error {
	if config == nil {
		return responsys.ErrConfigRequired
	}

	if config.LoginURL == "" {
		return responsys.ErrLoginURLRequired
	}

	if config.Username == "" || config.Password == "" {
		return responsys.ErrCredentialsRequired
	}

	return nil
}

// New creates a new Responsys client. No request is sent until the first call.
func New(config *responsys.Config) (*Client, error) {
	err := validateConfig(config)
	if err != nil {
		return nil, err
	}

	transport := rshttp.NewClient(createHTTPClientOptions(config)...)

	sessionOpts := []auth.Option{auth.WithRefreshThreshold(config.RefreshThreshold)}
	if config.Logger != nil {
		sessionOpts = append(sessionOpts, auth.WithLogger(config.Logger))
	}

	sessions := auth.NewSessionManager(auth.Credentials{
		Username: config.Username,
		Password: config.Password,
		LoginURL: config.LoginURL,
	}, transport, sessionOpts...)

	return NewWithSessionManager(config, transport, sessions)
}

// NewWithSessionManager creates a client around an existing transport and
// session manager.
func NewWithSessionManager(config *responsys.Config, transport *rshttp.Client, sessions *auth.SessionManager) (*Client, error) {
	if config == nil {
		return nil, responsys.ErrConfigRequired
	}

	var logger rshttp.Logger = nopLogger{}
	if config.Logger != nil {
		logger = config.Logger
	}

	client := &Client{
		transport:  transport,
		sessions:   sessions,
		dispatcher: NewDispatcher(sessions, transport, logger),
		logger:     logger,
	}

	client.initializeResourceClients(config)

	return client, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients(config *responsys.Config) {
	c.lists = NewListsClient(c.dispatcher, cacheAccount(config), config.Cache, config.CacheTTL, c.logger)
	c.profileMembers = NewProfileMembersClient(c.dispatcher)
	c.extensionMembers = NewExtensionMembersClient(c.dispatcher)
	c.supplementalMembers = NewSupplementalMembersClient(c.dispatcher)
}

// cacheAccount identifies the account whose responses are cached.
func cacheAccount(config *responsys.Config) string {
	return config.LoginURL + "|" + config.Username
}

// Login implements responsys.Client.Login.
func (c *Client) Login(ctx context.Context) error {
	return c.sessions.Login(ctx)
}

// Session implements responsys.Client.Session.
func (c *Client) Session() (responsys.SessionInfo, bool) {
	session, ok := c.sessions.Session()
	if !ok {
		return responsys.SessionInfo{}, false
	}

	return session.Info(), true
}

// Dispatcher returns the dispatcher for calls not covered by a resource client.
func (c *Client) Dispatcher() *Dispatcher {
	return c.dispatcher
}

// Lists implements responsys.Client.Lists.
func (c *Client) Lists() responsys.ListsClient {
	return c.lists
}

// ProfileMembers implements responsys.Client.ProfileMembers.
func (c *Client) ProfileMembers() responsys.ProfileMembersClient {
	return c.profileMembers
}

// ExtensionMembers implements responsys.Client.ExtensionMembers.
func (c *Client) ExtensionMembers() responsys.ExtensionMembersClient {
	return c.extensionMembers
}

// SupplementalMembers implements responsys.Client.SupplementalMembers.
func (c *Client) SupplementalMembers() responsys.SupplementalMembersClient {
	return c.supplementalMembers
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
