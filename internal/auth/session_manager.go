package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fivetwenty-io/responsys-client/internal/constants"
	rshttp "github.com/fivetwenty-io/responsys-client/internal/http"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
)

// Transport sends one request to Responsys.
type Transport interface {
	Do(ctx context.Context, req *rshttp.Request) (*rshttp.Response, error)
}

// SessionManager owns the authentication session of one client. It does
// no locking; callers serialize access.
type SessionManager struct {
	credentials      Credentials
	transport        Transport
	logger           rshttp.Logger
	now              func() time.Time
	refreshThreshold time.Duration
	session          *Session
}

// Option configures the session manager.
type Option func(*SessionManager)

// WithLogger sets the logger.
func WithLogger(logger rshttp.Logger) Option {
	return func(m *SessionManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *SessionManager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithRefreshThreshold sets the session age that triggers a refresh.
func WithRefreshThreshold(threshold time.Duration) Option {
	return func(m *SessionManager) {
		if threshold > 0 {
			m.refreshThreshold = threshold
		}
	}
}

// NewSessionManager creates a session manager with no session.
func NewSessionManager(credentials Credentials, transport Transport, opts ...Option) *SessionManager {
	m := &SessionManager{
		credentials:      credentials,
		transport:        transport,
		logger:           nopLogger{},
		now:              time.Now,
		refreshThreshold: constants.AuthTokenRefreshThreshold,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Session returns a copy of the current session.
func (m *SessionManager) Session() (Session, bool) {
	if m.session == nil {
		return Session{}, false
	}

	return *m.session, true
}

// EnsureValidSession logs in when there is no session and refreshes one
// older than the refresh threshold. A fresh session costs no network call.
func (m *SessionManager) EnsureValidSession(ctx context.Context) error {
	if m.session == nil {
		return m.Login(ctx)
	}

	if m.now().UTC().Sub(m.session.RefreshedAt) > m.refreshThreshold {
		return m.Refresh(ctx)
	}

	return nil
}

// Login authenticates with the username and password against the login
// URL. On failure the current session, if any, is kept.
func (m *SessionManager) Login(ctx context.Context) error {
	loginURL, err := rshttp.ResolveURL(m.credentials.LoginURL, constants.AuthTokenPath)
	if err != nil {
		return fmt.Errorf("building login URL: %w", err)
	}

	resp, err := m.transport.Do(ctx, &rshttp.Request{
		Method: http.MethodPost,
		URL:    loginURL,
		Form: url.Values{
			"user_name": {m.credentials.Username},
			"password":  {m.credentials.Password},
			"auth_type": {constants.AuthTypePassword},
		},
	})
	if err != nil {
		return fmt.Errorf("logging in to Responsys: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		m.logger.Error("Responsys login rejected", map[string]interface{}{
			"url":    loginURL,
			"status": resp.StatusCode,
		})

		return responsys.NewAuthenticationError(loginURL, resp.StatusCode, resp.Body)
	}

	err = m.install(resp)
	if err != nil {
		return err
	}

	m.logger.Info("Logged in to Responsys", m.sessionFields())

	return nil
}

// Refresh exchanges the current token for a new one at the issued
// endpoint. A rejected refresh falls back to Login.
func (m *SessionManager) Refresh(ctx context.Context) error {
	if m.session == nil {
		return m.Login(ctx)
	}

	refreshURL, err := rshttp.ResolveURL(m.session.IssuedURL, constants.AuthTokenPath)
	if err != nil {
		return fmt.Errorf("building refresh URL: %w", err)
	}

	resp, err := m.transport.Do(ctx, &rshttp.Request{
		Method:  http.MethodPost,
		URL:     refreshURL,
		Headers: map[string]string{"Authorization": m.session.AuthToken},
		Form:    url.Values{"auth_type": {constants.AuthTypeToken}},
	})
	if err != nil {
		return fmt.Errorf("refreshing Responsys token: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		m.logger.Warn("Token refresh rejected, logging in again", map[string]interface{}{
			"url":    refreshURL,
			"status": resp.StatusCode,
		})

		return m.Login(ctx)
	}

	err = m.install(resp)
	if err != nil {
		return err
	}

	m.logger.Debug("Refreshed Responsys token", m.sessionFields())

	return nil
}

func (m *SessionManager) install(resp *rshttp.Response) error {
	session, err := parseTokenResponse(resp.Body)
	if err != nil {
		return responsys.NewInvalidResponseError(http.MethodPost, constants.AuthTokenPath, resp.Body, err)
	}

	m.session = session

	return nil
}

func (m *SessionManager) sessionFields() map[string]interface{} {
	return map[string]interface{}{
		"endpoint":  m.session.IssuedURL,
		"issued_at": m.session.RefreshedAt.Format(time.RFC3339),
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
