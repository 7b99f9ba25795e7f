package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fivetwenty-io/responsys-client/internal/auth"
	"github.com/fivetwenty-io/responsys-client/internal/constants"
	rshttp "github.com/fivetwenty-io/responsys-client/internal/http"
	"github.com/google/uuid"
)

// requestContext carries one logical call through the dispatcher.
type requestContext struct {
	id             string
	method         string
	path           string
	query          url.Values
	body           interface{}
	retriedForAuth bool
}

// Dispatcher sends authenticated requests. It makes sure a session exists,
// attaches the token and retries once with a fresh login when Responsys
// rejects the token.
type Dispatcher struct {
	sessions  *auth.SessionManager
	transport *rshttp.Client
	logger    rshttp.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(sessions *auth.SessionManager, transport *rshttp.Client, logger rshttp.Logger) *Dispatcher {
	return &Dispatcher{
		sessions:  sessions,
		transport: transport,
		logger:    logger,
	}
}

// Send issues method on path (relative to the issued endpoint). The
// response is returned whatever its status; callers judge success.
func (d *Dispatcher) Send(ctx context.Context, method, path string, query url.Values, body interface{}) (*rshttp.Response, error) {
	err := d.sessions.EnsureValidSession(ctx)
	if err != nil {
		return nil, err
	}

	call := &requestContext{
		id:     uuid.NewString(),
		method: method,
		path:   path,
		query:  query,
		body:   body,
	}

	resp, err := d.send(ctx, call)
	if err != nil {
		return nil, err
	}

	if !isInvalidToken(resp) {
		return resp, nil
	}

	d.logger.Warn("Responsys rejected the auth token, logging in again", map[string]interface{}{
		"request_id": call.id,
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
	})

	err = d.sessions.Login(ctx)
	if err != nil {
		return nil, err
	}

	call.retriedForAuth = true

	return d.send(ctx, call)
}

func (d *Dispatcher) send(ctx context.Context, call *requestContext) (*rshttp.Response, error) {
	session, ok := d.sessions.Session()
	if !ok {
		return nil, fmt.Errorf("sending %s %s: %w", call.method, call.path, ErrNoSession)
	}

	target, err := rshttp.ResolveURL(session.IssuedURL, call.path)
	if err != nil {
		return nil, fmt.Errorf("building request URL: %w", err)
	}

	resp, err := d.transport.Do(ctx, &rshttp.Request{
		Method:  call.method,
		URL:     target,
		Query:   call.query,
		Headers: map[string]string{"Authorization": session.AuthToken},
		Body:    call.body,
	})
	if err != nil {
		return nil, err
	}

	d.logger.Debug("Responsys call completed", map[string]interface{}{
		"request_id":       call.id,
		"method":           call.method,
		"path":             call.path,
		"status":           resp.StatusCode,
		"attempts":         resp.Attempts,
		"retried_for_auth": call.retriedForAuth,
	})

	return resp, nil
}

// isInvalidToken reports a 401, or the 500 Responsys sends for an expired
// token.
func isInvalidToken(resp *rshttp.Response) bool {
	if resp.StatusCode == http.StatusUnauthorized {
		return true
	}

	if resp.StatusCode != http.StatusInternalServerError {
		return false
	}

	var apiErr struct {
		Detail string `json:"detail"`
	}

	if json.Unmarshal(resp.Body, &apiErr) != nil {
		return false
	}

	return apiErr.Detail == constants.InvalidTokenDetail
}
