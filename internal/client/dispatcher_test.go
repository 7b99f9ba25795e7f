package client

import (
	"context"
	"net/http"
	"testing"

	rshttp "github.com/fivetwenty-io/responsys-client/internal/http"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invalidTokenBody = `{"type":"","title":"Authentication token expired","errorCode":"TOKEN_EXPIRED","detail":"Not a valid authentication token","errorDetails":[]}`

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestDispatcher_Send(t *testing.T) {
	t.Parallel()

	t.Run("logs in lazily and sends the raw token to the issued endpoint", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		client := NewTestClient(t, fake)

		_, hasSession := client.Session()
		assert.False(t, hasSession)

		resp, err := client.Dispatcher().Send(context.Background(), http.MethodGet, "/rest/api/v1.1/lists", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		calls := fake.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "/rest/api/v1.1/lists", calls[0].Path)
		assert.Equal(t, "token-1", calls[0].Authorization)
		assert.Equal(t, 1, fake.Logins())

		session, hasSession := client.Session()
		require.True(t, hasSession)
		assert.Equal(t, fake.API.URL, session.EndPoint)
	})

	t.Run("fresh session is reused", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		client := NewTestClient(t, fake)

		for range 3 {
			_, err := client.Dispatcher().Send(context.Background(), http.MethodGet, "/rest/api/v1.1/lists", nil, nil)
			require.NoError(t, err)
		}

		assert.Equal(t, 1, fake.Logins())
		assert.Len(t, fake.Calls(), 3)
	})

	t.Run("401 triggers one login and one retry", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		fake.Respond(respondStatus(http.StatusUnauthorized, `{}`), respondOK(`[]`))
		client := NewTestClient(t, fake)

		resp, err := client.Dispatcher().Send(context.Background(), http.MethodGet, "/rest/api/v1.1/lists", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		calls := fake.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, "token-1", calls[0].Authorization)
		assert.Equal(t, "token-2", calls[1].Authorization)
		assert.Equal(t, 2, fake.Logins())
	})

	t.Run("500 with invalid token detail triggers one login and one retry", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		fake.Respond(respondStatus(http.StatusInternalServerError, invalidTokenBody), respondOK(`[]`))
		client := NewTestClient(t, fake)

		body := map[string]string{"k": "v"}
		resp, err := client.Dispatcher().Send(context.Background(), http.MethodPost, "/rest/api/v1.1/lists/L/members", nil, body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		calls := fake.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, calls[0].Body, calls[1].Body)
		assert.Equal(t, "token-2", calls[1].Authorization)
		assert.Equal(t, 2, fake.Logins())
	})

	t.Run("other 500s are returned unchanged", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		fake.Respond(respondStatus(http.StatusInternalServerError, `{"detail":"database unavailable"}`))
		client := NewTestClient(t, fake)

		resp, err := client.Dispatcher().Send(context.Background(), http.MethodGet, "/rest/api/v1.1/lists", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Len(t, fake.Calls(), 1)
		assert.Equal(t, 1, fake.Logins())
	})

	t.Run("500 with a non-JSON body is returned unchanged", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		fake.Respond(respondStatus(http.StatusInternalServerError, `<html>oops</html>`))
		client := NewTestClient(t, fake)

		resp, err := client.Dispatcher().Send(context.Background(), http.MethodGet, "/rest/api/v1.1/lists", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Len(t, fake.Calls(), 1)
	})

	t.Run("second 401 is returned, not retried again", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		fake.Respond(respondStatus(http.StatusUnauthorized, `{}`), respondStatus(http.StatusUnauthorized, `{"detail":"still no"}`))
		client := NewTestClient(t, fake)

		resp, err := client.Dispatcher().Send(context.Background(), http.MethodGet, "/rest/api/v1.1/lists", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.JSONEq(t, `{"detail":"still no"}`, string(resp.Body))
		assert.Len(t, fake.Calls(), 2)
		assert.Equal(t, 2, fake.Logins())
	})

	t.Run("rate limit and auth retries compose to four physical calls", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		fake.Respond(
			respondStatus(http.StatusTooManyRequests, `{}`),
			respondStatus(http.StatusUnauthorized, `{}`),
			respondStatus(http.StatusTooManyRequests, `{}`),
			respondOK(`[]`),
		)
		client := NewTestClient(t, fake)

		resp, err := client.Dispatcher().Send(context.Background(), http.MethodGet, "/rest/api/v1.1/lists", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 2, resp.Attempts)
		assert.Len(t, fake.Calls(), 4)
		assert.Equal(t, 2, fake.Logins())
	})

	t.Run("failed login surfaces and sends nothing", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		fake.SetLoginStatus(http.StatusUnauthorized)
		client := NewTestClient(t, fake)

		_, err := client.Dispatcher().Send(context.Background(), http.MethodGet, "/rest/api/v1.1/lists", nil, nil)
		require.Error(t, err)
		assert.True(t, responsys.IsAuthenticationError(err))
		assert.Empty(t, fake.Calls())
	})

	t.Run("failed re-login after 401 surfaces", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		fake.Respond(respondStatus(http.StatusUnauthorized, `{}`))
		client := NewTestClient(t, fake)

		require.NoError(t, client.Login(context.Background()))
		fake.SetLoginStatus(http.StatusForbidden)

		_, err := client.Dispatcher().Send(context.Background(), http.MethodGet, "/rest/api/v1.1/lists", nil, nil)
		require.Error(t, err)
		assert.True(t, responsys.IsAuthenticationError(err))
		assert.Equal(t, http.StatusForbidden, responsys.StatusCode(err))
		assert.Len(t, fake.Calls(), 1)
	})
}

func TestIsInvalidToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		expected bool
	}{
		{name: "401", status: http.StatusUnauthorized, body: ``, expected: true},
		{name: "500 invalid token", status: http.StatusInternalServerError, body: invalidTokenBody, expected: true},
		{name: "500 other detail", status: http.StatusInternalServerError, body: `{"detail":"other"}`, expected: false},
		{name: "500 empty body", status: http.StatusInternalServerError, body: ``, expected: false},
		{name: "403", status: http.StatusForbidden, body: invalidTokenBody, expected: false},
		{name: "200", status: http.StatusOK, body: invalidTokenBody, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := &rshttp.Response{StatusCode: tt.status, Body: []byte(tt.body)}
			assert.Equal(t, tt.expected, isInvalidToken(resp))
		})
	}
}
