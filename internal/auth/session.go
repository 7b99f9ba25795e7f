package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
)

// Static errors for err113 compliance.
var (
	ErrMissingAuthToken = errors.New("auth response has no authToken")
	ErrMissingEndPoint  = errors.New("auth response has no endPoint")
)

// Credentials identify the API user. They never change for a client.
type Credentials struct {
	Username string
	Password string
	// LoginURL is used only for password logins; everything else goes to
	// the endpoint issued with the session.
	LoginURL string
}

// Session is the state installed by one successful auth response. The
// fields are always replaced together.
type Session struct {
	AuthToken   string
	IssuedURL   string
	RefreshedAt time.Time
}

// Info converts the session to its public form.
func (s Session) Info() responsys.SessionInfo {
	return responsys.SessionInfo{
		AuthToken: s.AuthToken,
		EndPoint:  s.IssuedURL,
		IssuedAt:  s.RefreshedAt,
	}
}

// tokenResponse is the body of a successful login or refresh.
type tokenResponse struct {
	AuthToken string `json:"authToken"`
	EndPoint  string `json:"endPoint"`
	// IssuedAt is epoch milliseconds.
	IssuedAt int64 `json:"issuedAt"`
}

func parseTokenResponse(body []byte) (*Session, error) {
	var token tokenResponse

	err := json.Unmarshal(body, &token)
	if err != nil {
		return nil, fmt.Errorf("decoding auth response: %w", err)
	}

	if token.AuthToken == "" {
		return nil, ErrMissingAuthToken
	}

	if token.EndPoint == "" {
		return nil, ErrMissingEndPoint
	}

	return &Session{
		AuthToken:   token.AuthToken,
		IssuedURL:   token.EndPoint,
		RefreshedAt: time.Unix(token.IssuedAt/1000, 0).UTC(),
	}, nil
}
