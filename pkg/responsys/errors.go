package responsys

import (
	"errors"
	"fmt"
)

// Error kinds carried by ClientError. Match them with errors.Is.
var (
	ErrTimeout             = errors.New("request timed out")
	ErrTransport           = errors.New("transport error")
	ErrAuthentication      = errors.New("authentication failed")
	ErrUnexpectedStatus    = errors.New("unexpected response status")
	ErrRecordLimitExceeded = errors.New("record limit exceeded")
	ErrNoRecords           = errors.New("no records supplied")
	ErrMemberNotFound      = errors.New("member not found")
	ErrInvalidResponse     = errors.New("invalid response body")
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrLoginURLRequired    = errors.New("login URL is required")
	ErrCredentialsRequired = errors.New("username and password are required")
)

// ClientError is returned for every failure the client reports about a
// Responsys call. Kind is one of the Err* kinds above.
type ClientError struct {
	Kind       error
	Message    string
	Method     string
	Path       string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

// Unwrap exposes both the kind and the underlying cause.
func (e *ClientError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}

	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// NewTimeoutError reports a request that did not complete within the timeout.
func NewTimeoutError(method, url string, cause error) *ClientError {
	return &ClientError{
		Kind:    ErrTimeout,
		Message: fmt.Sprintf("timeout sending %s request to Responsys at %s", method, url),
		Method:  method,
		URL:     url,
		Err:     cause,
	}
}

// NewTransportError reports a request that failed before a response arrived.
func NewTransportError(method, url string, cause error) *ClientError {
	return &ClientError{
		Kind:    ErrTransport,
		Message: fmt.Sprintf("unknown error sending %s request to Responsys at %s", method, url),
		Method:  method,
		URL:     url,
		Err:     cause,
	}
}

// NewAuthenticationError reports a rejected login.
func NewAuthenticationError(url string, statusCode int, body []byte) *ClientError {
	return &ClientError{
		Kind:       ErrAuthentication,
		Message:    fmt.Sprintf("authentication against %s failed with status %d: %s", url, statusCode, body),
		Method:     "POST",
		URL:        url,
		StatusCode: statusCode,
		Body:       string(body),
	}
}

// NewUnexpectedStatusError reports a response whose status differs from the expected one.
func NewUnexpectedStatusError(method, path string, statusCode int, body []byte) *ClientError {
	return &ClientError{
		Kind: ErrUnexpectedStatus,
		Message: fmt.Sprintf("unexpected response from Responsys: method=%s path=%s status=%d body=%s",
			method, path, statusCode, body),
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		Body:       string(body),
	}
}

// NewRecordLimitError reports a merge batch larger than limit.
func NewRecordLimitError(limit, count int) *ClientError {
	return &ClientError{
		Kind:    ErrRecordLimitExceeded,
		Message: fmt.Sprintf("a max of %d members may be created or updated at one time, got %d", limit, count),
	}
}

// NewInvalidResponseError reports a body that could not be decoded.
func NewInvalidResponseError(method, path string, body []byte, cause error) *ClientError {
	return &ClientError{
		Kind:    ErrInvalidResponse,
		Message: fmt.Sprintf("invalid response body from %s %s", method, path),
		Method:  method,
		Path:    path,
		Body:    string(body),
		Err:     cause,
	}
}

// IsTimeout checks if the error is a request timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsAuthenticationError checks if the error is a rejected login.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsRecordLimitExceeded checks if a merge was rejected for its size.
func IsRecordLimitExceeded(err error) bool {
	return errors.Is(err, ErrRecordLimitExceeded)
}

// IsNotFound checks if a member lookup found nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMemberNotFound)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.StatusCode
	}

	return 0
}
