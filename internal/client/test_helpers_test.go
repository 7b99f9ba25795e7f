package client

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
	"github.com/stretchr/testify/require"
)

// recordedCall is one request seen by the fake API host.
type recordedCall struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	Body          string
}

// scriptedResponse is replayed by the fake API host in order.
type scriptedResponse struct {
	Status int
	Body   string
}

// fakeResponsys runs a login host and a separate API host, the one issued
// in the auth response.
type fakeResponsys struct {
	Login *httptest.Server
	API   *httptest.Server

	mu          sync.Mutex
	logins      int
	loginStatus int
	calls       []recordedCall
	script      []scriptedResponse
	fallback    scriptedResponse
}

func newFakeResponsys(t *testing.T) *fakeResponsys {
	t.Helper()

	fake := &fakeResponsys{
		loginStatus: http.StatusOK,
		fallback:    scriptedResponse{Status: http.StatusOK, Body: `{}`},
	}

	fake.API = httptest.NewServer(http.HandlerFunc(fake.handleAPI))
	fake.Login = httptest.NewServer(http.HandlerFunc(fake.handleLogin))

	t.Cleanup(fake.API.Close)
	t.Cleanup(fake.Login.Close)

	return fake
}

func (f *fakeResponsys) handleLogin(writer http.ResponseWriter, request *http.Request) {
	_ = request.ParseForm()

	f.mu.Lock()
	f.logins++
	n := f.logins
	status := f.loginStatus
	f.mu.Unlock()

	if status != http.StatusOK {
		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(`{"detail":"invalid credentials"}`))

		return
	}

	_, _ = fmt.Fprintf(writer, `{"authToken":"token-%d","endPoint":"%s","issuedAt":%d}`,
		n, f.API.URL, time.Now().UnixMilli())
}

func (f *fakeResponsys) handleAPI(writer http.ResponseWriter, request *http.Request) {
	body, _ := io.ReadAll(request.Body)

	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{
		Method:        request.Method,
		Path:          request.URL.Path,
		Query:         request.URL.Query(),
		Authorization: request.Header.Get("Authorization"),
		Body:          string(body),
	})

	resp := f.fallback
	if len(f.script) > 0 {
		resp = f.script[0]
		f.script = f.script[1:]
	}
	f.mu.Unlock()

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(resp.Status)
	_, _ = writer.Write([]byte(resp.Body))
}

// Respond queues responses for the API host.
func (f *fakeResponsys) Respond(responses ...scriptedResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.script = append(f.script, responses...)
}

func (f *fakeResponsys) SetLoginStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loginStatus = status
}

func (f *fakeResponsys) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]recordedCall(nil), f.calls...)
}

func (f *fakeResponsys) Logins() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.logins
}

// NewTestClient creates a client logged in lazily against fake.
func NewTestClient(t *testing.T, fake *fakeResponsys, mutate ...func(*responsys.Config)) *Client {
	t.Helper()

	config := &responsys.Config{
		LoginURL:      fake.Login.URL,
		Username:      "api-user",
		Password:      "secret",
		RateLimitWait: time.Millisecond,
	}

	for _, fn := range mutate {
		fn(config)
	}

	client, err := New(config)
	require.NoError(t, err)

	return client
}

func respondOK(body string) scriptedResponse {
	return scriptedResponse{Status: http.StatusOK, Body: body}
}

func respondStatus(code int, body string) scriptedResponse {
	return scriptedResponse{Status: code, Body: body}
}

func makeRecords(n int) []responsys.Record {
	rows := make([]responsys.Record, n)
	for i := range rows {
		rows[i] = responsys.Record{"CUSTOMER_ID_": fmt.Sprint(i)}
	}

	return rows
}
