package commands

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
	"github.com/fivetwenty-io/responsys-client/pkg/rsclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// apiCall is one request received by the fake Responsys server.
type apiCall struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// fakeAPI serves the auth endpoint and replays canned API responses.
type fakeAPI struct {
	server *httptest.Server

	mu        sync.Mutex
	calls     []apiCall
	responses map[string]string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	fake := &fakeAPI{responses: map[string]string{}}
	fake.server = httptest.NewServer(http.HandlerFunc(fake.handle))
	t.Cleanup(fake.server.Close)

	return fake
}

func (f *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/rest/api/v1.1/auth/token" {
		_, _ = fmt.Fprintf(w, `{"authToken":"tok","endPoint":"%s","issuedAt":1476401899277}`, f.server.URL)

		return
	}

	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, apiCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})

	response, ok := f.responses[r.Method+" "+r.URL.Path]
	if !ok {
		response = `{}`
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(response))
}

// On sets the body returned for method and path.
func (f *fakeAPI) On(method, path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.responses[method+" "+path] = body
}

func (f *fakeAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]apiCall(nil), f.calls...)
}

// useFakeAPI points clientFactory at fake for the duration of the test.
func useFakeAPI(t *testing.T, fake *fakeAPI) {
	t.Helper()

	previous := clientFactory
	clientFactory = func(logger responsys.Logger) (responsys.Client, func(), error) {
		client, err := rsclient.New(&responsys.Config{
			LoginURL: fake.server.URL,
			Username: "user",
			Password: "pass",
			Logger:   logger,
		})

		return client, func() {}, err
	}

	t.Cleanup(func() { clientFactory = previous })
}

// setOutput selects the output format for the duration of the test.
func setOutput(t *testing.T, format string) {
	t.Helper()

	viper.Set("output", format)
	t.Cleanup(func() { viper.Set("output", "") })
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.Execute()

	return out.String(), err
}

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}
