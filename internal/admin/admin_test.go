package admin_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/iw2rmb/navedit/internal/admin"
	"github.com/iw2rmb/navedit/internal/config"
	"github.com/iw2rmb/navedit/internal/logging"
	"github.com/iw2rmb/navedit/internal/store"
	"github.com/iw2rmb/navedit/navigation"
)

const validDoc = `{"navigationItems":[{"id":"tools","title":"Tools","items":[{"title":"Go","href":"https://go.dev"}]}]}`

// fakeGitHub serves the token and user endpoints.
func fakeGitHub(t *testing.T, login string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"bad_verification_code"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"tok","token_type":"bearer","scope":"repo"}`)
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"login":"`+login+`"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type env struct {
	srv    *httptest.Server
	gh     *httptest.Server
	store  *store.Store
	clock  *clock
	client *http.Client
}

type envOption func(*config.AdminConfig)

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()
	gh := fakeGitHub(t, "alice")

	path := filepath.Join(t.TempDir(), "navigation.json")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))
	st := store.New(path, store.Options{})

	cfg := config.Default().Admin
	cfg.SessionSecret = "0123456789abcdef0123456789abcdef"
	cfg.GitHub.ClientID = "client-id"
	cfg.GitHub.ClientSecret = "client-secret"
	for _, o := range opts {
		o(&cfg)
	}

	// cookie jars expire cookies by the wall clock
	clk := &clock{now: time.Now()}
	s := admin.New(admin.Options{
		Config: cfg,
		Store:  st,
		Logger: logging.NewWithWriter(io.Discard, "debug"),
		Endpoint: &oauth2.Endpoint{
			AuthURL:  gh.URL + "/login/oauth/authorize",
			TokenURL: gh.URL + "/login/oauth/access_token",
		},
		UserURL: gh.URL + "/user",
		Now:     clk.Now,
	})
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &env{srv: srv, gh: gh, store: st, clock: clk, client: client}
}

func (e *env) do(t *testing.T, method, path string, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, e.srv.URL+path, r)
	require.NoError(t, err)
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// signIn runs the OAuth round trip and returns where the callback landed.
func (e *env) signIn(t *testing.T, callback string) *http.Response {
	t.Helper()
	resp := e.do(t, http.MethodGet, "/auth/signin?callbackUrl="+url.QueryEscape(callback), "")
	require.Equal(t, http.StatusFound, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	return e.do(t, http.MethodGet, "/auth/callback?code=good&state="+url.QueryEscape(state), "")
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type documentBody struct {
	Text   string            `json:"text"`
	Error  string            `json:"error"`
	Saved  bool              `json:"saved"`
	Report navigation.Report `json:"report"`
}

func TestGateRedirectsToSignIn(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodGet, "/admin/api/document?x=1", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/signin?callbackUrl=%2Fadmin%2Fapi%2Fdocument%3Fx%3D1", resp.Header.Get("Location"))

	resp = e.do(t, http.MethodGet, "/admin", "")
	assert.Equal(t, "/auth/signin?callbackUrl=%2Fadmin", resp.Header.Get("Location"))
}

func TestHealthzIsPublic(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSignInRedirectsToProvider(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodGet, "/auth/signin", "")
	require.Equal(t, http.StatusFound, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, e.gh.URL+"/login/oauth/authorize", loc.Scheme+"://"+loc.Host+loc.Path)
	assert.Equal(t, "repo", loc.Query().Get("scope"))
	assert.Equal(t, "client-id", loc.Query().Get("client_id"))
}

func TestSignInFlowGrantsAccess(t *testing.T) {
	e := newEnv(t)
	resp := e.signIn(t, "/admin/api/document")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/api/document", resp.Header.Get("Location"))

	resp = e.do(t, http.MethodGet, "/admin/api/document", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[documentBody](t, resp)
	assert.Equal(t, validDoc, body.Text)
	assert.True(t, body.Report.Valid)
	require.NotNil(t, body.Report.Stats)
	assert.Equal(t, 1, body.Report.Stats.Items)

	resp = e.do(t, http.MethodGet, "/admin", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", decode[map[string]any](t, resp)["user"])
}

func TestSignInIgnoresForeignCallback(t *testing.T) {
	e := newEnv(t)
	resp := e.signIn(t, "https://evil.example/steal")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
}

func TestCallbackRejectsStateMismatch(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodGet, "/auth/signin", "")
	resp := e.do(t, http.MethodGet, "/auth/callback?code=good&state=forged", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/admin/api/document", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestCallbackRejectsBadCode(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodGet, "/auth/signin", "")
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)

	resp = e.do(t, http.MethodGet, "/auth/callback?code=bad&state="+loc.Query().Get("state"), "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestCallbackRejectsUnlistedUser(t *testing.T) {
	e := newEnv(t, func(c *config.AdminConfig) { c.AllowedUsers = []string{"bob"} })
	resp := e.signIn(t, "/admin")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAllowedUsersIgnoreCase(t *testing.T) {
	e := newEnv(t, func(c *config.AdminConfig) { c.AllowedUsers = []string{"ALICE"} })
	resp := e.signIn(t, "/admin")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
}

func TestSessionExpires(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, "/admin")
	resp := e.do(t, http.MethodGet, "/admin/api/document", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	e.clock.Advance(25 * time.Hour)
	resp = e.do(t, http.MethodGet, "/admin/api/document", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestTamperedSessionRejected(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, "/admin")

	u, err := url.Parse(e.srv.URL)
	require.NoError(t, err)
	cookies := e.client.Jar.Cookies(u)
	require.NotEmpty(t, cookies)
	for _, c := range cookies {
		c.Value = strings.Replace(c.Value, ".", "x.", 1)
	}
	e.client.Jar.SetCookies(u, cookies)

	resp := e.do(t, http.MethodGet, "/admin/api/document", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestSignOut(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, "/admin")
	resp := e.do(t, http.MethodPost, "/auth/signout", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/admin/api/document", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestPutDocument(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, "/admin")

	resp := e.do(t, http.MethodPut, "/admin/api/document", `{"navigationItems": [`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[documentBody](t, resp)
	assert.NotEmpty(t, body.Error)
	assert.False(t, body.Report.Valid)

	data, err := os.ReadFile(e.store.Path())
	require.NoError(t, err)
	assert.Equal(t, validDoc, string(data), "rejected text must not be saved")

	// parseable text with semantic problems is accepted
	resp = e.do(t, http.MethodPut, "/admin/api/document", `{"navigationItems": []}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode[documentBody](t, resp)
	assert.True(t, body.Saved)
	assert.False(t, body.Report.Valid)

	data, err = os.ReadFile(e.store.Path())
	require.NoError(t, err)
	assert.Equal(t, `{"navigationItems": []}`, string(data))
}

func TestFormatEndpoint(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, "/admin")

	resp := e.do(t, http.MethodPost, "/admin/api/format", `{"a":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "{\n  \"a\": 1\n}", decode[documentBody](t, resp).Text)

	resp = e.do(t, http.MethodPost, "/admin/api/format", `{"a":"\ud800"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "{\n  \"a\": \"\\ud800\"\n}", decode[documentBody](t, resp).Text)

	resp = e.do(t, http.MethodPost, "/admin/api/format", `{"a":`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDownload(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, "/admin")

	resp := e.do(t, http.MethodGet, "/admin/api/document/download", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "attachment; filename=navigation.json", resp.Header.Get("Content-Disposition"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, validDoc, string(data))
}

func TestDocumentMissing(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, "/admin")
	require.NoError(t, os.Remove(e.store.Path()))

	resp := e.do(t, http.MethodGet, "/admin/api/document", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSchemaEndpoint(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, "/admin")

	resp := e.do(t, http.MethodGet, "/admin/api/schema", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), navigation.SchemaID)
}
