package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/repurpose-client/internal/credential"
	"github.com/Checker-Finance/repurpose-client/internal/render"
	"github.com/Checker-Finance/repurpose-client/internal/repurpose"
	"github.com/Checker-Finance/repurpose-client/internal/repurpose/repurposetest"
)

// ─── Test app helpers ─────────────────────────────────────────────────────────

type fixture struct {
	srv   *repurposetest.Server
	store *credential.MemoryStore
	h     *Handler
}

func newFixture(t *testing.T, opts repurpose.Options) *fixture {
	t.Helper()
	srv := repurposetest.NewServer(t)
	store := credential.NewMemoryStore()
	session := credential.NewSession(zap.NewNop(), store, credential.DefaultKey)
	client := repurpose.NewClient(zap.NewNop(), srv.URL, srv.Client())
	svc := repurpose.NewService(zap.NewNop(), client, session, nil, nil, opts)
	return &fixture{srv: srv, store: store, h: NewHandler(zap.NewNop(), svc)}
}

func post(t *testing.T, f *fixture, path, body string) (int, FormResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := NewApp(f.h).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out FormResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// ─── Page ─────────────────────────────────────────────────────────────────────

func TestIndex_HasFormFields(t *testing.T) {
	f := newFixture(t, repurpose.Options{})

	resp, err := NewApp(f.h).Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	for _, id := range []string{`id="email"`, `id="password"`, `id="text"`, `id="output"`} {
		assert.Contains(t, string(b), id)
	}
}

func TestLocalHealth(t *testing.T) {
	f := newFixture(t, repurpose.Options{})

	resp, err := NewApp(f.h).Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, f.srv.Calls())
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, repurpose.Options{})

	resp, err := NewApp(f.h).Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ─── Actions ──────────────────────────────────────────────────────────────────

func TestLogin_StoresToken(t *testing.T) {
	f := newFixture(t, repurpose.Options{})

	code, out := post(t, f, "/api/login", `{"email":"a@b.com","password":"pw"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{repurpose.MsgLoginSuccess}, out.Notices)
	assert.False(t, out.Shown)

	tok, ok, err := f.store.Get(context.Background(), credential.DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T1", tok)

	calls := f.srv.CallsTo("/login")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"email":"a@b.com","password":"pw"}`, string(calls[0].Body))
}

func TestLogin_RejectedNotifiesDetail(t *testing.T) {
	f := newFixture(t, repurpose.Options{})
	f.srv.Reply("/login", http.StatusUnauthorized, `{"detail":"Invalid credentials"}`)

	code, out := post(t, f, "/api/login", `{"email":"a@b.com","password":"bad"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Invalid credentials"}, out.Notices)
	assert.Empty(t, out.Error)
}

func TestRepurpose_WithoutLogin(t *testing.T) {
	f := newFixture(t, repurpose.Options{})

	code, out := post(t, f, "/api/repurpose", `{"text":"Hello world"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{repurpose.MsgLoginFirst}, out.Notices)
	assert.False(t, out.Shown)
	assert.Empty(t, f.srv.CallsTo("/repurpose"))
}

func TestRepurpose_AfterLogin(t *testing.T) {
	f := newFixture(t, repurpose.Options{})
	post(t, f, "/api/login", `{"email":"a@b.com","password":"pw"}`)

	code, out := post(t, f, "/api/repurpose", `{"text":"Hello world"}`)
	assert.Equal(t, http.StatusOK, code)
	require.True(t, out.Shown)

	want, err := render.PrettyJSON([]byte(`{"posts":{"twitter":"Hello world #t"}}`))
	require.NoError(t, err)
	assert.Equal(t, want, out.Output)

	calls := f.srv.CallsTo("/repurpose")
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer T1", calls[0].Authorization)
	assert.JSONEq(t, `{"text":"Hello world","targets":["twitter","linkedin"]}`, string(calls[0].Body))
}

func TestUpgrade_AfterLogin(t *testing.T) {
	f := newFixture(t, repurpose.Options{})
	post(t, f, "/api/login", `{"email":"a@b.com","password":"pw"}`)

	code, out := post(t, f, "/api/upgrade", `{}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Upgraded to Pro successfully"}, out.Notices)
}

func TestAction_TransportFailureIsBadGateway(t *testing.T) {
	f := newFixture(t, repurpose.Options{})
	f.srv.Close()

	code, out := post(t, f, "/api/login", `{"email":"a@b.com","password":"pw"}`)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Contains(t, out.Error, "login")
}

func TestAction_BadBody(t *testing.T) {
	f := newFixture(t, repurpose.Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := NewApp(f.h).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
