package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newExec(client *http.Client) *Executor {
	return New(zap.NewNop(), client, "test")
}

// ─── Basic success ────────────────────────────────────────────────────────────

func TestDoJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"result": "ok"})
	}))
	defer srv.Close()

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)

	var out map[string]string
	resp, err := newExec(srv.Client()).DoJSON(context.Background(), req, &out)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "ok", out["result"])
}

// ─── Non-2xx bodies are decoded, not turned into errors ──────────────────────

func TestDoJSON_ErrorStatusStillDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid credentials"}`))
	}))
	defer srv.Close()

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL, nil)

	var out map[string]string
	resp, err := newExec(srv.Client()).DoJSON(context.Background(), req, &out)
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", out["detail"])
}

// ─── Single attempt only ─────────────────────────────────────────────────────

func TestDo_NoRetryOn5xx(t *testing.T) {
	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		count.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
	resp, err := newExec(srv.Client()).Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.EqualValues(t, 1, count.Load(), "exactly one attempt")
}

// ─── Request id ──────────────────────────────────────────────────────────────

func TestDo_SetsRequestID(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
	resp, err := newExec(srv.Client()).Do(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, resp.RequestID)
}

func TestDo_KeepsCallerRequestID(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	}))
	defer srv.Close()

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	_, err := newExec(srv.Client()).Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", seen)
}

// ─── Transport failure ───────────────────────────────────────────────────────

func TestDo_TransportError(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, "http://repurpose.invalid/login", nil)
	resp, err := newExec(client).Do(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "POST /login")
	assert.Contains(t, err.Error(), "connection refused")
}

// ─── JSON decode error ────────────────────────────────────────────────────────

func TestDoJSON_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)

	var out map[string]any
	resp, err := newExec(srv.Client()).DoJSON(context.Background(), req, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode failed")
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
