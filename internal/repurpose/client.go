package repurpose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Checker-Finance/repurpose-client/internal/httpclient"
)

// Client wraps low-level HTTP communication with the repurpose service.
// It does not touch the credential slot; tokens are passed in per call.
type Client struct {
	logger  *zap.Logger
	exec    *httpclient.Executor
	baseURL string
}

// NewClient constructs a client for the service at baseURL.
// httpClient may be nil to use http.DefaultClient (no timeout).
func NewClient(logger *zap.Logger, baseURL string, httpClient *http.Client) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		logger:  logger,
		exec:    httpclient.New(logger, httpClient, "repurpose"),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Login exchanges email and password for an access token.
// POST /login
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	raw, err := c.postJSON(ctx, "/login", "", req, &resp)
	if raw != nil && !raw.OK() {
		return nil, statusError(raw, resp.Detail)
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup creates an account. It does not log in.
// POST /signup
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	var resp SignupResponse
	raw, err := c.postJSON(ctx, "/signup", "", req, &resp)
	if raw != nil && !raw.OK() {
		return nil, statusError(raw, resp.Detail)
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Upgrade moves the authenticated user to the paid plan.
// POST /upgrade
func (c *Client) Upgrade(ctx context.Context, token string) (*UpgradeResponse, error) {
	var resp UpgradeResponse
	raw, err := c.postJSON(ctx, "/upgrade", token, nil, &resp)
	if raw != nil && !raw.OK() {
		return nil, statusError(raw, resp.Detail)
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Repurpose submits text for the given targets. The reply is returned as-is
// whatever its status; only a body that is not JSON is an error.
// POST /repurpose
func (c *Client) Repurpose(ctx context.Context, token string, req RepurposeRequest) (*httpclient.Response, error) {
	var body json.RawMessage
	return c.postJSON(ctx, "/repurpose", token, req, &body)
}

// Health fetches the service health document.
// GET /health
func (c *Client) Health(ctx context.Context) (*httpclient.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	var body json.RawMessage
	return c.exec.DoJSON(ctx, httpReq, &body)
}

// postJSON performs a POST with a JSON body, attaching the bearer token when set.
func (c *Client) postJSON(ctx context.Context, path, token string, body any, out any) (*httpclient.Response, error) {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", path, err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	setHeaders(httpReq, token)

	return c.exec.DoJSON(ctx, httpReq, out)
}

// setHeaders sets the JSON headers and, if present, the bearer token.
func setHeaders(req *http.Request, bearerToken string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}
}

// statusError builds a StatusError, falling back to the status text when the
// service sent no detail or a body that is not JSON.
func statusError(raw *httpclient.Response, detail Detail) *StatusError {
	msg := detail.String()
	if msg == "" {
		msg = http.StatusText(raw.StatusCode)
	}
	return &StatusError{
		StatusCode: raw.StatusCode,
		Detail:     msg,
		Body:       raw.Body,
	}
}
