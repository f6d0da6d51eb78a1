package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Checker-Finance/repurpose-client/internal/metrics"
)

// RequestIDHeader carries a per-call correlation id.
const RequestIDHeader = "X-Request-ID"

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Executor performs single-attempt HTTP calls and reads the whole body.
// Status codes are not interpreted here; callers decide what a failure is.
type Executor struct {
	logger *zap.Logger
	http   *http.Client
	tag    string
}

// New creates an Executor. tag prefixes log events (e.g. "repurpose").
func New(logger *zap.Logger, httpClient *http.Client, tag string) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Executor{
		logger: logger,
		http:   httpClient,
		tag:    tag,
	}
}

// Do executes req once. Only transport and body-read failures are returned as errors.
func (e *Executor) Do(ctx context.Context, req *http.Request) (*Response, error) {
	req = req.WithContext(ctx)
	reqID := req.Header.Get(RequestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
		req.Header.Set(RequestIDHeader, reqID)
	}

	endpoint := req.URL.Path
	start := time.Now()

	resp, err := e.http.Do(req)
	if err != nil {
		metrics.ObserveRequest(endpoint, req.Method, "transport_error", start)
		metrics.IncError(e.tag, "transport")
		e.logger.Warn(e.tag+".http_failed",
			zap.String("url", req.URL.String()),
			zap.String("request_id", reqID),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", req.Method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveRequest(endpoint, req.Method, "read_error", start)
		metrics.IncError(e.tag, "read_body")
		return nil, fmt.Errorf("%s %s: read body: %w", req.Method, endpoint, err)
	}

	metrics.ObserveRequest(endpoint, req.Method, strconv.Itoa(resp.StatusCode), start)
	e.logger.Debug(e.tag+".http_done",
		zap.String("url", req.URL.String()),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		RequestID:  reqID,
	}, nil
}

// DoJSON executes req and JSON-decodes the body into out regardless of status.
// A body that is not valid JSON is an error; the response is still returned.
func (e *Executor) DoJSON(ctx context.Context, req *http.Request, out any) (*Response, error) {
	resp, err := e.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return resp, nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		metrics.IncError(e.tag, "decode")
		e.logger.Warn(e.tag+".decode_failed",
			zap.Error(err),
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(resp.Body)))
		return resp, fmt.Errorf("decode failed (status %d): %w", resp.StatusCode, err)
	}
	return resp, nil
}
