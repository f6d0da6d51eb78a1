package repurpose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Checker-Finance/repurpose-client/internal/credential"
	"github.com/Checker-Finance/repurpose-client/internal/metrics"
	"github.com/Checker-Finance/repurpose-client/internal/render"
	"github.com/Checker-Finance/repurpose-client/pkg/utils"
)

// User-facing messages.
const (
	MsgLoginSuccess  = "Login successful"
	MsgLoginFirst    = "Please login first"
	MsgTokenMissing  = "Login response did not include an access token"
	MsgSignupSuccess = "Signup successful"
	MsgUpgradeOK     = "Upgrade successful"
)

// DefaultTargets is the target list sent when none is configured.
var DefaultTargets = []string{"twitter", "linkedin"}

// Options tune repurpose requests.
type Options struct {
	// Targets is sent verbatim; empty means DefaultTargets.
	Targets []string
	// Variations is sent as n_variations when > 0.
	Variations int
	// Strict turns non-2xx repurpose replies into notifications instead of
	// rendering their body in the output region.
	Strict bool
}

// Service binds the service client, the credential slot and a UI surface.
// Service failures are reported through the Notifier; only transport, decode
// and storage failures come back as errors.
type Service struct {
	logger   *zap.Logger
	client   *Client
	session  *credential.Session
	notifier Notifier
	display  Display
	opts     Options
}

// NewService constructs a Service.
func NewService(
	logger *zap.Logger,
	client *Client,
	session *credential.Session,
	notifier Notifier,
	display Display,
	opts Options,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.Targets) == 0 {
		opts.Targets = append([]string(nil), DefaultTargets...)
	}
	return &Service{
		logger:   logger,
		client:   client,
		session:  session,
		notifier: notifier,
		display:  display,
		opts:     opts,
	}
}

// WithUI returns a copy of s that reports to a different notifier and display.
// The client and credential slot are shared.
func (s *Service) WithUI(notifier Notifier, display Display) *Service {
	cp := *s
	cp.notifier = notifier
	cp.display = display
	return &cp
}

// Options returns the effective request options.
func (s *Service) Options() Options {
	o := s.opts
	o.Targets = append([]string(nil), s.opts.Targets...)
	return o
}

// Authenticate logs in and stores the returned token.
// A rejected login is notified with the service detail and returns "" with a
// nil error; the previously stored token is left as it was.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	resp, err := s.client.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			s.logger.Info("repurpose.login_rejected",
				zap.String("email", email),
				zap.Int("status", se.StatusCode))
			s.notify("login_rejected", se.Detail)
			return "", nil
		}
		s.logger.Error("repurpose.login_failed", zap.String("email", email), zap.Error(err))
		return "", fmt.Errorf("login: %w", err)
	}

	if resp.AccessToken == "" {
		s.logger.Warn("repurpose.login_missing_token", zap.String("email", email))
		s.notify("login_missing_token", MsgTokenMissing)
		return "", nil
	}

	if err := s.session.SetToken(ctx, resp.AccessToken); err != nil {
		metrics.IncError("credential", "set_failed")
		return "", err
	}

	s.logger.Info("repurpose.login_success",
		zap.String("email", email),
		zap.String("token", utils.MaskToken(resp.AccessToken)))
	s.notify("login_ok", MsgLoginSuccess)
	return resp.AccessToken, nil
}

// Repurpose submits text with the stored token and shows the reply.
// Without a stored token it notifies MsgLoginFirst and sends nothing.
// It returns nil when nothing was shown.
func (s *Service) Repurpose(ctx context.Context, text string) (*Result, error) {
	token, ok, err := s.requireToken(ctx)
	if err != nil || !ok {
		return nil, err
	}

	req := RepurposeRequest{
		Text:        text,
		Targets:     s.opts.Targets,
		NVariations: s.opts.Variations,
	}
	raw, err := s.client.Repurpose(ctx, token, req)
	if err != nil {
		s.logger.Error("repurpose.request_failed", zap.Error(err))
		return nil, fmt.Errorf("repurpose: %w", err)
	}

	if !raw.OK() {
		s.logger.Warn("repurpose.error_status",
			zap.Int("status", raw.StatusCode),
			zap.Bool("strict", s.opts.Strict),
			zap.String("request_id", raw.RequestID))
		if s.opts.Strict {
			var resp struct {
				Detail Detail `json:"detail"`
			}
			_ = json.Unmarshal(raw.Body, &resp)
			s.notify("repurpose_rejected", statusError(raw, resp.Detail).Detail)
			return nil, nil
		}
	}

	return s.show(raw.StatusCode, raw.Body)
}

// Signup creates an account and notifies the outcome. It reports whether the
// service accepted it.
func (s *Service) Signup(ctx context.Context, email, password string) (bool, error) {
	resp, err := s.client.Signup(ctx, SignupRequest{Email: email, Password: password})
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			s.logger.Info("repurpose.signup_rejected", zap.String("email", email), zap.Int("status", se.StatusCode))
			s.notify("signup_rejected", se.Detail)
			return false, nil
		}
		return false, fmt.Errorf("signup: %w", err)
	}

	msg := resp.Message
	if msg == "" {
		msg = MsgSignupSuccess
	}
	s.logger.Info("repurpose.signup_success", zap.String("email", email), zap.String("plan", resp.Plan))
	s.notify("signup_ok", msg)
	return true, nil
}

// Upgrade requests the paid plan for the stored token's user.
func (s *Service) Upgrade(ctx context.Context) (bool, error) {
	token, ok, err := s.requireToken(ctx)
	if err != nil || !ok {
		return false, err
	}

	resp, err := s.client.Upgrade(ctx, token)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			s.notify("upgrade_rejected", se.Detail)
			return false, nil
		}
		return false, fmt.Errorf("upgrade: %w", err)
	}
	msg := resp.Message
	if msg == "" {
		msg = MsgUpgradeOK
	}
	s.notify("upgrade_ok", msg)
	return true, nil
}

// Health fetches and shows the service health document. No token is needed.
func (s *Service) Health(ctx context.Context) (*Result, error) {
	raw, err := s.client.Health(ctx)
	if err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}
	return s.show(raw.StatusCode, raw.Body)
}

// requireToken reads the slot, notifying MsgLoginFirst when it is empty.
func (s *Service) requireToken(ctx context.Context) (string, bool, error) {
	token, err := s.session.Token(ctx)
	if err != nil {
		metrics.IncError("credential", "get_failed")
		return "", false, err
	}
	if token == "" {
		s.logger.Info("repurpose.missing_credential", zap.String("key", s.session.Key()))
		s.notify("missing_credential", MsgLoginFirst)
		return "", false, nil
	}
	return token, true, nil
}

func (s *Service) show(status int, body []byte) (*Result, error) {
	out, err := render.PrettyJSON(body)
	if err != nil {
		return nil, err
	}
	if s.display != nil {
		s.display.Show(out)
	}
	return &Result{StatusCode: status, Body: body, Output: out}, nil
}

func (s *Service) notify(kind, msg string) {
	metrics.IncNotification(kind)
	if s.notifier != nil {
		s.notifier.Notify(msg)
	}
}

// IsSuccess reports whether a result carries a 2xx status.
func IsSuccess(r *Result) bool {
	return r != nil && r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}
