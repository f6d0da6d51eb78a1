// Package web serves the repurpose form on a local fiber server.
package web

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Checker-Finance/repurpose-client/internal/repurpose"
)

// CredentialsRequest is the body of /api/login and /api/signup.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TextRequest is the body of /api/repurpose.
type TextRequest struct {
	Text string `json:"text"`
}

// FormResponse is what the page gets back from every action: the
// notifications raised and, when shown is set, the new output region.
type FormResponse struct {
	Notices []string `json:"notices"`
	Output  string   `json:"output,omitempty"`
	Shown   bool     `json:"shown"`
	Error   string   `json:"error,omitempty"`
}

// Handler runs form actions against the service. Each request reports to its
// own recorder so concurrent browser tabs do not share notifications.
type Handler struct {
	logger *zap.Logger
	svc    *repurpose.Service
}

// NewHandler creates a new Handler.
func NewHandler(logger *zap.Logger, svc *repurpose.Service) *Handler {
	return &Handler{logger: logger, svc: svc}
}

// Login handles POST /api/login.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return h.run(c, "login", func(ctx context.Context, svc *repurpose.Service) error {
		_, err := svc.Authenticate(ctx, req.Email, req.Password)
		return err
	})
}

// Signup handles POST /api/signup.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return h.run(c, "signup", func(ctx context.Context, svc *repurpose.Service) error {
		_, err := svc.Signup(ctx, req.Email, req.Password)
		return err
	})
}

// Repurpose handles POST /api/repurpose.
func (h *Handler) Repurpose(c *fiber.Ctx) error {
	var req TextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return h.run(c, "repurpose", func(ctx context.Context, svc *repurpose.Service) error {
		_, err := svc.Repurpose(ctx, req.Text)
		return err
	})
}

// Upgrade handles POST /api/upgrade. The body is an empty JSON object.
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	var req struct{}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return h.run(c, "upgrade", func(ctx context.Context, svc *repurpose.Service) error {
		_, err := svc.Upgrade(ctx)
		return err
	})
}

// RemoteHealth handles GET /api/health by asking the repurpose service.
func (h *Handler) RemoteHealth(c *fiber.Ctx) error {
	return h.run(c, "health", func(ctx context.Context, svc *repurpose.Service) error {
		_, err := svc.Health(ctx)
		return err
	})
}

func (h *Handler) run(c *fiber.Ctx, action string, fn func(context.Context, *repurpose.Service) error) error {
	rec := &repurpose.Recorder{}
	err := fn(c.UserContext(), h.svc.WithUI(rec, rec))

	out, shown := rec.Output()
	resp := FormResponse{Notices: rec.Notices(), Output: out, Shown: shown}
	if resp.Notices == nil {
		resp.Notices = []string{}
	}
	if err != nil {
		h.logger.Error("web.action_failed", zap.String("action", action), zap.Error(err))
		resp.Error = err.Error()
		return c.Status(fiber.StatusBadGateway).JSON(resp)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
