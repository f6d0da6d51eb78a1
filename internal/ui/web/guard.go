package web

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// SameOrigin only lets through requests the form page itself could have
// sent: same-site fetch metadata, an Origin naming this host, and JSON
// bodies on anything but GET. Other sites can reach 127.0.0.1 through the
// user's browser, and plain form posts get no CORS preflight.
func SameOrigin(c *fiber.Ctx) error {
	switch c.Get("Sec-Fetch-Site") {
	case "", "same-origin", "none":
	default:
		return reject(c, "cross-site request")
	}

	if origin := c.Get(fiber.HeaderOrigin); origin != "" {
		u, err := url.Parse(origin)
		if err != nil || u.Host != string(c.Request().Host()) {
			return reject(c, "origin not allowed")
		}
	}

	if c.Method() != fiber.MethodGet && !c.Is("json") {
		return reject(c, "content type must be application/json")
	}
	return c.Next()
}

func reject(c *fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": reason})
}
