package handlers

import (
	"github.com/gofiber/fiber/v2"

	"artisanhub/internal/sessions"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Identity loaded by the session middleware
	for _, k := range []string{"Artisan", "User"} {
		if v := c.Locals(k); v != nil {
			data[k] = v
		}
	}
	// Flashes are consumed only by a rendered page
	if s := sessions.From(c); s != nil {
		if fl := s.PopFlashes(); len(fl) > 0 {
			data["Flashes"] = fl
		}
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		// Fallback: the cookie carries the same token when Locals wasn't populated
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

func notFound(c *fiber.Ctx, msg string) error {
	c.Status(fiber.StatusNotFound)
	return render(c, "notfound", fiber.Map{"Message": msg})
}
