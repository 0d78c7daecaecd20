package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "artisanhub/internal/log"
	"artisanhub/internal/sessions"
)

// RequireArtisan redirects to artisan signup unless the session is an artisan's.
func RequireArtisan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := sessions.From(c)
		if s == nil || s.Artisan() == "" {
			applog.Security(c, "access.denied.artisan", nil)
			return c.Redirect("/artisan_signup")
		}
		return c.Next()
	}
}
