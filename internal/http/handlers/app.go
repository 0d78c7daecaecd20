package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"artisanhub/internal/config"
	applog "artisanhub/internal/log"
)

// NewApp builds the Fiber app with the middleware stack and all routes.
func NewApp(cfg config.Config, d *Deps) *fiber.App {
	engine := html.New(cfg.TemplatesDir, ".html")

	app := fiber.New(fiber.Config{
		Views:                 engine,
		BodyLimit:             cfg.MaxBodyBytes,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Something went wrong. Please try again."
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code < 500 {
				code, msg = fe.Code, fe.Message
			}
			applog.Error(c, "server.error", err, map[string]any{"code": code})
			// Avoid leaking internals; best-effort render
			if rerr := render(c.Status(code), "notfound", fiber.Map{"Message": msg}); rerr != nil {
				return c.Status(code).SendString(msg)
			}
			return nil
		},
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/uploads/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"err": err.Error()})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})
	app.Use(d.Sessions.Middleware())

	// ---------- Static assets & uploads ----------
	app.Static("/static", cfg.StaticDir)
	app.Get("/uploads/:filename", d.UploadsHandler.Serve)

	// ---------- Pages ----------
	app.Get("/", d.HomeHandler.Index)

	app.Get("/artisan_signup", d.ArtisanHandler.ShowSignup)
	app.Post("/artisan_signup", d.ArtisanHandler.DoSignup)
	app.Get("/user_signup", d.AuthHandler.ShowUserSignup)
	app.Post("/user_signup", d.AuthHandler.DoUserSignup)

	app.Get("/upload_product", RequireArtisan(), d.ProductHandler.ShowUpload)
	app.Post("/upload_product", RequireArtisan(), d.ProductHandler.DoUpload)

	app.Get("/products", d.ProductHandler.List)
	app.Get("/products.csv", d.ProductHandler.ExportCSV)
	app.Get("/product/:index", d.ProductHandler.Detail)
	app.Post("/product/:index", d.ProductHandler.Order)

	// Auth routes (login throttled)
	app.Get("/login", d.AuthHandler.ShowLogin)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        cfg.LoginRateLimit,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			c.Status(fiber.StatusTooManyRequests)
			return render(c, "login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.DoLogin)
	app.Get("/logout", d.AuthHandler.Logout)
	app.Post("/logout", d.AuthHandler.Logout)

	// API
	api := app.Group("/api/v1")
	api.Get("/products", d.ProductHandler.ListJSON)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return notFound(c, "Page not found")
	})

	return app
}
