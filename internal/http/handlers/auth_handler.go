package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "artisanhub/internal/log"
	"artisanhub/internal/services"
	"artisanhub/internal/sessions"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) ShowUserSignup(c *fiber.Ctx) error {
	return render(c, "user_signup", fiber.Map{"Form": fiber.Map{}})
}

func (h *AuthHandler) DoUserSignup(c *fiber.Ctx) error {
	pic, closePic, err := formFile(c, "profile_pic")
	if err != nil {
		return err
	}
	defer closePic()

	in := services.UserSignup{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		Picture:  pic,
	}
	form := formValues(c, "name", "email")

	u, err := h.Auth.SignupUser(c.UserContext(), in)
	if err != nil {
		return signupFailed(c, "user_signup", "auth.signup.user", form, err)
	}
	if err := sessions.From(c).LoginUser(u.Email); err != nil {
		return err
	}
	applog.Audit(c, "auth.signup.user.success", map[string]any{"email": u.Email})
	return c.Redirect("/products")
}

func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{})
}

func (h *AuthHandler) DoLogin(c *fiber.Ctx) error {
	email := c.FormValue("email")
	u, err := h.Auth.Login(c.UserContext(), email, c.FormValue("password"))
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			applog.Security(c, "auth.login.fail", map[string]any{"email": email})
			c.Status(fiber.StatusUnauthorized)
			return render(c, "login", fiber.Map{"Err": "Invalid credentials", "Email": email})
		}
		return err
	}
	if err := sessions.From(c).LoginUser(u.Email); err != nil {
		return err
	}
	applog.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return c.Redirect("/products")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	s := sessions.From(c)
	who := map[string]any{"artisan": s.Artisan(), "user": s.User()}
	if err := s.Clear(); err != nil {
		applog.Error(c, "auth.logout.fail", err, nil)
		return err
	}
	applog.Audit(c, "auth.logout", who)
	return c.Redirect("/")
}

// signupFailed maps signup errors to a redisplayed form.
func signupFailed(c *fiber.Ctx, tmpl, action string, form fiber.Map, err error) error {
	var fe *services.FieldError
	switch {
	case errors.As(err, &fe):
		applog.Info(c, action+".invalid", map[string]any{"field": fe.Field})
		c.Status(fiber.StatusBadRequest)
		return render(c, tmpl, fiber.Map{"Err": fe.Msg, "Form": form})
	case errors.Is(err, services.ErrDuplicateEmail):
		applog.Security(c, action+".duplicate", map[string]any{"email": form["email"]})
		c.Status(fiber.StatusConflict)
		return render(c, tmpl, fiber.Map{"Err": "An account with that email already exists", "Form": form})
	default:
		applog.Error(c, action+".fail", err, nil)
		return err
	}
}
