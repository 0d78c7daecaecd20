package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "artisanhub/internal/log"
	"artisanhub/internal/services"
	"artisanhub/internal/sessions"
)

type ArtisanHandler struct {
	Auth *services.AuthService
}

func (h *ArtisanHandler) ShowSignup(c *fiber.Ctx) error {
	return render(c, "artisan_signup", fiber.Map{"Form": fiber.Map{}})
}

func (h *ArtisanHandler) DoSignup(c *fiber.Ctx) error {
	pic, closePic, err := formFile(c, "profile_pic")
	if err != nil {
		return err
	}
	defer closePic()

	in := services.ArtisanSignup{
		Name:     c.FormValue("name"),
		Phone:    c.FormValue("phone"),
		Email:    c.FormValue("email"),
		Address:  c.FormValue("address"),
		Skills:   c.FormValue("skills"),
		BankInfo: c.FormValue("bank_info"),
		Picture:  pic,
	}
	form := formValues(c, "name", "phone", "email", "address", "skills")

	a, err := h.Auth.SignupArtisan(c.UserContext(), in)
	if err != nil {
		return signupFailed(c, "artisan_signup", "auth.signup.artisan", form, err)
	}
	if err := sessions.From(c).LoginArtisan(a.Email); err != nil {
		return err
	}
	applog.Audit(c, "auth.signup.artisan.success", map[string]any{"email": a.Email})
	return c.Redirect("/upload_product")
}
