package handlers

import (
	"github.com/gofiber/fiber/v2"

	"artisanhub/internal/services"
)

// formFile opens the named multipart file. A missing file yields a nil
// *services.File and a no-op closer.
func formFile(c *fiber.Ctx, name string) (*services.File, func(), error) {
	fh, err := c.FormFile(name)
	if err != nil || fh == nil || fh.Filename == "" {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &services.File{Name: fh.Filename, Body: f}, func() { _ = f.Close() }, nil
}

// formValues echoes non-secret fields back into a redisplayed form.
func formValues(c *fiber.Ctx, names ...string) fiber.Map {
	m := fiber.Map{}
	for _, n := range names {
		m[n] = c.FormValue(n)
	}
	return m
}
