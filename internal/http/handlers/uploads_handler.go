package handlers

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"artisanhub/internal/blob"
	applog "artisanhub/internal/log"
)

type UploadsHandler struct {
	Blobs blob.Store
}

// Serve streams a stored upload by key.
func (h *UploadsHandler) Serve(c *fiber.Ctx) error {
	name := c.Params("filename")
	raw := strings.ToLower(string(c.Request().URI().PathOriginal()))
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) ||
		strings.Contains(raw, "%2e") || strings.Contains(raw, "%2f") || strings.Contains(raw, "%5c") {
		applog.Security(c, "uploads.traversal", map[string]any{"raw": raw})
		return notFound(c, "File not found")
	}

	rc, err := h.Blobs.Open(c.UserContext(), name)
	if errors.Is(err, blob.ErrNotFound) || errors.Is(err, blob.ErrInvalidKey) {
		return notFound(c, "File not found")
	}
	if err != nil {
		applog.Error(c, "uploads.open.fail", err, map[string]any{"key": name})
		return err
	}
	ct := utils.GetMIME(filepath.Ext(name))
	if ct == "" {
		ct = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, ct)
	return c.SendStream(rc)
}
