package handlers

import (
	"path"

	"realestatecrm/internal/attachments"
	"realestatecrm/internal/logging"

	"github.com/gofiber/fiber/v2"
)

// UploadsHandler serves stored files by their reference.
type UploadsHandler struct {
	files *attachments.Manager
	log   logging.Logger
}

func NewUploadsHandler(files *attachments.Manager, log logging.Logger) *UploadsHandler {
	return &UploadsHandler{files: files, log: log}
}

func (h *UploadsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/uploads/*", h.HandleGetUpload)
}

func (h *UploadsHandler) HandleGetUpload(c *fiber.Ctx) error {
	ref := attachments.URLPrefix + c.Params("*")
	rc, err := h.files.Open(c.UserContext(), ref)
	if err != nil {
		return respondError(c, h.log, "Could not open file", err)
	}

	if ext := path.Ext(ref); ext != "" {
		c.Type(ext[1:])
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.SendStream(rc)
}
