package handlers

import (
	"embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed pages/*.html
var pageFiles embed.FS

// PagesHandler serves the static HTML front end.
type PagesHandler struct {
	files embed.FS
}

// NewPagesHandler constructs handler.
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{files: pageFiles}
}

// Page returns a handler rendering pages/<name>.html.
func (h *PagesHandler) Page(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := h.files.ReadFile("pages/" + name + ".html")
		if err != nil {
			return fiber.ErrNotFound
		}
		c.Type("html", "utf-8")
		return c.Send(body)
	}
}
