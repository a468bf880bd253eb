package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/SayaAndy/vault-gallery/internal/router"
	"github.com/SayaAndy/vault-gallery/internal/vault"
	"github.com/gofiber/fiber/v2"
)

func init() {
	router.Routes = append(router.Routes, &NoteHandler{})
}

type NoteHandler struct {
	router.BasicHandler
}

func (r *NoteHandler) Filter() (method string, path string) {
	return "GET", vault.NoteURLPrefix + "*"
}

func (r *NoteHandler) TemplatesToInject() []string {
	return []string{"layouts/base.html", "pages/note.html"}
}

func (r *NoteHandler) ToCache() router.CacheSetting {
	return router.ByUrlOnly
}

func (r *NoteHandler) Render(c *fiber.Ctx, supplements *router.Supplements, templateMap fiber.Map) (statusCode int, err error) {
	notePath := c.Params("*")

	page, err := supplements.Notes.Render(c.Context(), notePath)
	if errors.Is(err, vault.ErrNotExist) {
		return fiber.StatusNotFound, fmt.Errorf("note '%s' is not found", notePath)
	}
	if err != nil {
		return fiber.StatusInternalServerError, fmt.Errorf("failed to render note '%s': %w", notePath, err)
	}

	var modified string
	if res, ok := supplements.Vault.Stat(notePath); ok {
		modified = res.ModTime.Format(time.DateTime)
	}

	templateMap["Title"] = page.Title
	templateMap["Page"] = page
	templateMap["Modified"] = modified
	templateMap["CanInsert"] = supplements.Vault.Capabilities().Write
	templateMap[router.NoCacheKey] = page.Galleries > 0
	return fiber.StatusOK, nil
}
