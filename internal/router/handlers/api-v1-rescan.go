package handlers

import (
	"fmt"

	"github.com/SayaAndy/vault-gallery/internal/router"
	"github.com/gofiber/fiber/v2"
)

func init() {
	router.Routes = append(router.Routes, &ApiV1RescanHandler{})
}

// ApiV1RescanHandler re-reads the vault on demand.
type ApiV1RescanHandler struct {
	router.BasicHandler
}

func (r *ApiV1RescanHandler) Filter() (method string, path string) {
	return "POST", "/api/v1/rescan"
}

func (r *ApiV1RescanHandler) Render(c *fiber.Ctx, supplements *router.Supplements, templateMap fiber.Map) (statusCode int, err error) {
	if err = supplements.Rescan.Rescan(c.Context()); err != nil {
		return fiber.StatusInternalServerError, fmt.Errorf("failed to rescan vault: %w", err)
	}
	templateMap[router.OutputKey] = []byte(fmt.Sprintf("%d notes", len(supplements.Vault.Notes())))
	templateMap[router.ContentTypeKey] = fiber.MIMETextPlainCharsetUTF8
	return fiber.StatusOK, nil
}
