package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/SayaAndy/vault-gallery/internal/litegal"
	"github.com/SayaAndy/vault-gallery/internal/router"
	"github.com/SayaAndy/vault-gallery/internal/vault"
	"github.com/gofiber/fiber/v2"
)

func init() {
	router.Routes = append(router.Routes, &ApiV1InsertHandler{})
}

// ApiV1InsertHandler inserts an empty gallery block into a note.
type ApiV1InsertHandler struct {
	router.BasicHandler
}

type insertResponse struct {
	Note   string `json:"note"`
	Line   int    `json:"line"`
	Cursor int    `json:"cursor"`
}

func (r *ApiV1InsertHandler) Filter() (method string, path string) {
	return "POST", "/api/v1/insert"
}

func (r *ApiV1InsertHandler) Render(c *fiber.Ctx, supplements *router.Supplements, templateMap fiber.Map) (statusCode int, err error) {
	notePath := c.Query("note")
	line := c.QueryInt("line", -1)

	res, ok := supplements.Vault.Stat(notePath)
	if !ok || !res.IsNote() {
		return fiber.StatusNotFound, fmt.Errorf("note '%s' is not found", notePath)
	}

	content, err := supplements.Vault.ReadFile(c.Context(), res.Path)
	if err != nil {
		return fiber.StatusInternalServerError, fmt.Errorf("failed to read note '%s': %w", res.Path, err)
	}

	// No line means the end of the note.
	if line < 0 {
		line = math.MaxInt
	}
	updated, cursor := litegal.InsertTemplate(string(content), line)

	err = supplements.Vault.WriteFile(c.Context(), res.Path, []byte(updated))
	if errors.Is(err, vault.ErrReadOnly) {
		return fiber.StatusForbidden, err
	}
	if err != nil {
		return fiber.StatusInternalServerError, fmt.Errorf("failed to write note '%s': %w", res.Path, err)
	}
	supplements.PageCache.Clear()

	body, err := json.Marshal(insertResponse{Note: res.Path, Line: cursor - 1, Cursor: cursor})
	if err != nil {
		return fiber.StatusInternalServerError, fmt.Errorf("failed to encode response: %w", err)
	}
	templateMap[router.OutputKey] = body
	templateMap[router.ContentTypeKey] = fiber.MIMEApplicationJSON
	return fiber.StatusOK, nil
}
