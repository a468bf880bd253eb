package handlers

import (
	"errors"
	"fmt"
	"mime"

	"github.com/SayaAndy/vault-gallery/internal/router"
	"github.com/SayaAndy/vault-gallery/internal/vault"
	"github.com/gofiber/fiber/v2"
	"github.com/h2non/filetype"
)

func init() {
	router.Routes = append(router.Routes, &VaultFileHandler{})
}

// VaultFileHandler serves raw vault files, the images of every gallery
// included.
type VaultFileHandler struct {
	router.BasicHandler
}

func (r *VaultFileHandler) Filter() (method string, path string) {
	return "GET", vault.URLPrefix + "*"
}

func (r *VaultFileHandler) Render(c *fiber.Ctx, supplements *router.Supplements, templateMap fiber.Map) (statusCode int, err error) {
	filePath := c.Params("*")

	res, ok := supplements.Vault.Stat(filePath)
	if !ok {
		return fiber.StatusNotFound, fmt.Errorf("file '%s' is not found", filePath)
	}

	data, err := supplements.Vault.ReadFile(c.Context(), res.Path)
	if errors.Is(err, vault.ErrNotExist) {
		return fiber.StatusNotFound, fmt.Errorf("file '%s' is not found", filePath)
	}
	if err != nil {
		return fiber.StatusInternalServerError, fmt.Errorf("failed to read file '%s': %w", filePath, err)
	}

	templateMap[router.OutputKey] = data
	templateMap[router.ContentTypeKey] = contentType(res, data)
	return fiber.StatusOK, nil
}

func contentType(res *vault.Resource, data []byte) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if res.IsNote() {
		return "text/markdown; charset=utf-8"
	}
	if byExt := mime.TypeByExtension("." + res.Ext); byExt != "" {
		return byExt
	}
	return fiber.MIMEOctetStream
}
