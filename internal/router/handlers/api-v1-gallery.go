package handlers

import (
	"errors"
	"fmt"

	"github.com/SayaAndy/vault-gallery/internal/galleryui"
	"github.com/SayaAndy/vault-gallery/internal/router"
	"github.com/gofiber/fiber/v2"
)

func init() {
	router.Routes = append(router.Routes, &ApiV1GalleryHandler{})
}

// ApiV1GalleryHandler applies one browser event to a live gallery and
// answers with its new markup.
type ApiV1GalleryHandler struct {
	router.BasicHandler
}

func (r *ApiV1GalleryHandler) Filter() (method string, path string) {
	return "POST", "/api/v1/gallery/:id/:action"
}

func (r *ApiV1GalleryHandler) Render(c *fiber.Ctx, supplements *router.Supplements, templateMap fiber.Map) (statusCode int, err error) {
	id := c.Params("id")

	g, ok := supplements.Galleries.Get(id)
	if !ok {
		return fiber.StatusNotFound, errors.New(supplements.Localization.Gallery.Expired)
	}

	ev := galleryEvent(c)
	if err = g.Dispatch(c.Context(), ev); err != nil {
		if errors.Is(err, galleryui.ErrUnknownAction) {
			return fiber.StatusBadRequest, err
		}
		return fiber.StatusInternalServerError, fmt.Errorf("failed to apply '%s' to gallery '%s': %w", ev.Action, id, err)
	}

	templateMap[router.OutputKey] = []byte(g.Render())
	return fiber.StatusOK, nil
}

func galleryEvent(c *fiber.Ctx) galleryui.Event {
	return galleryui.Event{
		Action: c.Params("action"),
		Index:  c.QueryInt("i"),
		Target: galleryui.Target(c.Query("target")),
		Key:    c.Query("key"),
		From:   c.QueryInt("from"),
		To:     c.QueryInt("to"),
	}
}
