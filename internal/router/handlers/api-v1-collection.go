package handlers

import (
	"errors"
	"fmt"

	"github.com/SayaAndy/vault-gallery/internal/collection"
	"github.com/SayaAndy/vault-gallery/internal/galleryui"
	"github.com/SayaAndy/vault-gallery/internal/router"
	"github.com/gofiber/fiber/v2"
)

func init() {
	router.Routes = append(router.Routes, &ApiV1CollectionHandler{})
}

type ApiV1CollectionHandler struct {
	router.BasicHandler
}

func (r *ApiV1CollectionHandler) Filter() (method string, path string) {
	return "POST", "/api/v1/collection/:id/:action"
}

func (r *ApiV1CollectionHandler) Render(c *fiber.Ctx, supplements *router.Supplements, templateMap fiber.Map) (statusCode int, err error) {
	id := c.Params("id")

	view, ok := supplements.Collections.Get(id)
	if !ok {
		return fiber.StatusNotFound, errors.New(supplements.Localization.Gallery.Expired)
	}

	ev := collection.Event{
		Event: galleryEvent(c),
		X:     c.QueryInt("x"),
		Right: c.QueryInt("right"),
		Width: c.QueryInt("width"),
	}
	if err = view.Dispatch(c.Context(), ev); err != nil {
		switch {
		case errors.Is(err, galleryui.ErrUnknownAction):
			return fiber.StatusBadRequest, err
		case errors.Is(err, collection.ErrNoGallery):
			return fiber.StatusConflict, err
		}
		return fiber.StatusInternalServerError, fmt.Errorf("failed to apply '%s' to collection '%s': %w", ev.Action, id, err)
	}

	templateMap[router.OutputKey] = []byte(view.Render())
	return fiber.StatusOK, nil
}
