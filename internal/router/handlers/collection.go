package handlers

import (
	"errors"
	"fmt"
	"html/template"

	"github.com/SayaAndy/vault-gallery/internal/collection"
	"github.com/SayaAndy/vault-gallery/internal/galleryui"
	"github.com/SayaAndy/vault-gallery/internal/router"
	"github.com/SayaAndy/vault-gallery/internal/vault"
	"github.com/gofiber/fiber/v2"
)

func init() {
	router.Routes = append(router.Routes, &CollectionHandler{})
}

// CollectionHandler shows every image of a folder or a tag in one gallery
// with a metadata sidebar.
type CollectionHandler struct {
	router.BasicHandler
}

func (r *CollectionHandler) Filter() (method string, path string) {
	return "GET", "/collection"
}

func (r *CollectionHandler) TemplatesToInject() []string {
	return []string{"layouts/base.html", "pages/collection.html"}
}

func (r *CollectionHandler) Render(c *fiber.Ctx, supplements *router.Supplements, templateMap fiber.Map) (statusCode int, err error) {
	if !supplements.Config.Features.CollectionView {
		return fiber.StatusNotFound, errors.New("collection view is disabled")
	}

	query := collection.Query{
		Folder:    c.Query("folder", vault.RootFolder),
		Tag:       c.Query("tag"),
		Recursive: c.QueryBool("recursive", true),
	}
	rows, err := query.Rows(supplements.Vault)
	if errors.Is(err, vault.ErrFolderNotFound) {
		return fiber.StatusNotFound, fmt.Errorf("folder '%s' is not found", query.Folder)
	}
	if err != nil {
		return fiber.StatusInternalServerError, fmt.Errorf("failed to query collection: %w", err)
	}

	showReferenced := c.QueryBool("showReferenced", false)
	view := collection.NewView(c.Context(), supplements.Vault, rows, collection.Options{
		ShowReferenced: showReferenced,
	}, collection.ViewOptions{
		ID:              galleryui.NewID(),
		ContainerHeight: c.QueryInt("height"),
		Base:            supplements.Settings.Defaults(),
		Loader:          supplements.Loaders.Loader(),
		LazyMarginPx:    supplements.Config.Loader.LazyMarginPx,
		ThumbSlotPx:     supplements.Config.Loader.ThumbSlotPx,
		Labels:          supplements.Localization.CollectionLabels(),
	})
	if view.Gallery() != nil {
		supplements.Collections.Put(view.ID(), view)
	}

	templateMap["Title"] = supplements.Localization.Collection.Header
	templateMap["Query"] = query
	templateMap["ShowReferenced"] = showReferenced
	templateMap["View"] = template.HTML(view.Render())
	return fiber.StatusOK, nil
}
