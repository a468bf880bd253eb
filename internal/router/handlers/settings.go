package handlers

import (
	"fmt"

	"github.com/SayaAndy/vault-gallery/internal/gallery"
	"github.com/SayaAndy/vault-gallery/internal/router"
	"github.com/SayaAndy/vault-gallery/internal/settings"
	"github.com/gofiber/fiber/v2"
)

func init() {
	router.Routes = append(router.Routes, &SettingsHandler{}, &SettingsSaveHandler{})
}

type settingsField struct {
	Key     string
	Label   string
	Help    string
	Options []string
	Value   string
}

func settingsFields(current gallery.Settings) []settingsField {
	fields := make([]settingsField, 0, len(settings.Fields))
	for _, f := range settings.Fields {
		fields = append(fields, settingsField{
			Key:     f.Key,
			Label:   f.Label,
			Help:    f.Help,
			Options: f.Options,
			Value:   f.Value(current),
		})
	}
	return fields
}

// SettingsHandler shows the plugin-wide gallery defaults.
type SettingsHandler struct {
	router.BasicHandler
}

func (r *SettingsHandler) Filter() (method string, path string) {
	return "GET", "/settings"
}

func (r *SettingsHandler) TemplatesToInject() []string {
	return []string{"layouts/base.html", "pages/settings.html"}
}

func (r *SettingsHandler) Render(c *fiber.Ctx, supplements *router.Supplements, templateMap fiber.Map) (statusCode int, err error) {
	templateMap["Title"] = supplements.Localization.Settings.Header
	templateMap["Fields"] = settingsFields(supplements.Settings.Defaults())
	return fiber.StatusOK, nil
}

// SettingsSaveHandler persists a submitted settings form. Already rendered
// pages are dropped from the cache so new galleries pick the defaults up.
type SettingsSaveHandler struct {
	router.BasicHandler
}

func (r *SettingsSaveHandler) Filter() (method string, path string) {
	return "POST", "/settings"
}

func (r *SettingsSaveHandler) TemplatesToInject() []string {
	return []string{"layouts/base.html", "pages/settings.html"}
}

func (r *SettingsSaveHandler) Render(c *fiber.Ctx, supplements *router.Supplements, templateMap fiber.Map) (statusCode int, err error) {
	templateMap["Title"] = supplements.Localization.Settings.Header

	record := make(map[string]string, len(settings.Fields))
	for _, key := range settings.Keys() {
		if value := c.FormValue(key); value != "" {
			record[key] = value
		}
	}

	current := supplements.Settings.Defaults()
	updated, err := settings.Apply(current, record)
	if err == nil {
		err = supplements.Settings.Save(c.Context(), updated)
	}
	if err != nil {
		templateMap["Fields"] = settingsFields(current)
		templateMap["Message"] = fmt.Sprintf("%s: %s", supplements.Localization.Settings.Failed, err.Error())
		templateMap["Failed"] = true
		return fiber.StatusBadRequest, nil
	}

	supplements.PageCache.Clear()
	templateMap["Fields"] = settingsFields(updated)
	templateMap["Message"] = supplements.Localization.Settings.Saved
	return fiber.StatusOK, nil
}
