package handlers

import (
	"slices"
	"strings"
	"time"

	"github.com/SayaAndy/vault-gallery/internal/router"
	"github.com/SayaAndy/vault-gallery/internal/vault"
	"github.com/gofiber/fiber/v2"
)

func init() {
	router.Routes = append(router.Routes, &NotesHandler{})
}

type NotesHandler struct {
	router.BasicHandler
}

type noteEntry struct {
	Path     string
	Title    string
	URL      string
	Folder   string
	Modified string
}

func (r *NotesHandler) Filter() (method string, path string) {
	return "GET", "/"
}

func (r *NotesHandler) TemplatesToInject() []string {
	return []string{"layouts/base.html", "pages/notes.html"}
}

func (r *NotesHandler) ToCache() router.CacheSetting {
	return router.ByUrlOnly
}

func (r *NotesHandler) CacheDuration() time.Duration {
	return time.Minute
}

func (r *NotesHandler) Render(c *fiber.Ctx, supplements *router.Supplements, templateMap fiber.Map) (statusCode int, err error) {
	notes := supplements.Vault.Notes()
	slices.SortFunc(notes, func(a, b vault.Resource) int {
		return strings.Compare(strings.ToLower(a.Path), strings.ToLower(b.Path))
	})

	entries := make([]noteEntry, 0, len(notes))
	for _, note := range notes {
		title := note.Basename()
		if val, ok := supplements.Vault.Properties(note.Path)["title"].(string); ok && val != "" {
			title = val
		}
		entries = append(entries, noteEntry{
			Path:     note.Path,
			Title:    title,
			URL:      vault.NoteURL(note.Path),
			Folder:   note.Folder(),
			Modified: note.ModTime.Format(time.DateTime),
		})
	}

	templateMap["Title"] = supplements.Localization.Notes.Header
	templateMap["Notes"] = entries
	return fiber.StatusOK, nil
}
