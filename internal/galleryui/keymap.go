package galleryui

import (
	"github.com/SayaAndy/vault-gallery/internal/gallery"
)

type Action string

const (
	ActionPrevious       Action = "previous"
	ActionNext           Action = "next"
	ActionFirst          Action = "first"
	ActionLast           Action = "last"
	ActionEscape         Action = "escape"
	ActionToggleLightbox Action = "toggleLightbox"
	ActionToggleInfo     Action = "toggleInfo"
)

// Target names the element a key press was sent to.
type Target string

const (
	TargetGallery  Target = "gallery"
	TargetLightbox Target = "lightbox"
)

// Keymap maps key identifiers to actions. When two actions share a key the
// one listed first in Hotkeys wins.
type Keymap map[string]Action

func NewKeymap(h gallery.Hotkeys) Keymap {
	km := Keymap{}
	for _, binding := range []struct {
		key    string
		action Action
	}{
		{h.Previous, ActionPrevious},
		{h.Next, ActionNext},
		{h.First, ActionFirst},
		{h.Last, ActionLast},
		{h.Escape, ActionEscape},
		{h.ToggleLightbox, ActionToggleLightbox},
		{h.ToggleInfo, ActionToggleInfo},
	} {
		if binding.key == "" {
			continue
		}
		if _, taken := km[binding.key]; !taken {
			km[binding.key] = binding.action
		}
	}
	return km
}

func (k Keymap) Lookup(key string) (Action, bool) {
	action, ok := k[key]
	return action, ok
}
