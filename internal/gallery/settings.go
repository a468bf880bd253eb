package gallery

import "strings"

type PreviewLayout string

const (
	PreviewShow   PreviewLayout = "preview"
	PreviewHidden PreviewLayout = "no-preview"
	PreviewToggle PreviewLayout = "toggle"
)

type PaginationIndicator string

const (
	PaginationShow PaginationIndicator = "show"
	PaginationHide PaginationIndicator = "hide"
)

type PreviewAspect string

const (
	PreviewSquare      PreviewAspect = "square"
	PreviewFitToHeight PreviewAspect = "fit-to-height"
)

type GalleryAspect string

const (
	AspectContain     GalleryAspect = "contain"
	AspectCover       GalleryAspect = "cover"
	AspectFitToWidth  GalleryAspect = "fit-to-width"
	AspectFitToHeight GalleryAspect = "fit-to-height"
	AspectStretch     GalleryAspect = "stretch"
)

var (
	PreviewLayouts       = []string{string(PreviewShow), string(PreviewHidden), string(PreviewToggle)}
	PaginationIndicators = []string{string(PaginationShow), string(PaginationHide)}
	PreviewAspects       = []string{string(PreviewSquare), string(PreviewFitToHeight)}
	GalleryAspects       = []string{string(AspectContain), string(AspectCover), string(AspectFitToWidth), string(AspectFitToHeight), string(AspectStretch)}
)

// Hotkeys maps logical gallery actions to key identifiers as reported by the
// browser's KeyboardEvent.key.
type Hotkeys struct {
	Previous       string `json:"previous" yaml:"previous" validate:"required"`
	Next           string `json:"next" yaml:"next" validate:"required"`
	First          string `json:"first" yaml:"first" validate:"required"`
	Last           string `json:"last" yaml:"last" validate:"required"`
	Escape         string `json:"escape" yaml:"escape" validate:"required"`
	ToggleLightbox string `json:"toggleLightbox" yaml:"toggleLightbox" validate:"required"`
	ToggleInfo     string `json:"toggleInfo" yaml:"toggleInfo" validate:"required"`
}

// Settings is the per-gallery display configuration. Plugin-wide defaults are
// a Settings value; directive overrides always produce a copy.
type Settings struct {
	PaginationIndicator PaginationIndicator `json:"paginationIndicator" yaml:"paginationIndicator" validate:"oneof=show hide"`
	PreviewLayout       PreviewLayout       `json:"previewLayout" yaml:"previewLayout" validate:"oneof=preview no-preview toggle"`
	PreviewAspect       PreviewAspect       `json:"previewAspect" yaml:"previewAspect" validate:"oneof=square fit-to-height"`
	GalleryAspect       GalleryAspect       `json:"galleryAspect" yaml:"galleryAspect" validate:"oneof=contain cover fit-to-width fit-to-height stretch"`
	TargetHeightPx      int                 `json:"targetHeightPx" yaml:"targetHeightPx" validate:"gt=0"`
	Hotkeys             Hotkeys             `json:"hotkeys" yaml:"hotkeys"`
}

func DefaultSettings() Settings {
	return Settings{
		PaginationIndicator: PaginationShow,
		PreviewLayout:       PreviewShow,
		PreviewAspect:       PreviewSquare,
		GalleryAspect:       AspectFitToHeight,
		TargetHeightPx:      500,
		Hotkeys: Hotkeys{
			Previous:       "ArrowLeft",
			Next:           "ArrowRight",
			First:          "ArrowDown",
			Last:           "ArrowUp",
			Escape:         "Escape",
			ToggleLightbox: " ",
			ToggleInfo:     "i",
		},
	}
}

// FillDefaults replaces zero-valued fields with the hard defaults, so that a
// partially persisted record still yields a complete configuration.
func (s Settings) FillDefaults() Settings {
	d := DefaultSettings()
	if s.PaginationIndicator == "" {
		s.PaginationIndicator = d.PaginationIndicator
	}
	if s.PreviewLayout == "" {
		s.PreviewLayout = d.PreviewLayout
	}
	if s.PreviewAspect == "" {
		s.PreviewAspect = d.PreviewAspect
	}
	if s.GalleryAspect == "" {
		s.GalleryAspect = d.GalleryAspect
	}
	if s.TargetHeightPx <= 0 {
		s.TargetHeightPx = d.TargetHeightPx
	}
	h := &s.Hotkeys
	for _, pair := range []struct {
		dst *string
		def string
	}{
		{&h.Previous, d.Hotkeys.Previous},
		{&h.Next, d.Hotkeys.Next},
		{&h.First, d.Hotkeys.First},
		{&h.Last, d.Hotkeys.Last},
		{&h.Escape, d.Hotkeys.Escape},
		{&h.ToggleLightbox, d.Hotkeys.ToggleLightbox},
		{&h.ToggleInfo, d.Hotkeys.ToggleInfo},
	} {
		if *pair.dst == "" {
			*pair.dst = pair.def
		}
	}
	return s
}

// DirectiveHelp returns the directive syntax for a settings option, used by
// the settings panel descriptions.
func DirectiveHelp(key string) string {
	switch key {
	case "preview":
		return "-preview: " + strings.Join(PreviewLayouts, " | ")
	case "pagination":
		return "-pagination: " + strings.Join(PaginationIndicators, " | ")
	case "preview_aspect":
		return "-preview_fit: " + strings.Join(PreviewAspects, " | ")
	case "gallery_aspect":
		return "-gallery_fit: " + strings.Join(GalleryAspects, " | ")
	case "height":
		return "-height: <positive integer>"
	}
	return ""
}
