package settings

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/SayaAndy/vault-gallery/internal/gallery"
)

// Field is one option of the flat settings record, as stored in the
// database and shown in the settings panel.
type Field struct {
	Key     string
	Label   string
	Help    string
	Options []string

	get func(s *gallery.Settings) string
	set func(s *gallery.Settings, value string) error
}

func (f Field) Value(s gallery.Settings) string {
	return f.get(&s)
}

func stringField(key, label string, ptr func(s *gallery.Settings) *string) Field {
	return Field{
		Key:   key,
		Label: label,
		get:   func(s *gallery.Settings) string { return *ptr(s) },
		set: func(s *gallery.Settings, value string) error {
			*ptr(s) = value
			return nil
		},
	}
}

func enumField[T ~string](key, label, directive string, options []string, ptr func(s *gallery.Settings) *T) Field {
	return Field{
		Key:     key,
		Label:   label,
		Help:    gallery.DirectiveHelp(directive),
		Options: options,
		get:     func(s *gallery.Settings) string { return string(*ptr(s)) },
		set: func(s *gallery.Settings, value string) error {
			if !slices.Contains(options, value) {
				return fmt.Errorf("expected one of %s, got '%s'", strings.Join(options, ", "), value)
			}
			*ptr(s) = T(value)
			return nil
		},
	}
}

var Fields = []Field{
	enumField("previewLayout", "Preview layout", "preview", gallery.PreviewLayouts,
		func(s *gallery.Settings) *gallery.PreviewLayout { return &s.PreviewLayout }),
	enumField("paginationIndicator", "Pagination indicator", "pagination", gallery.PaginationIndicators,
		func(s *gallery.Settings) *gallery.PaginationIndicator { return &s.PaginationIndicator }),
	enumField("previewAspect", "Preview aspect", "preview_aspect", gallery.PreviewAspects,
		func(s *gallery.Settings) *gallery.PreviewAspect { return &s.PreviewAspect }),
	enumField("galleryAspect", "Gallery aspect", "gallery_aspect", gallery.GalleryAspects,
		func(s *gallery.Settings) *gallery.GalleryAspect { return &s.GalleryAspect }),
	{
		Key:   "targetHeightPx",
		Label: "Gallery height",
		Help:  gallery.DirectiveHelp("height"),
		get:   func(s *gallery.Settings) string { return strconv.Itoa(s.TargetHeightPx) },
		set: func(s *gallery.Settings, value string) error {
			height, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("height must be an integer: %w", err)
			}
			if height <= 0 {
				return fmt.Errorf("height must be positive, got %d", height)
			}
			s.TargetHeightPx = height
			return nil
		},
	},
	stringField("hotkeys.previous", "Previous image", func(s *gallery.Settings) *string { return &s.Hotkeys.Previous }),
	stringField("hotkeys.next", "Next image", func(s *gallery.Settings) *string { return &s.Hotkeys.Next }),
	stringField("hotkeys.first", "First image", func(s *gallery.Settings) *string { return &s.Hotkeys.First }),
	stringField("hotkeys.last", "Last image", func(s *gallery.Settings) *string { return &s.Hotkeys.Last }),
	stringField("hotkeys.escape", "Close lightbox", func(s *gallery.Settings) *string { return &s.Hotkeys.Escape }),
	stringField("hotkeys.toggleLightbox", "Toggle lightbox", func(s *gallery.Settings) *string { return &s.Hotkeys.ToggleLightbox }),
	stringField("hotkeys.toggleInfo", "Toggle info", func(s *gallery.Settings) *string { return &s.Hotkeys.ToggleInfo }),
}

// Flatten turns settings into the flat key/value record.
func Flatten(s gallery.Settings) map[string]string {
	record := make(map[string]string, len(Fields))
	for _, f := range Fields {
		record[f.Key] = f.get(&s)
	}
	return record
}

// Apply sets the keys present in record on top of base. Unknown keys are
// ignored; missing keys keep the base value.
func Apply(base gallery.Settings, record map[string]string) (gallery.Settings, error) {
	s := base
	for _, f := range Fields {
		value, ok := record[f.Key]
		if !ok {
			continue
		}
		if err := f.set(&s, value); err != nil {
			return base, fmt.Errorf("invalid value for '%s': %w", f.Key, err)
		}
	}
	return s, nil
}

// ApplyValid is Apply for stored records: a key with a bad value is logged
// and skipped, the other keys still apply.
func ApplyValid(base gallery.Settings, record map[string]string) gallery.Settings {
	s := base
	for _, f := range Fields {
		value, ok := record[f.Key]
		if !ok {
			continue
		}
		if err := f.set(&s, value); err != nil {
			slog.Warn("skipping invalid stored setting", slog.String("key", f.Key), slog.String("error", err.Error()))
		}
	}
	return s
}

// Keys lists the record keys in panel order.
func Keys() []string {
	keys := make([]string, len(Fields))
	for i, f := range Fields {
		keys[i] = f.Key
	}
	return keys
}
