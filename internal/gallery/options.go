package gallery

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	DirectivePrefix = "-"
	InputKey        = "input"
)

type optionSpec struct {
	values []string
	apply  func(s *Settings, value string)
}

var optionSchema = map[string]optionSpec{
	"preview": {
		values: PreviewLayouts,
		apply:  func(s *Settings, v string) { s.PreviewLayout = PreviewLayout(v) },
	},
	"pagination": {
		values: PaginationIndicators,
		apply:  func(s *Settings, v string) { s.PaginationIndicator = PaginationIndicator(v) },
	},
	"preview_aspect": {
		values: PreviewAspects,
		apply:  func(s *Settings, v string) { s.PreviewAspect = PreviewAspect(v) },
	},
	"gallery_aspect": {
		values: GalleryAspects,
		apply:  func(s *Settings, v string) { s.GalleryAspect = GalleryAspect(v) },
	},
}

var optionAliases = map[string]string{
	"preview_fit": "preview_aspect",
	"gallery_fit": "gallery_aspect",
}

// RecognizedKeys lists the option directive keys, aliases and the numeric
// height key, in a stable order.
func RecognizedKeys() []string {
	return []string{"preview", "pagination", "preview_aspect", "preview_fit", "gallery_aspect", "gallery_fit", "height"}
}

// splitDirective splits "-key: value" into its trimmed key and value.
// ok is false when the line does not hold exactly one key and one value.
func splitDirective(line string) (key, value string, ok bool) {
	body := strings.TrimPrefix(strings.TrimSpace(line), DirectivePrefix)
	parts := strings.Split(body, ":")
	key = strings.TrimSpace(parts[0])
	if len(parts) < 2 {
		return key, "", false
	}
	value = strings.TrimSpace(strings.Join(parts[1:], ":"))
	return key, value, len(parts) == 2 && key != ""
}

// ApplyDirectives derives the effective settings of one code block from base
// and the option directives in source. base is never modified.
func ApplyDirectives(source string, base Settings, notices *Notices) Settings {
	settings := base

	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, DirectivePrefix) {
			continue
		}

		key, value, ok := splitDirective(line)
		if key == InputKey {
			continue
		}
		if !ok {
			notices.Add(ErrInvalidDirective, fmt.Sprintf("Invalid setting format %q. Expected '-key: value'", line))
			continue
		}

		if key == "height" {
			height, err := strconv.Atoi(value)
			if err != nil || height <= 0 {
				notices.Add(ErrInvalidDirective, fmt.Sprintf("Invalid value %q for \"height\". Expected positive integer", value))
				continue
			}
			settings.TargetHeightPx = height
			continue
		}

		if canonical, isAlias := optionAliases[key]; isAlias {
			key = canonical
		}

		spec, known := optionSchema[key]
		if !known {
			notices.Add(ErrInvalidDirective, fmt.Sprintf("Invalid setting key %q. Expected one of %s", key, strings.Join(RecognizedKeys(), ", ")))
			continue
		}

		if !slices.Contains(spec.values, value) {
			notices.Add(ErrInvalidDirective, fmt.Sprintf("Invalid value %q for %q. Expected: %s", value, key, strings.Join(spec.values, ", ")))
			continue
		}
		spec.apply(&settings, value)
	}

	return settings
}
