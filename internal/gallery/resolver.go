package gallery

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/SayaAndy/vault-gallery/internal/vault"
)

var ImageExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "svg", "webp"}

var ErrEmptyReference = errors.New("empty reference")

var externalURLRegex = regexp.MustCompile(`(?i)^https?://\S+$`)

// ImageReference is a resolved image: a vault file, or an external URL when
// Resource is nil. URL is its identity.
type ImageReference struct {
	URL      string
	Resource *vault.Resource
}

func (r ImageReference) IsExternal() bool {
	return r.Resource == nil
}

// Name is the file name for vault images and the URL otherwise.
func (r ImageReference) Name() string {
	if r.Resource != nil {
		return r.Resource.Name
	}
	return r.URL
}

func IsImageExt(ext string) bool {
	return slices.Contains(ImageExtensions, strings.ToLower(strings.TrimPrefix(ext, ".")))
}

func IsImageResource(r vault.Resource) bool {
	return IsImageExt(r.Ext)
}

// LinkTarget strips the embed marker, wikilink brackets and the display alias
// from a reference.
func LinkTarget(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "!")
	text = strings.TrimPrefix(text, "[[")
	text = strings.TrimSuffix(text, "]]")
	text, _, _ = strings.Cut(text, "|")
	return strings.TrimSpace(text)
}

// ResolveImage turns one reference line into an image. Absolute http(s) URLs
// are taken as they are; everything else must resolve to a vault file with an
// image extension.
func ResolveImage(v vault.Vault, line, contextPath string) (ImageReference, error) {
	target := LinkTarget(line)
	if target == "" {
		return ImageReference{}, ErrEmptyReference
	}

	if externalURLRegex.MatchString(target) {
		return ImageReference{URL: target}, nil
	}

	resource, ok := v.ResolveLink(target, contextPath)
	if !ok || !IsImageResource(*resource) {
		return ImageReference{}, fmt.Errorf("%w: %s", ErrReferenceNotFound, target)
	}

	return ImageReference{URL: v.ResourceURL(*resource), Resource: resource}, nil
}

// ImageFromResource wraps a vault file that is already known to exist.
func ImageFromResource(v vault.Vault, r vault.Resource) ImageReference {
	return ImageReference{URL: v.ResourceURL(r), Resource: &r}
}
