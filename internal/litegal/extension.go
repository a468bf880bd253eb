package litegal

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// GalleryExtension renders ```litegal blocks as galleries.
type GalleryExtension struct {
	builder Builder
}

func NewGalleryExtension(builder Builder) goldmark.Extender {
	return &GalleryExtension{builder: builder}
}

func (e *GalleryExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithASTTransformers(
			util.Prioritized(&galleryTransformer{builder: e.builder}, 100),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewGalleryHTMLRenderer(), 500),
		),
	)
}
