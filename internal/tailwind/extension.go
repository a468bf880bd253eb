package tailwind

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

type TailwindExtension struct {
	linkOptions []html.Option
}

// NewTailwindExtension styles the document and installs the link renderer
// with the given html options.
func NewTailwindExtension(linkOptions ...html.Option) goldmark.Extender {
	return &TailwindExtension{linkOptions: linkOptions}
}

func (e *TailwindExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithASTTransformers(
			util.Prioritized(&TailwindTransformer{}, 500),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewCustomLinkRenderer(e.linkOptions...), 50),
		),
	)
}
