package litegal

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

type GalleryHTMLRenderer struct {
	html.Config
}

func NewGalleryHTMLRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &GalleryHTMLRenderer{
		Config: html.NewConfig(),
	}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

func (r *GalleryHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindGalleryBlock, r.renderGallery)
}

func (r *GalleryHTMLRenderer) renderGallery(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		block := n.(*GalleryBlock)
		_, _ = w.WriteString("<div class=\"litegal-block\">\n")
		_, _ = w.WriteString(block.HTML)
		_, _ = w.WriteString("\n</div>\n")
	}
	return ast.WalkSkipChildren, nil
}
