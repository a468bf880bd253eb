package tailwind

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// CustomLinkRenderer renders links like the default renderer, but opens
// links leaving the site in a new tab.
type CustomLinkRenderer struct {
	html.Config
}

func NewCustomLinkRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &CustomLinkRenderer{
		Config: html.NewConfig(),
	}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

func isExternal(destination []byte) bool {
	return bytes.HasPrefix(destination, []byte("http://")) || bytes.HasPrefix(destination, []byte("https://"))
}

func (r *CustomLinkRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString("<a href=\"")
	if r.Unsafe || !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_, _ = w.WriteString(`"`)
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_, _ = w.WriteString(`"`)
	}
	if isExternal(n.Destination) {
		_, _ = w.WriteString(` target="_blank" rel="noopener noreferrer"`)
	}
	if n.Attributes() != nil {
		html.RenderAttributes(w, n, nil)
	}
	_, _ = w.WriteString(">")
	return ast.WalkContinue, nil
}

func (r *CustomLinkRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindLink, r.renderLink)
}
