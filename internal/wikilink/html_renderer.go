package wikilink

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

type WikilinkHTMLRenderer struct {
	html.Config
}

func NewWikilinkHTMLRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &WikilinkHTMLRenderer{
		Config: html.NewConfig(),
	}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

func (r *WikilinkHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindWikilink, r.renderWikilink)
}

func (r *WikilinkHTMLRenderer) renderWikilink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Wikilink)

	if len(n.Destination) == 0 {
		_, _ = w.WriteString(`<span class="wikilink-unresolved">`)
		_, _ = w.Write(util.EscapeHTML(n.Label()))
		_, _ = w.WriteString(`</span>`)
		return ast.WalkSkipChildren, nil
	}

	dest := util.EscapeHTML(util.URLEscape(n.Destination, true))
	if n.Embed && n.IsImage {
		_, _ = w.WriteString(`<img class="wikilink-embed" src="`)
		_, _ = w.Write(dest)
		_, _ = w.WriteString(`" alt="`)
		_, _ = w.Write(util.EscapeHTML(n.Label()))
		_, _ = w.WriteString(`" loading="lazy"`)
		if r.XHTML {
			_, _ = w.WriteString(" />")
		} else {
			_, _ = w.WriteString(">")
		}
		return ast.WalkSkipChildren, nil
	}

	_, _ = w.WriteString(`<a class="wikilink" href="`)
	_, _ = w.Write(dest)
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(util.EscapeHTML(n.Label()))
	_, _ = w.WriteString(`</a>`)
	return ast.WalkSkipChildren, nil
}
