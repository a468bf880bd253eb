package wikilink

import (
	"net/url"
	"strings"

	"github.com/SayaAndy/vault-gallery/internal/notectx"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Resolver maps a link target, seen from the note at contextPath, to a URL.
type Resolver interface {
	ResolveWikilink(target, contextPath string) (destination string, isImage bool, ok bool)
}

type WikilinkExtension struct {
	resolver Resolver
}

// NewWikilinkExtension registers the wikilink parser and renderer. With a nil
// resolver links are parsed but left unresolved.
func NewWikilinkExtension(resolver Resolver) goldmark.Extender {
	return &WikilinkExtension{resolver: resolver}
}

func (e *WikilinkExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(NewWikilinkParser(), 199),
		),
	)
	if e.resolver != nil {
		m.Parser().AddOptions(
			parser.WithASTTransformers(
				util.Prioritized(&resolveTransformer{resolver: e.resolver}, 400),
			),
		)
	}
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewWikilinkHTMLRenderer(), 500),
		),
	)
}

type resolveTransformer struct {
	resolver Resolver
}

func (t *resolveTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	contextPath := notectx.NotePath(pc)
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch link := n.(type) {
		case *Wikilink:
			if dest, isImage, found := t.resolver.ResolveWikilink(string(link.Target), contextPath); found {
				link.Destination = []byte(dest)
				link.IsImage = isImage
			}
		case *ast.Link:
			if dest, ok := t.resolveRelative(link.Destination, contextPath); ok {
				link.Destination = dest
			}
		case *ast.Image:
			if dest, ok := t.resolveRelative(link.Destination, contextPath); ok {
				link.Destination = dest
			}
		}
		return ast.WalkContinue, nil
	})
}

// resolveRelative rewrites plain markdown destinations that point into the
// vault. Absolute URLs and anchors are left alone.
func (t *resolveTransformer) resolveRelative(destination []byte, contextPath string) ([]byte, bool) {
	raw := string(destination)
	if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "/") || strings.Contains(raw, "://") || strings.HasPrefix(raw, "mailto:") {
		return nil, false
	}
	target, err := url.PathUnescape(raw)
	if err != nil {
		target = raw
	}
	dest, _, ok := t.resolver.ResolveWikilink(target, contextPath)
	if !ok {
		return nil, false
	}
	return []byte(dest), true
}
