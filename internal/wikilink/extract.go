package wikilink

import (
	"net/url"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Link is one outgoing reference found in a note.
type Link struct {
	Target string
	Alias  string
	Embed  bool
}

var extractor = goldmark.New(goldmark.WithExtensions(NewWikilinkExtension(nil)))

// ExtractLinks returns every wikilink, markdown link and markdown image of the
// document in document order. Code spans and code blocks are not scanned.
func ExtractLinks(source []byte) []Link {
	doc := extractor.Parser().Parse(text.NewReader(source))

	links := make([]Link, 0)
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *Wikilink:
			links = append(links, Link{
				Target: string(node.Target),
				Alias:  string(node.Alias),
				Embed:  node.Embed,
			})
		case *ast.Image:
			links = append(links, Link{Target: unescape(node.Destination), Embed: true})
		case *ast.Link:
			links = append(links, Link{Target: unescape(node.Destination)})
		}
		return ast.WalkContinue, nil
	})
	return links
}

func unescape(dest []byte) string {
	if s, err := url.PathUnescape(string(dest)); err == nil {
		return s
	}
	return string(dest)
}
