package wikilink

import (
	"github.com/yuin/goldmark/ast"
)

// Wikilink is an inline `[[target|alias]]` link, or an embed when written as
// `![[target|alias]]`.
type Wikilink struct {
	ast.BaseInline
	Target []byte
	Alias  []byte
	Embed  bool

	// Destination is filled by the resolving transformer; empty when the
	// target could not be found in the vault.
	Destination []byte
	IsImage     bool
}

var KindWikilink = ast.NewNodeKind("Wikilink")

// Dump implements ast.Node.Dump
func (n *Wikilink) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Target": string(n.Target),
		"Alias":  string(n.Alias),
	}, nil)
}

// Kind implements ast.Node.Kind
func (n *Wikilink) Kind() ast.NodeKind {
	return KindWikilink
}

// Label is the text shown for the link.
func (n *Wikilink) Label() []byte {
	if len(n.Alias) > 0 {
		return n.Alias
	}
	return n.Target
}
