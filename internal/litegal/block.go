package litegal

import (
	"github.com/yuin/goldmark/ast"
)

// GalleryBlock replaces a ```litegal fenced block. HTML is the fragment the
// builder produced for it.
type GalleryBlock struct {
	ast.BaseBlock
	Source      string
	ContextPath string
	HTML        string
}

var KindGalleryBlock = ast.NewNodeKind("GalleryBlock")

// Dump implements ast.Node.Dump
func (n *GalleryBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"ContextPath": n.ContextPath,
	}, nil)
}

// Kind implements ast.Node.Kind
func (n *GalleryBlock) Kind() ast.NodeKind {
	return KindGalleryBlock
}
