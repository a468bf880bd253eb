package litegal

import (
	"bytes"
	"context"
	"strings"

	"github.com/SayaAndy/vault-gallery/internal/notectx"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

const Language = "litegal"

// Builder turns the source of one gallery block into its HTML fragment.
type Builder interface {
	BuildGallery(ctx context.Context, source, contextPath string) string
}

var countKey = parser.NewContextKey()

// Count is the number of gallery blocks built during the conversion that
// used pc.
func Count(pc parser.Context) int {
	if n, ok := pc.Get(countKey).(int); ok {
		return n
	}
	return 0
}

type galleryTransformer struct {
	builder Builder
}

func (t *galleryTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	var blocks []*ast.FencedCodeBlock
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fenced, ok := n.(*ast.FencedCodeBlock); ok && isGalleryFence(fenced, reader.Source()) {
			blocks = append(blocks, fenced)
		}
		return ast.WalkContinue, nil
	})

	pc.Set(countKey, Count(pc)+len(blocks))
	if len(blocks) == 0 {
		return
	}

	ctx := notectx.Context(pc)
	contextPath := notectx.NotePath(pc)
	for _, fenced := range blocks {
		block := &GalleryBlock{
			Source:      blockSource(fenced, reader.Source()),
			ContextPath: contextPath,
		}
		block.HTML = t.builder.BuildGallery(ctx, block.Source, contextPath)
		fenced.Parent().ReplaceChild(fenced.Parent(), fenced, block)
	}
}

func isGalleryFence(n *ast.FencedCodeBlock, source []byte) bool {
	if n.Info == nil {
		return false
	}
	info := bytes.TrimSpace(n.Info.Segment.Value(source))
	lang, _, _ := bytes.Cut(info, []byte(" "))
	return string(lang) == Language
}

func blockSource(n *ast.FencedCodeBlock, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(source))
	}
	return sb.String()
}

// FindSources returns the sources of every gallery block in a note, in
// document order. Nothing is built.
func FindSources(markdown []byte) []string {
	doc := parser.NewParser(
		parser.WithBlockParsers(parser.DefaultBlockParsers()...),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	).Parse(text.NewReader(markdown))

	sources := make([]string, 0)
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fenced, ok := n.(*ast.FencedCodeBlock); ok && isGalleryFence(fenced, markdown) {
			sources = append(sources, blockSource(fenced, markdown))
		}
		return ast.WalkContinue, nil
	})
	return sources
}
