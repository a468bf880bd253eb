package tailwind

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var headingClasses = map[int]string{
	1: "text-3xl font-semibold text-ink mb-6",
	2: "text-2xl font-semibold text-ink mb-3",
	3: "text-xl font-medium text-ink mb-2",
	4: "text-lg font-medium text-ink-soft mb-1",
	5: "text-base font-medium text-ink-soft mb-1 italic",
	6: "text-sm font-medium text-muted mb-1 uppercase",
}

var emphasisClasses = map[int]string{
	1: "italic",
	2: "font-semibold",
	3: "italic font-semibold",
}

// TailwindTransformer styles note content. Gallery blocks are left alone,
// they bring their own classes.
type TailwindTransformer struct{}

func (t *TailwindTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if class, ok := headingClasses[node.Level]; ok {
				setClass(node, class)
			}

		case *ast.Paragraph:
			setClass(node, "text-base/7 text-ink mb-5")

		case *ast.List:
			if node.IsOrdered() {
				setClass(node, "list-decimal list-outside space-y-1 mb-5 pl-6")
			} else {
				setClass(node, "list-disc list-outside space-y-1 mb-5 pl-6")
			}

		case *ast.ListItem:
			setClass(node, "text-base/7")

		case *ast.Blockquote:
			setClass(node, "border-l-4 border-accent bg-surface px-4 py-2 mb-5 italic")

		case *ast.CodeSpan:
			setClass(node, "bg-surface rounded px-1 font-mono text-sm")

		case *ast.CodeBlock, *ast.FencedCodeBlock:
			setClass(node, "bg-surface p-3 rounded-lg overflow-x-auto mb-5 font-mono text-sm")

		case *ast.Link:
			setClass(node, "text-accent hover:underline")

		case *ast.Image:
			setClass(node, "max-w-full h-auto rounded-md mb-5")

		case *ast.ThematicBreak:
			setClass(node, "my-8 border-muted")

		case *ast.Emphasis:
			if class, ok := emphasisClasses[node.Level]; ok {
				setClass(node, class)
			}
		}

		return ast.WalkContinue, nil
	})
}

// setClass keeps a class given with the {.class} attribute syntax in front of
// the theme classes.
func setClass(n ast.Node, class string) {
	if existing, ok := n.AttributeString("class"); ok {
		if b, ok := existing.([]byte); ok && len(b) > 0 {
			class = string(b) + " " + class
		}
	}
	n.SetAttribute([]byte("class"), []byte(class))
}
