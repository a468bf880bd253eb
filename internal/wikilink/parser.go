package wikilink

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type wikilinkParser struct{}

func NewWikilinkParser() parser.InlineParser {
	return &wikilinkParser{}
}

func (p *wikilinkParser) Trigger() []byte {
	return []byte{'!', '['}
}

func (p *wikilinkParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()

	start := 0
	embed := false
	switch {
	case bytes.HasPrefix(line, []byte("![[")):
		start, embed = 3, true
	case bytes.HasPrefix(line, []byte("[[")):
		start = 2
	default:
		return nil
	}

	end := bytes.Index(line[start:], []byte("]]"))
	if end < 0 {
		return nil
	}
	inner := line[start : start+end]
	if len(bytes.TrimSpace(inner)) == 0 || bytes.ContainsAny(inner, "[]") {
		return nil
	}

	target, alias, _ := bytes.Cut(inner, []byte{'|'})
	block.Advance(start + end + 2)

	return &Wikilink{
		Target: bytes.TrimSpace(target),
		Alias:  bytes.TrimSpace(alias),
		Embed:  embed,
	}
}
