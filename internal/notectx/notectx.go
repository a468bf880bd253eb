// Package notectx carries per-conversion values through goldmark's parser
// context.
package notectx

import (
	"context"

	"github.com/yuin/goldmark/parser"
)

var (
	pathKey    = parser.NewContextKey()
	requestKey = parser.NewContextKey()
)

// New returns a parser context for converting the note at notePath while
// serving ctx.
func New(ctx context.Context, notePath string) parser.Context {
	pc := parser.NewContext()
	pc.Set(pathKey, notePath)
	pc.Set(requestKey, ctx)
	return pc
}

// NotePath is the vault path of the note being converted, or "".
func NotePath(pc parser.Context) string {
	if v, ok := pc.Get(pathKey).(string); ok {
		return v
	}
	return ""
}

// Context is the request context of the conversion, or context.Background.
func Context(pc parser.Context) context.Context {
	if v, ok := pc.Get(requestKey).(context.Context); ok {
		return v
	}
	return context.Background()
}
