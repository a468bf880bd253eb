package notes

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path"
	"strings"

	"github.com/SayaAndy/vault-gallery/internal/frontmatter"
	"github.com/SayaAndy/vault-gallery/internal/gallery"
	"github.com/SayaAndy/vault-gallery/internal/litegal"
	"github.com/SayaAndy/vault-gallery/internal/notectx"
	"github.com/SayaAndy/vault-gallery/internal/tailwind"
	"github.com/SayaAndy/vault-gallery/internal/vault"
	"github.com/SayaAndy/vault-gallery/internal/wikilink"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Page is a rendered note.
type Page struct {
	Path       string
	Title      string
	Properties frontmatter.Properties
	HTML       template.HTML
	// Galleries is the number of live galleries on the page. Pages with
	// galleries hold per-visitor state and must not be cached.
	Galleries int
}

type Renderer struct {
	vault vault.Vault
	md    goldmark.Markdown
}

func NewRenderer(v vault.Vault, builder litegal.Builder) *Renderer {
	extensions := []goldmark.Extender{
		wikilink.NewWikilinkExtension(&linkResolver{vault: v}),
		tailwind.NewTailwindExtension(html.WithXHTML()),
	}
	if builder != nil {
		extensions = append(extensions, litegal.NewGalleryExtension(builder))
	}

	return &Renderer{
		vault: v,
		md: goldmark.New(
			goldmark.WithExtensions(extensions...),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
				parser.WithAttribute(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithXHTML(),
			),
		),
	}
}

// Render reads and converts the note stored at notePath.
func (r *Renderer) Render(ctx context.Context, notePath string) (*Page, error) {
	res, ok := r.vault.Stat(notePath)
	if !ok || !res.IsNote() {
		return nil, fmt.Errorf("note '%s': %w", notePath, vault.ErrNotExist)
	}

	content, err := r.vault.ReadFile(ctx, res.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read note '%s': %w", res.Path, err)
	}
	return r.RenderSource(ctx, res.Path, content)
}

// RenderSource converts note content as if it was stored at notePath.
func (r *Renderer) RenderSource(ctx context.Context, notePath string, content []byte) (*Page, error) {
	properties, markdown, err := frontmatter.ParseFrontmatter(content)
	if err != nil {
		properties = frontmatter.Properties{}
	}

	pc := notectx.New(ctx, notePath)
	var buf bytes.Buffer
	if err := r.md.Convert(markdown, &buf, parser.WithContext(pc)); err != nil {
		return nil, fmt.Errorf("convert source context from md to html: %w", err)
	}

	return &Page{
		Path:       notePath,
		Title:      title(notePath, properties),
		Properties: properties,
		HTML:       template.HTML(buf.String()),
		Galleries:  litegal.Count(pc),
	}, nil
}

func title(notePath string, properties frontmatter.Properties) string {
	if t, ok := properties["title"].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	name := path.Base(notePath)
	return strings.TrimSuffix(name, path.Ext(name))
}

type linkResolver struct {
	vault vault.Vault
}

func (l *linkResolver) ResolveWikilink(target, contextPath string) (string, bool, bool) {
	res, ok := l.vault.ResolveLink(target, contextPath)
	if !ok {
		return "", false, false
	}
	if res.IsNote() {
		return vault.NoteURL(res.Path), false, true
	}
	return l.vault.ResourceURL(*res), gallery.IsImageResource(*res), true
}
