package notes

import (
	"context"
	"testing"

	"github.com/SayaAndy/vault-gallery/internal/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBuilder struct {
	contexts []string
}

func (b *stubBuilder) BuildGallery(ctx context.Context, source, contextPath string) string {
	b.contexts = append(b.contexts, contextPath)
	return `<div class="litegal"></div>`
}

func newIndex(t *testing.T, files map[string]string) *vault.Index {
	t.Helper()
	idx := vault.NewIndex(vault.NewMemoryStorage(files))
	require.NoError(t, idx.Rebuild(context.Background()))
	return idx
}

func TestRender(t *testing.T) {
	idx := newIndex(t, map[string]string{
		"trips/rome.md":       "---\ntitle: Rome 2024\ntags: [travel]\n---\n# Day one\n\nSee [[colosseum.png]] and [[paris]].\n\n![[colosseum.png|The arena]]\n\n```litegal\n-input: note\n```\n",
		"trips/colosseum.png": "\x89PNG\r\n\x1a\n",
		"trips/paris.md":      "# Paris\n",
	})
	builder := &stubBuilder{}
	r := NewRenderer(idx, builder)

	page, err := r.Render(context.Background(), "trips/rome.md")
	require.NoError(t, err)

	assert.Equal(t, "Rome 2024", page.Title)
	assert.Equal(t, 1, page.Galleries)
	assert.Equal(t, []string{"trips/rome.md"}, builder.contexts)
	assert.True(t, page.Properties.HasTag("travel"))

	out := string(page.HTML)
	assert.Contains(t, out, `<a class="wikilink" href="/vault/trips/colosseum.png">colosseum.png</a>`)
	assert.Contains(t, out, `<a class="wikilink" href="/note/trips/paris.md">paris</a>`)
	assert.Contains(t, out, `<img class="wikilink-embed" src="/vault/trips/colosseum.png" alt="The arena" loading="lazy" />`)
	assert.Contains(t, out, `<div class="litegal-block">`)
	assert.Contains(t, out, `id="day-one"`)
}

func TestRenderUnresolvedAndMarkdownLinks(t *testing.T) {
	idx := newIndex(t, map[string]string{
		"note.md":      "[[ghost]] [other](sub/other.md) ![pic](img%20one.png) [web](https://example.com)\n",
		"sub/other.md": "other",
		"img one.png":  "\x89PNG\r\n\x1a\n",
	})
	page, err := NewRenderer(idx, nil).Render(context.Background(), "note.md")
	require.NoError(t, err)

	out := string(page.HTML)
	assert.Equal(t, 0, page.Galleries)
	assert.Equal(t, "note", page.Title)
	assert.Contains(t, out, `<span class="wikilink-unresolved">ghost</span>`)
	assert.Contains(t, out, `href="/note/sub/other.md"`)
	assert.Contains(t, out, `src="/vault/img%20one.png"`)
	assert.Contains(t, out, `href="https://example.com" target="_blank"`)
}

func TestRenderMissingNote(t *testing.T) {
	idx := newIndex(t, map[string]string{"a.png": "x"})
	r := NewRenderer(idx, nil)

	_, err := r.Render(context.Background(), "missing.md")
	assert.ErrorIs(t, err, vault.ErrNotExist)

	_, err = r.Render(context.Background(), "a.png")
	assert.ErrorIs(t, err, vault.ErrNotExist)
}
