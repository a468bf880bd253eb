package gallery

import (
	"context"
	"testing"

	"github.com/SayaAndy/vault-gallery/internal/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVault(t *testing.T, files map[string]string) vault.Vault {
	t.Helper()
	idx := vault.NewIndex(vault.NewMemoryStorage(files))
	require.NoError(t, idx.Rebuild(context.Background()))
	return idx
}

func urls(images []ImageReference) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = img.URL
	}
	return out
}

func TestResolveImage(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.png":      "",
		"Photo.JPG":  "",
		"doc.pdf":    "",
		"trip/b.png": "",
	})

	tests := []struct {
		name    string
		line    string
		want    string
		wantErr error
	}{
		{name: "wikilink", line: "[[a.png]]", want: "/vault/a.png"},
		{name: "embed with alias", line: " ![[a.png|Cover]] ", want: "/vault/a.png"},
		{name: "bare link", line: "b.png", want: "/vault/trip/b.png"},
		{name: "upper case extension", line: "[[Photo.JPG]]", want: "/vault/Photo.JPG"},
		{name: "external url", line: "https://example.com/x.png?s=1", want: "https://example.com/x.png?s=1"},
		{name: "external url in brackets", line: "[[http://example.com/y]]", want: "http://example.com/y"},
		{name: "not an image", line: "[[doc.pdf]]", wantErr: ErrReferenceNotFound},
		{name: "missing", line: "[[missing.png]]", wantErr: ErrReferenceNotFound},
		{name: "empty", line: "[[ ]]", wantErr: ErrEmptyReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ResolveImage(v, tt.line, "note.md")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, img.URL)
		})
	}
}

func TestParseImages_OrderAndMissing(t *testing.T) {
	v := newTestVault(t, map[string]string{"a.png": "", "b.jpg": ""})
	parser := NewParser(v)
	notices := &Notices{}

	images := parser.ParseImages(context.Background(), "[[a.png]]\n[[missing.png]]\n[[b.jpg]]", "note.md", notices)

	assert.Equal(t, []string{"/vault/a.png", "/vault/b.jpg"}, urls(images))
	require.Equal(t, 1, notices.Len())
	assert.Equal(t, 1, notices.Count(ErrReferenceNotFound))
	assert.Contains(t, notices.List()[0].Message, "missing.png")
}

func TestParseImages_Inputs(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"trip.md":                 "![[cover.png]]\n[[plain.png]]\n![[gone.png]]\n![[doc.pdf]]\n![web](https://example.com/w.png)\n",
		"cover.png":               "",
		"plain.png":               "",
		"doc.pdf":                 "",
		"photos/a.png":            "",
		"photos/readme.md":        "",
		"photos/sub/deeper/c.png": "",
		"photos/sub/b.png":        "",
	})
	parser := NewParser(v)
	ctx := context.Background()

	tests := []struct {
		name        string
		source      string
		want        []string
		wantNotices int
		wantKind    error
	}{
		{
			name:   "note embeds in document order",
			source: "-input: note",
			want:   []string{"/vault/cover.png", "https://example.com/w.png"},
		},
		{
			name:   "folder direct children",
			source: "-input: folder:photos",
			want:   []string{"/vault/photos/a.png"},
		},
		{
			name:   "folder recursive preorder",
			source: "-input: folder-recursive:photos",
			want:   []string{"/vault/photos/a.png", "/vault/photos/sub/b.png", "/vault/photos/sub/deeper/c.png"},
		},
		{
			name:   "directives concatenate in line order without dedup",
			source: "[[plain.png]]\n-input: folder:photos\n-input: folder-recursive:photos/sub\n-input: folder:photos",
			want: []string{
				"/vault/plain.png",
				"/vault/photos/a.png",
				"/vault/photos/sub/b.png", "/vault/photos/sub/deeper/c.png",
				"/vault/photos/a.png",
			},
		},
		{
			name:        "missing folder contributes nothing",
			source:      "-input: folder:nowhere\n[[plain.png]]",
			want:        []string{"/vault/plain.png"},
			wantNotices: 1,
			wantKind:    ErrFolderNotFound,
		},
		{
			name:        "unknown input mode",
			source:      "-input: everything",
			want:        []string{},
			wantNotices: 1,
			wantKind:    ErrInvalidDirective,
		},
		{
			name:   "option directives are not images",
			source: "-height: 300\n-preview: toggle",
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notices := &Notices{}
			images := parser.ParseImages(ctx, tt.source, "trip.md", notices)

			assert.Equal(t, tt.want, urls(images))
			require.Equal(t, tt.wantNotices, notices.Len())
			if tt.wantKind != nil {
				assert.Equal(t, tt.wantNotices, notices.Count(tt.wantKind))
			}
		})
	}
}

func TestParse_NoImages(t *testing.T) {
	v := newTestVault(t, map[string]string{})
	parser := NewParser(v)

	var block *ParsedBlock
	require.NotPanics(t, func() {
		block = parser.Parse(context.Background(), "-preview: toggle\n\n[[nothing.png]]\n", "note.md", DefaultSettings())
	})

	assert.Empty(t, block.Images)
	assert.Equal(t, PreviewToggle, block.Settings.PreviewLayout)
	assert.Equal(t, 1, block.Notices.Count(ErrReferenceNotFound))
}
