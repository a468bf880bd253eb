package litegal

import (
	"context"
	"strings"

	"github.com/SayaAndy/vault-gallery/internal/dom"
	"github.com/SayaAndy/vault-gallery/internal/gallery"
	"github.com/SayaAndy/vault-gallery/internal/galleryui"
	"github.com/SayaAndy/vault-gallery/internal/imageloader"
	"github.com/SayaAndy/vault-gallery/internal/vault"
)

const (
	NoticesClass = "litegal-notices"
	NoticeClass  = "litegal-notice"
)

// DefaultsSource provides the process wide gallery settings.
type DefaultsSource interface {
	Defaults() gallery.Settings
}

// StaticDefaults always returns the same settings.
type StaticDefaults gallery.Settings

func (s StaticDefaults) Defaults() gallery.Settings {
	return gallery.Settings(s)
}

type PipelineOptions struct {
	LazyMarginPx int
	ThumbSlotPx  int
	NoImagesText string
}

// Pipeline builds a live gallery from a code block: directives over the
// current defaults, then image resolution, then the gallery itself, which is
// kept in the store for later events.
type Pipeline struct {
	parser   *gallery.Parser
	defaults DefaultsSource
	loaders  *imageloader.Service
	store    *galleryui.Store[*galleryui.Gallery]
	opts     PipelineOptions
}

func NewPipeline(v vault.Vault, defaults DefaultsSource, loaders *imageloader.Service, store *galleryui.Store[*galleryui.Gallery], opts PipelineOptions) *Pipeline {
	return &Pipeline{
		parser:   gallery.NewParser(v),
		defaults: defaults,
		loaders:  loaders,
		store:    store,
		opts:     opts,
	}
}

func (p *Pipeline) Build(ctx context.Context, source, contextPath string) (*galleryui.Gallery, *gallery.Notices) {
	block := p.parser.Parse(ctx, source, contextPath, p.defaults.Defaults())

	g := galleryui.New(ctx, block.Images, block.Settings, galleryui.Options{
		ID:           galleryui.NewID(),
		Loader:       p.loaders.Loader(),
		LazyMarginPx: p.opts.LazyMarginPx,
		ThumbSlotPx:  p.opts.ThumbSlotPx,
		NoImagesText: p.opts.NoImagesText,
	})
	if p.store != nil && g.State() == galleryui.StateActive {
		p.store.Put(g.ID(), g)
	}
	return g, block.Notices
}

func (p *Pipeline) BuildGallery(ctx context.Context, source, contextPath string) string {
	g, notices := p.Build(ctx, source, contextPath)

	var sb strings.Builder
	sb.WriteString(RenderNotices(notices))
	sb.WriteString(g.Render())
	return sb.String()
}

// RenderNotices lists the diagnostics of a block, or returns "" when there
// are none.
func RenderNotices(notices *gallery.Notices) string {
	if notices.Len() == 0 {
		return ""
	}
	list := dom.New("div", NoticesClass)
	for _, n := range notices.List() {
		p := dom.New("p", NoticeClass)
		p.SetText(n.Message)
		list.Append(p)
	}
	return list.Render()
}
