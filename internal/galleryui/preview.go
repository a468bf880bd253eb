package galleryui

import (
	"context"
	"sync"

	"github.com/SayaAndy/vault-gallery/internal/dom"
	"github.com/SayaAndy/vault-gallery/internal/gallery"
	"github.com/SayaAndy/vault-gallery/internal/imageloader"
)

// PreviewStrip is the scrollable row of thumbnails under the active image.
type PreviewStrip struct {
	mu     *sync.Mutex
	owner  slideOwner
	images []gallery.ImageReference
	aspect gallery.PreviewAspect

	renderer Renderer
	lazy     *imageloader.LazyObserver
	slotPx   int

	outer  *dom.Node
	track  *dom.Node
	thumbs []*dom.Node
	active int
}

func newPreviewStrip(g *Gallery, images []gallery.ImageReference, aspect gallery.PreviewAspect, renderer Renderer, lazy *imageloader.LazyObserver, slotPx int) *PreviewStrip {
	return &PreviewStrip{
		mu:       &g.mu,
		owner:    g,
		images:   images,
		aspect:   aspect,
		renderer: renderer,
		lazy:     lazy,
		slotPx:   slotPx,
	}
}

func (p *PreviewStrip) render(hidden bool, active int) {
	p.outer = dom.New("div", PreviewOuterClass)
	p.outer.SetClass(HiddenClass, hidden)
	p.track = dom.New("div", PreviewClass)
	p.outer.Append(p.track)
	p.active = active

	for i, image := range p.images {
		thumb := p.renderer.RenderThumbnail(image, i, p.aspect)
		thumb.SetAttr(ActionAttr, "click-thumb")
		thumb.SetAttr(IndexAttr, slotAttr(i))
		if i == active {
			thumb.AddClass(PreviewImgActive)
		}
		if p.lazy != nil {
			p.lazy.Observe(thumb, image.URL, imageloader.Span{Start: i * p.slotPx, End: (i + 1) * p.slotPx})
		}
		p.track.Append(thumb)
		p.thumbs = append(p.thumbs, thumb)
	}
}

func (p *PreviewStrip) slideChanged(ctx context.Context, index int) {
	p.setActiveSlide(index)
}

func (p *PreviewStrip) setActiveSlide(index int) {
	if index == p.active || index < 0 || index >= len(p.thumbs) {
		return
	}
	p.thumbs[p.active].RemoveClass(PreviewImgActive)
	p.thumbs[index].AddClass(PreviewImgActive)
	p.active = index
	p.scrollToActive(true)
}

func (p *PreviewStrip) scrollToActive(smooth bool) {
	if p.active < len(p.thumbs) {
		p.thumbs[p.active].ScrollIntoView(smooth)
	}
}

// click marks the thumbnail locally first, then hands the slide to the
// gallery, which brings the other views in line.
func (p *PreviewStrip) click(ctx context.Context, index int) {
	if index < 0 || index >= len(p.thumbs) {
		return
	}
	p.setActiveSlide(index)
	p.owner.selectSlide(ctx, index)
	p.owner.focus()
}

func (p *PreviewStrip) toggle() {
	p.outer.ToggleClass(HiddenClass)
}

func (p *PreviewStrip) ActiveSlide() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

func (p *PreviewStrip) IsHidden() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outer.HasClass(HiddenClass)
}

// Toggle flips the strip between hidden and visible.
func (p *PreviewStrip) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toggle()
}

// SetActiveSlide moves the active marker without notifying the gallery.
func (p *PreviewStrip) SetActiveSlide(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setActiveSlide(index)
}

// ActiveThumbnails returns the indices of thumbnails carrying the active
// marker.
func (p *PreviewStrip) ActiveThumbnails() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	active := make([]int, 0, 1)
	for i, thumb := range p.thumbs {
		if thumb.HasClass(PreviewImgActive) {
			active = append(active, i)
		}
	}
	return active
}

// Pending is the number of thumbnails whose load has not been dispatched.
func (p *PreviewStrip) Pending() int {
	if p.lazy == nil {
		return 0
	}
	return p.lazy.Pending()
}
