package galleryui

import (
	"context"
	"sync"

	"github.com/SayaAndy/vault-gallery/internal/dom"
	"github.com/SayaAndy/vault-gallery/internal/gallery"
	"github.com/SayaAndy/vault-gallery/internal/imageloader"
)

// Lightbox is the full screen overlay. It keeps its own slide index, which
// follows the gallery and feeds its own navigation back through it.
type Lightbox struct {
	mu     *sync.Mutex
	owner  slideOwner
	images []gallery.ImageReference
	loader *imageloader.Loader

	container *dom.Node
	content   *dom.Node
	img       *dom.Node
	indices   []*dom.Node
	active    int
}

func newLightbox(g *Gallery, images []gallery.ImageReference, pagination gallery.PaginationIndicator, renderer Renderer, loader *imageloader.Loader) *Lightbox {
	l := &Lightbox{
		mu:     &g.mu,
		owner:  g,
		images: images,
		loader: loader,
	}

	l.container, l.content = renderer.RenderOverlay()
	l.container.SetAttr("tabindex", "0")
	l.container.SetAttr(TargetAttr, string(TargetLightbox))
	l.container.SetAttr(ActionAttr, "click-overlay")
	l.content.SetAttr(ActionAttr, "consume")

	l.img = dom.New("img", LightboxImageClass)
	l.img.SetAttr(ActionAttr, "click-lightbox-image")
	l.content.Append(l.img)

	if pagination != gallery.PaginationHide {
		index := renderer.RenderIndex(IndexText(l.active, len(images)), false)
		l.content.Append(index)
		l.indices = append(l.indices, index)
	}

	left := renderer.RenderArrow(SideLeft)
	left.SetAttr(ActionAttr, "lightbox-prev")
	right := renderer.RenderArrow(SideRight)
	right.SetAttr(ActionAttr, "lightbox-next")
	l.content.Append(left, right)

	exit := dom.New("div", ControlClass, LightboxExitClass)
	exit.SetText("✕")
	exit.SetAttr(ActionAttr, "close")
	l.content.Append(exit)

	return l
}

func (l *Lightbox) isOpen() bool {
	return !l.container.HasClass(HiddenClass)
}

func (l *Lightbox) open(ctx context.Context, index int) {
	if index < 0 || index >= len(l.images) {
		index = 0
	}
	l.active = index
	l.container.RemoveClass(HiddenClass)
	l.showActive(ctx)
	l.container.Focus()
}

func (l *Lightbox) close() {
	l.container.AddClass(HiddenClass)
	l.container.RemoveAttr(dom.FocusAttr)
	l.owner.focus()
}

func (l *Lightbox) showActive(ctx context.Context) {
	image := l.images[l.active]
	l.img.RemoveClass(l.loader.ErrorClass())
	l.img.SetAttr("src", image.URL)
	l.img.SetAttr("alt", image.Name())
	if l.isOpen() {
		l.loader.LoadImmediate(ctx, l.img, image.URL)
	}
	for _, index := range l.indices {
		index.SetText(IndexText(l.active, len(l.images)))
	}
}

func (l *Lightbox) slideChanged(ctx context.Context, index int) {
	l.setSlide(ctx, index)
}

func (l *Lightbox) setSlide(ctx context.Context, index int) {
	if index < 0 || index >= len(l.images) || index == l.active {
		return
	}
	l.active = index
	l.showActive(ctx)
}

// updateSlide moves the lightbox and then asks the gallery to follow. The
// gallery notifies the lightbox back, which is a no-op by then.
func (l *Lightbox) updateSlide(ctx context.Context, offset int) {
	n := len(l.images)
	if n == 0 {
		return
	}
	l.active = ((l.active+offset)%n + n) % n
	l.showActive(ctx)
	l.owner.selectSlide(ctx, l.active)
}

func (l *Lightbox) handleAction(ctx context.Context, action Action) bool {
	if !l.isOpen() {
		return false
	}
	switch action {
	case ActionPrevious:
		l.updateSlide(ctx, -1)
	case ActionNext:
		l.updateSlide(ctx, 1)
	case ActionFirst:
		l.setSlide(ctx, 0)
		l.owner.selectSlide(ctx, 0)
	case ActionLast:
		l.setSlide(ctx, len(l.images)-1)
		l.owner.selectSlide(ctx, len(l.images)-1)
	case ActionEscape, ActionToggleLightbox:
		l.close()
	default:
		return false
	}
	return true
}

func (l *Lightbox) Open(ctx context.Context, index int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open(ctx, index)
}

func (l *Lightbox) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.close()
}

func (l *Lightbox) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isOpen()
}

// SetSlide shows index without moving the gallery.
func (l *Lightbox) SetSlide(ctx context.Context, index int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setSlide(ctx, index)
}

// UpdateSlide moves by offset, wrapping, and the gallery follows.
func (l *Lightbox) UpdateSlide(ctx context.Context, offset int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.updateSlide(ctx, offset)
}

func (l *Lightbox) ActiveSlide() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}
