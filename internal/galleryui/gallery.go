package galleryui

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/SayaAndy/vault-gallery/internal/dom"
	"github.com/SayaAndy/vault-gallery/internal/gallery"
	"github.com/SayaAndy/vault-gallery/internal/imageloader"
)

const (
	ActionAttr    = "data-action"
	IndexAttr     = "data-index"
	TargetAttr    = "data-target"
	GalleryIDAttr = "data-gallery-id"
	SlotAttr      = "data-slot"
)

const DefaultNoImagesText = "No images found."

type State string

const (
	StateNoImages State = "no-images"
	StateActive   State = "active"
)

// slideObserver is notified after the gallery changed its active slide.
type slideObserver interface {
	slideChanged(ctx context.Context, index int)
}

// slideOwner is the gallery as seen by its strip and lightbox.
type slideOwner interface {
	selectSlide(ctx context.Context, index int)
	focus()
}

type Options struct {
	ID           string
	Renderer     Renderer
	Loader       *imageloader.Loader
	LazyMarginPx int
	ThumbSlotPx  int
	InitialSlide int
	NoImagesText string

	// OnSlideChange runs after every slide change, and once on construction.
	OnSlideChange func(ctx context.Context, index int)
	// OnToggleInfo runs when the toggle-info key is pressed in the gallery.
	OnToggleInfo func(ctx context.Context)
}

// Gallery owns the active slide of one rendered gallery. The preview strip
// and the lightbox only mirror it.
type Gallery struct {
	mu sync.Mutex

	id       string
	images   []gallery.ImageReference
	urls     []string
	settings gallery.Settings
	keymap   Keymap
	renderer Renderer
	loader   *imageloader.Loader
	opts     Options

	active    int
	observers []slideObserver
	strip     *PreviewStrip
	lightbox  *Lightbox

	root            *dom.Node
	activeContainer *dom.Node
	img             *dom.Node
	indices         []*dom.Node
}

func New(ctx context.Context, images []gallery.ImageReference, settings gallery.Settings, opts Options) *Gallery {
	if opts.Renderer == nil {
		opts.Renderer = HTMLRenderer{}
	}
	if opts.Loader == nil {
		opts.Loader = imageloader.New(imageloader.FetcherFunc(func(context.Context, string) ([]byte, error) {
			return nil, fmt.Errorf("no image fetcher configured")
		}))
	}
	if opts.NoImagesText == "" {
		opts.NoImagesText = DefaultNoImagesText
	}

	urls := make([]string, len(images))
	for i, img := range images {
		urls[i] = img.URL
	}

	g := &Gallery{
		id:       opts.ID,
		images:   images,
		urls:     urls,
		settings: settings,
		keymap:   NewKeymap(settings.Hotkeys),
		renderer: opts.Renderer,
		loader:   opts.Loader,
		opts:     opts,
	}
	if opts.InitialSlide > 0 && opts.InitialSlide < len(images) {
		g.active = opts.InitialSlide
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.render(ctx)
	if len(images) > 0 {
		g.scrollToActive(false)
		if g.opts.OnSlideChange != nil {
			g.opts.OnSlideChange(ctx, g.active)
		}
	}
	return g
}

func (g *Gallery) render(ctx context.Context) {
	g.root = dom.New("div", GalleryClass)
	g.root.SetAttr(GalleryIDAttr, g.id)

	if len(g.images) == 0 {
		g.root.Append(g.renderer.RenderEmpty(g.opts.NoImagesText))
		return
	}

	g.root.SetAttr("style", fmt.Sprintf("--gallery-height: %dpx", g.settings.TargetHeightPx))

	g.activeContainer = dom.New("div", ActiveClass)
	g.activeContainer.SetAttr("tabindex", "0")
	g.activeContainer.SetAttr(TargetAttr, string(TargetGallery))
	g.root.Append(g.activeContainer)

	g.img = g.renderer.RenderActiveImage(g.settings.GalleryAspect)
	g.img.SetAttr(ActionAttr, "click-active")
	g.activeContainer.Append(g.img)
	g.updateActiveImage(ctx)

	left := g.renderer.RenderArrow(SideLeft)
	left.SetAttr(ActionAttr, "prev")
	right := g.renderer.RenderArrow(SideRight)
	right.SetAttr(ActionAttr, "next")
	g.activeContainer.Append(left, right)

	g.focus()

	switch g.settings.PreviewLayout {
	case gallery.PreviewShow:
		g.setupPreviewStrip(false)
		g.createIndex(false)
	case gallery.PreviewToggle:
		g.setupPreviewStrip(true)
		g.createIndex(true)
	default:
		g.createIndex(false)
	}

	g.lightbox = newLightbox(g, g.images, g.settings.PaginationIndicator, g.renderer, g.loader)
	g.lightbox.active = g.active
	g.lightbox.showActive(ctx)
	g.observers = append(g.observers, g.lightbox)
	g.root.Append(g.lightbox.container)
}

func (g *Gallery) setupPreviewStrip(hidden bool) {
	var lazy *imageloader.LazyObserver
	if g.opts.ThumbSlotPx > 0 {
		lazy = imageloader.NewLazyObserver(g.loader, g.opts.LazyMarginPx)
	}
	g.strip = newPreviewStrip(g, g.images, g.settings.PreviewAspect, g.renderer, lazy, g.opts.ThumbSlotPx)
	g.strip.render(hidden, g.active)
	g.observers = append(g.observers, g.strip)
	g.root.Append(g.strip.outer)
}

func (g *Gallery) createIndex(toggle bool) {
	if g.settings.PaginationIndicator == gallery.PaginationHide {
		return
	}
	index := g.renderer.RenderIndex(IndexText(g.active, len(g.images)), toggle)
	if toggle {
		index.SetAttr(ActionAttr, "click-index")
	}
	g.activeContainer.Append(index)
	g.indices = append(g.indices, index)
}

func (g *Gallery) focus() {
	if g.activeContainer != nil {
		g.activeContainer.Focus()
	}
}

func (g *Gallery) scrollToActive(smooth bool) {
	if g.strip != nil {
		g.strip.scrollToActive(smooth)
	}
	g.activeContainer.ScrollIntoView(smooth)
}

// selectSlide makes index the active slide and brings every view in line. It
// expects g.mu to be held.
func (g *Gallery) selectSlide(ctx context.Context, index int) {
	if index < 0 || index >= len(g.images) || index == g.active {
		return
	}
	g.active = index

	for _, o := range g.observers {
		o.slideChanged(ctx, index)
	}
	g.scrollToActive(true)
	g.updateIndices()
	g.updateActiveImage(ctx)

	if g.opts.OnSlideChange != nil {
		g.opts.OnSlideChange(ctx, index)
	}
}

func (g *Gallery) updateActiveImage(ctx context.Context) {
	image := g.images[g.active]
	g.img.RemoveClass(g.loader.ErrorClass())
	g.img.SetAttr("src", image.URL)
	g.img.SetAttr("alt", image.Name())
	g.loader.LoadImmediate(ctx, g.img, image.URL)
	g.loader.PreloadAdjacent(g.urls, g.active)
}

func (g *Gallery) updateIndices() {
	for _, index := range g.indices {
		index.SetText(IndexText(g.active, len(g.images)))
	}
}

func (g *Gallery) advance(ctx context.Context, offset int) {
	n := len(g.images)
	if n == 0 {
		return
	}
	g.selectSlide(ctx, ((g.active+offset)%n+n)%n)
}

func (g *Gallery) toggleLightbox(ctx context.Context) {
	if g.lightbox.isOpen() {
		g.lightbox.close()
	} else {
		g.lightbox.open(ctx, g.active)
	}
}

func (g *Gallery) ID() string {
	return g.id
}

func (g *Gallery) State() State {
	if len(g.images) == 0 {
		return StateNoImages
	}
	return StateActive
}

func (g *Gallery) Len() int {
	return len(g.images)
}

func (g *Gallery) Images() []gallery.ImageReference {
	return g.images
}

func (g *Gallery) Settings() gallery.Settings {
	return g.settings
}

func (g *Gallery) ActiveSlide() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// ActiveImage returns the image on the active slide.
func (g *Gallery) ActiveImage() (gallery.ImageReference, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.images) == 0 {
		return gallery.ImageReference{}, false
	}
	return g.images[g.active], true
}

// IndexTexts returns every pagination label currently shown, the lightbox
// ones included.
func (g *Gallery) IndexTexts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	texts := make([]string, 0, len(g.indices))
	for _, index := range g.indices {
		texts = append(texts, index.Text)
	}
	if g.lightbox != nil {
		for _, index := range g.lightbox.indices {
			texts = append(texts, index.Text)
		}
	}
	return texts
}

func (g *Gallery) Lightbox() *Lightbox {
	return g.lightbox
}

func (g *Gallery) PreviewStrip() *PreviewStrip {
	return g.strip
}

// SetSlide is a no-op when index is already active or out of range.
func (g *Gallery) SetSlide(ctx context.Context, index int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selectSlide(ctx, index)
}

// Advance moves by offset slides, wrapping at both ends.
func (g *Gallery) Advance(ctx context.Context, offset int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.advance(ctx, offset)
}

func (g *Gallery) JumpFirst(ctx context.Context) {
	g.SetSlide(ctx, 0)
}

func (g *Gallery) JumpLast(ctx context.Context) {
	g.SetSlide(ctx, len(g.images)-1)
}

// ClickActiveImage opens the lightbox on the current slide.
func (g *Gallery) ClickActiveImage(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lightbox != nil {
		g.lightbox.open(ctx, g.active)
	}
}

func (g *Gallery) ClickThumbnail(ctx context.Context, index int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.strip != nil {
		g.strip.click(ctx, index)
	}
}

// ClickIndex toggles the preview strip when the layout allows it.
func (g *Gallery) ClickIndex(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.settings.PreviewLayout == gallery.PreviewToggle && g.strip != nil {
		g.strip.toggle()
	}
}

// ClickOverlay closes the lightbox when the click landed outside the image.
func (g *Gallery) ClickOverlay(ctx context.Context) {
	g.CloseLightbox(ctx)
}

// ClickLightboxImage is consumed by the image and never closes the lightbox.
func (g *Gallery) ClickLightboxImage(ctx context.Context) {}

func (g *Gallery) CloseLightbox(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lightbox != nil && g.lightbox.isOpen() {
		g.lightbox.close()
	}
}

func (g *Gallery) ToggleLightbox(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lightbox != nil {
		g.toggleLightbox(ctx)
	}
}

// HandleKey runs the action bound to key for the element that received it.
// It reports whether the key was handled.
func (g *Gallery) HandleKey(ctx context.Context, target Target, key string) bool {
	action, ok := g.keymap.Lookup(key)
	if !ok || len(g.images) == 0 {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if target == TargetLightbox {
		return g.lightbox.handleAction(ctx, action)
	}

	switch action {
	case ActionPrevious:
		g.advance(ctx, -1)
	case ActionNext:
		g.advance(ctx, 1)
	case ActionFirst:
		g.selectSlide(ctx, 0)
	case ActionLast:
		g.selectSlide(ctx, len(g.images)-1)
	case ActionToggleLightbox:
		g.toggleLightbox(ctx)
	case ActionToggleInfo:
		if g.opts.OnToggleInfo == nil {
			return false
		}
		g.opts.OnToggleInfo(ctx)
	default:
		return false
	}
	return true
}

// Visible reports the horizontal pixel range of the preview strip currently
// on screen, so thumbnails near it are loaded.
func (g *Gallery) Visible(ctx context.Context, from, to int) []imageloader.Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.strip == nil || g.strip.lazy == nil {
		return nil
	}
	return g.strip.lazy.Update(ctx, imageloader.Span{Start: from, End: to})
}

// Render returns the gallery markup. Focus and scroll requests are emitted
// once and then cleared.
func (g *Gallery) Render() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	html := g.root.Render()
	clearTransient(g.root)
	return html
}

// Focus asks the browser to move keyboard focus back to the active image.
func (g *Gallery) Focus() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.focus()
}

// Node exposes the gallery tree so a host view can embed it.
func (g *Gallery) Node() *dom.Node {
	return g.root
}

// Lock lets a host view that embeds Node render it consistently.
func (g *Gallery) Lock()   { g.mu.Lock() }
func (g *Gallery) Unlock() { g.mu.Unlock() }

func clearTransient(n *dom.Node) {
	n.RemoveAttr(dom.FocusAttr)
	n.RemoveAttr(dom.ScrollAttr)
	for _, c := range n.Children {
		clearTransient(c)
	}
}

// ClearTransient drops one-shot focus and scroll requests from a tree.
func ClearTransient(n *dom.Node) {
	clearTransient(n)
}

func slotAttr(i int) string {
	return strconv.Itoa(i)
}
