package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SayaAndy/vault-gallery/internal/dom"
	"github.com/SayaAndy/vault-gallery/internal/gallery"
	"github.com/SayaAndy/vault-gallery/internal/galleryui"
	"github.com/SayaAndy/vault-gallery/internal/imageloader"
	"github.com/SayaAndy/vault-gallery/internal/vault"
)

// VerticalPadding is the part of the container height not given to the
// gallery.
const VerticalPadding = 140

const (
	ContainerClass  = "litegal-bases-view-container"
	MainClass       = "litegal-bases-main"
	ResizerClass    = "litegal-resizer"
	ToggleClass     = "litegal-sidebar-toggle"
	EmptyStateClass = "litegal-empty-state"
	ErrorClass      = "litegal-error-message"

	CollectionIDAttr = "data-collection-id"

	toggleCollapsedText = "ⓘ"
	toggleOpenText      = "»"
)

var ErrNoGallery = errors.New("collection has no images")

type ViewOptions struct {
	ID              string
	ContainerHeight int
	ActiveSlide     int
	Base            gallery.Settings
	Loader          *imageloader.Loader
	LazyMarginPx    int
	ThumbSlotPx     int
	Labels          Labels
}

// Event is a gallery event, or a sidebar resize carrying the pointer
// position and the container geometry.
type Event struct {
	galleryui.Event
	X     int
	Right int
	Width int
}

// View is a gallery over a collection with a metadata sidebar for the
// active image.
type View struct {
	mu sync.Mutex

	id      string
	vault   vault.Vault
	result  *Result
	active  int
	labels  Labels
	gallery *galleryui.Gallery
	sidebar *Sidebar

	root    *dom.Node
	resizer *dom.Node
	toggle  *dom.Node
}

func NewView(ctx context.Context, v vault.Vault, rows []Row, collect Options, opts ViewOptions) *View {
	if opts.Labels == (Labels{}) {
		opts.Labels = DefaultLabels()
	}

	view := &View{
		id:     opts.ID,
		vault:  v,
		labels: opts.Labels,
		root:   dom.New("div", ContainerClass),
	}
	view.root.SetAttr(CollectionIDAttr, opts.ID)

	result, err := Collect(ctx, v, rows, collect)
	if err != nil {
		slog.Error("failed to update collection view", slog.String("error", err.Error()))
		failure := dom.New("div", ErrorClass)
		failure.SetText(fmt.Sprintf(opts.Labels.LoadError, err.Error()))
		view.root.Append(failure)
		return view
	}
	view.result = result

	if len(result.Images) == 0 {
		empty := dom.New("div", EmptyStateClass)
		title := dom.New("h3")
		title.SetText(opts.Labels.NoImages)
		tip := dom.New("p")
		tip.SetText(opts.Labels.NoImagesTip)
		view.root.Append(empty.Append(title, tip))
		return view
	}

	main := dom.New("div", MainClass)
	view.resizer = dom.New("div", ResizerClass, galleryui.HiddenClass)
	view.resizer.SetAttr(galleryui.ActionAttr, "resize")
	view.sidebar = NewSidebar(opts.Labels)

	view.toggle = dom.New("div", galleryui.ControlClass, ToggleClass, CollapsedClass)
	view.toggle.SetText(toggleCollapsedText)
	view.toggle.SetAttr(galleryui.ActionAttr, "toggle-sidebar")
	main.Append(view.toggle)

	settings := opts.Base
	settings.GalleryAspect = gallery.AspectContain
	settings.PreviewAspect = gallery.PreviewFitToHeight
	if height := opts.ContainerHeight - VerticalPadding; height > 0 {
		settings.TargetHeightPx = height
	}

	view.gallery = galleryui.New(ctx, result.Images, settings, galleryui.Options{
		ID:           opts.ID,
		Loader:       opts.Loader,
		InitialSlide: opts.ActiveSlide,
		LazyMarginPx: opts.LazyMarginPx,
		ThumbSlotPx:  opts.ThumbSlotPx,
		OnSlideChange: func(_ context.Context, index int) {
			view.active = index
			view.sidebar.Render(v, result.Files[index], result.CodeblockRefs)
		},
		OnToggleInfo: func(context.Context) {
			view.toggleSidebar()
		},
	})
	main.Append(view.gallery.Node())

	view.root.Append(main, view.resizer, view.sidebar.Node())
	return view
}

func (v *View) ID() string {
	return v.id
}

func (v *View) Result() *Result {
	return v.result
}

// Gallery is nil when the collection holds no images.
func (v *View) Gallery() *galleryui.Gallery {
	return v.gallery
}

func (v *View) Sidebar() *Sidebar {
	return v.sidebar
}

// toggleSidebar expects the caller to hold the gallery lock or to be its
// slide callback.
func (v *View) toggleSidebar() {
	v.sidebar.Toggle()
	if v.sidebar.Collapsed() {
		v.resizer.AddClass(galleryui.HiddenClass)
		v.toggle.AddClass(CollapsedClass)
		v.toggle.SetText(toggleCollapsedText)
		v.sidebar.Render(v.vault, v.result.Files[v.active], v.result.CodeblockRefs)
		return
	}
	v.resizer.RemoveClass(galleryui.HiddenClass)
	v.toggle.RemoveClass(CollapsedClass)
	v.toggle.SetText(toggleOpenText)
	v.sidebar.Render(v.vault, v.result.Files[v.active], v.result.CodeblockRefs)
}

// ToggleSidebar opens or collapses the sidebar and hands focus back to the
// gallery.
func (v *View) ToggleSidebar(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gallery == nil {
		return ErrNoGallery
	}

	v.gallery.Lock()
	v.toggleSidebar()
	v.gallery.Unlock()

	v.gallery.Focus()
	return nil
}

// Resize sets the sidebar width from the pointer position x while dragging
// the resizer. Widths outside (MinSidebarWidth, MaxSidebarWidthRatio ×
// containerWidth) are ignored. It reports whether the width changed.
func (v *View) Resize(x, containerRight, containerWidth int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sidebar == nil {
		return false
	}

	width := containerRight - x
	maxWidth := float64(containerWidth) * MaxSidebarWidthRatio
	if width <= MinSidebarWidth || float64(width) >= maxWidth {
		return false
	}

	v.gallery.Lock()
	defer v.gallery.Unlock()
	v.sidebar.SetWidth(width)
	return true
}

// Dispatch applies a browser event to the view.
func (v *View) Dispatch(ctx context.Context, ev Event) error {
	switch ev.Action {
	case "toggle-sidebar":
		return v.ToggleSidebar(ctx)
	case "resize":
		v.Resize(ev.X, ev.Right, ev.Width)
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gallery == nil {
		return ErrNoGallery
	}
	return v.gallery.Dispatch(ctx, ev.Event)
}

// Render returns the view markup, gallery included.
func (v *View) Render() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.gallery != nil {
		v.gallery.Lock()
		defer v.gallery.Unlock()
	}
	html := v.root.Render()
	galleryui.ClearTransient(v.root)
	return html
}
