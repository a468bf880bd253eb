package galleryui

import (
	"fmt"

	"github.com/SayaAndy/vault-gallery/internal/dom"
	"github.com/SayaAndy/vault-gallery/internal/gallery"
)

type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

const (
	HiddenClass = "hidden"

	GalleryClass         = "litegal"
	NoImagesClass        = "litegal-no-images"
	ActiveClass          = "litegal-active"
	IndexClass           = "litegal-index"
	IndexActiveClass     = "litegal-index-active"
	ControlClass         = "litegal-control"
	ArrowClass           = "litegal-arrow"
	PreviewOuterClass    = "litegal-preview-outer"
	PreviewClass         = "litegal-preview"
	PreviewImgClass      = "litegal-preview-img"
	PreviewSquareClass   = "litegal-preview-img-square"
	PreviewImgActive     = "litegal-preview-img-active"
	LightboxOuterClass   = "litegal-lightbox-container"
	LightboxClass        = "litegal-lightbox"
	LightboxImageClass   = "litegal-lightbox-image"
	LightboxExitClass    = "litegal-lightbox-exit"
	ActiveImageAspectFmt = "litegal-aspect-%s"
)

// Renderer builds the visual pieces of a gallery. Behaviour is attached by the
// gallery itself, so a renderer only decides markup and classes.
type Renderer interface {
	RenderActiveImage(aspect gallery.GalleryAspect) *dom.Node
	RenderThumbnail(image gallery.ImageReference, index int, aspect gallery.PreviewAspect) *dom.Node
	RenderOverlay() (container, content *dom.Node)
	RenderIndex(text string, toggle bool) *dom.Node
	RenderArrow(side Side) *dom.Node
	RenderEmpty(message string) *dom.Node
}

type HTMLRenderer struct{}

func (HTMLRenderer) RenderActiveImage(aspect gallery.GalleryAspect) *dom.Node {
	return dom.New("img", fmt.Sprintf(ActiveImageAspectFmt, aspect))
}

func (HTMLRenderer) RenderThumbnail(image gallery.ImageReference, index int, aspect gallery.PreviewAspect) *dom.Node {
	thumb := dom.New("img", PreviewImgClass)
	if aspect == gallery.PreviewSquare {
		thumb.AddClass(PreviewSquareClass)
	}
	thumb.SetAttr("src", image.URL)
	thumb.SetAttr("alt", image.Name())
	thumb.SetAttr("loading", "lazy")
	return thumb
}

func (HTMLRenderer) RenderOverlay() (*dom.Node, *dom.Node) {
	container := dom.New("div", LightboxOuterClass, HiddenClass)
	content := dom.New("div", LightboxClass)
	container.Append(content)
	return container, content
}

func (HTMLRenderer) RenderIndex(text string, toggle bool) *dom.Node {
	index := dom.New("div", IndexClass)
	if toggle {
		index.AddClass(IndexActiveClass)
	}
	index.SetText(text)
	return index
}

func (HTMLRenderer) RenderArrow(side Side) *dom.Node {
	arrow := dom.New("div", ControlClass, ArrowClass, ArrowClass+"-"+string(side))
	if side == SideLeft {
		arrow.SetText("❮")
	} else {
		arrow.SetText("❯")
	}
	return arrow
}

func (HTMLRenderer) RenderEmpty(message string) *dom.Node {
	p := dom.New("p", NoImagesClass)
	p.SetText(message)
	return p
}

// IndexText is the pagination label for a zero based slide.
func IndexText(active, total int) string {
	return fmt.Sprintf("%d of %d", active+1, total)
}
