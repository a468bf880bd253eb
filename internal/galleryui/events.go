package galleryui

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnknownAction = errors.New("unknown gallery action")

// Event is one user interaction forwarded by the browser.
type Event struct {
	Action string
	Index  int
	Target Target
	Key    string
	From   int
	To     int
}

// Dispatch applies the event to the gallery.
func (g *Gallery) Dispatch(ctx context.Context, ev Event) error {
	switch ev.Action {
	case "next":
		g.Advance(ctx, 1)
	case "prev":
		g.Advance(ctx, -1)
	case "first":
		g.JumpFirst(ctx)
	case "last":
		g.JumpLast(ctx)
	case "slide":
		g.SetSlide(ctx, ev.Index)
	case "key":
		target := ev.Target
		if target == "" {
			target = TargetGallery
		}
		g.HandleKey(ctx, target, ev.Key)
	case "click-active":
		g.ClickActiveImage(ctx)
	case "click-thumb":
		g.ClickThumbnail(ctx, ev.Index)
	case "click-index":
		g.ClickIndex(ctx)
	case "click-overlay":
		g.ClickOverlay(ctx)
	case "click-lightbox-image", "consume":
		g.ClickLightboxImage(ctx)
	case "close":
		g.CloseLightbox(ctx)
	case "lightbox-next", "lightbox-prev":
		if g.lightbox == nil {
			return nil
		}
		offset := 1
		if ev.Action == "lightbox-prev" {
			offset = -1
		}
		g.lightbox.UpdateSlide(ctx, offset)
	case "visible":
		g.Visible(ctx, ev.From, ev.To)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, ev.Action)
	}
	return nil
}
