package galleryui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/SayaAndy/vault-gallery/internal/dom"
	"github.com/SayaAndy/vault-gallery/internal/gallery"
	"github.com/SayaAndy/vault-gallery/internal/imageloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func testLoader() *imageloader.Loader {
	return imageloader.New(imageloader.FetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		if strings.Contains(url, "bad") {
			return nil, errors.New("boom")
		}
		return pngBytes, nil
	}))
}

func testImages(n int) []gallery.ImageReference {
	images := make([]gallery.ImageReference, n)
	for i := range images {
		images[i] = gallery.ImageReference{URL: fmt.Sprintf("/vault/img%d.png", i)}
	}
	return images
}

func newTestGallery(t *testing.T, n int, mutate func(*gallery.Settings), opts Options) *Gallery {
	t.Helper()
	settings := gallery.DefaultSettings()
	if mutate != nil {
		mutate(&settings)
	}
	if opts.Loader == nil {
		opts.Loader = testLoader()
	}
	opts.ID = "g1"
	g := New(context.Background(), testImages(n), settings, opts)
	t.Cleanup(opts.Loader.Wait)
	return g
}

func TestGallery_NoImages(t *testing.T) {
	g := newTestGallery(t, 0, nil, Options{})
	ctx := context.Background()

	assert.Equal(t, StateNoImages, g.State())
	assert.NotPanics(t, func() {
		g.Advance(ctx, 1)
		g.JumpLast(ctx)
		g.ClickActiveImage(ctx)
		g.ClickThumbnail(ctx, 0)
		g.CloseLightbox(ctx)
		assert.False(t, g.HandleKey(ctx, TargetGallery, "ArrowRight"))
		assert.NoError(t, g.Dispatch(ctx, Event{Action: "visible", From: 0, To: 100}))
	})
	assert.Equal(t, `<div class="litegal" data-gallery-id="g1"><p class="litegal-no-images">No images found.</p></div>`, g.Render())
}

func TestGallery_AdvanceWraps(t *testing.T) {
	ctx := context.Background()
	for n := 1; n <= 5; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			g := newTestGallery(t, n, nil, Options{})

			g.JumpLast(ctx)
			require.Equal(t, n-1, g.ActiveSlide())
			g.Advance(ctx, 1)
			assert.Equal(t, 0, g.ActiveSlide())

			g.Advance(ctx, -1)
			assert.Equal(t, n-1, g.ActiveSlide())

			g.JumpFirst(ctx)
			assert.Equal(t, 0, g.ActiveSlide())
		})
	}
}

func TestGallery_SetSlide(t *testing.T) {
	var changes []int
	g := newTestGallery(t, 3, nil, Options{OnSlideChange: func(ctx context.Context, i int) { changes = append(changes, i) }})
	ctx := context.Background()

	g.SetSlide(ctx, 0)
	g.SetSlide(ctx, 3)
	g.SetSlide(ctx, -1)
	g.SetSlide(ctx, 2)

	assert.Equal(t, []int{0, 2}, changes)
	assert.Equal(t, 2, g.ActiveSlide())
	assert.Equal(t, []string{"3 of 3", "3 of 3"}, g.IndexTexts())
	assert.Equal(t, []int{2}, g.PreviewStrip().ActiveThumbnails())

	image, ok := g.ActiveImage()
	require.True(t, ok)
	assert.Equal(t, "/vault/img2.png", image.URL)
	assert.Contains(t, g.Render(), `src="/vault/img2.png"`)
}

func TestGallery_InitialSlide(t *testing.T) {
	g := newTestGallery(t, 4, nil, Options{InitialSlide: 2})
	assert.Equal(t, 2, g.ActiveSlide())
	assert.Equal(t, 2, g.Lightbox().ActiveSlide())
	assert.Equal(t, []string{"3 of 4", "3 of 4"}, g.IndexTexts())
}

func TestLightbox_BidirectionalSync(t *testing.T) {
	ctx := context.Background()
	for n := 1; n <= 4; n++ {
		for k := 0; k < n; k++ {
			t.Run(fmt.Sprintf("n=%d/k=%d", n, k), func(t *testing.T) {
				g := newTestGallery(t, n, nil, Options{})
				lb := g.Lightbox()

				g.SetSlide(ctx, k)
				g.ClickActiveImage(ctx)
				require.True(t, lb.IsOpen())
				require.Equal(t, k, lb.ActiveSlide())

				lb.UpdateSlide(ctx, 1)
				assert.Equal(t, (k+1)%n, g.ActiveSlide())
				assert.Equal(t, (k+1)%n, lb.ActiveSlide())

				g.Advance(ctx, -1)
				assert.Equal(t, k, lb.ActiveSlide())

				texts := g.IndexTexts()
				for _, text := range texts {
					assert.Equal(t, IndexText(k, n), text)
				}
			})
		}
	}
}

func TestGallery_Keys(t *testing.T) {
	var infoToggles int
	g := newTestGallery(t, 3, nil, Options{OnToggleInfo: func(context.Context) { infoToggles++ }})
	ctx := context.Background()
	lb := g.Lightbox()

	assert.False(t, g.HandleKey(ctx, TargetGallery, "Escape"))
	assert.False(t, g.HandleKey(ctx, TargetGallery, "q"))

	assert.True(t, g.HandleKey(ctx, TargetGallery, "ArrowRight"))
	assert.Equal(t, 1, g.ActiveSlide())
	assert.True(t, g.HandleKey(ctx, TargetGallery, "ArrowUp"))
	assert.Equal(t, 2, g.ActiveSlide())
	assert.True(t, g.HandleKey(ctx, TargetGallery, "ArrowDown"))
	assert.Equal(t, 0, g.ActiveSlide())
	assert.True(t, g.HandleKey(ctx, TargetGallery, "i"))
	assert.Equal(t, 1, infoToggles)

	assert.True(t, g.HandleKey(ctx, TargetGallery, " "))
	require.True(t, lb.IsOpen())

	assert.True(t, g.HandleKey(ctx, TargetLightbox, "ArrowLeft"))
	assert.Equal(t, 2, g.ActiveSlide())
	assert.True(t, g.HandleKey(ctx, TargetLightbox, "ArrowDown"))
	assert.Equal(t, 0, g.ActiveSlide())
	assert.Equal(t, 0, lb.ActiveSlide())
	assert.True(t, g.HandleKey(ctx, TargetLightbox, "ArrowUp"))
	assert.Equal(t, 2, g.ActiveSlide())

	assert.True(t, g.HandleKey(ctx, TargetLightbox, "Escape"))
	assert.False(t, lb.IsOpen())
	assert.False(t, g.HandleKey(ctx, TargetLightbox, "Escape"))

	g.ToggleLightbox(ctx)
	require.True(t, lb.IsOpen())
	assert.True(t, g.HandleKey(ctx, TargetLightbox, " "))
	assert.False(t, lb.IsOpen())
}

func TestGallery_CustomHotkeys(t *testing.T) {
	g := newTestGallery(t, 3, func(s *gallery.Settings) {
		s.Hotkeys.Next = "l"
		s.Hotkeys.Previous = "h"
	}, Options{})
	ctx := context.Background()

	assert.False(t, g.HandleKey(ctx, TargetGallery, "ArrowRight"))
	assert.True(t, g.HandleKey(ctx, TargetGallery, "l"))
	assert.Equal(t, 1, g.ActiveSlide())
	assert.True(t, g.HandleKey(ctx, TargetGallery, "h"))
	assert.Equal(t, 0, g.ActiveSlide())
}

func TestLightbox_Clicks(t *testing.T) {
	g := newTestGallery(t, 2, nil, Options{})
	ctx := context.Background()
	lb := g.Lightbox()

	g.ClickActiveImage(ctx)
	g.ClickLightboxImage(ctx)
	assert.True(t, lb.IsOpen())

	html := g.Render()
	assert.Contains(t, html, `class="litegal-lightbox-container" data-action="click-overlay" data-focus="true"`)

	g.ClickOverlay(ctx)
	assert.False(t, lb.IsOpen())

	html = g.Render()
	assert.Contains(t, html, `class="litegal-lightbox-container hidden"`)
	assert.Contains(t, html, `class="litegal-active" data-focus="true"`)
	assert.NotContains(t, g.Render(), dom.FocusAttr)
}

func TestPreviewStrip(t *testing.T) {
	ctx := context.Background()

	t.Run("click thumbnail", func(t *testing.T) {
		g := newTestGallery(t, 4, nil, Options{})
		strip := g.PreviewStrip()
		require.NotNil(t, strip)
		assert.False(t, strip.IsHidden())

		g.ClickThumbnail(ctx, 3)
		assert.Equal(t, 3, g.ActiveSlide())
		assert.Equal(t, []int{3}, strip.ActiveThumbnails())

		g.Advance(ctx, 1)
		assert.Equal(t, []int{0}, strip.ActiveThumbnails())
		assert.Equal(t, 0, strip.ActiveSlide())

		g.ClickIndex(ctx)
		assert.False(t, strip.IsHidden())
	})

	t.Run("toggle layout", func(t *testing.T) {
		g := newTestGallery(t, 2, func(s *gallery.Settings) { s.PreviewLayout = gallery.PreviewToggle }, Options{})
		strip := g.PreviewStrip()
		assert.True(t, strip.IsHidden())
		assert.Contains(t, g.Render(), `class="litegal-index litegal-index-active" data-action="click-index"`)

		g.ClickIndex(ctx)
		assert.False(t, strip.IsHidden())
		g.ClickIndex(ctx)
		assert.True(t, strip.IsHidden())
	})

	t.Run("no preview", func(t *testing.T) {
		g := newTestGallery(t, 2, func(s *gallery.Settings) { s.PreviewLayout = gallery.PreviewHidden }, Options{})
		assert.Nil(t, g.PreviewStrip())
		assert.NotPanics(t, func() { g.ClickThumbnail(ctx, 1) })
		assert.Equal(t, 0, g.ActiveSlide())
	})

	t.Run("square aspect", func(t *testing.T) {
		g := newTestGallery(t, 1, nil, Options{})
		assert.Contains(t, g.Render(), PreviewSquareClass)

		g = newTestGallery(t, 1, func(s *gallery.Settings) { s.PreviewAspect = gallery.PreviewFitToHeight }, Options{})
		assert.NotContains(t, g.Render(), PreviewSquareClass)
	})
}

func TestGallery_PaginationHidden(t *testing.T) {
	g := newTestGallery(t, 3, func(s *gallery.Settings) { s.PaginationIndicator = gallery.PaginationHide }, Options{})
	assert.Empty(t, g.IndexTexts())
	assert.NotContains(t, g.Render(), IndexClass+`"`)
}

func TestGallery_LoadFailure(t *testing.T) {
	images := []gallery.ImageReference{{URL: "/vault/bad.png"}, {URL: "/vault/good.png"}}
	g := New(context.Background(), images, gallery.DefaultSettings(), Options{Loader: testLoader()})
	ctx := context.Background()

	html := g.Render()
	assert.Contains(t, html, `class="litegal-aspect-fit-to-height litegal-image-error"`)
	assert.Contains(t, html, `alt="Failed to load image"`)
	assert.NotContains(t, html, imageloader.LoadingClass)

	g.Advance(ctx, 1)
	html = g.Render()
	assert.Contains(t, html, `class="litegal-aspect-fit-to-height" alt="/vault/good.png" data-action="click-active"`)
}

func TestGallery_Render(t *testing.T) {
	g := newTestGallery(t, 2, func(s *gallery.Settings) { s.TargetHeightPx = 320 }, Options{})
	html := g.Render()

	assert.Contains(t, html, `style="--gallery-height: 320px"`)
	assert.Contains(t, html, `data-action="prev">❮</div>`)
	assert.Contains(t, html, `data-action="next">❯</div>`)
	assert.Contains(t, html, `>1 of 2</div>`)
	assert.Contains(t, html, `data-action="close">✕</div>`)
	assert.Contains(t, html, `data-scroll="auto"`)

	g.Advance(context.Background(), 1)
	assert.Contains(t, g.Render(), `data-scroll="smooth"`)
}

func TestGallery_Visible(t *testing.T) {
	g := newTestGallery(t, 10, nil, Options{ThumbSlotPx: 100, LazyMarginPx: 50})
	ctx := context.Background()
	require.Equal(t, 10, g.PreviewStrip().Pending())

	require.NoError(t, g.Dispatch(ctx, Event{Action: "visible", From: 0, To: 300}))
	assert.Equal(t, 6, g.PreviewStrip().Pending())
}

func TestGallery_Dispatch(t *testing.T) {
	g := newTestGallery(t, 3, nil, Options{})
	ctx := context.Background()

	steps := []struct {
		event        Event
		wantActive   int
		wantLightbox bool
	}{
		{Event{Action: "next"}, 1, false},
		{Event{Action: "prev"}, 0, false},
		{Event{Action: "last"}, 2, false},
		{Event{Action: "first"}, 0, false},
		{Event{Action: "slide", Index: 1}, 1, false},
		{Event{Action: "click-thumb", Index: 2}, 2, false},
		{Event{Action: "key", Key: "ArrowRight"}, 0, false},
		{Event{Action: "click-active"}, 0, true},
		{Event{Action: "lightbox-next"}, 1, true},
		{Event{Action: "lightbox-prev"}, 0, true},
		{Event{Action: "consume"}, 0, true},
		{Event{Action: "key", Target: TargetLightbox, Key: "ArrowRight"}, 1, true},
		{Event{Action: "close"}, 1, false},
	}
	for _, step := range steps {
		require.NoError(t, g.Dispatch(ctx, step.event), step.event.Action)
		assert.Equal(t, step.wantActive, g.ActiveSlide(), step.event.Action)
		assert.Equal(t, step.wantLightbox, g.Lightbox().IsOpen(), step.event.Action)
	}

	assert.ErrorIs(t, g.Dispatch(ctx, Event{Action: "explode"}), ErrUnknownAction)
}

func TestKeymap_FirstBindingWins(t *testing.T) {
	km := NewKeymap(gallery.Hotkeys{Previous: "x", Next: "x", Escape: "Escape"})
	action, ok := km.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, ActionPrevious, action)
	_, ok = km.Lookup("")
	assert.False(t, ok)
}

func TestStore(t *testing.T) {
	store, err := NewStore[*Gallery](time.Minute)
	require.NoError(t, err)
	defer store.Close()

	g := newTestGallery(t, 1, nil, Options{})
	id := NewID()
	store.Put(id, g)

	got, ok := store.Get(id)
	require.True(t, ok)
	assert.Same(t, g, got)

	store.Delete(id)
	_, ok = store.Get(id)
	assert.False(t, ok)
}
