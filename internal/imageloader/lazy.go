package imageloader

import (
	"context"
	"slices"
	"sync"
)

// Span is a horizontal extent in pixels along the preview strip.
type Span struct {
	Start int
	End   int
}

func (s Span) Intersects(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

type lazyTarget struct {
	el   Element
	url  string
	span Span
}

// LazyObserver defers loading until an element comes within margin pixels of
// the reported viewport. Each element is unobserved once its load starts.
type LazyObserver struct {
	loader *Loader
	margin int

	mu      sync.Mutex
	targets []lazyTarget
}

func NewLazyObserver(loader *Loader, marginPx int) *LazyObserver {
	return &LazyObserver{loader: loader, margin: marginPx}
}

func (o *LazyObserver) Observe(el Element, url string, span Span) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.targets = append(o.targets, lazyTarget{el: el, url: url, span: span})
}

func (o *LazyObserver) Unobserve(el Element) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.targets = slices.DeleteFunc(o.targets, func(t lazyTarget) bool { return t.el == el })
}

func (o *LazyObserver) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.targets)
}

// Update loads every observed element intersecting viewport widened by the
// margin. Loaded elements get their src, failed ones the error decoration.
func (o *LazyObserver) Update(ctx context.Context, viewport Span) []Result {
	area := Span{Start: viewport.Start - o.margin, End: viewport.End + o.margin}

	o.mu.Lock()
	due := make([]lazyTarget, 0)
	o.targets = slices.DeleteFunc(o.targets, func(t lazyTarget) bool {
		if t.span.Intersects(area) {
			due = append(due, t)
			return true
		}
		return false
	})
	o.mu.Unlock()

	results := make([]Result, len(due))
	var wg sync.WaitGroup
	for i, t := range due {
		wg.Go(func() {
			results[i] = o.loader.Load(ctx, t.url)
		})
	}
	wg.Wait()

	for i, t := range due {
		if results[i].State == StateLoaded {
			t.el.SetAttr("src", t.url)
			continue
		}
		t.el.AddClass(o.loader.errorClass)
		t.el.SetAttr("alt", o.loader.fallbackAlt)
	}
	return results
}

// Disconnect drops every observed element.
func (o *LazyObserver) Disconnect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.targets = nil
}
