package imageloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/h2non/filetype"
	"golang.org/x/sync/singleflight"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

const (
	LoadingClass = "litegal-loading"
	ErrorClass   = "litegal-image-error"
	FallbackAlt  = "Failed to load image"
)

var (
	ErrLoadFailure = errors.New("image load failed")
	ErrNotAnImage  = errors.New("content is not an image")
)

type Result struct {
	URL   string
	State State
	Err   error
}

// Fetcher retrieves the bytes behind an image URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// Element is the part of a rendered image the loader decorates.
type Element interface {
	AddClass(class string)
	RemoveClass(class string)
	SetAttr(key, value string)
}

type Option func(*Loader)

// WithFallbackAlt sets the alt text of images that failed to load.
func WithFallbackAlt(alt string) Option {
	return func(l *Loader) { l.fallbackAlt = alt }
}

// WithErrorClass sets the class marking images that failed to load.
func WithErrorClass(class string) Option {
	return func(l *Loader) { l.errorClass = class }
}

// WithTimeout bounds background preloads.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) { l.timeout = d }
}

// Loader loads images at most once at a time per URL and remembers the URLs
// that loaded successfully. Failures are not remembered, so a later call
// retries.
type Loader struct {
	fetcher     Fetcher
	fallbackAlt string
	errorClass  string
	timeout     time.Duration

	group singleflight.Group

	mu       sync.RWMutex
	loaded   map[string]struct{}
	inflight map[string]struct{}
	// generation changes on Clear; fetches started before it are not
	// remembered.
	generation uint64

	background sync.WaitGroup
}

func New(fetcher Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher:     fetcher,
		fallbackAlt: FallbackAlt,
		errorClass:  ErrorClass,
		timeout:     15 * time.Second,
		loaded:      make(map[string]struct{}),
		inflight:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) State(url string) State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.loaded[url]; ok {
		return StateLoaded
	}
	if _, ok := l.inflight[url]; ok {
		return StateLoading
	}
	return StateIdle
}

// Load resolves once the image is available or has failed. Concurrent calls
// for the same URL share one fetch. A caller whose ctx ends stops waiting, the
// shared fetch keeps going for the others.
func (l *Loader) Load(ctx context.Context, url string) Result {
	if l.State(url) == StateLoaded {
		return Result{URL: url, State: StateLoaded}
	}

	ch := l.group.DoChan(url, func() (any, error) {
		return nil, l.fetch(context.WithoutCancel(ctx), url)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Result{URL: url, State: StateError, Err: res.Err}
		}
		return Result{URL: url, State: StateLoaded}
	case <-ctx.Done():
		return Result{URL: url, State: StateError, Err: fmt.Errorf("%w: %w", ErrLoadFailure, ctx.Err())}
	}
}

func (l *Loader) fetch(ctx context.Context, url string) error {
	l.mu.Lock()
	l.inflight[url] = struct{}{}
	generation := l.generation
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	data, err := l.fetcher.Fetch(ctx, url)
	if err == nil && !isImage(data) {
		err = ErrNotAnImage
	}

	l.mu.Lock()
	delete(l.inflight, url)
	if err == nil && generation == l.generation {
		l.loaded[url] = struct{}{}
	}
	l.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoadFailure, url, err)
	}
	return nil
}

func isImage(data []byte) bool {
	if filetype.IsImage(data) {
		return true
	}
	head := data[:min(len(data), 1024)]
	return bytes.Contains(head, []byte("<svg"))
}

// LoadImmediate loads the image shown right now and decorates el with the
// loading state and, on failure, the error class and fallback alt text.
func (l *Loader) LoadImmediate(ctx context.Context, el Element, url string) Result {
	el.AddClass(LoadingClass)
	res := l.Load(ctx, url)
	el.RemoveClass(LoadingClass)

	if res.State == StateError {
		slog.Warn("failed to load image", slog.String("url", url), slog.String("error", res.Err.Error()))
		el.AddClass(l.errorClass)
		el.SetAttr("alt", l.fallbackAlt)
	}
	return res
}

// PreloadAdjacent starts loading the neighbours of index in the background.
// Failures are ignored.
func (l *Loader) PreloadAdjacent(urls []string, index int) {
	n := len(urls)
	if n <= 1 {
		return
	}
	for _, i := range []int{(index + 1) % n, (index - 1 + n) % n} {
		if i == index {
			continue
		}
		url := urls[i]
		l.background.Go(func() {
			ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
			defer cancel()
			l.Load(ctx, url)
		})
	}
}

// Wait blocks until background preloads have finished.
func (l *Loader) Wait() {
	l.background.Wait()
}

// Clear forgets every loaded URL. Fetches still running keep serving their
// callers, new ones included, but their results are not remembered.
func (l *Loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generation++
	l.loaded = make(map[string]struct{})
}

// ErrorClass is the class added to images that failed to load.
func (l *Loader) ErrorClass() string {
	return l.errorClass
}
