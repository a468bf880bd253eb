package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SayaAndy/vault-gallery/config"
	"github.com/SayaAndy/vault-gallery/internal/collection"
	"github.com/SayaAndy/vault-gallery/internal/galleryui"
	"github.com/SayaAndy/vault-gallery/internal/imageloader"
	"github.com/SayaAndy/vault-gallery/internal/litegal"
	"github.com/SayaAndy/vault-gallery/internal/notes"
	"github.com/SayaAndy/vault-gallery/internal/rescan"
	"github.com/SayaAndy/vault-gallery/internal/settings"
	"github.com/SayaAndy/vault-gallery/internal/templatemanager"
	"github.com/SayaAndy/vault-gallery/internal/vault"
	"github.com/SayaAndy/vault-gallery/locale"
	"github.com/SayaAndy/vault-gallery/views"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
)

type CacheSetting int

const (
	Disabled CacheSetting = iota
	ByUrlOnly
	ByUrlAndQuery
)

// Template map keys a route may set besides its template data.
const (
	// OutputKey holds raw []byte sent instead of a rendered template.
	OutputKey = "Output"
	// ContentTypeKey overrides the html content type.
	ContentTypeKey = "ContentType"
	// NoCacheKey keeps a response out of the page cache.
	NoCacheKey = "NoCache"
)

var (
	Routes = make([]Route, 0)
)

type Route interface {
	Filter() (method string, path string)
	ToCache() CacheSetting
	CacheDuration() time.Duration
	TemplatesToInject() []string
	Render(c *fiber.Ctx, supplements *Supplements, templateMap fiber.Map) (statusCode int, err error)
}

type Supplements struct {
	Config          *config.Config
	Storage         vault.Storage
	Vault           *vault.Index
	Settings        *settings.Store
	Localization    *locale.LocaleConfig
	Loaders         *imageloader.Service
	Galleries       *galleryui.Store[*galleryui.Gallery]
	Collections     *galleryui.Store[*collection.View]
	Pipeline        *litegal.Pipeline
	Notes           *notes.Renderer
	PageCache       *ristretto.Cache[string, []byte]
	Rescan          *rescan.RescanScheduler
	TemplateManager *templatemanager.TemplateManager
}

type Router struct {
	supplements *Supplements
	app         *fiber.App
	cancel      context.CancelFunc
}

func NewRouter(cfg *config.Config) (*Router, error) {
	storage, err := vault.OpenStorage(context.Background(), &cfg.Vault)
	if err != nil {
		return nil, fmt.Errorf("fail to initialize vault storage: %w", err)
	}
	return NewRouterWithStorage(cfg, storage)
}

// NewRouterWithStorage serves the vault held by storage instead of the one
// configured in cfg.Vault.
func NewRouterWithStorage(cfg *config.Config, storage vault.Storage) (*Router, error) {
	ctx, cancel := context.WithCancel(context.Background())
	supplements, err := NewSupplements(ctx, cfg, storage)
	if err != nil {
		cancel()
		return nil, err
	}

	enablePrintRoutes := false
	if cfg.LogLevel <= slog.LevelDebug {
		enablePrintRoutes = true
	}

	app := fiber.New(fiber.Config{
		EnablePrintRoutes: enablePrintRoutes,
		ProxyHeader:       "X-Forwarded-For",
		UnescapePath:      true,
	})

	return &Router{supplements, app, cancel}, nil
}

// NewSupplements indexes the vault and builds everything handlers share.
func NewSupplements(ctx context.Context, cfg *config.Config, storage vault.Storage) (*Supplements, error) {
	supplements := &Supplements{Config: cfg, Storage: storage}

	supplements.Vault = vault.NewIndex(supplements.Storage)
	if err := supplements.Vault.Rebuild(ctx); err != nil {
		return nil, fmt.Errorf("fail to index vault: %w", err)
	}

	var err error
	supplements.Settings, err = settings.Open(ctx, &cfg.Settings.Db)
	if err != nil {
		return nil, fmt.Errorf("fail to initialize settings store: %w", err)
	}

	supplements.Localization, err = locale.InitConfig(cfg.LocalePath)
	if err != nil {
		return nil, fmt.Errorf("fail to initialize a locale: %w", err)
	}

	supplements.Loaders = imageloader.NewService(
		&imageloader.MultiFetcher{
			Vault: imageloader.NewVaultFetcher(supplements.Vault),
			HTTP:  imageloader.NewHTTPFetcher(cfg.Loader.Timeout, cfg.Loader.MaxBytes),
		},
		imageloader.WithTimeout(cfg.Loader.Timeout),
		imageloader.WithFallbackAlt(supplements.Localization.Gallery.LoadFailed),
	)
	supplements.Loaders.Init()

	supplements.Galleries, err = galleryui.NewStore[*galleryui.Gallery](cfg.Cache.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("fail to initialize gallery store: %w", err)
	}
	supplements.Collections, err = galleryui.NewStore[*collection.View](cfg.Cache.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("fail to initialize collection store: %w", err)
	}

	supplements.Pipeline = litegal.NewPipeline(supplements.Vault, supplements.Settings, supplements.Loaders, supplements.Galleries, litegal.PipelineOptions{
		LazyMarginPx: cfg.Loader.LazyMarginPx,
		ThumbSlotPx:  cfg.Loader.ThumbSlotPx,
		NoImagesText: supplements.Localization.Gallery.NoImages,
	})
	supplements.Notes = notes.NewRenderer(supplements.Vault, supplements.Pipeline)

	supplements.PageCache, err = ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 1e5,     // 100,000
		MaxCost:     1 << 27, // 128 MB
		BufferItems: 64,      // number of keys per Get buffer.
	})
	if err != nil {
		return nil, fmt.Errorf("fail to initialize page cache: %w", err)
	}

	supplements.Rescan, err = rescan.NewRescanScheduler(supplements.Vault, cfg.Rescan.Cron, supplements.PageCache.Clear)
	if err != nil {
		return nil, fmt.Errorf("fail to initialize rescan scheduler: %w", err)
	}

	if local, ok := supplements.Storage.(*vault.LocalStorage); ok && local.Capabilities().Watch {
		err = local.Watch(ctx, 500*time.Millisecond, func() {
			if err := supplements.Rescan.Rescan(ctx); err != nil {
				slog.Error("failed to rescan vault after change", slog.String("error", err.Error()))
			}
		})
		if err != nil {
			return nil, fmt.Errorf("fail to watch vault: %w", err)
		}
	}

	supplements.TemplateManager, err = templatemanager.NewTemplateManager(views.FS)
	if err != nil {
		return nil, fmt.Errorf("fail to initialize template manager: %w", err)
	}

	return supplements, nil
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Supplements() *Supplements {
	return r.supplements
}

func (r *Router) InitRoutes() (err error) {
	for _, route := range Routes {
		method, match := route.Filter()

		if files := route.TemplatesToInject(); len(files) > 0 {
			if err = r.supplements.TemplateManager.Add(method+" "+match, files...); err != nil {
				return fmt.Errorf("failed to add '%s %s' route into template manager: %w", method, match, err)
			}
		}

		currentRoute := route
		r.app.Add(method, match, func(c *fiber.Ctx) error {
			return r.handle(c, currentRoute)
		})
	}

	static, err := fs.Sub(views.FS, "static")
	if err != nil {
		return fmt.Errorf("failed to open static files: %w", err)
	}
	r.app.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(static),
		MaxAge: 3600,
	}))

	return nil
}

func (r *Router) handle(c *fiber.Ctx, route Route) error {
	method, match := route.Filter()
	trimmedPath := strings.Trim(c.Path(), "/")
	queryString := string(c.Request().URI().QueryString())

	var cacheKey string
	switch route.ToCache() {
	case ByUrlOnly:
		cacheKey = fmt.Sprintf("%s.full-page.%s", method, trimmedPath)
	case ByUrlAndQuery:
		cacheKey = fmt.Sprintf("%s.full-page.%s.%s", method, trimmedPath, queryString)
	}

	if route.ToCache() != Disabled {
		if val, ok := r.supplements.PageCache.Get(cacheKey); val != nil && ok {
			c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
			return c.Status(fiber.StatusOK).Send(val)
		}
	}

	defaultMap := fiber.Map{
		"L":           r.supplements.Localization,
		"Path":        trimmedPath,
		"QueryString": queryString,
		"Hotkeys":     hotkeysJSON(r.supplements.Settings.Defaults().Hotkeys),
		"Features":    r.supplements.Config.Features,
	}

	statusCode, err := route.Render(c, r.supplements, defaultMap)
	if err != nil {
		slog.Error("failed to finish rendering a page",
			slog.Int("status_code", statusCode),
			slog.String("method", method),
			slog.String("path", c.Path()),
			slog.String("match", match),
			slog.String("query", queryString),
			slog.String("error", err.Error()),
		)
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(statusCode).SendString(err.Error())
	}

	var content []byte
	if val, ok := defaultMap[OutputKey].([]byte); ok {
		content = val
	} else {
		content, err = r.supplements.TemplateManager.Render(method+" "+match, defaultMap)
		if err != nil {
			slog.Error("failed to generate page",
				slog.String("method", method),
				slog.String("path", c.Path()),
				slog.String("match", match),
				slog.String("query", queryString),
				slog.String("error", err.Error()),
			)
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.Status(fiber.ErrInternalServerError.Code).SendString("failed to generate page")
		}
	}

	noCache, _ := defaultMap[NoCacheKey].(bool)
	if statusCode >= 200 && statusCode < 300 && route.ToCache() != Disabled && !noCache {
		ttl := route.CacheDuration()
		if ttl == 0 {
			ttl = r.supplements.Config.Cache.PageTTL
		}
		r.supplements.PageCache.SetWithTTL(cacheKey, content, int64(len(content)), ttl)
	}

	contentType := fiber.MIMETextHTMLCharsetUTF8
	if val, ok := defaultMap[ContentTypeKey].(string); ok && val != "" {
		contentType = val
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(statusCode).Send(content)
}

func hotkeysJSON(h any) string {
	data, err := json.Marshal(h)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func (r *Router) Listen(endpoint string) error {
	if err := r.app.Listen(endpoint); err != nil {
		return fmt.Errorf("error while running fiber server: %w", err)
	}
	return nil
}

func (r *Router) Close() (err error) {
	allErrors := make([]error, 0)
	r.cancel()
	if err = r.supplements.Rescan.Close(); err != nil {
		allErrors = append(allErrors, fmt.Errorf("fail to shutdown rescan scheduler: %w", err))
	}
	if err = r.app.Shutdown(); err != nil {
		allErrors = append(allErrors, fmt.Errorf("fail to shutdown fiber server: %w", err))
	}
	if local, ok := r.supplements.Storage.(*vault.LocalStorage); ok {
		if err = local.Close(); err != nil {
			allErrors = append(allErrors, fmt.Errorf("fail to stop vault watcher: %w", err))
		}
	}
	if err = r.supplements.Settings.Close(); err != nil {
		allErrors = append(allErrors, fmt.Errorf("fail to close db connection: %w", err))
	}
	r.supplements.Loaders.Cleanup()
	r.supplements.Galleries.Close()
	r.supplements.Collections.Close()
	r.supplements.PageCache.Close()
	return errors.Join(allErrors...)
}
