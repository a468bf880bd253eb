package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/SayaAndy/vault-gallery/config"
	"github.com/SayaAndy/vault-gallery/internal/gallery"
	"github.com/SayaAndy/vault-gallery/internal/router"
	"github.com/SayaAndy/vault-gallery/internal/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const png = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"

var (
	galleryIDPattern    = regexp.MustCompile(`data-gallery-id="([^"]+)"`)
	collectionIDPattern = regexp.MustCompile(`data-collection-id="([^"]+)"`)
)

func testVault() map[string]string {
	return map[string]string{
		"trips/rome.md":    "---\ntitle: Rome\ntags: [trip]\n---\n# Rome\n\n```litegal\n[[a.png]]\n[[b.png]]\n```\n",
		"trips/a.png":      png,
		"trips/b.png":      png,
		"plain.md":         "Just text.\n",
		"photos/c.png":     png,
		"photos/notes.txt": "not an image",
	}
}

func newTestRouter(t *testing.T, files map[string]string, collectionView bool) *router.Router {
	t.Helper()

	cfg := &config.Config{
		Listen: ":0",
		Vault:  config.VaultConfig{Type: "local"},
		Settings: config.SettingsConfig{Db: config.DbConfig{
			Type: "sqlite3",
			Cfg:  config.Sqlite3Config{DSN: "file:" + filepath.Join(t.TempDir(), "settings.db")},
		}},
		Loader: config.LoaderConfig{
			Timeout:      time.Second,
			LazyMarginPx: 50,
			ThumbSlotPx:  104,
		},
		Cache: config.CacheConfig{
			PageTTL:    time.Minute,
			SessionTTL: time.Hour,
		},
		Features: config.FeaturesConfig{CollectionView: collectionView},
	}

	r, err := router.NewRouterWithStorage(cfg, vault.NewMemoryStorage(files))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	require.NoError(t, r.InitRoutes())
	return r
}

func do(t *testing.T, r *router.Router, req *http.Request) (int, string, http.Header) {
	t.Helper()
	resp, err := r.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header
}

func get(t *testing.T, r *router.Router, target string) (int, string, http.Header) {
	return do(t, r, httptest.NewRequest(http.MethodGet, target, nil))
}

func post(t *testing.T, r *router.Router, target string) (int, string) {
	status, body, _ := do(t, r, httptest.NewRequest(http.MethodPost, target, nil))
	return status, body
}

func TestNotesHandler(t *testing.T) {
	r := newTestRouter(t, testVault(), false)

	status, body, header := get(t, r, "/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `<a href="/note/trips/rome.md">Rome</a>`)
	assert.Contains(t, body, `<a href="/note/plain.md">plain</a>`)
	assert.NotContains(t, body, `href="/collection"`)
}

func TestNoteHandler_Gallery(t *testing.T) {
	r := newTestRouter(t, testVault(), false)

	status, body, _ := get(t, r, "/note/trips/rome.md")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `<div class="litegal-block">`)
	assert.Contains(t, body, "1 of 2")

	match := galleryIDPattern.FindStringSubmatch(body)
	require.Len(t, match, 2)
	id := match[1]

	status, body = post(t, r, "/api/v1/gallery/"+id+"/next")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasPrefix(body, `<div class="litegal"`))
	assert.Contains(t, body, "2 of 2")

	status, body = post(t, r, "/api/v1/gallery/"+id+"/key?target=gallery&key=ArrowRight")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "1 of 2")

	status, _ = post(t, r, "/api/v1/gallery/"+id+"/explode")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestNoteHandler_GalleryPagesAreNotShared(t *testing.T) {
	r := newTestRouter(t, testVault(), false)

	_, first, _ := get(t, r, "/note/trips/rome.md")
	r.Supplements().PageCache.Wait()
	_, second, _ := get(t, r, "/note/trips/rome.md")

	firstID := galleryIDPattern.FindStringSubmatch(first)
	secondID := galleryIDPattern.FindStringSubmatch(second)
	require.Len(t, firstID, 2)
	require.Len(t, secondID, 2)
	assert.NotEqual(t, firstID[1], secondID[1])
}

func TestNoteHandler_NotFound(t *testing.T) {
	r := newTestRouter(t, testVault(), false)

	status, _, _ := get(t, r, "/note/missing.md")
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = get(t, r, "/note/trips/a.png")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestApiV1GalleryHandler_Expired(t *testing.T) {
	r := newTestRouter(t, testVault(), false)

	status, body := post(t, r, "/api/v1/gallery/unknown/next")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, r.Supplements().Localization.Gallery.Expired, body)
}

func TestVaultFileHandler(t *testing.T) {
	r := newTestRouter(t, testVault(), false)

	status, body, header := get(t, r, "/vault/trips/a.png")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "image/png", header.Get("Content-Type"))
	assert.Equal(t, png, body)

	status, _, header = get(t, r, "/vault/plain.md")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "text/markdown; charset=utf-8", header.Get("Content-Type"))

	status, _, _ = get(t, r, "/vault/nothing.png")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCollectionHandler(t *testing.T) {
	r := newTestRouter(t, testVault(), true)

	status, body, _ := get(t, r, "/collection?folder=photos&height=640")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `href="/collection"`)
	assert.Contains(t, body, `<div class="litegal-bases-view-container"`)
	assert.Contains(t, body, "--gallery-height: 500px")

	match := collectionIDPattern.FindStringSubmatch(body)
	require.Len(t, match, 2)

	status, body = post(t, r, "/api/v1/collection/"+match[1]+"/toggle-sidebar")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "c.png")

	status, _ = post(t, r, "/api/v1/collection/unknown/next")
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = get(t, r, "/collection?folder=nowhere")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCollectionHandler_Disabled(t *testing.T) {
	r := newTestRouter(t, testVault(), false)

	status, _, _ := get(t, r, "/collection")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSettingsHandlers(t *testing.T) {
	r := newTestRouter(t, testVault(), false)

	status, body, _ := get(t, r, "/settings")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `<select id="previewLayout" name="previewLayout">`)
	assert.Contains(t, body, "-preview: preview | no-preview | toggle")

	form := url.Values{"previewLayout": {"toggle"}, "targetHeightPx": {"320"}}
	req := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	status, body, _ = do(t, r, req)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, r.Supplements().Localization.Settings.Saved)

	defaults := r.Supplements().Settings.Defaults()
	assert.Equal(t, gallery.PreviewToggle, defaults.PreviewLayout)
	assert.Equal(t, 320, defaults.TargetHeightPx)

	persisted, err := r.Supplements().Settings.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaults, persisted)

	form = url.Values{"targetHeightPx": {"tall"}}
	req = httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	status, _, _ = do(t, r, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, 320, r.Supplements().Settings.Defaults().TargetHeightPx)
}

func TestApiV1InsertHandler(t *testing.T) {
	r := newTestRouter(t, testVault(), false)

	status, body := post(t, r, "/api/v1/insert?note=plain.md&line=0")
	require.Equal(t, http.StatusOK, status)

	var resp insertResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, insertResponse{Note: "plain.md", Line: 0, Cursor: 1}, resp)

	content, err := r.Supplements().Vault.ReadFile(context.Background(), "plain.md")
	require.NoError(t, err)
	assert.Equal(t, "```litegal\n\n```\nJust text.\n", string(content))

	status, body = post(t, r, "/api/v1/insert?note=trips/rome.md")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, insertResponse{Note: "trips/rome.md", Line: 10, Cursor: 11}, resp)

	content, err = r.Supplements().Vault.ReadFile(context.Background(), "trips/rome.md")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(content), "```\n```litegal\n\n```\n"))

	status, _ = post(t, r, "/api/v1/insert?note=missing.md")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestApiV1RescanHandler(t *testing.T) {
	r := newTestRouter(t, testVault(), false)

	require.NoError(t, r.Supplements().Storage.Write(context.Background(), "new.md", []byte("fresh")))

	status, body := post(t, r, "/api/v1/rescan")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "3 notes", body)

	status, _, _ = get(t, r, "/note/new.md")
	assert.Equal(t, http.StatusOK, status)
}

func TestStaticFiles(t *testing.T) {
	r := newTestRouter(t, testVault(), false)

	status, body, _ := get(t, r, "/static/litegal.js")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "/api/v1/gallery/")
}
