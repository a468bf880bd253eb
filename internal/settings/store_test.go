package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/SayaAndy/vault-gallery/config"
	"github.com/SayaAndy/vault-gallery/internal/gallery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, dsn string) *Store {
	t.Helper()
	s, err := Open(context.Background(), &config.DbConfig{Type: "sqlite3", Cfg: config.Sqlite3Config{DSN: dsn}})
	require.NoError(t, err)
	return s
}

func TestStore_DefaultsWhenEmpty(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "settings.db"))
	defer s.Close()

	assert.Equal(t, gallery.DefaultSettings(), s.Defaults())
}

func TestStore_SaveAndReload(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "settings.db")
	ctx := context.Background()

	s := openStore(t, dsn)
	updated := gallery.DefaultSettings()
	updated.PreviewLayout = gallery.PreviewToggle
	updated.TargetHeightPx = 320
	updated.Hotkeys.Next = "l"
	require.NoError(t, s.Save(ctx, updated))
	assert.Equal(t, updated, s.Defaults())
	require.NoError(t, s.Close())

	reopened := openStore(t, dsn)
	defer reopened.Close()
	assert.Equal(t, updated, reopened.Defaults())
}

func TestStore_PartialRecordFilled(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "settings.db"))
	defer s.Close()
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, "INSERT INTO gallery_settings (key, value) VALUES ('galleryAspect', 'cover')")
	require.NoError(t, err)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)

	expected := gallery.DefaultSettings()
	expected.GalleryAspect = gallery.AspectCover
	assert.Equal(t, expected, loaded)
	assert.Equal(t, expected, s.Defaults())
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "settings.db"))
	defer s.Close()

	invalid := gallery.DefaultSettings()
	invalid.PreviewLayout = "sideways"
	assert.Error(t, s.Save(context.Background(), invalid))

	invalid = gallery.DefaultSettings()
	invalid.TargetHeightPx = -1
	assert.Error(t, s.Save(context.Background(), invalid))

	assert.Equal(t, gallery.DefaultSettings(), s.Defaults())
}

func TestStore_InvalidKeysFallBackOneByOne(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "settings.db"))
	defer s.Close()
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `INSERT INTO gallery_settings (key, value) VALUES
		('galleryAspect', 'cover'),
		('targetHeightPx', 'tall'),
		('previewLayout', 'sideways'),
		('hotkeys.next', 'l')`)
	require.NoError(t, err)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)

	expected := gallery.DefaultSettings()
	expected.GalleryAspect = gallery.AspectCover
	expected.Hotkeys.Next = "l"
	assert.Equal(t, expected, loaded)
}

func TestApply(t *testing.T) {
	base := gallery.DefaultSettings()

	s, err := Apply(base, map[string]string{"previewAspect": "fit-to-height", "unknown": "x"})
	require.NoError(t, err)
	assert.Equal(t, gallery.PreviewFitToHeight, s.PreviewAspect)
	assert.Equal(t, base.GalleryAspect, s.GalleryAspect)

	_, err = Apply(base, map[string]string{"targetHeightPx": "tall"})
	assert.Error(t, err)
	_, err = Apply(base, map[string]string{"targetHeightPx": "0"})
	assert.Error(t, err)
	_, err = Apply(base, map[string]string{"previewLayout": "sideways"})
	assert.Error(t, err)

	assert.Equal(t, Flatten(base)["hotkeys.toggleLightbox"], " ")
	assert.Len(t, Keys(), len(Flatten(base)))
	assert.Equal(t, "-preview: preview | no-preview | toggle", Fields[0].Help)
}
