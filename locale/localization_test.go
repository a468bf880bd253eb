package locale

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Defaults(t *testing.T) {
	l, err := InitConfig("")
	require.NoError(t, err)
	assert.Equal(t, "No images found.", l.Gallery.NoImages)
	assert.Equal(t, "No backlinks found.", l.CollectionLabels().NoBacklinks)
}

func TestInitConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "de.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Gallery:\n  NoImages: Keine Bilder gefunden.\nCollection:\n  Backlinks: Rückverweise\n"), 0o644))

	l, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Keine Bilder gefunden.", l.Gallery.NoImages)
	assert.Equal(t, "Failed to load image", l.Gallery.LoadFailed)
	assert.Equal(t, "Rückverweise", l.CollectionLabels().Backlinks)
	assert.Equal(t, "Properties", l.CollectionLabels().Properties)
}

func TestInitConfig_EmptiedKeyRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Settings:\n  SaveButton: \"\"\n"), 0o644))

	_, err := InitConfig(path)
	assert.Error(t, err)
}
