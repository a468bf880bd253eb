package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pics"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".obsidian"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pics", "a.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".obsidian", "app.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "note.md"), []byte("![[a.png]]"), 0o644))

	storage, err := NewLocalStorage(root, false)
	require.NoError(t, err)
	ctx := context.Background()

	resources, err := storage.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"note.md", "pics/a.png"}, paths(resources))

	data, err := storage.Read(ctx, "pics/a.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	_, err = storage.Read(ctx, "missing.png")
	assert.ErrorIs(t, err, ErrNotExist)

	_, err = storage.Read(ctx, "../outside.txt")
	assert.ErrorIs(t, err, ErrPathEscape)

	require.NoError(t, storage.Write(ctx, "new/dir/b.md", []byte("hello")))
	data, err = os.ReadFile(filepath.Join(root, "new", "dir", "b.md"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocalStorage_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewLocalStorage(file, false)
	assert.Error(t, err)
}

func TestLocalStorage_Watch(t *testing.T) {
	root := t.TempDir()
	storage, err := NewLocalStorage(root, true)
	require.NoError(t, err)
	assert.True(t, storage.Capabilities().Watch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	require.NoError(t, storage.Watch(ctx, 20*time.Millisecond, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("x"), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}

func TestIndex_EmptyLocalFolder(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "trips", "empty"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".trash", "old"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "note.md"), []byte("text"), 0o644))

	storage, err := NewLocalStorage(root, false)
	require.NoError(t, err)
	ctx := context.Background()

	folders, err := storage.ListFolders(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"trips", "trips/empty"}, folders)

	idx := NewIndex(storage)
	require.NoError(t, idx.Rebuild(ctx))

	resources, err := idx.ListFolder("trips/empty", true)
	require.NoError(t, err)
	assert.Empty(t, resources)

	resources, err = idx.ListFolder("trips", true)
	require.NoError(t, err)
	assert.Empty(t, resources)

	_, err = idx.ListFolder(".trash/old", false)
	assert.ErrorIs(t, err, ErrFolderNotFound)
}
