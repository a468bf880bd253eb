package vault

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/SayaAndy/vault-gallery/internal/frontmatter"
)

var (
	ErrNotExist       = errors.New("file does not exist")
	ErrFolderNotFound = errors.New("folder not found")
	ErrPathEscape     = errors.New("path escapes vault boundary")
	ErrReadOnly       = errors.New("vault is read-only")
)

const (
	RootFolder = "/"
	NoteExt    = "md"
)

// Resource is a file stored in the vault. Path is slash separated and
// relative to the vault root.
type Resource struct {
	Path    string
	Name    string
	Ext     string
	Size    int64
	ModTime time.Time
}

func NewResource(p string, size int64, modTime time.Time) Resource {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	name := path.Base(p)
	return Resource{
		Path:    p,
		Name:    name,
		Ext:     strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")),
		Size:    size,
		ModTime: modTime,
	}
}

// Folder is the parent folder path, RootFolder for files at the top level.
func (r Resource) Folder() string {
	dir := path.Dir(r.Path)
	if dir == "." || dir == "" {
		return RootFolder
	}
	return dir
}

// Basename is the file name without its extension.
func (r Resource) Basename() string {
	return strings.TrimSuffix(r.Name, path.Ext(r.Name))
}

func (r Resource) IsNote() bool {
	return r.Ext == NoteExt
}

// LinkRef is one link found in a note.
type LinkRef struct {
	Target string
	Alias  string
	Embed  bool
}

// Capabilities describe what a storage backend supports. They are fixed when
// the backend is constructed.
type Capabilities struct {
	Watch bool
	Write bool
}

// Vault is the set of host operations galleries and collections rely on.
type Vault interface {
	ResolveLink(text, contextPath string) (*Resource, bool)
	ResourceURL(r Resource) string
	ListFolder(folder string, recursive bool) ([]Resource, error)
	ReadFile(ctx context.Context, p string) ([]byte, error)
	Embeds(ctx context.Context, notePath string) ([]LinkRef, error)
	Backlinks(r Resource) map[string]struct{}
	Notes() []Resource
	Stat(p string) (*Resource, bool)
	Properties(notePath string) frontmatter.Properties
	WriteFile(ctx context.Context, p string, data []byte) error
}

const (
	URLPrefix     = "/vault/"
	NoteURLPrefix = "/note/"
)

func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// ResourceURL builds the URL the vault file is served under.
func ResourceURL(r Resource) string {
	return URLPrefix + escapePath(r.Path)
}

// NoteURL is the page a note is rendered on.
func NoteURL(notePath string) string {
	return NoteURLPrefix + escapePath(notePath)
}

// PathFromURL is the inverse of ResourceURL. ok is false for URLs that do not
// point into the vault.
func PathFromURL(u string) (string, bool) {
	rest, found := strings.CutPrefix(u, URLPrefix)
	if !found {
		return "", false
	}
	p, err := url.PathUnescape(rest)
	if err != nil {
		return "", false
	}
	return p, true
}

// NormalizeFolder turns user supplied folder paths ("", "/", "a/b/") into the
// form used by Resource.Folder.
func NormalizeFolder(folder string) string {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return RootFolder
	}
	return path.Clean(folder)
}
