package vault

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/SayaAndy/vault-gallery/internal/frontmatter"
	"github.com/SayaAndy/vault-gallery/internal/wikilink"
	"golang.org/x/sync/errgroup"
)

const indexReadConcurrency = 8

type noteInfo struct {
	properties frontmatter.Properties
	links      []LinkRef
}

type folderNode struct {
	files      []string
	subfolders []string
}

// snapshot is an immutable view of the vault, swapped whole on rebuild.
type snapshot struct {
	files     map[string]Resource
	lower     map[string]string
	byName    map[string][]string
	folders   map[string]*folderNode
	notes     map[string]*noteInfo
	backlinks map[string]map[string]struct{}
}

// Index implements Vault over a Storage backend.
type Index struct {
	storage Storage

	mu   sync.RWMutex
	snap *snapshot
}

func NewIndex(storage Storage) *Index {
	return &Index{storage: storage, snap: newSnapshot(nil)}
}

func (x *Index) Capabilities() Capabilities {
	return x.storage.Capabilities()
}

// Rebuild lists the storage again and re-reads every note. A note that fails
// to read or parse is logged and indexed without links.
func (x *Index) Rebuild(ctx context.Context) error {
	resources, err := x.storage.List(ctx)
	if err != nil {
		return fmt.Errorf("list vault files: %w", err)
	}

	var folders []string
	if lister, ok := x.storage.(FolderLister); ok {
		folders, err = lister.ListFolders(ctx)
		if err != nil {
			return fmt.Errorf("list vault folders: %w", err)
		}
	}

	snap := newSnapshot(resources, folders...)

	notePaths := make([]string, 0)
	for p, r := range snap.files {
		if r.IsNote() {
			notePaths = append(notePaths, p)
		}
	}
	infos := make([]*noteInfo, len(notePaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(indexReadConcurrency)
	for i, p := range notePaths {
		g.Go(func() error {
			data, err := x.storage.Read(gctx, p)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Error("failed to read note for index", slog.String("path", p), slog.String("error", err.Error()))
				infos[i] = &noteInfo{}
				return nil
			}
			infos[i] = parseNote(p, data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("read vault notes: %w", err)
	}

	for i, p := range notePaths {
		snap.notes[p] = infos[i]
	}
	snap.buildBacklinks()

	x.mu.Lock()
	x.snap = snap
	x.mu.Unlock()

	slog.Info("vault index rebuilt", slog.Int("files", len(snap.files)), slog.Int("notes", len(notePaths)))
	return nil
}

func parseNote(p string, data []byte) *noteInfo {
	properties, body, err := frontmatter.ParseFrontmatter(data)
	if err != nil {
		slog.Warn("failed to parse note properties", slog.String("path", p), slog.String("error", err.Error()))
	}
	return &noteInfo{properties: properties, links: extractLinks(body)}
}

func extractLinks(body []byte) []LinkRef {
	links := wikilink.ExtractLinks(body)
	refs := make([]LinkRef, len(links))
	for i, l := range links {
		refs[i] = LinkRef{Target: l.Target, Alias: l.Alias, Embed: l.Embed}
	}
	return refs
}

func (x *Index) current() *snapshot {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.snap
}

func (x *Index) ResolveLink(text, contextPath string) (*Resource, bool) {
	r, ok := x.current().resolve(text, contextPath)
	if !ok {
		return nil, false
	}
	return &r, true
}

func (x *Index) ResourceURL(r Resource) string {
	return ResourceURL(r)
}

// ListFolder lists the files of a folder in preorder: the folder's own files
// in lexical order, then each subfolder in lexical order when recursive.
func (x *Index) ListFolder(folder string, recursive bool) ([]Resource, error) {
	snap := x.current()
	folder = NormalizeFolder(folder)

	if _, ok := snap.folders[folder]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folder)
	}

	resources := make([]Resource, 0)
	var walk func(string)
	walk = func(f string) {
		node := snap.folders[f]
		for _, p := range node.files {
			resources = append(resources, snap.files[p])
		}
		if !recursive {
			return
		}
		for _, sub := range node.subfolders {
			walk(sub)
		}
	}
	walk(folder)
	return resources, nil
}

func (x *Index) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if _, ok := x.current().files[p]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, p)
	}
	data, err := x.storage.Read(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return data, nil
}

// Embeds reads the note again, so edits not yet picked up by Rebuild are seen.
func (x *Index) Embeds(ctx context.Context, notePath string) ([]LinkRef, error) {
	data, err := x.ReadFile(ctx, notePath)
	if err != nil {
		return nil, err
	}
	_, body, _ := frontmatter.ParseFrontmatter(data)

	embeds := make([]LinkRef, 0)
	for _, l := range extractLinks(body) {
		if l.Embed {
			embeds = append(embeds, l)
		}
	}
	return embeds, nil
}

func (x *Index) Backlinks(r Resource) map[string]struct{} {
	return maps.Clone(x.current().backlinks[r.Path])
}

func (x *Index) Notes() []Resource {
	snap := x.current()
	notes := make([]Resource, 0, len(snap.notes))
	for _, p := range slices.Sorted(maps.Keys(snap.notes)) {
		notes = append(notes, snap.files[p])
	}
	return notes
}

func (x *Index) Files() []Resource {
	snap := x.current()
	files := make([]Resource, 0, len(snap.files))
	for _, p := range slices.Sorted(maps.Keys(snap.files)) {
		files = append(files, snap.files[p])
	}
	return files
}

func (x *Index) Stat(p string) (*Resource, bool) {
	r, ok := x.current().files[p]
	if !ok {
		return nil, false
	}
	return &r, true
}

func (x *Index) Properties(notePath string) frontmatter.Properties {
	if note, ok := x.current().notes[notePath]; ok {
		return note.properties
	}
	return nil
}

// WriteFile stores the file and rebuilds the index so links stay consistent.
func (x *Index) WriteFile(ctx context.Context, p string, data []byte) error {
	if !x.storage.Capabilities().Write {
		return ErrReadOnly
	}
	if err := x.storage.Write(ctx, p, data); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return x.Rebuild(ctx)
}

func newSnapshot(resources []Resource, folders ...string) *snapshot {
	s := &snapshot{
		files:     make(map[string]Resource, len(resources)),
		lower:     make(map[string]string, len(resources)),
		byName:    make(map[string][]string),
		folders:   map[string]*folderNode{RootFolder: {}},
		notes:     make(map[string]*noteInfo),
		backlinks: make(map[string]map[string]struct{}),
	}

	for _, f := range folders {
		s.folder(NormalizeFolder(f))
	}
	for _, r := range resources {
		s.files[r.Path] = r
		s.lower[strings.ToLower(r.Path)] = r.Path
		s.byName[strings.ToLower(r.Name)] = append(s.byName[strings.ToLower(r.Name)], r.Path)
		s.folder(r.Folder()).files = append(s.folder(r.Folder()).files, r.Path)
	}

	for _, node := range s.folders {
		slices.Sort(node.files)
		slices.Sort(node.subfolders)
	}
	return s
}

// folder returns the node for f, creating it and its ancestors when needed.
func (s *snapshot) folder(f string) *folderNode {
	if node, ok := s.folders[f]; ok {
		return node
	}
	node := &folderNode{}
	s.folders[f] = node

	parent := path.Dir(f)
	if parent == "." {
		parent = RootFolder
	}
	s.folder(parent).subfolders = append(s.folder(parent).subfolders, f)
	return node
}

func (s *snapshot) buildBacklinks() {
	for notePath, note := range s.notes {
		for _, link := range note.links {
			target, ok := s.resolve(link.Target, notePath)
			if !ok || target.Path == notePath {
				continue
			}
			refs, ok := s.backlinks[target.Path]
			if !ok {
				refs = make(map[string]struct{})
				s.backlinks[target.Path] = refs
			}
			refs[notePath] = struct{}{}
		}
	}
}
