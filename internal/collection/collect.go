package collection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SayaAndy/vault-gallery/internal/frontmatter"
	"github.com/SayaAndy/vault-gallery/internal/gallery"
	"github.com/SayaAndy/vault-gallery/internal/litegal"
	"github.com/SayaAndy/vault-gallery/internal/vault"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// ShowReferenced adds images embedded in notes or named by note
	// properties, not only those listed in gallery blocks.
	ShowReferenced bool
}

// Result holds the images of a collection in display order. Files[i] is the
// vault file behind Images[i]. CodeblockRefs maps an image path to the notes
// whose gallery blocks list it.
type Result struct {
	Images        []gallery.ImageReference
	Files         []vault.Resource
	CodeblockRefs map[string]map[string]struct{}

	added map[string]struct{}
}

func (r *Result) add(v vault.Vault, res vault.Resource) {
	if _, ok := r.added[res.Path]; ok {
		return
	}
	r.added[res.Path] = struct{}{}
	r.Images = append(r.Images, gallery.ImageFromResource(v, res))
	r.Files = append(r.Files, res)
}

func (r *Result) addRef(imagePath, notePath string) {
	refs, ok := r.CodeblockRefs[imagePath]
	if !ok {
		refs = make(map[string]struct{})
		r.CodeblockRefs[imagePath] = refs
	}
	refs[notePath] = struct{}{}
}

// noteScan is what one note contributes, kept apart until the rows are
// merged back in order.
type noteScan struct {
	blockImages []vault.Resource
	referenced  []vault.Resource
	failed      bool
}

// Collect gathers the images of rows. Image rows are taken as they are,
// notes are scanned in parallel. A note that fails is logged and skipped.
func Collect(ctx context.Context, v vault.Vault, rows []Row, opts Options) (*Result, error) {
	scans := make([]noteScan, len(rows))
	parser := gallery.NewParser(v)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, row := range rows {
		file := row.File()
		if file == nil || !file.IsNote() {
			continue
		}
		g.Go(func() error {
			scan, err := scanNote(gctx, v, parser, row, *file, opts)
			if err != nil {
				slog.Error("failed to process note for collection",
					slog.String("note", file.Path),
					slog.String("error", err.Error()),
				)
				scans[i] = noteScan{failed: true}
				return nil
			}
			scans[i] = scan
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collection interrupted: %w", err)
	}

	result := &Result{
		Images:        make([]gallery.ImageReference, 0),
		Files:         make([]vault.Resource, 0),
		CodeblockRefs: make(map[string]map[string]struct{}),
		added:         make(map[string]struct{}),
	}
	for i, row := range rows {
		file := row.File()
		if file == nil {
			continue
		}
		if gallery.IsImageResource(*file) {
			result.add(v, *file)
			continue
		}
		if !file.IsNote() || scans[i].failed {
			continue
		}
		for _, res := range scans[i].blockImages {
			result.addRef(res.Path, file.Path)
			if opts.ShowReferenced {
				result.add(v, res)
			}
		}
		for _, res := range scans[i].referenced {
			result.add(v, res)
		}
	}
	return result, nil
}

func scanNote(ctx context.Context, v vault.Vault, parser *gallery.Parser, row Row, note vault.Resource, opts Options) (noteScan, error) {
	var scan noteScan

	content, err := v.ReadFile(ctx, note.Path)
	if err != nil {
		return scan, fmt.Errorf("failed to read note: %w", err)
	}
	if _, body, err := frontmatter.ParseFrontmatter(content); err == nil {
		content = body
	}

	for _, source := range litegal.FindSources(content) {
		for _, image := range parser.ParseImages(ctx, source, note.Path, &gallery.Notices{}) {
			if image.Resource != nil {
				scan.blockImages = append(scan.blockImages, *image.Resource)
			}
		}
	}

	if !opts.ShowReferenced {
		return scan, nil
	}

	embeds, err := v.Embeds(ctx, note.Path)
	if err != nil {
		return scan, fmt.Errorf("failed to list embeds: %w", err)
	}
	for _, embed := range embeds {
		if !embed.Embed {
			continue
		}
		if res, ok := resolveImage(v, embed.Target, note.Path); ok {
			scan.referenced = append(scan.referenced, res)
		}
	}

	for _, name := range row.Properties() {
		value, _ := row.Property(name)
		for _, text := range propertyLinks(value) {
			if res, ok := resolveImage(v, gallery.LinkTarget(text), note.Path); ok {
				scan.referenced = append(scan.referenced, res)
			}
		}
	}
	return scan, nil
}

func resolveImage(v vault.Vault, target, contextPath string) (vault.Resource, bool) {
	res, ok := v.ResolveLink(target, contextPath)
	if !ok || !gallery.IsImageResource(*res) {
		return vault.Resource{}, false
	}
	return *res, true
}

// propertyLinks returns the string values of a property, list items
// included.
func propertyLinks(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []any:
		links := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				links = append(links, s)
			}
		}
		return links
	}
	return nil
}
