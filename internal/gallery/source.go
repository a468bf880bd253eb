package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SayaAndy/vault-gallery/internal/vault"
)

const (
	inputNote            = "note"
	inputFolder          = "folder"
	inputFolderRecursive = "folder-recursive"
)

// ParsedBlock is the outcome of one litegal code block.
type ParsedBlock struct {
	Images   []ImageReference
	Settings Settings
	Notices  *Notices
}

type Parser struct {
	vault vault.Vault
}

func NewParser(v vault.Vault) *Parser {
	return &Parser{vault: v}
}

// Parse derives the block settings from base and resolves the block images.
func (p *Parser) Parse(ctx context.Context, source, contextPath string, base Settings) *ParsedBlock {
	notices := &Notices{}
	settings := ApplyDirectives(source, base, notices)
	images := p.ParseImages(ctx, source, contextPath, notices)

	return &ParsedBlock{Images: images, Settings: settings, Notices: notices}
}

// ParseImages resolves reference lines and input directives in line order.
// Option directives are left to ApplyDirectives.
func (p *Parser) ParseImages(ctx context.Context, source, contextPath string, notices *Notices) []ImageReference {
	images := make([]ImageReference, 0)

	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, DirectivePrefix) {
			body := strings.TrimPrefix(line, DirectivePrefix)
			key, value, found := strings.Cut(body, ":")
			if !found || strings.TrimSpace(key) != InputKey {
				continue
			}
			images = append(images, p.expandInput(ctx, strings.TrimSpace(value), contextPath, notices)...)
			continue
		}

		image, err := ResolveImage(p.vault, line, contextPath)
		switch {
		case errors.Is(err, ErrEmptyReference):
		case err != nil:
			notices.Add(ErrReferenceNotFound, fmt.Sprintf("Image not found: %s", LinkTarget(line)))
		default:
			images = append(images, image)
		}
	}

	return images
}

func (p *Parser) expandInput(ctx context.Context, value, contextPath string, notices *Notices) []ImageReference {
	if value == inputNote {
		return p.collectNote(ctx, contextPath, notices)
	}

	mode, folder, found := strings.Cut(value, ":")
	mode = strings.TrimSpace(mode)
	if !found || (mode != inputFolder && mode != inputFolderRecursive) {
		notices.Add(ErrInvalidDirective, fmt.Sprintf("Invalid input %q. Expected one of: note, folder:<path>, folder-recursive:<path>", value))
		return nil
	}

	return p.collectFolder(strings.TrimSpace(folder), mode == inputFolderRecursive, notices)
}

// collectNote gathers the images embedded in the note itself, in document
// order.
func (p *Parser) collectNote(ctx context.Context, contextPath string, notices *Notices) []ImageReference {
	embeds, err := p.vault.Embeds(ctx, contextPath)
	if err != nil {
		notices.Add(ErrReferenceNotFound, fmt.Sprintf("Could not read note: %s", contextPath))
		return nil
	}

	images := make([]ImageReference, 0, len(embeds))
	for _, embed := range embeds {
		if image, err := ResolveImage(p.vault, embed.Target, contextPath); err == nil {
			images = append(images, image)
		}
	}
	return images
}

func (p *Parser) collectFolder(folder string, recursive bool, notices *Notices) []ImageReference {
	resources, err := p.vault.ListFolder(folder, recursive)
	if err != nil {
		notices.Add(ErrFolderNotFound, fmt.Sprintf("Folder not found: %s", folder))
		return nil
	}

	images := make([]ImageReference, 0, len(resources))
	for _, r := range resources {
		if IsImageResource(r) {
			images = append(images, ImageFromResource(p.vault, r))
		}
	}
	return images
}
