package collection

import (
	"fmt"
	"strings"

	"github.com/SayaAndy/vault-gallery/internal/frontmatter"
	"github.com/SayaAndy/vault-gallery/internal/gallery"
	"github.com/SayaAndy/vault-gallery/internal/vault"
)

// Row is one entry of the data set shown by a collection view. File may be
// nil for rows that do not point at a vault file.
type Row interface {
	File() *vault.Resource
	Property(name string) (any, bool)
	Properties() []string
}

type fileRow struct {
	resource   vault.Resource
	properties frontmatter.Properties
}

// NewRow wraps a vault file and its note properties, which may be nil.
func NewRow(r vault.Resource, properties frontmatter.Properties) Row {
	return &fileRow{resource: r, properties: properties}
}

func (r *fileRow) File() *vault.Resource {
	return &r.resource
}

func (r *fileRow) Property(name string) (any, bool) {
	v, ok := r.properties[name]
	return v, ok
}

func (r *fileRow) Properties() []string {
	return r.properties.Keys()
}

// Query selects the rows of a collection from the vault.
type Query struct {
	Folder    string
	Tag       string
	Recursive bool
}

// Rows lists the notes and images under the query folder. With a tag set
// only notes carrying it are kept.
func (q Query) Rows(v vault.Vault) ([]Row, error) {
	resources, err := v.ListFolder(q.Folder, q.Recursive)
	if err != nil {
		return nil, fmt.Errorf("failed to list '%s': %w", q.Folder, err)
	}

	tag := strings.TrimPrefix(q.Tag, "#")
	rows := make([]Row, 0, len(resources))
	for _, res := range resources {
		switch {
		case res.IsNote():
			properties := v.Properties(res.Path)
			if tag != "" && !properties.HasTag(tag) {
				continue
			}
			rows = append(rows, NewRow(res, properties))
		case gallery.IsImageResource(res) && tag == "":
			rows = append(rows, NewRow(res, nil))
		}
	}
	return rows, nil
}
