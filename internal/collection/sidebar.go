package collection

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/SayaAndy/vault-gallery/internal/dom"
	"github.com/SayaAndy/vault-gallery/internal/vault"
	"github.com/dustin/go-humanize"
)

const (
	DefaultSidebarWidth  = 200
	MinSidebarWidth      = 150
	MaxSidebarWidthRatio = 0.7

	ModifiedLayout = "2006-01-02 15:04:05"
)

const (
	SidebarClass      = "litegal-sidebar"
	CollapsedClass    = "collapsed"
	SidebarHeader     = "litegal-sidebar-header"
	SidebarSection    = "litegal-sidebar-section"
	RefsClass         = "litegal-refs"
	NoRefsClass       = "litegal-no-refs"
	PropRowClass      = "litegal-prop-row"
	PropLabelClass    = "litegal-prop-label"
	PropValueClass    = "litegal-prop-value"
	InternalLinkClass = "internal-link"
)

// Labels are the user-visible strings of a collection view.
type Labels struct {
	Properties  string
	Backlinks   string
	Name        string
	Size        string
	Type        string
	Location    string
	Modified    string
	NoBacklinks string
	NoImages    string
	NoImagesTip string
	LoadError   string
}

func DefaultLabels() Labels {
	return Labels{
		Properties:  "Properties",
		Backlinks:   "Backlinks",
		Name:        "Name",
		Size:        "Size",
		Type:        "Type",
		Location:    "Location",
		Modified:    "Modified",
		NoBacklinks: "No backlinks found.",
		NoImages:    "No Images Found",
		NoImagesTip: "Try enabling 'Show linked images' in view options, or add images to your notes.",
		LoadError:   "Error loading gallery: %s",
	}
}

// Sidebar shows the file behind the active slide and what links to it. It
// starts collapsed.
type Sidebar struct {
	node      *dom.Node
	collapsed bool
	width     int
	labels    Labels
}

func NewSidebar(labels Labels) *Sidebar {
	return &Sidebar{
		node:      dom.New("div", SidebarClass, CollapsedClass),
		collapsed: true,
		width:     DefaultSidebarWidth,
		labels:    labels,
	}
}

func (s *Sidebar) Node() *dom.Node {
	return s.node
}

func (s *Sidebar) Collapsed() bool {
	return s.collapsed
}

func (s *Sidebar) Width() int {
	return s.width
}

func (s *Sidebar) SetWidth(width int) {
	s.width = width
	if !s.collapsed {
		s.node.SetAttr("style", fmt.Sprintf("width: %dpx", width))
	}
}

func (s *Sidebar) Show() {
	s.collapsed = false
	s.node.RemoveClass(CollapsedClass)
	s.node.SetAttr("style", fmt.Sprintf("width: %dpx", s.width))
}

func (s *Sidebar) Hide() {
	s.collapsed = true
	s.node.AddClass(CollapsedClass)
}

func (s *Sidebar) Toggle() {
	if s.collapsed {
		s.Show()
	} else {
		s.Hide()
	}
}

// Render fills the sidebar for file. A collapsed sidebar stays empty.
func (s *Sidebar) Render(v vault.Vault, file vault.Resource, codeblockRefs map[string]map[string]struct{}) {
	s.node.Empty()
	if s.collapsed {
		return
	}

	header := dom.New("div", SidebarHeader)
	title := dom.New("h3")
	title.SetText(s.labels.Properties)
	s.node.Append(header.Append(title))

	props := dom.New("div", SidebarSection)
	props.Append(
		propRow(s.labels.Name, file.Name),
		propRow(s.labels.Size, humanize.Bytes(uint64(max(file.Size, 0)))),
		propRow(s.labels.Type, strings.ToUpper(file.Ext)),
		propRow(s.labels.Location, file.Folder()),
		propRow(s.labels.Modified, file.ModTime.Format(ModifiedLayout)),
	)
	s.node.Append(props)

	backlinksTitle := dom.New("h3")
	backlinksTitle.SetText(s.labels.Backlinks)
	s.node.Append(backlinksTitle)

	refs := dom.New("div", SidebarSection, RefsClass)
	s.node.Append(refs)

	paths := v.Backlinks(file)
	if paths == nil {
		paths = make(map[string]struct{})
	}
	maps.Copy(paths, codeblockRefs[file.Path])

	if len(paths) == 0 {
		none := dom.New("div", NoRefsClass)
		none.SetText(s.labels.NoBacklinks)
		refs.Append(none)
		return
	}

	list := dom.New("ul")
	for _, p := range slices.Sorted(maps.Keys(paths)) {
		link := dom.New("a", InternalLinkClass)
		link.SetText(p)
		link.SetAttr("title", p)
		link.SetAttr("href", vault.NoteURL(p))
		list.Append(dom.New("li").Append(link))
	}
	refs.Append(list)
}

func propRow(label, value string) *dom.Node {
	row := dom.New("div", PropRowClass)
	l := dom.New("span", PropLabelClass)
	l.SetText(label)
	val := dom.New("span", PropValueClass)
	val.SetText(value)
	val.SetAttr("title", value)
	return row.Append(l, val)
}
