package dom

import (
	"html"
	"maps"
	"slices"
	"strings"
)

const (
	// FocusAttr marks the element the client should focus after a swap.
	FocusAttr = "data-focus"
	// ScrollAttr asks the client to scroll the element into view, its value
	// being "smooth" or "auto".
	ScrollAttr = "data-scroll"
)

var voidElements = map[string]bool{"img": true, "br": true, "hr": true, "input": true}

// Node is a small element tree rendered to HTML by the server.
type Node struct {
	Tag      string
	Text     string
	Children []*Node

	classes []string
	attrs   map[string]string
}

func New(tag string, classes ...string) *Node {
	n := &Node{Tag: tag, attrs: map[string]string{}}
	for _, c := range classes {
		n.AddClass(c)
	}
	return n
}

func (n *Node) AddClass(class string) {
	if class == "" || n.HasClass(class) {
		return
	}
	n.classes = append(n.classes, class)
}

func (n *Node) RemoveClass(class string) {
	n.classes = slices.DeleteFunc(n.classes, func(c string) bool { return c == class })
}

func (n *Node) HasClass(class string) bool {
	return slices.Contains(n.classes, class)
}

// ToggleClass flips the class and reports whether it is now present.
func (n *Node) ToggleClass(class string) bool {
	if n.HasClass(class) {
		n.RemoveClass(class)
		return false
	}
	n.AddClass(class)
	return true
}

// SetClass adds or removes the class depending on on.
func (n *Node) SetClass(class string, on bool) {
	if on {
		n.AddClass(class)
	} else {
		n.RemoveClass(class)
	}
}

func (n *Node) Classes() []string {
	return slices.Clone(n.classes)
}

func (n *Node) SetAttr(key, value string) {
	n.attrs[key] = value
}

func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

func (n *Node) RemoveAttr(key string) {
	delete(n.attrs, key)
}

func (n *Node) SetText(text string) {
	n.Text = text
}

func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Empty removes all children and text.
func (n *Node) Empty() {
	n.Children = nil
	n.Text = ""
}

// Focus marks the node as the focus target of the fragment.
func (n *Node) Focus() {
	n.SetAttr(FocusAttr, "true")
}

// ScrollIntoView asks the client to bring the node into view.
func (n *Node) ScrollIntoView(smooth bool) {
	if smooth {
		n.SetAttr(ScrollAttr, "smooth")
	} else {
		n.SetAttr(ScrollAttr, "auto")
	}
}

// Find returns the first node in the subtree, n included, carrying class.
func (n *Node) Find(class string) *Node {
	if n.HasClass(class) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(class); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node in the subtree carrying class, in document order.
func (n *Node) FindAll(class string) []*Node {
	var found []*Node
	if n.HasClass(class) {
		found = append(found, n)
	}
	for _, c := range n.Children {
		found = append(found, c.FindAll(class)...)
	}
	return found
}

func (n *Node) Render() string {
	var sb strings.Builder
	n.render(&sb)
	return sb.String()
}

func (n *Node) render(sb *strings.Builder) {
	sb.WriteString("<")
	sb.WriteString(n.Tag)
	if len(n.classes) > 0 {
		sb.WriteString(` class="`)
		sb.WriteString(html.EscapeString(strings.Join(n.classes, " ")))
		sb.WriteString(`"`)
	}
	for _, k := range slices.Sorted(maps.Keys(n.attrs)) {
		sb.WriteString(" ")
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(n.attrs[k]))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	if voidElements[n.Tag] {
		return
	}
	sb.WriteString(html.EscapeString(n.Text))
	for _, c := range n.Children {
		c.render(sb)
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteString(">")
}
