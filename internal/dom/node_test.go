package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeClasses(t *testing.T) {
	n := New("div", "a", "b", "a")
	assert.Equal(t, []string{"a", "b"}, n.Classes())

	assert.False(t, n.ToggleClass("a"))
	assert.True(t, n.ToggleClass("c"))
	n.SetClass("b", false)
	n.RemoveClass("missing")

	assert.Equal(t, []string{"c"}, n.Classes())
}

func TestNodeRender(t *testing.T) {
	root := New("div", "outer")
	root.SetAttr("tabindex", "0")
	root.SetAttr("data-id", `x"y`)
	img := New("img", "pic")
	img.SetAttr("src", "/vault/a.png")
	label := New("span")
	label.SetText("1 of 2 <b>")
	root.Append(img, label)

	assert.Equal(t,
		`<div class="outer" data-id="x&#34;y" tabindex="0"><img class="pic" src="/vault/a.png"><span>1 of 2 &lt;b&gt;</span></div>`,
		root.Render())
}

func TestNodeFind(t *testing.T) {
	root := New("div")
	first := New("span", "item")
	second := New("span", "item")
	root.Append(New("p").Append(first), second)

	assert.Same(t, first, root.Find("item"))
	assert.Len(t, root.FindAll("item"), 2)
	assert.Nil(t, root.Find("none"))

	root.Empty()
	assert.Empty(t, root.Children)
}

func TestFocusAndScroll(t *testing.T) {
	n := New("div")
	n.Focus()
	n.ScrollIntoView(false)

	v, _ := n.Attr(FocusAttr)
	assert.Equal(t, "true", v)
	v, _ = n.Attr(ScrollAttr)
	assert.Equal(t, "auto", v)
}
