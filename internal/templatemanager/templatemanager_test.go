package templatemanager

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var views = fstest.MapFS{
	"layouts/page.html":  {Data: []byte(`<main>{{ template "content" . }}</main>`)},
	"pages/hello.html":   {Data: []byte(`{{ define "content" }}Hello {{ .Name }}{{ if contains .Name "a" }}!{{ end }}{{ end }}`)},
	"pages/raw.html":     {Data: []byte(`{{ define "content" }}{{ safeHTML .Body }}|{{ .Body }}{{ end }}`)},
	"partials/list.html": {Data: []byte(`{{ join .Items ", " }}`)},
}

func TestTemplateManager(t *testing.T) {
	tm, err := NewTemplateManager(views,
		TemplateManagerTemplates{Name: "hello", Files: []string{"layouts/page.html", "pages/hello.html"}},
		TemplateManagerTemplates{Name: "list", Files: []string{"partials/list.html"}},
	)
	require.NoError(t, err)

	out, err := tm.Render("hello", map[string]string{"Name": "Saya"})
	require.NoError(t, err)
	assert.Equal(t, "<main>Hello Saya!</main>", string(out))

	out, err = tm.Render("list", map[string][]string{"Items": {"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "a, b", string(out))

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}

func TestTemplateManager_InjectFiles(t *testing.T) {
	tm, err := NewTemplateManager(views)
	require.NoError(t, err)
	require.NoError(t, tm.Add("page", "layouts/page.html"))
	assert.True(t, tm.Has("page"))

	out, err := tm.Render("page", map[string]string{"Body": "<b>x</b>"}, "pages/raw.html")
	require.NoError(t, err)
	assert.Equal(t, "<main><b>x</b>|&lt;b&gt;x&lt;/b&gt;</main>", string(out))

	assert.Error(t, tm.Add("empty"))
}
