//go:build production

package vite

import (
	"fmt"
	"html/template"
	"strings"
)

// newTemplate builds the production template. The dev-server templates
// render blank and resources resolve through the build manifest.
func newTemplate(config *Config) *template.Template {
	t := template.New(config.TemplateName).Funcs(template.FuncMap{
		"viteResource": config.resourceTags,
	})

	template.Must(t.Parse(`{{define "viteClient"}}{{end}}`))
	template.Must(t.Parse(`{{define "viteReactRefresh"}}{{end}}`))

	return t
}

// resourceTags resolves the named entry against the build manifest,
// emitting its stylesheet links followed by its script tags.
func (c *Config) resourceTags(name string) (template.HTML, error) {
	if c.Manifest == nil {
		return "", fmt.Errorf("vite: no manifest configured to resolve resource %s", name)
	}

	css, js, err := c.Manifest.HTML(name)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	for _, tag := range css {
		b.WriteString(string(tag))
		b.WriteByte('\n')
	}

	for _, tag := range js {
		b.WriteString(string(tag))
		b.WriteByte('\n')
	}

	//nolint:gosec
	return template.HTML(b.String()), nil
}
