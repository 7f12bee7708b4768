// Package vite integrates Vite-built assets into the root HTML template.
//
// In development the template loads resources straight from the Vite dev
// server and can inject the Vite client and the React Refresh preamble.
// When built with -tags=production, resources resolve through the build
// manifest instead and the dev-server templates render blank.
package vite

import (
	"cmp"
	"fmt"
	"html/template"
	"io/fs"

	"go.inout.gg/foundations/must"
)

// DefaultViteAddress is the address `vite dev` listens on out of the box.
const DefaultViteAddress = "http://localhost:5173"

// Config configures the template integration.
type Config struct {
	// Manifest is the parsed build manifest. Production builds resolve
	// {{viteResource}} calls through it; development builds ignore it.
	Manifest *Manifest

	// TemplateName names the root template.
	TemplateName string

	// ViteAddress is the address of the Vite dev server.
	//
	// Defaults to DefaultViteAddress.
	ViteAddress string
}

func (c *Config) defaults() {
	c.ViteAddress = cmp.Or(c.ViteAddress, DefaultViteAddress)
	c.TemplateName = cmp.Or(c.TemplateName, "inertia")
}

// NewTemplate creates a root template from a string.
//
// The resulting template has built-in support for Vite. To include the Vite
// client, use {{template "viteClient"}}; for Vite React Refresh, use
// {{template "viteReactRefresh"}}. To include a Vite resource, use
// {{viteResource "path/to/resource.js"}}. When built with -tags=production,
// the "viteClient" and "viteReactRefresh" templates are blank and resources
// resolve through Config.Manifest.
func NewTemplate(content string, config *Config) (*template.Template, error) {
	if config == nil {
		//nolint:exhaustruct
		config = &Config{}
	}

	config.defaults()

	t := newTemplate(config)
	if _, err := t.Parse(content); err != nil {
		return nil, fmt.Errorf("vite: failed to parse template: %w", err)
	}

	return t, nil
}

// Must is like NewTemplate but panics on error.
func Must(content string, config *Config) *template.Template {
	return must.Must(NewTemplate(content, config))
}

// FromFS creates a root template from the file at path.
// See NewTemplate for more information.
func FromFS(fsys fs.FS, path string, config *Config) (*template.Template, error) {
	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("vite: failed to read template file: %w", err)
	}

	return NewTemplate(string(b), config)
}
