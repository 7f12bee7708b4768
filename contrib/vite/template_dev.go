//go:build !production

package vite

import (
	"fmt"
	"html/template"
)

// newTemplate builds the development template. The Vite client and the React
// Refresh preamble load from the dev server at Config.ViteAddress.
func newTemplate(config *Config) *template.Template {
	t := template.New(config.TemplateName).Funcs(template.FuncMap{
		"viteResource": config.resourceTags,
	})

	template.Must(t.Parse(fmt.Sprintf(
		`{{define "viteClient"}}<script type="module" src="%s/@vite/client"></script>{{end}}`,
		config.ViteAddress,
	)))
	template.Must(t.Parse(fmt.Sprintf(
		`{{define "viteReactRefresh"}}<script type="module">
import RefreshRuntime from '%s/@react-refresh'
RefreshRuntime.injectIntoGlobalHook(window)
window.$RefreshReg$ = () => {}
window.$RefreshSig$ = () => (type) => type
window.__vite_plugin_react_preamble_installed__ = true
</script>{{end}}`,
		config.ViteAddress,
	)))

	return t
}

// resourceTags points the browser at the dev server, which serves and
// transforms the source on the fly.
func (c *Config) resourceTags(name string) (template.HTML, error) {
	//nolint:gosec
	return template.HTML(fmt.Sprintf(
		`<script type="module" src="%s/%s"></script>`, c.ViteAddress, name)), nil
}
