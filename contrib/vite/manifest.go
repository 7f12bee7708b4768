package vite

import (
	"fmt"
	"html/template"
	"io/fs"

	"github.com/go-json-experiment/json"
)

type rawManifest = map[string]*ManifestEntry

// Manifest is a parsed Vite build manifest (manifest.json), mapping source
// entry points to their compiled files and chunk dependencies.
type Manifest struct {
	raw rawManifest
}

// ManifestEntry describes a single chunk in the Vite build manifest.
type ManifestEntry struct {
	Source         string   `json:"src"`
	File           string   `json:"file"`
	Name           string   `json:"name"`
	CSS            []string `json:"css"`
	Assets         []string `json:"assets"`
	Imports        []string `json:"imports"`
	DynamicImports []string `json:"dynamicImports"`
	IsEntry        bool     `json:"isEntry"`
	IsDynamicEntry bool     `json:"isDynamicEntry"`
}

// HTML resolves the named entry into ready-to-use tags.
//
// It returns the stylesheet links of the entry and of every statically
// imported chunk, and the script tags: modulepreload links for the chunk
// graph followed by the entry's own module script. Unknown imports are
// skipped.
func (m *Manifest) HTML(name string) ([]template.HTML, []template.HTML, error) {
	entry, ok := m.raw[name]
	if !ok {
		return nil, nil, fmt.Errorf("vite: entry %s not found in manifest", name)
	}

	var (
		css []template.HTML
		js  []template.HTML
	)

	seen := map[string]bool{name: true}

	var walk func(e *ManifestEntry)

	walk = func(e *ManifestEntry) {
		for _, link := range e.CSS {
			//nolint:gosec
			css = append(css, template.HTML(fmt.Sprintf(
				`<link rel="stylesheet" href="/%s">`, link)))
		}

		for _, imp := range e.Imports {
			if seen[imp] {
				continue
			}

			seen[imp] = true

			chunk, ok := m.raw[imp]
			if !ok {
				continue
			}

			//nolint:gosec
			js = append(js, template.HTML(fmt.Sprintf(
				`<link rel="modulepreload" href="/%s">`, chunk.File)))

			walk(chunk)
		}
	}

	walk(entry)

	//nolint:gosec
	js = append(js, template.HTML(fmt.Sprintf(
		`<script type="module" src="/%s"></script>`, entry.File)))

	return css, js, nil
}

// ParseManifest parses a Vite build manifest from JSON bytes.
func ParseManifest(b []byte) (*Manifest, error) {
	var raw rawManifest

	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("vite: failed to unmarshal manifest: %w", err)
	}

	return &Manifest{raw: raw}, nil
}

// ParseManifestFromFS reads and parses a Vite build manifest from a file
// system.
func ParseManifestFromFS(fsys fs.FS, path string) (*Manifest, error) {
	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("vite: failed to read manifest file: %w", err)
	}

	return ParseManifest(b)
}
