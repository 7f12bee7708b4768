// Package inertiahead renders the HTML fragments that embed a page into the
// host document: the <head> contribution (title, meta tags, raw fragments)
// and the mount element the client-side runtime attaches to.
package inertiahead

import (
	"fmt"
	"html/template"
	"maps"
	"slices"
	"strings"

	"github.com/go-json-experiment/json"

	"github.com/nytodev/inertia-go/internal/inertiabase"
)

// Attr is a single HTML attribute rendered onto the mount element.
type Attr struct {
	Key   string
	Value string
}

// RenderHead renders the <head> contribution of a page:
//
//   - the "title" value (for raw maps looked up at the top level first, then
//     inside props), HTML-escaped and wrapped in a <title> element;
//   - one <meta> tag per scalar-valued entry of the "meta" prop, name and
//     content attribute-escaped, in sorted key order;
//   - the elements of the "head" prop emitted verbatim, in order. These are
//     trusted markup and are not escaped.
//
// Missing keys render nothing; non-scalar meta values and non-string head
// elements are skipped silently. v may be a *Page, a Page, or a raw map.
func RenderHead(v any) (template.HTML, error) {
	var raw map[string]any
	if m, ok := v.(map[string]any); ok {
		raw = m
	}

	page, err := inertiabase.Normalize(v)
	if err != nil {
		return "", err
	}

	var parts []string

	if title, ok := lookupTitle(raw, page.Props); ok {
		parts = append(parts, "<title>"+template.HTMLEscapeString(title)+"</title>")
	}

	parts = append(parts, metaTags(page.Props)...)
	parts = append(parts, rawFragments(page.Props)...)

	//nolint:gosec
	return template.HTML(strings.Join(parts, "\n")), nil
}

// RenderMount renders the element the client-side runtime mounts into:
//
//	<div id="app" data-page="<escaped-json>"></div>
//
// The page is serialized with attribute-escaped JSON; forward slashes and
// non-ASCII characters inside the JSON are left unescaped. Extra attributes
// are appended in order; id and data-page cannot be overridden.
func RenderMount(v any, id string, attrs []Attr, opts ...json.Options) (template.HTML, error) {
	page, err := inertiabase.Normalize(v)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(page, opts...)
	if err != nil {
		return "", fmt.Errorf("inertia: failed to serialize page: %w", err)
	}

	var b strings.Builder

	b.WriteString(`<div id="`)
	b.WriteString(template.HTMLEscapeString(id))
	b.WriteString(`" data-page="`)
	template.HTMLEscape(&b, data)
	b.WriteString(`"`)

	for _, attr := range attrs {
		if key := strings.ToLower(attr.Key); key == "id" || key == "data-page" {
			continue
		}

		b.WriteString(` `)
		b.WriteString(template.HTMLEscapeString(attr.Key))
		b.WriteString(`="`)
		b.WriteString(template.HTMLEscapeString(attr.Value))
		b.WriteString(`"`)
	}

	b.WriteString(`></div>`)

	//nolint:gosec
	return template.HTML(b.String()), nil
}

func lookupTitle(raw, props map[string]any) (string, bool) {
	if title, ok := raw["title"].(string); ok {
		return title, true
	}

	if title, ok := props["title"].(string); ok {
		return title, true
	}

	return "", false
}

func metaTags(props map[string]any) []string {
	entries := make(map[string]string)

	switch meta := props["meta"].(type) {
	case map[string]string:
		maps.Copy(entries, meta)
	case map[string]any:
		for name, v := range meta {
			if content, ok := scalarString(v); ok {
				entries[name] = content
			}
		}
	default:
		return nil
	}

	tags := make([]string, 0, len(entries))
	for _, name := range slices.Sorted(maps.Keys(entries)) {
		tags = append(tags,
			`<meta name="`+template.HTMLEscapeString(name)+
				`" content="`+template.HTMLEscapeString(entries[name])+`">`)
	}

	return tags
}

func rawFragments(props map[string]any) []string {
	switch head := props["head"].(type) {
	case []string:
		return head
	case []any:
		frags := make([]string, 0, len(head))

		for _, f := range head {
			if s, ok := f.(string); ok {
				frags = append(frags, s)
			}
		}

		return frags
	default:
		return nil
	}
}

func scalarString(v any) (string, bool) {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}
