package inertiavalidationerrors

import (
	"html/template"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nytodev/inertia-go"
)

func testTpl(t *testing.T) *template.Template {
	t.Helper()

	return template.Must(template.New("app").Parse(`<html>{{.InertiaBody}}</html>`))
}

func TestMapError(t *testing.T) {
	t.Parallel()

	m := MapError{
		"email": "Email is invalid",
		"age":   "Age must be positive",
	}

	errs := m.ValidationErrors()
	require.Len(t, errs, 2)

	assert.Equal(t, "age", errs[0].Field())
	assert.Equal(t, "Age must be positive", errs[0].Error())
	assert.Equal(t, "email", errs[1].Field())
	assert.Equal(t, "Email is invalid", errs[1].Error())

	assert.Equal(t, 2, m.Len())
	assert.EqualError(t, m, "validation errors")
}

func TestMapError_Render(t *testing.T) {
	t.Parallel()

	renderer := inertia.New(testTpl(t), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/login", nil)
	req.Header.Set("X-Inertia", "true")

	renderCtx := inertia.NewRenderContext(
		inertia.WithValidationErrors(MapError{"name": "Name is required"}, inertia.DefaultErrorBag),
	)

	require.NoError(t, renderer.Render(w, req, "Login", renderCtx))
	assert.Contains(t, w.Body.String(), `"errors":{"name":"Name is required"}`)
}
