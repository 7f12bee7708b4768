package inertiapartial

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	props := map[string]any{"greeting": "hi", "extra": "x", "count": 3}

	tests := []struct {
		name      string
		req       Request
		component string
		expected  map[string]any
	}{
		{
			name:      "no partial headers returns props unchanged",
			req:       Request{},
			component: "Home",
			expected:  props,
		},
		{
			name:      "whitelist keeps only the listed keys",
			req:       Request{Component: "Home", Only: []string{"greeting"}},
			component: "Home",
			expected:  map[string]any{"greeting": "hi"},
		},
		{
			name:      "whitelist ignores keys absent from props",
			req:       Request{Component: "Home", Only: []string{"greeting", "missing"}},
			component: "Home",
			expected:  map[string]any{"greeting": "hi"},
		},
		{
			name:      "blacklist drops the listed keys",
			req:       Request{Component: "Home", Except: []string{"extra"}},
			component: "Home",
			expected:  map[string]any{"greeting": "hi", "count": 3},
		},
		{
			name:      "whitelist wins over blacklist",
			req:       Request{Component: "Home", Only: []string{"greeting"}, Except: []string{"greeting"}},
			component: "Home",
			expected:  map[string]any{"greeting": "hi"},
		},
		{
			name:      "empty whitelist keeps nothing",
			req:       Request{Component: "Home", Only: []string{}},
			component: "Home",
			expected:  map[string]any{},
		},
		{
			name:      "component mismatch returns props unchanged",
			req:       Request{Component: "Dashboard", Only: []string{"greeting"}},
			component: "Home",
			expected:  props,
		},
		{
			name:      "missing target component returns props unchanged",
			req:       Request{Only: []string{"greeting"}},
			component: "Home",
			expected:  props,
		},
		{
			name:      "component match without restrictions returns props unchanged",
			req:       Request{Component: "Home"},
			component: "Home",
			expected:  props,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Resolve(props, tt.req, tt.component)
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("does not mutate the input", func(t *testing.T) {
		t.Parallel()

		input := map[string]any{"a": 1, "b": 2}
		_ = Resolve(input, Request{Component: "Home", Only: []string{"a"}}, "Home")
		assert.Equal(t, map[string]any{"a": 1, "b": 2}, input)
	})
}

func TestRequestActive(t *testing.T) {
	t.Parallel()

	assert.False(t, Request{}.Active("Home"))
	assert.False(t, Request{Component: "Home"}.Active("Home"), "no restrictions means full reload")
	assert.False(t, Request{Component: "Other", Only: []string{"a"}}.Active("Home"))
	assert.False(t, Request{Only: []string{"a"}}.Active(""), "empty target never activates")
	assert.True(t, Request{Component: "Home", Only: []string{}}.Active("Home"), "empty whitelist is still a whitelist")
	assert.True(t, Request{Component: "Home", Except: []string{"a"}}.Active("Home"))
}

func TestRequestKeep(t *testing.T) {
	t.Parallel()

	assert.True(t, Request{}.Keep("a"))
	assert.True(t, Request{Only: []string{"a"}}.Keep("a"))
	assert.False(t, Request{Only: []string{"a"}}.Keep("b"))
	assert.False(t, Request{Only: []string{}}.Keep("a"))
	assert.False(t, Request{Except: []string{"a"}}.Keep("a"))
	assert.True(t, Request{Except: []string{"a"}}.Keep("b"))
	assert.True(t, Request{Only: []string{"a"}, Except: []string{"a"}}.Keep("a"), "whitelist wins")
}

func TestParseRequest(t *testing.T) {
	t.Parallel()

	t.Run("absent headers leave the zero request", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		req := ParseRequest(r)

		assert.Empty(t, req.Component)
		assert.Nil(t, req.Only)
		assert.Nil(t, req.Except)
		assert.Nil(t, req.Reset)
	})

	t.Run("parses the partial headers", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Inertia-Partial-Component", "Home")
		r.Header.Set("X-Inertia-Partial-Data", "greeting, count")
		r.Header.Set("X-Inertia-Partial-Except", "extra")
		r.Header.Set("X-Inertia-Reset", "feed")

		req := ParseRequest(r)
		assert.Equal(t, "Home", req.Component)
		assert.Equal(t, []string{"greeting", "count"}, req.Only)
		assert.Equal(t, []string{"extra"}, req.Except)
		assert.Equal(t, []string{"feed"}, req.Reset)
	})

	t.Run("present but empty whitelist stays non-nil", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Inertia-Partial-Data", "")

		req := ParseRequest(r)
		require.NotNil(t, req.Only)
		assert.Empty(t, req.Only)
	})

	t.Run("joins repeated header values", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Add("X-Inertia-Partial-Data", "a,b")
		r.Header.Add("X-Inertia-Partial-Data", "c")

		req := ParseRequest(r)
		assert.Equal(t, []string{"a", "b", "c"}, req.Only)
	})
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{name: "empty value", value: "", expected: []string{}},
		{name: "single entry", value: "a", expected: []string{"a"}},
		{name: "trims whitespace", value: " a , b ", expected: []string{"a", "b"}},
		{name: "drops empty entries", value: "a,,b,", expected: []string{"a", "b"}},
		{name: "whitespace only", value: " , ", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, SplitList(tt.value))
		})
	}
}
