package inertia

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStruct(t *testing.T) {
	t.Parallel()

	t.Run("maps tagged fields to props", func(t *testing.T) {
		t.Parallel()

		type pageProps struct {
			Name      string   `inertia:"name"`
			UserID    int      `inertia:"user_id,always"`
			Analytics LazyFunc `inertia:"analytics,deferred,concurrent" inertiagroup:"metrics"`
			Stats     LazyFunc `inertia:"stats,optional"`
			Tags      []string `inertia:"tags,mergeable"`
			Ignored   string   `inertia:"-"`
			Untagged  string
		}

		props, err := ParseStruct(&pageProps{
			Name:      "Alice",
			UserID:    7,
			Analytics: func(context.Context) (any, error) { return "analytics", nil },
			Stats:     func(context.Context) (any, error) { return 42, nil },
			Tags:      []string{"a", "b"},
			Ignored:   "skip me",
			Untagged:  "skip me too",
		})
		require.NoError(t, err)
		require.Len(t, props, 5)

		byKey := make(map[string]Prop, len(props))
		for _, p := range props {
			byKey[p.key] = p
		}

		name := byKey["name"]
		assert.Equal(t, "Alice", name.val)
		assert.False(t, name.always)
		assert.False(t, name.lazy)

		userID := byKey["user_id"]
		assert.Equal(t, 7, userID.val)
		assert.True(t, userID.always)

		analytics := byKey["analytics"]
		assert.True(t, analytics.lazy)
		assert.True(t, analytics.deferred)
		assert.True(t, analytics.concurrent)
		assert.Equal(t, "metrics", analytics.group)

		val, err := analytics.resolve(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "analytics", val)

		stats := byKey["stats"]
		assert.True(t, stats.lazy)
		assert.False(t, stats.deferred)

		tags := byKey["tags"]
		assert.True(t, tags.mergeable)

		_, ok := byKey["Ignored"]
		assert.False(t, ok, "discarded field should not produce a prop")
	})

	t.Run("tag options are order independent", func(t *testing.T) {
		t.Parallel()

		type a struct {
			X LazyFunc `inertia:"x,deferred,concurrent"`
		}

		type b struct {
			X LazyFunc `inertia:"x,concurrent,deferred"`
		}

		fn := LazyFunc(func(context.Context) (any, error) { return nil, nil })

		propsA, err := ParseStruct(&a{X: fn})
		require.NoError(t, err)

		propsB, err := ParseStruct(&b{X: fn})
		require.NoError(t, err)

		require.Len(t, propsA, 1)
		require.Len(t, propsB, 1)

		assert.Equal(t, propsA[0].deferred, propsB[0].deferred)
		assert.Equal(t, propsA[0].concurrent, propsB[0].concurrent)
	})

	t.Run("empty name falls back to the field name", func(t *testing.T) {
		t.Parallel()

		type pageProps struct {
			Email string `inertia:",omitempty"`
		}

		props, err := ParseStruct(&pageProps{Email: "a@b.test"})
		require.NoError(t, err)
		require.Len(t, props, 1)

		assert.Equal(t, "Email", props[0].key)
	})

	t.Run("omitempty skips zero values", func(t *testing.T) {
		t.Parallel()

		type pageProps struct {
			Email string `inertia:"email,omitempty"`
		}

		props, err := ParseStruct(&pageProps{})
		require.NoError(t, err)
		assert.Empty(t, props)

		props, err = ParseStruct(&pageProps{Email: "a@b.test"})
		require.NoError(t, err)
		assert.Len(t, props, 1)
	})

	t.Run("plain functions coerce to lazy", func(t *testing.T) {
		t.Parallel()

		type pageProps struct {
			Feed func(context.Context) (any, error) `inertia:"feed,optional"`
		}

		props, err := ParseStruct(&pageProps{
			Feed: func(context.Context) (any, error) { return "feed", nil },
		})
		require.NoError(t, err)
		require.Len(t, props, 1)

		val, err := props[0].resolve(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "feed", val)
	})
}

func TestParseStruct_Errors(t *testing.T) {
	t.Parallel()

	type conflicting struct {
		X LazyFunc `inertia:"x,optional,deferred"`
	}

	type unknownOption struct {
		X string `inertia:"x,wibble"`
	}

	type groupOnStandard struct {
		X string `inertia:"x" inertiagroup:"g"`
	}

	type notLazy struct {
		X string `inertia:"x,optional"`
	}

	type nilLazy struct {
		X LazyFunc `inertia:"x,deferred"`
	}

	fn := LazyFunc(func(context.Context) (any, error) { return nil, nil })

	tests := []struct {
		v           any
		name        string
		errContains string
	}{
		{
			name:        "not a pointer",
			v:           struct{}{},
			errContains: "pointer to a struct",
		},
		{
			name:        "pointer to a non-struct",
			v:           new(int),
			errContains: "pointer to a struct",
		},
		{
			name:        "conflicting prop kinds",
			v:           &conflicting{X: fn},
			errContains: "conflicting prop kinds",
		},
		{
			name:        "unknown tag option",
			v:           &unknownOption{X: "v"},
			errContains: "unknown prop tag option",
		},
		{
			name:        "group on a non-deferred prop",
			v:           &groupOnStandard{X: "v"},
			errContains: "requires a deferred prop",
		},
		{
			name:        "optional on a non-function field",
			v:           &notLazy{X: "v"},
			errContains: "cannot be used as a lazy prop",
		},
		{
			name:        "deferred field holds no value",
			v:           &nilLazy{},
			errContains: "holds no value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			props, err := ParseStruct(tt.v)
			require.Error(t, err)
			assert.Nil(t, props)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}
