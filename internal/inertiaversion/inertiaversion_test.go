package inertiaversion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "v1", Static("v1").Version())
	assert.Empty(t, Static("").Version())
}

func TestFunc(t *testing.T) {
	t.Parallel()

	calls := 0
	p := Func(func() string {
		calls++
		return "computed"
	})

	assert.Equal(t, "computed", p.Version())
	assert.Equal(t, "computed", p.Version())
	assert.Equal(t, 2, calls, "the function should be consulted on every call")
}

func TestFromFile(t *testing.T) {
	t.Parallel()

	t.Run("hashes the file contents", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "manifest.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"app.js":{}}`), 0o600))

		p, err := FromFile(path)
		require.NoError(t, err)

		version := p.Version()
		assert.Len(t, version, 32, "md5 hex digest")

		same, err := FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, version, same.Version(), "hash must be stable for unchanged contents")
	})

	t.Run("different contents hash differently", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := filepath.Join(dir, "a")
		b := filepath.Join(dir, "b")
		require.NoError(t, os.WriteFile(a, []byte("one"), 0o600))
		require.NoError(t, os.WriteFile(b, []byte("two"), 0o600))

		pa, err := FromFile(a)
		require.NoError(t, err)
		pb, err := FromFile(b)
		require.NoError(t, err)
		assert.NotEqual(t, pa.Version(), pb.Version())
	})

	t.Run("missing file errors", func(t *testing.T) {
		t.Parallel()

		_, err := FromFile(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
}
