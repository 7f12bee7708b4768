package vite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchManifest(t *testing.T) {
	t.Parallel()

	writeManifest := func(t *testing.T, path, file string) {
		t.Helper()
		require.NoError(t, os.WriteFile(path, []byte(`{"app.js":{"file":"`+file+`"}}`), 0o600))
	}

	t.Run("serves the manifest digest and tracks rewrites", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "manifest.json")
		writeManifest(t, path, "assets/app-1.js")

		w, err := WatchManifest(path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = w.Close() })

		initial := w.Version()
		assert.Len(t, initial, 32)

		writeManifest(t, path, "assets/app-2.js")

		require.Eventually(t, func() bool {
			return w.Version() != initial
		}, 5*time.Second, 10*time.Millisecond, "version should change after the manifest is rewritten")

		assert.Len(t, w.Version(), 32)
	})

	t.Run("fails when the manifest does not exist", func(t *testing.T) {
		t.Parallel()

		_, err := WatchManifest(filepath.Join(t.TempDir(), "manifest.json"))
		require.Error(t, err)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "manifest.json")
		writeManifest(t, path, "assets/app-1.js")

		w, err := WatchManifest(path)
		require.NoError(t, err)

		require.NoError(t, w.Close())
		require.NoError(t, w.Close())

		assert.NotEmpty(t, w.Version())
	})
}
