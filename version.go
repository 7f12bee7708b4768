package inertia

import (
	"go.inout.gg/foundations/must"

	"github.com/nytodev/inertia-go/internal/inertiaversion"
)

type (
	// VersionProvider reports the currently deployed asset version.
	//
	// The version is an opaque tag: whenever the tag the client holds differs
	// from the server's, the client is forced into a hard page visit so it
	// picks up the new asset bundle. Strategies range from a fixed string to
	// hashing a build manifest; see StaticVersion, VersionFunc and
	// FileVersion, plus the watched-manifest strategy in contrib/vite.
	VersionProvider = inertiaversion.Provider

	// StaticVersion is a VersionProvider with a fixed version string.
	StaticVersion = inertiaversion.Static

	// VersionFunc adapts a plain function to the VersionProvider interface.
	// The function is consulted on every render.
	VersionFunc = inertiaversion.Func
)

// FileVersion derives the asset version from the contents of the file at
// path, typically a build manifest. The hash is computed once, eagerly.
func FileVersion(path string) (VersionProvider, error) {
	return inertiaversion.FromFile(path)
}

// MustFileVersion is like FileVersion, but panics if an error occurs.
func MustFileVersion(path string) VersionProvider {
	return must.Must(FileVersion(path))
}
