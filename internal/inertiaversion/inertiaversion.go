// Package inertiaversion defines the asset version capability used to detect
// stale frontend bundles.
//
// The version is an opaque tag identifying the deployed asset bundle. The
// Inertia client sends the tag it holds with every request; when it differs
// from the server's current tag the client is forced into a hard page visit
// so it picks up the new bundle.
//
// See https://inertiajs.com/asset-versioning for the protocol description.
package inertiaversion

import (
	"crypto/md5" //nolint:gosec
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

var (
	_ Provider = Static("")
	_ Provider = Func(nil)
)

//go:generate mockgen -destination version_mock.go -package inertiaversion . Provider
type Provider interface {
	// Version returns the currently deployed asset version.
	Version() string
}

// Static is a Provider with a fixed version string.
type Static string

func (s Static) Version() string { return string(s) }

// Func adapts a plain function to the Provider interface. The function is
// consulted on every render, so it may recompute the version at will.
type Func func() string

func (f Func) Version() string { return f() }

// FromFile hashes the file at path and returns a Provider serving the hex
// digest as the version. The hash is computed once, eagerly; wrap FromFile
// in a Func to recompute on demand.
func FromFile(path string) (Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("inertia: failed to open version file: %w", err)
	}
	defer f.Close()

	h := md5.New() //nolint:gosec
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("inertia: failed to hash version file: %w", err)
	}

	return Static(hex.EncodeToString(h.Sum(nil))), nil
}
