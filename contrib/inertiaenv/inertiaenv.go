// Package inertiaenv configures a renderer from the process environment,
// optionally preloaded from .env files.
package inertiaenv

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.inout.gg/foundations/debug"

	"github.com/nytodev/inertia-go"
)

// Environment variables read by Load.
const (
	EnvVersion      = "INERTIA_VERSION"
	EnvRootTemplate = "INERTIA_ROOT_TEMPLATE"
	EnvRootViewID   = "INERTIA_ROOT_VIEW_ID"
	EnvConcurrency  = "INERTIA_CONCURRENCY"
)

//nolint:gochecknoglobals
var d = debug.Debuglog("inertiaenv")

// Config holds the renderer settings read from the environment. Zero fields
// keep the renderer defaults.
type Config struct {
	// Version is the asset version, from INERTIA_VERSION.
	Version string

	// RootTemplate is the path of the root HTML template, from
	// INERTIA_ROOT_TEMPLATE.
	RootTemplate string

	// RootViewID is the ID of the mount element, from INERTIA_ROOT_VIEW_ID.
	RootViewID string

	// Concurrency bounds concurrent prop resolution, from
	// INERTIA_CONCURRENCY.
	Concurrency int
}

// Load reads renderer settings from the process environment after loading
// the given .env files.
//
// Files never override variables already set on the process, and a missing
// file is not an error. With no filenames, ".env" in the working directory
// is tried.
func Load(filenames ...string) *Config {
	if err := godotenv.Load(filenames...); err != nil {
		d("skipping env files: %v", err)
	}

	concurrency := 0

	if raw := os.Getenv(EnvConcurrency); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			d("ignoring %s=%q: %v", EnvConcurrency, raw, err)
		} else {
			concurrency = n
		}
	}

	return &Config{
		Version:      os.Getenv(EnvVersion),
		RootTemplate: os.Getenv(EnvRootTemplate),
		RootViewID:   os.Getenv(EnvRootViewID),
		Concurrency:  concurrency,
	}
}

// NewRenderer builds a renderer from fsys with the settings Load read.
// See Load for the .env file handling.
func NewRenderer(fsys fs.FS, filenames ...string) (*inertia.Renderer, error) {
	return Load(filenames...).NewRenderer(fsys)
}

// NewRenderer builds a renderer from fsys: the root template loads from
// RootTemplate, the remaining settings carry over to the renderer config.
func (c *Config) NewRenderer(fsys fs.FS) (*inertia.Renderer, error) {
	//nolint:exhaustruct
	renderer, err := inertia.FromFS(fsys, c.RootTemplate, &inertia.Config{
		Version:     c.Version,
		RootViewID:  c.RootViewID,
		Concurrency: c.Concurrency,
	})
	if err != nil {
		return nil, fmt.Errorf("inertiaenv: failed to build renderer: %w", err)
	}

	return renderer, nil
}
