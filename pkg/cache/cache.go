// Package cache stores rendered label artifacts and inventory API responses.
//
// # Overview
//
// A [Cache] is a byte-oriented key/value store with per-entry TTL. Three
// backends are provided:
//
//   - [FileCache]: entries as JSON files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP service
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys are built by a [Keyer] so every entry point (CLI, HTTP service) agrees
// on them. Artifact keys hash the record list together with every option
// that influences the output bytes, so a change to any of them is a miss.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().ArtifactKey(recordsHash, opts)
//	if data, hit, _ := c.Get(ctx, key); hit { ... }
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// Default entry lifetimes.
const (
	// TTLHTTP bounds how long inventory API responses are reused. Items are
	// created in batches, so a short TTL keeps fresh batches visible.
	TTLHTTP = 10 * time.Minute

	// TTLArtifact applies to rendered documents, which depend only on their key.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a key/value store for opaque bytes.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// ArtifactKeyOpts lists everything besides the records that changes the
// bytes of a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string            `json:"format"`
	Symbology string            `json:"symbology"`
	Grid      layout.GridConfig `json:"grid"`
	Style     sheet.LabelStyle  `json:"style"`
	PageSize  layout.PageSize   `json:"page_size"`
	CutGuides bool              `json:"cut_guides"`
	DPI       float64           `json:"dpi"`
	Title     string            `json:"title"`
}

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey names a cached HTTP response.
	HTTPKey(namespace, key string) string

	// ArtifactKey names the rendered artifacts of one record list.
	ArtifactKey(recordsHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ArtifactKey returns "artifact:<sha256 of hash and options>".
func (DefaultKeyer) ArtifactKey(recordsHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", recordsHash, opts)
}
