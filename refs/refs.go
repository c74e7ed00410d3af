// Package refs maps human-readable names to document digests, so callers can
// find content in a store without remembering its hash.
//
// Use Local (default) for in-process refs, or Redis for refs shared across
// processes.
package refs

import (
	"context"
	"time"

	"github.com/unkn0wn-root/bencode"
)

type Refs interface {
	// Resolve returns the digest name points to; missing => ok=false.
	Resolve(ctx context.Context, name string) (d bencode.Digest, ok bool, err error)
	// ResolveMany resolves many names; missing names are absent from the result.
	ResolveMany(ctx context.Context, names []string) (map[string]bencode.Digest, error)
	// Set points name at d, replacing any previous target.
	Set(ctx context.Context, name string, d bencode.Digest) error
	// Delete removes name (missing is not an error).
	Delete(ctx context.Context, name string) error
	// Cleanup prunes refs not updated within retention if applicable (no-op for Redis).
	Cleanup(retention time.Duration)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
