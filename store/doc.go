// Package store keeps bencoded documents in a pluggable byte Provider,
// addressed by the SHA-1 digest of their canonical encoding.
//
// Entries are immutable: a digest always names the same document, so writes
// never race with each other and a read can verify what it got. Reads that
// find a damaged frame, a digest mismatch or an undecodable payload delete
// the entry and report a miss (self-heal).
//
// Keys:
//
//	doc:<ns>:<hex digest>
//
// Usage:
//
//	p, _ := ristretto.New(ristretto.Config{NumCounters: 1e5, MaxCost: 64 << 20})
//	s, _ := store.New(store.Options{Namespace: "torrents", Provider: p})
//	d, _ := s.Put(ctx, doc)
//	v, ok, _ := s.Get(ctx, d)
package store
