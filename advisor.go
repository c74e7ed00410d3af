package bencode

import "strings"

// StringType classifies a decoded byte string.
type StringType int8

const (
	StringTypeText StringType = -1
	StringTypeData StringType = 0
)

func (t StringType) valid() bool { return t == StringTypeText || t == StringTypeData }

// KeyPath is the sequence of dictionary keys leading from the root value to
// a node. List positions do not contribute segments.
type KeyPath []string

// String joins the segments with '/'.
func (p KeyPath) String() string { return strings.Join(p, "/") }

// Clone returns a copy safe to retain after the advisor returns.
func (p KeyPath) Clone() KeyPath {
	if p == nil {
		return nil
	}
	out := make(KeyPath, len(p))
	copy(out, p)
	return out
}

func (p KeyPath) Equal(o KeyPath) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Advisor classifies the byte string found at path. It is called
// synchronously once per byte string value during decode (never for
// dictionary keys). The path slice is reused between calls; Clone it to
// keep it.
type Advisor func(path KeyPath) StringType

// TextPaths returns an Advisor that classifies byte strings as text when
// their key path equals one of paths. Each path is split on '/' into
// segments and compared segment by segment, so a single key that itself
// contains '/' never matches. Use "" for the root.
func TextPaths(paths ...string) Advisor {
	patterns := make([]KeyPath, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			patterns = append(patterns, KeyPath{})
			continue
		}
		patterns = append(patterns, KeyPath(strings.Split(p, "/")))
	}
	return func(path KeyPath) StringType {
		for _, pat := range patterns {
			if pat.Equal(path) {
				return StringTypeText
			}
		}
		return StringTypeData
	}
}

// AllText classifies every byte string as text.
func AllText(KeyPath) StringType { return StringTypeText }

// AllData classifies every byte string as opaque data; it matches the
// behaviour of decoding without an advisor.
func AllData(KeyPath) StringType { return StringTypeData }
