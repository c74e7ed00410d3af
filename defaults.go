package bencode

// DefaultMaxDepth bounds list/dictionary nesting when DecoderOptions.MaxDepth is zero.
const DefaultMaxDepth = 512

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
