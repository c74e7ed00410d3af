// Package bencode converts between bencoded bytes and an immutable tree of
// Values: integers, byte strings, lists and ordered dictionaries.
//
// Bencode byte strings carry no tag telling text from binary data. Decoding
// keeps every byte string opaque unless an Advisor says otherwise; the advisor
// sees the key path (dictionary keys from the root, list positions omitted)
// of each byte string and classifies it:
//
//	v, ok := bencode.DecodeWithAdvisor(data, bencode.TextPaths("announce", "info/name"))
//
// Encoding always produces the canonical form: dictionary entries sorted by
// the raw bytes of their keys.
//
// Decoding never panics on malformed input. The boolean helpers Decode and
// DecodeWithAdvisor report failure as false; a Decoder returns *SyntaxError
// values matching ErrMalformed, and bounds nesting depth.
//
// Subpackages:
//   - codec: Codec[V] implementations (bencode itself, CBOR, MessagePack, JSON, protobuf).
//   - store: content-addressed document store over a pluggable byte provider.
//   - refs: names pointing at store digests.
//   - metainfo: BitTorrent metainfo parsing and info hashes.
//   - log/*: Logger adapters for zap, logrus and slog.
package bencode
