// Package codec converts bencode values to and from bytes. Bencode is the
// native codec; the others transcode the same value tree into CBOR,
// MessagePack, JSON and protobuf so documents can move between stores and
// services that speak those formats.
package codec

import (
	"errors"

	"github.com/unkn0wn-root/bencode"
)

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// ErrPayloadTooLarge is returned by LimitCodec when a payload exceeds MaxDecode.
var ErrPayloadTooLarge = errors.New("codec: payload too large")

var (
	_ Codec[bencode.Value] = Bencode{}
	_ Codec[bencode.Value] = CBOR{}
	_ Codec[bencode.Value] = Msgpack{}
	_ Codec[bencode.Value] = JSON{}
	_ Codec[bencode.Value] = Protobuf{}
	_ Codec[any]           = Native{}
)
