// Package wire frames stored documents so a store can reject foreign or
// damaged bytes before handing them to a codec.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version byte = 1
	kindDoc byte = 1
)

const (
	DigestSize = 20
	headerSize = 4 + 1 + 1 + DigestSize + 4
	maxPayload = 1<<32 - 1
)

var (
	ErrCorrupt = errors.New("bencode: corrupt stored entry")
	magic4     = [...]byte{'B', 'E', 'N', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Document: magic(4) | ver(1) | kind(1=doc) | digest(20) | vlen(u32 be) | payload(vlen)
func EncodeDocument(digest [DigestSize]byte, payload []byte) []byte {
	if uint64(len(payload)) > maxPayload {
		panic("bencode: payload too large for wire frame")
	}
	var buf bytes.Buffer
	buf.Grow(headerSize + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindDoc)
	buf.Write(digest[:])

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeDocument validates the frame and returns the digest and a payload
// slice aliasing b. Trailing bytes are corruption.
func DecodeDocument(b []byte) (digest [DigestSize]byte, payload []byte, err error) {
	if len(b) < headerSize || !hasMagic(b) || b[4] != version || b[5] != kindDoc {
		return digest, nil, ErrCorrupt
	}
	off := 6

	copy(digest[:], b[off:off+DigestSize])
	off += DigestSize

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen != len(b)-off { // exact: no short payload, no trailing junk
		return [DigestSize]byte{}, nil, ErrCorrupt
	}
	return digest, b[off:], nil
}
