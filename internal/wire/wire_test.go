package wire

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func sampleDigest(seed byte) [DigestSize]byte {
	var d [DigestSize]byte
	for i := range d {
		d[i] = seed + byte(i)
	}
	return d
}

func mustDecode(t *testing.T, b []byte) ([DigestSize]byte, []byte) {
	t.Helper()
	d, p, err := DecodeDocument(b)
	if err != nil {
		t.Fatalf("DecodeDocument error: %v", err)
	}
	return d, p
}

func TestDocumentRoundTrip(t *testing.T) {
	cases := []struct {
		digest  [DigestSize]byte
		payload []byte
	}{
		{sampleDigest(0), nil},
		{sampleDigest(1), []byte("d1:ai1ee")},
		{sampleDigest(200), bytes.Repeat([]byte{0xff}, 1024)},
	}
	for _, tc := range cases {
		enc := EncodeDocument(tc.digest, tc.payload)
		d, p := mustDecode(t, enc)
		if d != tc.digest {
			t.Fatalf("digest mismatch: got %x want %x", d, tc.digest)
		}
		if !bytes.Equal(p, tc.payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, tc.payload)
		}
	}
}

func TestDocumentRejectsTrailingBytes(t *testing.T) {
	enc := EncodeDocument(sampleDigest(7), []byte("i1e"))
	enc = append(enc, 0xDE, 0xAD)
	if _, _, err := DecodeDocument(enc); err != ErrCorrupt {
		t.Fatalf("expected ErrCorrupt on trailing bytes, got %v", err)
	}
}

func TestDocumentCorruptHeadersAndLengths(t *testing.T) {
	enc := EncodeDocument(sampleDigest(1), []byte("3:abc"))

	mutate := func(f func(b []byte) []byte) []byte {
		return f(append([]byte(nil), enc...))
	}
	cases := map[string][]byte{
		"bad magic":   mutate(func(b []byte) []byte { b[0] = 'X'; return b }),
		"bad version": mutate(func(b []byte) []byte { b[4] = version + 1; return b }),
		"bad kind":    mutate(func(b []byte) []byte { b[5] = kindDoc + 1; return b }),
		// vlen sits after magic(4) + ver(1) + kind(1) + digest(20)
		"vlen too long": mutate(func(b []byte) []byte {
			binary.BigEndian.PutUint32(b[26:30], uint32(len("3:abc")+1))
			return b
		}),
		"truncated":    enc[:len(enc)-1],
		"header only":  enc[:headerSize-1],
		"empty":        nil,
		"foreign data": []byte("d1:ai1ee"),
	}
	for name, b := range cases {
		if _, _, err := DecodeDocument(b); err != ErrCorrupt {
			t.Fatalf("%s: expected ErrCorrupt, got %v", name, err)
		}
	}
}

func TestDocumentZeroCopyPayload(t *testing.T) {
	enc := EncodeDocument(sampleDigest(1), []byte("Z"))
	_, p := mustDecode(t, enc)
	p[0] = 'Q'
	_, p2 := mustDecode(t, enc)
	if p2[0] != 'Q' {
		t.Fatalf("expected zero-copy slice into enc buffer")
	}
}
