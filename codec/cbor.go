package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/unkn0wn-root/bencode"
)

// CBOR transcodes bencode values to CBOR using fxamacker/cbor. Text maps to
// CBOR text strings and opaque data to CBOR byte strings, so classification
// survives the round trip. Dictionaries decode in canonical key order.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBOR constructs a CBOR codec.
//   - Deterministic is true, uses CoreDetEncOptions (RFC 8949).
//   - Otherwise uses PreferredUnsortedEncOptions (smaller/faster defaults).
func NewCBOR(deterministic bool) (CBOR, error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	em, err := eo.EncMode()
	if err != nil {
		return CBOR{}, err
	}
	dm, err := cbor.DecOptions{
		// any-typed targets need string-keyed maps to feed fromTree.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		return CBOR{}, err
	}
	return CBOR{enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error.
// Handy for package-level variables in tests/examples.
func MustCBOR(deterministic bool) CBOR {
	c, err := NewCBOR(deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR) Encode(v bencode.Value) ([]byte, error) {
	if err := checkValid(v); err != nil {
		return nil, err
	}
	return c.enc.Marshal(bencode.ToAny(v))
}

func (c CBOR) Decode(b []byte) (bencode.Value, error) {
	var x any
	if err := c.dec.Unmarshal(b, &x); err != nil {
		return bencode.Value{}, err
	}
	return fromTree(x, nil, textLeaf)
}
