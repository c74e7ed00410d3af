package codec

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/unkn0wn-root/bencode"
)

// Msgpack transcodes bencode values to MessagePack using vmihailenco/msgpack/v5.
// Text maps to str and opaque data to bin. The zero value is ready to use.
type Msgpack struct{}

func (Msgpack) Encode(v bencode.Value) ([]byte, error) {
	if err := checkValid(v); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(bencode.ToAny(v)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Msgpack) Decode(b []byte) (bencode.Value, error) {
	var x any
	if err := msgpack.Unmarshal(b, &x); err != nil {
		return bencode.Value{}, err
	}
	return fromTree(x, nil, textLeaf)
}
