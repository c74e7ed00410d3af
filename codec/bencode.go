package codec

import (
	"fmt"

	"github.com/unkn0wn-root/bencode"
)

// Bencode is the native codec. The zero value decodes every byte string as
// opaque data with the default depth limit.
type Bencode struct {
	Advisor  bencode.Advisor
	MaxDepth int
	Logger   bencode.Logger
}

// Encode returns the canonical encoding of v. Invalid values are reported
// as an error instead of a panic since codecs sit on I/O paths.
func (c Bencode) Encode(v bencode.Value) (b []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			ive, ok := r.(*bencode.InvalidValueError)
			if !ok {
				panic(r)
			}
			b, err = nil, fmt.Errorf("codec: %w", ive)
		}
	}()
	return bencode.Encode(v), nil
}

func (c Bencode) Decode(b []byte) (bencode.Value, error) {
	return bencode.NewDecoder(bencode.DecoderOptions{
		Advisor:  c.Advisor,
		MaxDepth: c.MaxDepth,
		Logger:   c.Logger,
	}).Decode(b)
}

// Native works on plain Go values (see bencode.FromAny and bencode.ToAny).
type Native struct {
	Advisor bencode.Advisor
}

func (Native) Encode(x any) ([]byte, error) { return bencode.Marshal(x) }
func (c Native) Decode(b []byte) (any, error) {
	return bencode.Unmarshal(b, c.Advisor)
}
