package codec

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/unkn0wn-root/bencode"
)

var jsonAPI = jsoniter.Config{
	EscapeHTML:  true,
	SortMapKeys: true,
	UseNumber:   true,
}.Froze()

// JSON transcodes bencode values to JSON using json-iterator. Text becomes a
// JSON string and opaque data a base64 string. JSON cannot tell the two
// apart, so Decode asks Advisor which strings are text; the rest are
// base64-decoded (nil Advisor => all data).
type JSON struct {
	Advisor bencode.Advisor
	Indent  string // non-empty => indented output
}

func (c JSON) Encode(v bencode.Value) ([]byte, error) {
	if err := checkValid(v); err != nil {
		return nil, err
	}
	if c.Indent != "" {
		return jsonAPI.MarshalIndent(bencode.ToAny(v), "", c.Indent)
	}
	return jsonAPI.Marshal(bencode.ToAny(v))
}

func (c JSON) Decode(b []byte) (bencode.Value, error) {
	var x any
	if err := jsonAPI.Unmarshal(b, &x); err != nil {
		return bencode.Value{}, err
	}
	return fromTree(x, nil, advisedLeaf(c.Advisor))
}
