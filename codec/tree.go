package codec

import (
	"encoding/base64"
	"fmt"
	"slices"

	"github.com/unkn0wn-root/bencode"
)

// stringLeaf materializes a decoded string found at path.
type stringLeaf func(s string, path bencode.KeyPath) (bencode.Value, error)

func textLeaf(s string, _ bencode.KeyPath) (bencode.Value, error) { return bencode.Text(s), nil }

// advisedLeaf is used by formats without a byte string type (JSON, protobuf
// Struct). Opaque data travels as base64 there; advise picks which strings
// are real text. A nil advisor treats every string as data, the same
// default the bencode decoder uses.
func advisedLeaf(advise bencode.Advisor) stringLeaf {
	return func(s string, path bencode.KeyPath) (bencode.Value, error) {
		st := bencode.StringTypeData
		if advise != nil {
			st = advise(path)
		}
		switch st {
		case bencode.StringTypeText:
			return bencode.Text(s), nil
		case bencode.StringTypeData:
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return bencode.Value{}, fmt.Errorf("codec: string at %q is not base64 data: %w", path.String(), err)
			}
			return bencode.Bytes(b), nil
		default:
			return bencode.Value{}, &bencode.AdvisorError{Path: path.Clone(), Got: st}
		}
	}
}

// fromTree converts a generic decoded tree (maps, slices, scalars) into a
// Value. Dictionaries come back in canonical key order.
func fromTree(x any, path bencode.KeyPath, leaf stringLeaf) (bencode.Value, error) {
	switch t := x.(type) {
	case string:
		return leaf(t, path)
	case []any:
		items := make([]bencode.Value, len(t))
		for i, it := range t {
			v, err := fromTree(it, path, leaf)
			if err != nil {
				return bencode.Value{}, err
			}
			items[i] = v
		}
		return bencode.List(items...), nil
	case map[string]any:
		return dictFromTree(t, path, leaf)
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, v := range t {
			switch ks := k.(type) {
			case string:
				m[ks] = v
			case []byte:
				m[string(ks)] = v
			default:
				return bencode.Value{}, fmt.Errorf("codec: dictionary key of type %T at %q", k, path.String())
			}
		}
		return dictFromTree(m, path, leaf)
	default:
		return bencode.FromAny(t)
	}
}

func dictFromTree(m map[string]any, path bencode.KeyPath, leaf stringLeaf) (bencode.Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	entries := make([]bencode.Entry, len(keys))
	for i, k := range keys {
		v, err := fromTree(m[k], append(path, k), leaf)
		if err != nil {
			return bencode.Value{}, err
		}
		entries[i] = bencode.E(k, v)
	}
	return bencode.Dict(entries...), nil
}

// checkValid rejects zero Values before they reach a foreign encoder, which
// would otherwise serialize them as null.
func checkValid(v bencode.Value) error {
	switch v.Kind() {
	case bencode.KindInvalid:
		return fmt.Errorf("codec: %w", &bencode.InvalidValueError{Kind: v.Kind()})
	case bencode.KindList:
		for _, it := range v.List() {
			if err := checkValid(it); err != nil {
				return err
			}
		}
	case bencode.KindDict:
		for _, e := range v.Entries() {
			if err := checkValid(e.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
