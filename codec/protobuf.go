package codec

import (
	"encoding/base64"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/bencode"
)

// maxExactInt is the largest integer a protobuf double holds exactly.
const maxExactInt = 1 << 53

// Protobuf transcodes bencode values to a serialized google.protobuf.Value.
// Leaves follow the JSON rules: text as string_value, opaque data as base64
// string_value, integers as number_value (|n| <= 2^53).
type Protobuf struct {
	Advisor bencode.Advisor
}

func (c Protobuf) Encode(v bencode.Value) ([]byte, error) {
	pv, err := ToStructpb(v)
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(pv)
}

func (c Protobuf) Decode(b []byte) (bencode.Value, error) {
	var pv structpb.Value
	if err := proto.Unmarshal(b, &pv); err != nil {
		return bencode.Value{}, err
	}
	return FromStructpb(&pv, c.Advisor)
}

// ToStructpb converts v into a structpb.Value.
func ToStructpb(v bencode.Value) (*structpb.Value, error) {
	switch v.Kind() {
	case bencode.KindInt:
		n := v.Int()
		if n > maxExactInt || n < -maxExactInt {
			return nil, fmt.Errorf("codec: integer %d not exactly representable in protobuf number_value", n)
		}
		return structpb.NewNumberValue(float64(n)), nil
	case bencode.KindText:
		return structpb.NewStringValue(v.Str()), nil
	case bencode.KindBytes:
		return structpb.NewStringValue(base64.StdEncoding.EncodeToString(v.Bytes())), nil
	case bencode.KindList:
		items := v.List()
		lv := &structpb.ListValue{Values: make([]*structpb.Value, len(items))}
		for i, it := range items {
			pv, err := ToStructpb(it)
			if err != nil {
				return nil, err
			}
			lv.Values[i] = pv
		}
		return structpb.NewListValue(lv), nil
	case bencode.KindDict:
		entries := v.Entries()
		sv := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(entries))}
		for _, e := range entries {
			pv, err := ToStructpb(e.Value)
			if err != nil {
				return nil, err
			}
			sv.Fields[e.Key] = pv
		}
		return structpb.NewStructValue(sv), nil
	default:
		return nil, fmt.Errorf("codec: %w", &bencode.InvalidValueError{Kind: v.Kind()})
	}
}

// FromStructpb converts pv back into a Value, classifying strings with advise.
func FromStructpb(pv *structpb.Value, advise bencode.Advisor) (bencode.Value, error) {
	return fromTree(pv.AsInterface(), nil, advisedLeaf(advise))
}
