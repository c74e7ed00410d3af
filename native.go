package bencode

import (
	"fmt"
	"math"
	"slices"
)

// Marshal encodes a Go value after converting it with FromAny.
func Marshal(x any) ([]byte, error) {
	v, err := FromAny(x)
	if err != nil {
		return nil, err
	}
	return Encode(v), nil
}

// Unmarshal decodes data with the given advisor (nil => all opaque data) and
// converts the result with ToAny.
func Unmarshal(data []byte, advise Advisor) (any, error) {
	v, err := NewDecoder(DecoderOptions{Advisor: advise}).Decode(data)
	if err != nil {
		return nil, err
	}
	return ToAny(v), nil
}

// FromAny converts common Go values into a Value:
//
//	signed and unsigned integers  -> Int (uint values above MaxInt64 fail)
//	integral float32/float64      -> Int
//	Int64() (int64, error)        -> Int (json.Number and friends)
//	string                        -> Text
//	[]byte                        -> Bytes
//	[]any, []string, [][]byte, []Value -> List
//	map[string]any, map[string]string, map[string][]byte, map[string]Value -> Dict (keys sorted)
//	Value                         -> itself
//
// Any other type yields *UnsupportedTypeError.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case Value:
		if !t.IsValid() {
			return Value{}, &UnsupportedTypeError{Type: "bencode.Value", Reason: "invalid value"}
		}
		return t, nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return fromUint(uint64(t), "uint")
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return fromUint(t, "uint64")
	case float32:
		return fromFloat(float64(t), "float32")
	case float64:
		return fromFloat(t, "float64")
	case interface{ Int64() (int64, error) }:
		n, err := t.Int64()
		if err != nil {
			return Value{}, &UnsupportedTypeError{Type: fmt.Sprintf("%T", x), Reason: err.Error()}
		}
		return Int(n), nil
	case string:
		return Text(t), nil
	case []byte:
		return Bytes(t), nil
	case []Value:
		return listOf(t, func(v Value) (Value, error) { return FromAny(v) })
	case []any:
		return listOf(t, FromAny)
	case []string:
		return listOf(t, func(s string) (Value, error) { return Text(s), nil })
	case [][]byte:
		return listOf(t, func(b []byte) (Value, error) { return Bytes(b), nil })
	case map[string]any:
		return dictOf(t, FromAny)
	case map[string]Value:
		return dictOf(t, func(v Value) (Value, error) { return FromAny(v) })
	case map[string]string:
		return dictOf(t, func(s string) (Value, error) { return Text(s), nil })
	case map[string][]byte:
		return dictOf(t, func(b []byte) (Value, error) { return Bytes(b), nil })
	case nil:
		return Value{}, &UnsupportedTypeError{Type: "nil", Reason: "bencode has no null"}
	default:
		return Value{}, &UnsupportedTypeError{Type: fmt.Sprintf("%T", x)}
	}
}

func fromUint(u uint64, typ string) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, &UnsupportedTypeError{Type: typ, Reason: "overflows int64"}
	}
	return Int(int64(u)), nil
}

func fromFloat(f float64, typ string) (Value, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, &UnsupportedTypeError{Type: typ, Reason: "not an integer"}
	}
	// 2^63 is exactly representable; anything at or above it overflows.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return Value{}, &UnsupportedTypeError{Type: typ, Reason: "overflows int64"}
	}
	return Int(int64(f)), nil
}

func listOf[T any](items []T, conv func(T) (Value, error)) (Value, error) {
	out := make([]Value, len(items))
	for i, it := range items {
		v, err := conv(it)
		if err != nil {
			return Value{}, err
		}
		out[i] = v
	}
	return Value{kind: KindList, list: out}, nil
}

func dictOf[T any](m map[string]T, conv func(T) (Value, error)) (Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]Entry, len(keys))
	for i, k := range keys {
		v, err := conv(m[k])
		if err != nil {
			return Value{}, err
		}
		out[i] = Entry{Key: k, Value: v}
	}
	return Value{kind: KindDict, dict: out}, nil
}

// ToAny converts v into plain Go values: int64, []byte (KindBytes), string
// (KindText), []any and map[string]any. Duplicate dictionary keys collapse
// with the last entry winning. Invalid values convert to nil.
func ToAny(v Value) any {
	switch v.kind {
	case KindInt:
		return v.n
	case KindBytes:
		return []byte(v.s)
	case KindText:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, it := range v.list {
			out[i] = ToAny(it)
		}
		return out
	case KindDict:
		out := make(map[string]any, len(v.dict))
		for _, e := range v.dict {
			out[e.Key] = ToAny(e.Value)
		}
		return out
	}
	return nil
}
