package bencode

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestMarshalNatives(t *testing.T) {
	in := map[string]any{
		"b":     int8(-3),
		"a":     []any{uint16(7), "text", []byte{1, 2}},
		"float": 12.0,
		"num":   json.Number("99"),
		"tags":  []string{"x", "y"},
		"meta":  map[string]string{"k": "v"},
	}
	got, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := "d1:ali7e4:text2:\x01\x02e1:bi-3e5:floati12e4:metad1:k1:ve3:numi99e4:tagsl1:x1:yee"
	if string(got) != want {
		t.Fatalf("Marshal = %q\nwant      %q", got, want)
	}
}

func TestFromAnyRejects(t *testing.T) {
	cases := []any{
		nil,
		1.5,
		math.Inf(1),
		uint64(math.MaxUint64),
		float64(1 << 63),
		struct{}{},
		map[int]any{1: 1},
		[]any{1, complex(1, 2)},
		map[string]any{"k": nil},
		json.Number("1.5"),
		Value{},
	}
	for _, in := range cases {
		_, err := FromAny(in)
		var ue *UnsupportedTypeError
		if !errors.As(err, &ue) {
			t.Fatalf("FromAny(%#v) err = %v, want *UnsupportedTypeError", in, err)
		}
	}
}

func TestFromAnyBoundaries(t *testing.T) {
	v, err := FromAny(uint64(math.MaxInt64))
	if err != nil || v.Int() != math.MaxInt64 {
		t.Fatalf("MaxInt64 as uint64: %v %v", v, err)
	}
	v, err = FromAny(float64(math.MinInt64))
	if err != nil || v.Int() != math.MinInt64 {
		t.Fatalf("MinInt64 as float64: %v %v", v, err)
	}
}

func TestToAny(t *testing.T) {
	v := Dict(
		E("i", Int(1)),
		E("t", Text("x")),
		E("b", Bytes([]byte("y"))),
		E("l", List(Int(2))),
		E("dup", Int(1)),
		E("dup", Int(2)),
	)
	want := map[string]any{
		"i":   int64(1),
		"t":   "x",
		"b":   []byte("y"),
		"l":   []any{int64(2)},
		"dup": int64(2),
	}
	if got := ToAny(v); !reflect.DeepEqual(got, want) {
		t.Fatalf("ToAny = %#v\nwant %#v", got, want)
	}
	if ToAny(Value{}) != nil {
		t.Fatalf("invalid value converts to nil")
	}
}

func TestUnmarshal(t *testing.T) {
	got, err := Unmarshal([]byte("d4:name4:neil2:idi42ee"), TextPaths("name"))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := map[string]any{"name": "neil", "id": int64(42)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
	if _, err := Unmarshal([]byte("d4:name"), nil); !errors.Is(err, ErrMalformed) {
		t.Fatalf("want ErrMalformed, got %v", err)
	}
}
