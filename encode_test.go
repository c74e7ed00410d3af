package bencode

import (
	"bytes"
	"testing"
)

func TestEncodeScalars(t *testing.T) {
	cases := []struct {
		in   Value
		want string
	}{
		{Int(0), "i0e"},
		{Int(-42), "i-42e"},
		{Int(1234567890123), "i1234567890123e"},
		{Int(-9223372036854775808), "i-9223372036854775808e"},
		{Bytes(nil), "0:"},
		{Bytes([]byte{0, 'e', 0xff}), "3:\x00e\xff"},
		{Text("héllo"), "6:héllo"},
		{List(), "le"},
		{Dict(), "de"},
	}
	for _, tc := range cases {
		if got := string(Encode(tc.in)); got != tc.want {
			t.Fatalf("Encode(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEncodeSortsKeysCanonically(t *testing.T) {
	v := Dict(E("b", Int(1)), E("a", Int(2)))
	if got := string(Encode(v)); got != "d1:ai2e1:bi1ee" {
		t.Fatalf("got %q", got)
	}
	// insertion order of the value itself is untouched
	if keys := v.Keys(); keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("Encode reordered the source value: %v", keys)
	}
}

func TestEncodeSortsByRawBytes(t *testing.T) {
	v := Dict(
		E("\xff", Int(1)),
		E("a", Int(2)),
		E("B", Int(3)),
		E("aa", Int(4)),
		E("", Int(5)),
	)
	want := "d0:i5e1:Bi3e1:ai2e2:aai4e1:\xffi1ee"
	if got := string(Encode(v)); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestEncodeNested(t *testing.T) {
	v := Dict(
		E("z", List(Int(1), Dict(E("y", Text("x")), E("x", Bytes([]byte("y")))))),
		E("a", List()),
	)
	want := "d1:ale1:zli1ed1:x1:y1:y1:xeee"
	if got := string(Encode(v)); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestEncodeDuplicateKeysKeepOrder(t *testing.T) {
	v := Dict(E("b", Int(1)), E("a", Int(2)), E("b", Int(3)))
	if got := string(Encode(v)); got != "d1:ai2e1:bi1e1:bi3ee" {
		t.Fatalf("got %q", got)
	}
}

func TestAppendEncode(t *testing.T) {
	dst := []byte("prefix:")
	out := AppendEncode(dst, List(Int(7)))
	if !bytes.Equal(out, []byte("prefix:li7ee")) {
		t.Fatalf("got %q", out)
	}
}

func TestEncodeInvalidPanics(t *testing.T) {
	for _, v := range []Value{{}, List(Int(1), Value{}), Dict(E("k", Value{}))} {
		func() {
			defer func() {
				r := recover()
				if _, ok := r.(*InvalidValueError); !ok {
					t.Fatalf("Encode(%v) recovered %v, want *InvalidValueError", v, r)
				}
			}()
			Encode(v)
		}()
	}
}

func TestRoundTrip(t *testing.T) {
	values := []Value{
		Int(0),
		Int(-1),
		Bytes([]byte("opaque\x00bytes")),
		List(),
		Dict(),
		List(Int(1), List(List()), Dict(E("k", Bytes([]byte("v"))))),
		Dict(
			E("announce", Bytes([]byte("http://tracker"))),
			E("info", Dict(
				E("length", Int(1<<40)),
				E("name", Bytes([]byte("file.bin"))),
				E("pieces", Bytes(bytes.Repeat([]byte{0xab}, 40))),
			)),
		),
	}
	for _, v := range values {
		got, ok := Decode(Encode(v))
		if !ok {
			t.Fatalf("round trip of %v failed to decode", v)
		}
		if !Equal(got, v) {
			t.Fatalf("round trip: got %v want %v", got, v)
		}
	}
}

func TestRoundTripUpToClassification(t *testing.T) {
	v := Dict(E("name", Text("neil")), E("id", Bytes([]byte("42"))))
	got, ok := Decode(Encode(v))
	if !ok {
		t.Fatalf("decode failed")
	}
	if Equal(got, v) {
		t.Fatalf("default decode should not restore text classification")
	}
	// canonical order swaps the keys
	if !EqualData(got, Dict(E("id", Bytes([]byte("42"))), E("name", Bytes([]byte("neil"))))) {
		t.Fatalf("got %v", got)
	}
}
