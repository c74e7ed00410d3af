package bencode

import (
	"bytes"
	"fmt"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindBytes // opaque byte string
	KindText  // byte string classified as text
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBytes:
		return "bytes"
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return "invalid"
	}
}

// Value is an immutable bencode value. The zero Value is invalid and must
// not be encoded; build values with Int, Bytes, Text, List and Dict.
type Value struct {
	kind Kind
	n    int64
	s    string // byte string payload (KindBytes, KindText)
	list []Value
	dict []Entry
}

// Entry is a single key/value pair of a dictionary.
type Entry struct {
	Key   string
	Value Value
}

func Int(n int64) Value { return Value{kind: KindInt, n: n} }

// Bytes returns an opaque byte string. b is copied.
func Bytes(b []byte) Value { return Value{kind: KindBytes, s: string(b)} }

// Text returns a byte string classified as text.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// List returns a list holding a copy of items.
func List(items ...Value) Value {
	l := make([]Value, len(items))
	copy(l, items)
	return Value{kind: KindList, list: l}
}

// Dict returns a dictionary with entries in the given order. Duplicate keys
// are kept as-is; Get resolves them to the last occurrence.
func Dict(entries ...Entry) Value {
	d := make([]Entry, len(entries))
	copy(d, entries)
	return Value{kind: KindDict, dict: d}
}

// E is shorthand for Entry{Key: key, Value: v}.
func E(key string, v Value) Entry { return Entry{Key: key, Value: v} }

func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds one of the concrete variants.
func (v Value) IsValid() bool { return v.kind >= KindInt && v.kind <= KindDict }

// IsByteString reports whether v is a byte string of either classification.
func (v Value) IsByteString() bool { return v.kind == KindBytes || v.kind == KindText }

// Int returns the integer payload; zero if v is not an integer.
func (v Value) Int() int64 { return v.n }

// Str returns the raw byte string payload as a Go string, regardless of
// classification. Empty for non byte strings.
func (v Value) Str() string { return v.s }

// Bytes returns a copy of the byte string payload, or nil for non byte strings.
func (v Value) Bytes() []byte {
	if !v.IsByteString() {
		return nil
	}
	return []byte(v.s)
}

// List returns a copy of the list items, or nil if v is not a list.
func (v Value) List() []Value {
	if v.kind != KindList {
		return nil
	}
	out := make([]Value, len(v.list))
	copy(out, v.list)
	return out
}

// Index returns the i-th list item.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.list) {
		return Value{}, false
	}
	return v.list[i], true
}

// Len returns the number of items of a list or entries of a dictionary,
// the payload length of a byte string, and zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindDict:
		return len(v.dict)
	case KindBytes, KindText:
		return len(v.s)
	}
	return 0
}

// Entries returns a copy of the dictionary entries in insertion order.
func (v Value) Entries() []Entry {
	if v.kind != KindDict {
		return nil
	}
	out := make([]Entry, len(v.dict))
	copy(out, v.dict)
	return out
}

// Keys returns the dictionary keys in insertion order.
func (v Value) Keys() []string {
	if v.kind != KindDict {
		return nil
	}
	keys := make([]string, len(v.dict))
	for i, e := range v.dict {
		keys[i] = e.Key
	}
	return keys
}

// Get looks up key in a dictionary. With duplicate keys the last one wins.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindDict {
		return Value{}, false
	}
	for i := len(v.dict) - 1; i >= 0; i-- {
		if v.dict[i].Key == key {
			return v.dict[i].Value, true
		}
	}
	return Value{}, false
}

func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Lookup follows a path of dictionary keys from v.
func (v Value) Lookup(path ...string) (Value, bool) {
	cur := v
	for _, k := range path {
		next, ok := cur.Get(k)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// With returns a copy of the dictionary with key set to val. An existing key
// keeps its position; a new key is appended. Non dictionaries are returned
// unchanged.
func (v Value) With(key string, val Value) Value {
	if v.kind != KindDict {
		return v
	}
	d := make([]Entry, len(v.dict), len(v.dict)+1)
	copy(d, v.dict)
	for i := len(d) - 1; i >= 0; i-- {
		if d[i].Key == key {
			d[i].Value = val
			return Value{kind: KindDict, dict: d}
		}
	}
	return Value{kind: KindDict, dict: append(d, Entry{Key: key, Value: val})}
}

// Without returns a copy of the dictionary with every entry for key removed.
func (v Value) Without(key string) Value {
	if v.kind != KindDict {
		return v
	}
	d := make([]Entry, 0, len(v.dict))
	for _, e := range v.dict {
		if e.Key != key {
			d = append(d, e)
		}
	}
	return Value{kind: KindDict, dict: d}
}

// AsText returns v reclassified as text when it is a byte string.
func (v Value) AsText() Value {
	if v.kind == KindBytes {
		v.kind = KindText
	}
	return v
}

// AsBytes returns v reclassified as opaque data when it is a byte string.
func (v Value) AsBytes() Value {
	if v.kind == KindText {
		v.kind = KindBytes
	}
	return v
}

// Equal reports whether a and b are structurally identical, including byte
// string classification and dictionary entry order.
func Equal(a, b Value) bool { return equal(a, b, true) }

// EqualData is like Equal but treats text and opaque byte strings with the
// same payload as equal.
func EqualData(a, b Value) bool { return equal(a, b, false) }

func equal(a, b Value, strict bool) bool {
	if a.kind != b.kind {
		if strict || !a.IsByteString() || !b.IsByteString() {
			return false
		}
	}
	switch a.kind {
	case KindInt:
		return a.n == b.n
	case KindBytes, KindText:
		return a.s == b.s
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !equal(a.list[i], b.list[i], strict) {
				return false
			}
		}
		return true
	case KindDict:
		if len(a.dict) != len(b.dict) {
			return false
		}
		for i := range a.dict {
			if a.dict[i].Key != b.dict[i].Key || !equal(a.dict[i].Value, b.dict[i].Value, strict) {
				return false
			}
		}
		return true
	}
	return true
}

// String renders v in a compact debugging form, e.g. {"a": 1, "b": [<2 bytes>]}.
func (v Value) String() string {
	var sb strings.Builder
	v.format(&sb)
	return sb.String()
}

func (v Value) format(sb *strings.Builder) {
	switch v.kind {
	case KindInt:
		fmt.Fprintf(sb, "%d", v.n)
	case KindText:
		fmt.Fprintf(sb, "%q", v.s)
	case KindBytes:
		if isPrintable(v.s) {
			fmt.Fprintf(sb, "b%q", v.s)
		} else {
			fmt.Fprintf(sb, "<%d bytes>", len(v.s))
		}
	case KindList:
		sb.WriteByte('[')
		for i, it := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			it.format(sb)
		}
		sb.WriteByte(']')
	case KindDict:
		sb.WriteByte('{')
		for i, e := range v.dict {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%q: ", e.Key)
			e.Value.format(sb)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString("<invalid>")
	}
}

func isPrintable(s string) bool {
	if len(s) > 64 {
		return false
	}
	return bytes.IndexFunc([]byte(s), func(r rune) bool { return r < 0x20 || r > 0x7e }) < 0
}
