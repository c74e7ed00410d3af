package bencode

import (
	"slices"
	"strconv"
	"strings"
)

// Encode returns the canonical encoding of v. It panics with
// *InvalidValueError if v, or any value nested in it, is invalid.
func Encode(v Value) []byte {
	return AppendEncode(make([]byte, 0, encodedSizeHint(v)), v)
}

// AppendEncode appends the canonical encoding of v to dst and returns the
// extended slice. It panics like Encode.
func AppendEncode(dst []byte, v Value) []byte {
	switch v.kind {
	case KindInt:
		dst = append(dst, 'i')
		dst = strconv.AppendInt(dst, v.n, 10)
		return append(dst, 'e')
	case KindBytes, KindText:
		return appendString(dst, v.s)
	case KindList:
		dst = append(dst, 'l')
		for _, it := range v.list {
			dst = AppendEncode(dst, it)
		}
		return append(dst, 'e')
	case KindDict:
		dst = append(dst, 'd')
		for _, e := range sortedEntries(v.dict) {
			dst = appendString(dst, e.Key)
			dst = AppendEncode(dst, e.Value)
		}
		return append(dst, 'e')
	default:
		panic(&InvalidValueError{Kind: v.kind})
	}
}

func appendString(dst []byte, s string) []byte {
	dst = strconv.AppendInt(dst, int64(len(s)), 10)
	dst = append(dst, ':')
	return append(dst, s...)
}

// sortedEntries orders entries by raw key bytes. Duplicates keep their
// relative order. The input is never modified.
func sortedEntries(entries []Entry) []Entry {
	if slices.IsSortedFunc(entries, compareEntries) {
		return entries
	}
	out := slices.Clone(entries)
	slices.SortStableFunc(out, compareEntries)
	return out
}

func compareEntries(a, b Entry) int { return strings.Compare(a.Key, b.Key) }

// encodedSizeHint is a cheap lower bound used to presize the output buffer.
func encodedSizeHint(v Value) int {
	switch v.kind {
	case KindInt:
		return 3
	case KindBytes, KindText:
		return len(v.s) + 2
	case KindList:
		n := 2
		for _, it := range v.list {
			n += encodedSizeHint(it)
		}
		return n
	case KindDict:
		n := 2
		for _, e := range v.dict {
			n += len(e.Key) + 2 + encodedSizeHint(e.Value)
		}
		return n
	}
	return 0
}
