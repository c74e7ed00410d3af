package bencode

import (
	"errors"
	"fmt"
	"strconv"
)

// DecoderOptions tune a Decoder. The zero value is ready to use.
type DecoderOptions struct {
	Advisor  Advisor // nil => every byte string decodes as KindBytes
	MaxDepth int     // list/dict nesting limit; 0 => DefaultMaxDepth
	MaxSize  int     // input length limit in bytes; 0 => unlimited
	Logger   Logger  // failed decodes are logged at Debug; nil => NopLogger
}

// Decoder decodes bencoded buffers. It holds no per-call state and is safe
// for concurrent use as long as its Advisor is.
type Decoder struct {
	advise   Advisor
	maxDepth int
	maxSize  int
	log      Logger
}

func NewDecoder(opts DecoderOptions) *Decoder {
	return &Decoder{
		advise:   opts.Advisor,
		maxDepth: coalesce(opts.MaxDepth, DefaultMaxDepth),
		maxSize:  opts.MaxSize,
		log:      coalesce[Logger](opts.Logger, NopLogger{}),
	}
}

// Decode decodes exactly one value spanning all of data. Malformed,
// truncated or trailing input yields a *SyntaxError; no partial value is
// ever returned.
func (d *Decoder) Decode(data []byte) (Value, error) {
	v, n, err := d.DecodePrefix(data)
	if err != nil {
		return Value{}, err
	}
	if n != len(data) {
		err := &SyntaxError{Offset: n, Reason: fmt.Sprintf("%d trailing bytes after value", len(data)-n)}
		d.logFailure(data, err)
		return Value{}, err
	}
	return v, nil
}

// DecodePrefix decodes the value at the start of data and returns it with
// the number of bytes it occupies. Bytes after the value are ignored.
func (d *Decoder) DecodePrefix(data []byte) (Value, int, error) {
	if d.maxSize > 0 && len(data) > d.maxSize {
		err := &SyntaxError{Reason: fmt.Sprintf("input of %d bytes exceeds limit of %d", len(data), d.maxSize)}
		d.logFailure(data, err)
		return Value{}, 0, err
	}
	s := decodeState{data: data, advise: d.advise, maxDepth: d.maxDepth}
	v, err := s.value(0)
	if err != nil {
		d.logFailure(data, err)
		return Value{}, 0, err
	}
	return v, s.off, nil
}

func (d *Decoder) logFailure(data []byte, err error) {
	var se *SyntaxError
	if errors.As(err, &se) {
		d.log.Debug("bencode: decode failed", Fields{"offset": se.Offset, "reason": se.Reason, "size": len(data)})
		return
	}
	d.log.Debug("bencode: advisor failed", Fields{"err": err, "size": len(data)})
}

// Decode decodes data with every byte string classified as opaque data.
// ok is false when data is not exactly one well-formed value.
func Decode(data []byte) (v Value, ok bool) {
	return DecodeWithAdvisor(data, nil)
}

// DecodeWithAdvisor decodes data, asking advise to classify each byte string.
// Malformed input reports ok=false. An advisor returning an unknown
// StringType is a programming error and panics with *AdvisorError; panics
// raised by advise propagate unchanged.
func DecodeWithAdvisor(data []byte, advise Advisor) (v Value, ok bool) {
	d := Decoder{advise: advise, maxDepth: DefaultMaxDepth, log: NopLogger{}}
	v, err := d.Decode(data)
	if err != nil {
		var ae *AdvisorError
		if errors.As(err, &ae) {
			panic(ae)
		}
		return Value{}, false
	}
	return v, true
}

type decodeState struct {
	data     []byte
	off      int
	path     KeyPath
	advise   Advisor
	maxDepth int
}

func (s *decodeState) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: s.off, Reason: fmt.Sprintf(format, args...)}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (s *decodeState) value(depth int) (Value, error) {
	if s.off >= len(s.data) {
		return Value{}, s.errorf("unexpected end of input")
	}
	switch c := s.data[s.off]; {
	case c == 'i':
		n, err := s.integer()
		if err != nil {
			return Value{}, err
		}
		return Int(n), nil
	case isDigit(c):
		str, err := s.byteString()
		if err != nil {
			return Value{}, err
		}
		return s.classify(str)
	case c == 'l':
		return s.list(depth + 1)
	case c == 'd':
		return s.dict(depth + 1)
	default:
		return Value{}, s.errorf("invalid leading byte %q", c)
	}
}

// integer consumes i[-]<digits>e.
func (s *decodeState) integer() (int64, error) {
	start := s.off
	s.off++ // 'i'
	neg := s.off < len(s.data) && s.data[s.off] == '-'
	if neg {
		s.off++
	}
	digitsAt := s.off
	for s.off < len(s.data) && isDigit(s.data[s.off]) {
		s.off++
	}
	digits := s.data[digitsAt:s.off]
	switch {
	case s.off >= len(s.data):
		return 0, s.errorf("unterminated integer")
	case s.data[s.off] != 'e':
		return 0, s.errorf("invalid byte %q in integer", s.data[s.off])
	case len(digits) == 0:
		return 0, s.errorf("integer without digits")
	case digits[0] == '0' && len(digits) > 1:
		return 0, s.errorf("integer with leading zero")
	case digits[0] == '0' && neg:
		return 0, s.errorf("negative zero")
	}
	n, err := strconv.ParseInt(string(s.data[start+1:s.off]), 10, 64)
	if err != nil {
		return 0, s.errorf("integer out of int64 range")
	}
	s.off++ // 'e'
	return n, nil
}

// byteString consumes <length>:<bytes> and returns the payload.
func (s *decodeState) byteString() (string, error) {
	start := s.off
	for s.off < len(s.data) && isDigit(s.data[s.off]) {
		s.off++
	}
	digits := s.data[start:s.off]
	switch {
	case len(digits) == 0:
		return "", s.errorf("expected byte string length")
	case s.off >= len(s.data):
		return "", s.errorf("unterminated byte string length")
	case s.data[s.off] != ':':
		return "", s.errorf("invalid byte %q in byte string length", s.data[s.off])
	case digits[0] == '0' && len(digits) > 1:
		return "", s.errorf("byte string length with leading zero")
	}
	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return "", s.errorf("byte string length out of range")
	}
	s.off++ // ':'
	if n > int64(len(s.data)-s.off) {
		return "", s.errorf("byte string of length %d exceeds remaining %d bytes", n, len(s.data)-s.off)
	}
	str := string(s.data[s.off : s.off+int(n)])
	s.off += int(n)
	return str, nil
}

func (s *decodeState) classify(str string) (Value, error) {
	if s.advise == nil {
		return Value{kind: KindBytes, s: str}, nil
	}
	switch t := s.advise(s.path); t {
	case StringTypeText:
		return Value{kind: KindText, s: str}, nil
	case StringTypeData:
		return Value{kind: KindBytes, s: str}, nil
	default:
		return Value{}, &AdvisorError{Path: s.path.Clone(), Got: t}
	}
}

func (s *decodeState) list(depth int) (Value, error) {
	if depth > s.maxDepth {
		return Value{}, &SyntaxError{Offset: s.off, Reason: fmt.Sprintf("nesting exceeds %d levels", s.maxDepth), tooDeep: true}
	}
	s.off++ // 'l'
	items := make([]Value, 0)
	for {
		if s.off >= len(s.data) {
			return Value{}, s.errorf("unterminated list")
		}
		if s.data[s.off] == 'e' {
			s.off++
			return Value{kind: KindList, list: items}, nil
		}
		v, err := s.value(depth)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
}

func (s *decodeState) dict(depth int) (Value, error) {
	if depth > s.maxDepth {
		return Value{}, &SyntaxError{Offset: s.off, Reason: fmt.Sprintf("nesting exceeds %d levels", s.maxDepth), tooDeep: true}
	}
	s.off++ // 'd'
	entries := make([]Entry, 0)
	for {
		if s.off >= len(s.data) {
			return Value{}, s.errorf("unterminated dictionary")
		}
		c := s.data[s.off]
		if c == 'e' {
			s.off++
			return Value{kind: KindDict, dict: entries}, nil
		}
		if !isDigit(c) {
			return Value{}, s.errorf("dictionary key must be a byte string, found %q", c)
		}
		key, err := s.byteString()
		if err != nil {
			return Value{}, err
		}
		s.path = append(s.path, key)
		v, err := s.value(depth)
		s.path = s.path[:len(s.path)-1]
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, Entry{Key: key, Value: v})
	}
}
