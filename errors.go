package bencode

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is matched by every error caused by malformed input.
	ErrMalformed = errors.New("bencode: malformed input")
	// ErrTooDeep is matched when nesting exceeds DecoderOptions.MaxDepth.
	ErrTooDeep = errors.New("bencode: nesting too deep")
	// ErrInvalidClassification is matched when an Advisor returns a value
	// other than StringTypeText or StringTypeData.
	ErrInvalidClassification = errors.New("bencode: invalid string classification")
)

// SyntaxError describes where and why decoding stopped.
type SyntaxError struct {
	Offset  int
	Reason  string
	tooDeep bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bencode: %s at offset %d", e.Reason, e.Offset)
}

func (e *SyntaxError) Unwrap() []error {
	if e.tooDeep {
		return []error{ErrMalformed, ErrTooDeep}
	}
	return []error{ErrMalformed}
}

// AdvisorError reports an Advisor that returned an unknown StringType.
type AdvisorError struct {
	Path KeyPath
	Got  StringType
}

func (e *AdvisorError) Error() string {
	return fmt.Sprintf("bencode: advisor returned %d for path %q", int8(e.Got), e.Path.String())
}

func (e *AdvisorError) Unwrap() error { return ErrInvalidClassification }

// InvalidValueError is the panic value raised when encoding a Value that was
// not built by one of the constructors.
type InvalidValueError struct {
	Kind Kind
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("bencode: cannot encode value of kind %s", e.Kind)
}

// UnsupportedTypeError is returned by FromAny and Marshal for Go values that
// have no bencode representation.
type UnsupportedTypeError struct {
	Type   string
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("bencode: unsupported value of type %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("bencode: unsupported value of type %s", e.Type)
}
