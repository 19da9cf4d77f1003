package bytecode

import (
	"errors"
	"fmt"
	"strings"
)

// Decode error kinds. Every *DecodeError unwraps to exactly one of these,
// so callers can test the kind with errors.Is.
var (
	ErrTruncated            = errors.New("truncated")
	ErrInvalidUTF8          = errors.New("invalid utf-8")
	ErrUnknownTag           = errors.New("unknown tag")
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	ErrStructuralMismatch   = errors.New("structural mismatch")
)

// DecodeError reports where and why a byte stream failed to decode.
type DecodeError struct {
	Kind    error  // one of the Err* kinds above
	Offset  int    // byte offset at the point of failure
	Context string // enclosing construct, e.g. "instruction cast"
	Detail  string
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	fmt.Fprintf(&b, " at offset %d", e.Offset)
	if e.Context != "" {
		b.WriteString(" in ")
		b.WriteString(e.Context)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Kind }

// Errorf builds a DecodeError of the given kind at offset.
func Errorf(kind error, offset int, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

// WithContext annotates err with the construct being decoded. The innermost
// context wins: an error that already names its context is returned as is.
func WithContext(err error, context string) error {
	var de *DecodeError
	if !errors.As(err, &de) || de.Context != "" {
		return err
	}
	annotated := *de
	annotated.Context = context
	return &annotated
}
