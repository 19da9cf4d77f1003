// Package disasm decodes compiled AVM programs into an in-memory tree of
// mappings, structs, records and functions. Decoding is a single forward
// pass over the bytes; the resulting Program is never mutated afterwards.
package disasm

import (
	"math"

	"avmdis/internal/bytecode"
)

// Upper bounds on instruction operand lists. Call counts are single
// bytes, so only the encoder can exceed them.
const (
	MaxCastOperands = 8
	MaxCallOperands = math.MaxUint8
	MaxCallOutputs  = math.MaxUint8
)

// decodeErr is a shorthand for a DecodeError at the cursor's position.
func decodeErr(c *bytecode.Cursor, kind error, format string, args ...any) error {
	return bytecode.Errorf(kind, c.Offset(), format, args...)
}
