package disasm

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"unicode/utf8"

	"avmdis/internal/bytecode"
)

// Literal is a typed constant. Bytes holds the payload exactly as encoded:
// little-endian for numbers, UTF-8 for strings.
type Literal struct {
	Type  LiteralType `json:"type"`
	Bytes []byte      `json:"bytes"`
}

func readLiteral(c *bytecode.Cursor) (Literal, error) {
	start := c.Offset()
	t, err := readLiteralType(c)
	if err != nil {
		return Literal{}, err
	}
	switch t {
	case TypeGroup:
		return Literal{}, bytecode.Errorf(bytecode.ErrUnknownTag, start, "group literals have no encoding")
	case TypeString:
		n, err := c.ReadU16()
		if err != nil {
			return Literal{}, err
		}
		at := c.Offset()
		b, err := c.ReadN(int(n))
		if err != nil {
			return Literal{}, err
		}
		if !utf8.Valid(b) {
			return Literal{}, bytecode.Errorf(bytecode.ErrInvalidUTF8, at, "string literal")
		}
		return Literal{Type: t, Bytes: b}, nil
	default:
		b, err := c.ReadN(t.Width())
		if err != nil {
			return Literal{}, err
		}
		return Literal{Type: t, Bytes: b}, nil
	}
}

func writeLiteral(w *bytecode.Writer, l Literal) error {
	switch l.Type {
	case TypeGroup:
		return fmt.Errorf("group literals have no encoding")
	case TypeString:
		if len(l.Bytes) > 0xffff {
			return fmt.Errorf("string literal of %d bytes", len(l.Bytes))
		}
		w.WriteU16(uint16(l.Type))
		w.WriteU16(uint16(len(l.Bytes)))
	default:
		if !l.Type.Valid() || len(l.Bytes) != l.Type.Width() {
			return fmt.Errorf("%s literal needs %d bytes, has %d", l.Type, l.Type.Width(), len(l.Bytes))
		}
		w.WriteU16(uint16(l.Type))
	}
	w.WriteBytes(l.Bytes)
	return nil
}

// Bool reports the value of a boolean literal.
func (l Literal) Bool() bool {
	return len(l.Bytes) > 0 && l.Bytes[0] != 0
}

// Int returns the value of an integer literal.
func (l Literal) Int() *big.Int {
	n := new(big.Int).SetBytes(l.displayBytes())
	if l.Type.Signed() && len(l.Bytes) > 0 && l.Bytes[len(l.Bytes)-1]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(8*len(l.Bytes))))
	}
	return n
}

// Hex renders the payload most significant byte first. Address, field and
// scalar payloads are all stored reversed relative to display order.
func (l Literal) Hex() string {
	return hex.EncodeToString(l.displayBytes())
}

func (l Literal) displayBytes() []byte {
	b := slices.Clone(l.Bytes)
	slices.Reverse(b)
	return b
}

// String renders the literal the way assembly listings show it.
func (l Literal) String() string {
	switch {
	case l.Type == TypeBoolean:
		return strconv.FormatBool(l.Bool())
	case l.Type.Integer():
		return l.Int().String()
	case l.Type == TypeString:
		return strconv.Quote(string(l.Bytes))
	default:
		return l.Hex()
	}
}

// Constructors used when building programs by hand.

func BoolLiteral(v bool) Literal {
	b := byte(0)
	if v {
		b = 1
	}
	return Literal{Type: TypeBoolean, Bytes: []byte{b}}
}

// IntLiteral encodes v as a little-endian two's complement integer of type t.
func IntLiteral(t LiteralType, v int64) Literal {
	w := t.Width()
	b := make([]byte, w)
	u := uint64(v)
	for i := range w {
		if i < 8 {
			b[i] = byte(u >> (8 * i))
		} else if v < 0 {
			b[i] = 0xff
		}
	}
	return Literal{Type: t, Bytes: b}
}

func StringLiteral(s string) Literal {
	return Literal{Type: TypeString, Bytes: []byte(s)}
}
