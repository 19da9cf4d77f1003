package disasm

import (
	"bytes"
	"errors"
	"testing"

	"avmdis/internal/bytecode"
)

func TestLiteralPayloadWidths(t *testing.T) {
	tests := []struct {
		typ   LiteralType
		width int
	}{
		{TypeBoolean, 1},
		{TypeI8, 1},
		{TypeU8, 1},
		{TypeI16, 2},
		{TypeU16, 2},
		{TypeI32, 4},
		{TypeU32, 4},
		{TypeI64, 8},
		{TypeU64, 8},
		{TypeI128, 16},
		{TypeU128, 16},
		{TypeAddress, 32},
		{TypeField, 32},
		{TypeScalar, 32},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			w := bytecode.NewWriter()
			w.WriteU16(uint16(tt.typ))
			w.WriteBytes(make([]byte, tt.width))
			w.WriteU8(0xee) // must be left unread

			c := bytecode.NewCursor(w.Bytes())
			l, err := readLiteral(c)
			if err != nil {
				t.Fatalf("readLiteral: %v", err)
			}
			if c.Offset() != 2+tt.width {
				t.Errorf("consumed %d bytes, want %d", c.Offset(), 2+tt.width)
			}
			if len(l.Bytes) != tt.width {
				t.Errorf("payload %d bytes", len(l.Bytes))
			}
		})
	}
}

func TestGroupLiteralIsRejected(t *testing.T) {
	w := bytecode.NewWriter()
	w.WriteU16(uint16(TypeGroup))
	w.WriteBytes(make([]byte, 32))
	_, err := readLiteral(bytecode.NewCursor(w.Bytes()))
	if !errors.Is(err, bytecode.ErrUnknownTag) {
		t.Errorf("err = %v, want ErrUnknownTag", err)
	}
}

func TestStringLiteral(t *testing.T) {
	w := bytecode.NewWriter()
	if err := writeLiteral(w, StringLiteral("héllo")); err != nil {
		t.Fatal(err)
	}
	l, err := readLiteral(bytecode.NewCursor(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if l.String() != `"héllo"` {
		t.Errorf("String() = %s", l)
	}

	bad := bytecode.NewWriter()
	bad.WriteU16(uint16(TypeString))
	bad.WriteU16(1)
	bad.WriteU8(0xff)
	_, err = readLiteral(bytecode.NewCursor(bad.Bytes()))
	if !errors.Is(err, bytecode.ErrInvalidUTF8) {
		t.Errorf("invalid string: %v", err)
	}
}

func TestLiteralRendering(t *testing.T) {
	field := Literal{Type: TypeField, Bytes: make([]byte, 32)}
	field.Bytes[0] = 0x05
	address := Literal{Type: TypeAddress, Bytes: make([]byte, 32)}
	address.Bytes[0] = 0xab
	scalar := Literal{Type: TypeScalar, Bytes: make([]byte, 32)}
	scalar.Bytes[31] = 0x01
	scalar.Bytes[30] = 0x02

	tests := []struct {
		name string
		lit  Literal
		want string
	}{
		{"true", BoolLiteral(true), "true"},
		{"false", BoolLiteral(false), "false"},
		{"nonzero boolean byte", Literal{Type: TypeBoolean, Bytes: []byte{7}}, "true"},
		{"u8", IntLiteral(TypeU8, 255), "255"},
		{"i8 negative", IntLiteral(TypeI8, -128), "-128"},
		{"i16 negative", IntLiteral(TypeI16, -2), "-2"},
		{"u64", IntLiteral(TypeU64, 1<<40), "1099511627776"},
		{"i128 negative", IntLiteral(TypeI128, -1), "-1"},
		{"u128 max", Literal{Type: TypeU128, Bytes: bytes.Repeat([]byte{0xff}, 16)}, "340282366920938463463374607431768211455"},
		{"field reversed", field, "00000000000000000000000000000000000000000000000000000000000000" + "05"},
		{"address reversed", address, "00000000000000000000000000000000000000000000000000000000000000" + "ab"},
		{"scalar reversed", scalar, "0102" + "000000000000000000000000000000000000000000000000000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lit.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}
		})
	}
}
