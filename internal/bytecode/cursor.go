// Package bytecode provides the sequential byte reader and writer shared by
// every decoder of the AVM program format. All multi-byte integers are
// little-endian.
package bytecode

import (
	"encoding/binary"
	"math/big"
)

// Cursor reads an immutable byte slice strictly front to back. A byte is
// never read twice and the slice is never shrunk.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor returns a cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset is the number of bytes consumed so far.
func (c *Cursor) Offset() int { return c.off }

// Len is the number of bytes left to read.
func (c *Cursor) Len() int { return len(c.buf) - c.off }

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > c.Len() {
		return nil, Errorf(ErrTruncated, c.off, "need %d bytes, %d remaining", n, c.Len())
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// Peek returns the next byte without consuming it.
func (c *Cursor) Peek() (byte, error) {
	if c.Len() < 1 {
		return 0, Errorf(ErrTruncated, c.off, "peek past end")
	}
	return c.buf[c.off], nil
}

// ReadN returns a copy of the next n bytes.
func (c *Cursor) ReadN(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadU128 reads a 16-byte unsigned integer.
func (c *Cursor) ReadU128() (Uint128, error) {
	b, err := c.take(16)
	if err != nil {
		return Uint128{}, err
	}
	return Uint128{
		Lo: binary.LittleEndian.Uint64(b[:8]),
		Hi: binary.LittleEndian.Uint64(b[8:]),
	}, nil
}

func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

func (c *Cursor) ReadI64() (int64, error) {
	v, err := c.ReadU64()
	return int64(v), err
}

// ReadI128 reads a 16-byte two's complement integer.
func (c *Cursor) ReadI128() (Int128, error) {
	v, err := c.ReadU128()
	return Int128(v), err
}

// Uint128 is a 128-bit unsigned integer split into two halves.
type Uint128 struct {
	Lo, Hi uint64
}

// Big returns u as a big.Int.
func (u Uint128) Big() *big.Int {
	n := new(big.Int).SetUint64(u.Hi)
	n.Lsh(n, 64)
	return n.Or(n, new(big.Int).SetUint64(u.Lo))
}

// Int128 is a 128-bit two's complement integer.
type Int128 Uint128

// Big returns i as a signed big.Int.
func (i Int128) Big() *big.Int {
	n := Uint128(i).Big()
	if int64(i.Hi) < 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return n
}
