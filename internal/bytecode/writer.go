package bytecode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

var (
	ErrIdentifierTooLong = errors.New("identifier longer than 255 bytes")
	ErrIdentifierUTF8    = errors.New("identifier is not valid utf-8")
	ErrTooMany           = errors.New("count does not fit its length prefix")
)

// Writer appends values in the same layout Cursor reads them.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the encoded buffer.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) WriteU8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) WriteU16(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }

func (w *Writer) WriteU32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }

func (w *Writer) WriteU64(v uint64) { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }

func (w *Writer) WriteU128(v Uint128) {
	w.WriteU64(v.Lo)
	w.WriteU64(v.Hi)
}

func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

// WriteVarint uses the shortest encoding that holds v.
func (w *Writer) WriteVarint(v uint64) {
	switch {
	case v < varint16:
		w.WriteU8(uint8(v))
	case v <= math.MaxUint16:
		w.WriteU8(varint16)
		w.WriteU16(uint16(v))
	case v <= math.MaxUint32:
		w.WriteU8(varint32)
		w.WriteU32(uint32(v))
	default:
		w.WriteU8(varint64)
		w.WriteU64(v)
	}
}

func (w *Writer) WriteIdentifier(id string) error {
	if len(id) > MaxIdentifierLen {
		return fmt.Errorf("%w: %q", ErrIdentifierTooLong, id)
	}
	if !utf8.ValidString(id) {
		return ErrIdentifierUTF8
	}
	w.WriteU8(uint8(len(id)))
	w.buf = append(w.buf, id...)
	return nil
}

func (w *Writer) WriteIdentifiers(ids []string) error {
	if len(ids) > math.MaxUint16 {
		return fmt.Errorf("%w: %d identifiers", ErrTooMany, len(ids))
	}
	w.WriteU16(uint16(len(ids)))
	for _, id := range ids {
		if err := w.WriteIdentifier(id); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) WriteProgramID(id ProgramID) error {
	if err := w.WriteIdentifier(id.Name); err != nil {
		return err
	}
	return w.WriteIdentifier(id.Network)
}

func (w *Writer) WriteLocator(l Locator) error {
	if err := w.WriteProgramID(l.ProgramID); err != nil {
		return err
	}
	return w.WriteIdentifier(l.Resource)
}
