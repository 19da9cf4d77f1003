package disasm

import (
	"fmt"
	"strconv"
	"strings"

	"avmdis/internal/bytecode"
)

const (
	registerPlain  = 0
	registerMember = 1
)

// Register addresses a virtual register slot, optionally followed by a path
// of member accesses into the struct or record held there.
type Register struct {
	Locator uint64   `json:"locator"`
	Members []string `json:"members,omitempty"`
}

func (r Register) String() string {
	var b strings.Builder
	b.WriteByte('r')
	b.WriteString(strconv.FormatUint(r.Locator, 10))
	for _, m := range r.Members {
		b.WriteByte('.')
		b.WriteString(m)
	}
	return b.String()
}

func readRegister(c *bytecode.Cursor) (Register, error) {
	start := c.Offset()
	kind, err := c.ReadU8()
	if err != nil {
		return Register{}, err
	}
	if kind != registerPlain && kind != registerMember {
		return Register{}, bytecode.Errorf(bytecode.ErrUnknownTag, start, "register kind %d", kind)
	}
	locator, err := c.ReadVarint()
	if err != nil {
		return Register{}, err
	}
	r := Register{Locator: locator}
	if kind == registerMember {
		if r.Members, err = c.ReadIdentifiers(); err != nil {
			return Register{}, err
		}
	}
	return r, nil
}

func writeRegister(w *bytecode.Writer, r Register) error {
	if len(r.Members) == 0 {
		w.WriteU8(registerPlain)
		w.WriteVarint(r.Locator)
		return nil
	}
	w.WriteU8(registerMember)
	w.WriteVarint(r.Locator)
	return w.WriteIdentifiers(r.Members)
}

// FunctionType selects the register declaration grammar of a function.
type FunctionType uint8

const (
	FunctionTypeUninitialized FunctionType = iota
	FunctionTypeFunction
	FunctionTypeClosure
	FunctionTypeFinalize
)

func (t FunctionType) String() string {
	switch t {
	case FunctionTypeFunction:
		return "function"
	case FunctionTypeClosure:
		return "closure"
	case FunctionTypeFinalize:
		return "finalize"
	default:
		return "uninitialized"
	}
}

func (t FunctionType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// IoRegister is an input or output declaration of a function.
type IoRegister struct {
	Register     Register     `json:"register"`
	Attribute    Attribute    `json:"attribute"`
	Type         Type         `json:"type"`
	FunctionType FunctionType `json:"function_type"`
}

func readIoRegister(c *bytecode.Cursor, ft FunctionType) (IoRegister, error) {
	if ft != FunctionTypeFunction {
		// The closure and finalize layouts are not defined yet.
		return IoRegister{}, decodeErr(c, bytecode.ErrUnsupportedConstruct, "%s register declaration", ft)
	}
	reg, err := readRegister(c)
	if err != nil {
		return IoRegister{}, err
	}
	start := c.Offset()
	attr, err := registerAttributes.read(c)
	if err != nil {
		return IoRegister{}, err
	}
	if attr == AttrRecord || attr == AttrExternalRecord {
		return IoRegister{}, bytecode.Errorf(bytecode.ErrUnsupportedConstruct, start, "%s register declaration", attr)
	}
	typ, err := readType(c)
	if err != nil {
		return IoRegister{}, err
	}
	return IoRegister{Register: reg, Attribute: attr, Type: typ, FunctionType: ft}, nil
}

func writeIoRegister(w *bytecode.Writer, io IoRegister, ft FunctionType) error {
	if ft != FunctionTypeFunction {
		return fmt.Errorf("cannot encode %s register declarations", ft)
	}
	if err := writeRegister(w, io.Register); err != nil {
		return err
	}
	if io.Attribute > AttrPrivate {
		return fmt.Errorf("cannot encode %s register declarations", io.Attribute)
	}
	if err := registerAttributes.write(w, io.Attribute); err != nil {
		return err
	}
	return writeType(w, io.Type)
}
