package disasm

import (
	"encoding/json"
	"fmt"

	"avmdis/internal/bytecode"
)

// LiteralType is one of the primitive value types.
type LiteralType uint16

const (
	TypeAddress LiteralType = iota
	TypeBoolean
	TypeField
	TypeGroup
	TypeI8
	TypeI16
	TypeI32
	TypeI64
	TypeI128
	TypeU8
	TypeU16
	TypeU32
	TypeU64
	TypeU128
	TypeScalar
	TypeString
	numLiteralTypes
)

var literalTypeNames = [numLiteralTypes]string{
	"address", "boolean", "field", "group",
	"i8", "i16", "i32", "i64", "i128",
	"u8", "u16", "u32", "u64", "u128",
	"scalar", "string",
}

func (t LiteralType) String() string {
	if t < numLiteralTypes {
		return literalTypeNames[t]
	}
	return "unknown"
}

func (t LiteralType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Valid reports whether t is a defined tag.
func (t LiteralType) Valid() bool { return t < numLiteralTypes }

// Width is the fixed payload size of a literal of type t. Strings are
// length-prefixed and groups have no literal encoding; both report -1.
func (t LiteralType) Width() int {
	switch t {
	case TypeAddress, TypeField, TypeScalar:
		return 32
	case TypeBoolean, TypeI8, TypeU8:
		return 1
	case TypeI16, TypeU16:
		return 2
	case TypeI32, TypeU32:
		return 4
	case TypeI64, TypeU64:
		return 8
	case TypeI128, TypeU128:
		return 16
	default:
		return -1
	}
}

// Signed reports whether t is a signed integer type.
func (t LiteralType) Signed() bool {
	return t >= TypeI8 && t <= TypeI128
}

// Integer reports whether t is a signed or unsigned integer type.
func (t LiteralType) Integer() bool {
	return t >= TypeI8 && t <= TypeU128
}

func readLiteralType(c *bytecode.Cursor) (LiteralType, error) {
	start := c.Offset()
	tag, err := c.ReadU16()
	if err != nil {
		return 0, err
	}
	if t := LiteralType(tag); t.Valid() {
		return t, nil
	}
	return 0, bytecode.Errorf(bytecode.ErrUnknownTag, start, "literal type %d", tag)
}

// Type is a plaintext value type: a primitive or the name of a struct or
// record declared in the program.
type Type struct {
	Literal LiteralType
	Name    string
	Named   bool
}

const (
	typePrimitive = 0
	typeNamed     = 1
)

// Primitive returns the Type for a primitive kind.
func Primitive(t LiteralType) Type { return Type{Literal: t} }

// Named returns the Type referring to a user-defined struct or record.
func Named(name string) Type { return Type{Name: name, Named: true} }

func (t Type) String() string {
	if t.Named {
		return t.Name
	}
	return t.Literal.String()
}

func (t Type) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func readType(c *bytecode.Cursor) (Type, error) {
	start := c.Offset()
	discr, err := c.ReadU8()
	if err != nil {
		return Type{}, err
	}
	switch discr {
	case typePrimitive:
		lt, err := readLiteralType(c)
		return Primitive(lt), err
	case typeNamed:
		name, err := c.ReadIdentifier()
		return Named(name), err
	default:
		return Type{}, bytecode.Errorf(bytecode.ErrUnknownTag, start, "type discriminant %d", discr)
	}
}

func writeType(w *bytecode.Writer, t Type) error {
	if t.Named {
		w.WriteU8(typeNamed)
		return w.WriteIdentifier(t.Name)
	}
	w.WriteU8(typePrimitive)
	w.WriteU16(uint16(t.Literal))
	return nil
}

// Attribute is the visibility or storage class of a declared value.
type Attribute uint8

const (
	AttrConstant Attribute = iota
	AttrPublic
	AttrPrivate
	AttrRecord
	AttrExternalRecord
)

var attributeNames = [...]string{"constant", "public", "private", "record", "external_record"}

func (a Attribute) String() string {
	if int(a) < len(attributeNames) {
		return attributeNames[a]
	}
	return "unknown"
}

func (a Attribute) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// attributeSet maps wire tags to the attributes legal in one context. The
// index of an attribute is its tag in that context.
type attributeSet struct {
	context string
	attrs   []Attribute
}

var (
	registerAttributes = attributeSet{"register", []Attribute{AttrConstant, AttrPublic, AttrPrivate, AttrRecord, AttrExternalRecord}}
	mappingAttributes  = attributeSet{"mapping entry", []Attribute{AttrPublic, AttrRecord, AttrExternalRecord}}
	ownerAttributes    = attributeSet{"record owner", []Attribute{AttrPublic, AttrPrivate}}
	entryAttributes    = attributeSet{"record entry", []Attribute{AttrConstant, AttrPublic, AttrPrivate}}
)

func (s attributeSet) read(c *bytecode.Cursor) (Attribute, error) {
	start := c.Offset()
	tag, err := c.ReadU8()
	if err != nil {
		return 0, err
	}
	if int(tag) >= len(s.attrs) {
		return 0, bytecode.Errorf(bytecode.ErrUnknownTag, start, "%s attribute %d", s.context, tag)
	}
	return s.attrs[tag], nil
}

func (s attributeSet) write(w *bytecode.Writer, a Attribute) error {
	for tag, attr := range s.attrs {
		if attr == a {
			w.WriteU8(uint8(tag))
			return nil
		}
	}
	return fmt.Errorf("attribute %s is not allowed for a %s", a, s.context)
}
