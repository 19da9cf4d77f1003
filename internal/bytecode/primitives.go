package bytecode

import (
	"unicode/utf8"
)

// Variable-length integer markers. Bytes below varint16 encode themselves.
const (
	varint16 = 0xfd
	varint32 = 0xfe
	varint64 = 0xff
)

// MaxIdentifierLen is the longest identifier a one-byte length prefix allows.
const MaxIdentifierLen = 255

// ProgramID names a program on a network, e.g. token.aleo.
type ProgramID struct {
	Name    string `json:"name"`
	Network string `json:"network"`
}

func (p ProgramID) String() string { return p.Name + "." + p.Network }

// Locator is a resource inside another program, e.g. token.aleo/transfer.
type Locator struct {
	ProgramID
	Resource string `json:"resource"`
}

func (l Locator) String() string { return l.ProgramID.String() + "/" + l.Resource }

// ReadIdentifier reads a one-byte length prefix and that many UTF-8 bytes.
func (c *Cursor) ReadIdentifier() (string, error) {
	n, err := c.ReadU8()
	if err != nil {
		return "", err
	}
	start := c.off
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", Errorf(ErrInvalidUTF8, start, "identifier of %d bytes", n)
	}
	return string(b), nil
}

// ReadIdentifiers reads a 16-bit count followed by that many identifiers.
func (c *Cursor) ReadIdentifiers() ([]string, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, min(int(n), c.Len()))
	for range n {
		id, err := c.ReadIdentifier()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ReadVarint reads a CompactSize integer: one byte below 0xfd is the value,
// 0xfd, 0xfe and 0xff prefix a 16, 32 or 64-bit value.
func (c *Cursor) ReadVarint() (uint64, error) {
	tag, err := c.ReadU8()
	if err != nil {
		return 0, err
	}
	switch tag {
	case varint16:
		v, err := c.ReadU16()
		return uint64(v), err
	case varint32:
		v, err := c.ReadU32()
		return uint64(v), err
	case varint64:
		return c.ReadU64()
	default:
		return uint64(tag), nil
	}
}

// ReadProgramID reads a program name and its network.
func (c *Cursor) ReadProgramID() (ProgramID, error) {
	name, err := c.ReadIdentifier()
	if err != nil {
		return ProgramID{}, err
	}
	network, err := c.ReadIdentifier()
	if err != nil {
		return ProgramID{}, err
	}
	return ProgramID{Name: name, Network: network}, nil
}

// ReadLocator reads a program id followed by a resource name.
func (c *Cursor) ReadLocator() (Locator, error) {
	id, err := c.ReadProgramID()
	if err != nil {
		return Locator{}, err
	}
	resource, err := c.ReadIdentifier()
	if err != nil {
		return Locator{}, err
	}
	return Locator{ProgramID: id, Resource: resource}, nil
}
