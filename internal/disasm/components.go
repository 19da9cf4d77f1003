package disasm

import (
	"fmt"
	"math"

	"avmdis/internal/bytecode"
)

// KeyValue is the key or value declaration of a mapping.
type KeyValue struct {
	Name      string    `json:"name"`
	Attribute Attribute `json:"attribute"`
	Type      Type      `json:"type"`
}

func readKeyValue(c *bytecode.Cursor) (KeyValue, error) {
	name, err := c.ReadIdentifier()
	if err != nil {
		return KeyValue{}, err
	}
	attr, err := mappingAttributes.read(c)
	if err != nil {
		return KeyValue{}, err
	}
	typ, err := readType(c)
	if err != nil {
		return KeyValue{}, err
	}
	return KeyValue{Name: name, Attribute: attr, Type: typ}, nil
}

func writeKeyValue(w *bytecode.Writer, kv KeyValue) error {
	if err := w.WriteIdentifier(kv.Name); err != nil {
		return err
	}
	if err := mappingAttributes.write(w, kv.Attribute); err != nil {
		return err
	}
	return writeType(w, kv.Type)
}

// Mapping declares persistent key/value storage.
type Mapping struct {
	Name  string   `json:"name"`
	Key   KeyValue `json:"key"`
	Value KeyValue `json:"value"`
}

func readMapping(c *bytecode.Cursor) (Mapping, error) {
	var m Mapping
	var err error
	if m.Name, err = c.ReadIdentifier(); err != nil {
		return m, err
	}
	if m.Key, err = readKeyValue(c); err != nil {
		return m, err
	}
	m.Value, err = readKeyValue(c)
	return m, err
}

func writeMapping(w *bytecode.Writer, m Mapping) error {
	if err := w.WriteIdentifier(m.Name); err != nil {
		return err
	}
	if err := writeKeyValue(w, m.Key); err != nil {
		return err
	}
	return writeKeyValue(w, m.Value)
}

// StructEntry is one member of a struct.
type StructEntry struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Struct is a plain data type; its members carry no visibility.
type Struct struct {
	Name    string        `json:"name"`
	Entries []StructEntry `json:"entries"`
}

func readStruct(c *bytecode.Cursor) (Struct, error) {
	name, err := c.ReadIdentifier()
	if err != nil {
		return Struct{}, err
	}
	n, err := c.ReadU16()
	if err != nil {
		return Struct{}, err
	}
	s := Struct{Name: name, Entries: make([]StructEntry, 0, min(int(n), c.Len()))}
	for range n {
		var e StructEntry
		if e.Name, err = c.ReadIdentifier(); err != nil {
			return Struct{}, err
		}
		if e.Type, err = readType(c); err != nil {
			return Struct{}, err
		}
		s.Entries = append(s.Entries, e)
	}
	return s, nil
}

func writeStruct(w *bytecode.Writer, s Struct) error {
	if err := w.WriteIdentifier(s.Name); err != nil {
		return err
	}
	if len(s.Entries) > math.MaxUint16 {
		return fmt.Errorf("struct %s has %d entries", s.Name, len(s.Entries))
	}
	w.WriteU16(uint16(len(s.Entries)))
	for _, e := range s.Entries {
		if err := w.WriteIdentifier(e.Name); err != nil {
			return err
		}
		if err := writeType(w, e.Type); err != nil {
			return err
		}
	}
	return nil
}

// RecordEntry is one member of a record with its own visibility.
type RecordEntry struct {
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	Attribute Attribute `json:"attribute"`
}

// Record is an owned, balance-carrying data type. Owner and Gates are
// always public or private.
type Record struct {
	Name    string        `json:"name"`
	Owner   Attribute     `json:"owner"`
	Gates   Attribute     `json:"gates"`
	Entries []RecordEntry `json:"entries"`
}

func readRecord(c *bytecode.Cursor) (Record, error) {
	var r Record
	var err error
	if r.Name, err = c.ReadIdentifier(); err != nil {
		return r, err
	}
	if r.Owner, err = ownerAttributes.read(c); err != nil {
		return r, err
	}
	if r.Gates, err = ownerAttributes.read(c); err != nil {
		return r, err
	}
	n, err := c.ReadU16()
	if err != nil {
		return r, err
	}
	r.Entries = make([]RecordEntry, 0, min(int(n), c.Len()))
	for range n {
		var e RecordEntry
		if e.Name, err = c.ReadIdentifier(); err != nil {
			return r, err
		}
		if e.Attribute, err = entryAttributes.read(c); err != nil {
			return r, err
		}
		if e.Type, err = readType(c); err != nil {
			return r, err
		}
		r.Entries = append(r.Entries, e)
	}
	return r, nil
}

func writeRecord(w *bytecode.Writer, r Record) error {
	if err := w.WriteIdentifier(r.Name); err != nil {
		return err
	}
	if err := ownerAttributes.write(w, r.Owner); err != nil {
		return err
	}
	if err := ownerAttributes.write(w, r.Gates); err != nil {
		return err
	}
	if len(r.Entries) > math.MaxUint16 {
		return fmt.Errorf("record %s has %d entries", r.Name, len(r.Entries))
	}
	w.WriteU16(uint16(len(r.Entries)))
	for _, e := range r.Entries {
		if err := w.WriteIdentifier(e.Name); err != nil {
			return err
		}
		if err := entryAttributes.write(w, e.Attribute); err != nil {
			return err
		}
		if err := writeType(w, e.Type); err != nil {
			return err
		}
	}
	return nil
}
