package disasm

import (
	"fmt"
	"math"

	"avmdis/internal/bytecode"
)

// ComponentKind is the tag preceding each component in the program body.
type ComponentKind uint8

const (
	ComponentMapping ComponentKind = iota
	ComponentStruct
	ComponentRecord
	ComponentClosure
	ComponentFunction
)

func (k ComponentKind) String() string {
	switch k {
	case ComponentMapping:
		return "mapping"
	case ComponentStruct:
		return "struct"
	case ComponentRecord:
		return "record"
	case ComponentClosure:
		return "closure"
	case ComponentFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Program is a fully decoded program. Components are grouped by kind and
// keep their stream order within each group.
type Program struct {
	Version   uint16               `json:"version"`
	ID        bytecode.ProgramID   `json:"id"`
	Imports   []bytecode.ProgramID `json:"imports"`
	Mappings  []Mapping            `json:"mappings"`
	Structs   []Struct             `json:"structs"`
	Records   []Record             `json:"records"`
	Functions []Function           `json:"functions"`
}

// Struct looks up a struct declaration by name.
func (p *Program) Struct(name string) (*Struct, bool) {
	for i := range p.Structs {
		if p.Structs[i].Name == name {
			return &p.Structs[i], true
		}
	}
	return nil, false
}

// Record looks up a record declaration by name.
func (p *Program) Record(name string) (*Record, bool) {
	for i := range p.Records {
		if p.Records[i].Name == name {
			return &p.Records[i], true
		}
	}
	return nil, false
}

// NumComponents counts components of every kind.
func (p *Program) NumComponents() int {
	return len(p.Mappings) + len(p.Structs) + len(p.Records) + len(p.Functions)
}

// Decode parses a complete program. The whole buffer must be consumed; any
// malformed, unsupported or trailing byte aborts decoding.
func Decode(b []byte) (*Program, error) {
	c := bytecode.NewCursor(b)
	p, err := readProgram(c)
	if err != nil {
		return nil, err
	}
	if c.Len() != 0 {
		return nil, decodeErr(c, bytecode.ErrStructuralMismatch, "%d trailing bytes after program", c.Len())
	}
	return p, nil
}

func readProgram(c *bytecode.Cursor) (*Program, error) {
	p := &Program{}
	var err error
	if p.Version, err = c.ReadU16(); err != nil {
		return nil, bytecode.WithContext(err, "header")
	}
	if p.ID, err = c.ReadProgramID(); err != nil {
		return nil, bytecode.WithContext(err, "header")
	}
	nimports, err := c.ReadU8()
	if err != nil {
		return nil, bytecode.WithContext(err, "header")
	}
	p.Imports = make([]bytecode.ProgramID, 0, nimports)
	for range nimports {
		id, err := c.ReadProgramID()
		if err != nil {
			return nil, bytecode.WithContext(err, "import")
		}
		p.Imports = append(p.Imports, id)
	}

	n, err := c.ReadU16()
	if err != nil {
		return nil, bytecode.WithContext(err, "header")
	}
	for i := range int(n) {
		if err := readComponent(c, p); err != nil {
			return nil, bytecode.WithContext(err, fmt.Sprintf("component %d", i))
		}
	}
	return p, nil
}

func readComponent(c *bytecode.Cursor, p *Program) error {
	start := c.Offset()
	tag, err := c.ReadU8()
	if err != nil {
		return err
	}
	kind := ComponentKind(tag)
	switch kind {
	case ComponentMapping:
		m, err := readMapping(c)
		if err != nil {
			return bytecode.WithContext(err, "mapping "+m.Name)
		}
		p.Mappings = append(p.Mappings, m)
	case ComponentStruct:
		s, err := readStruct(c)
		if err != nil {
			return err
		}
		p.Structs = append(p.Structs, s)
	case ComponentRecord:
		r, err := readRecord(c)
		if err != nil {
			return bytecode.WithContext(err, "record "+r.Name)
		}
		p.Records = append(p.Records, r)
	case ComponentClosure, ComponentFunction:
		ft := FunctionTypeFunction
		if kind == ComponentClosure {
			ft = FunctionTypeClosure
		}
		f, err := readFunction(c, ft)
		if err != nil {
			return err
		}
		p.Functions = append(p.Functions, f)
	default:
		return bytecode.Errorf(bytecode.ErrUnknownTag, start, "component kind %d", tag)
	}
	return nil
}

// Encode serializes p in the layout Decode reads. Mappings, structs,
// records and functions are written in that order.
func Encode(p *Program) ([]byte, error) {
	w := bytecode.NewWriter()
	w.WriteU16(p.Version)
	if err := w.WriteProgramID(p.ID); err != nil {
		return nil, err
	}
	if len(p.Imports) > math.MaxUint8 {
		return nil, fmt.Errorf("%d imports", len(p.Imports))
	}
	w.WriteU8(uint8(len(p.Imports)))
	for _, imp := range p.Imports {
		if err := w.WriteProgramID(imp); err != nil {
			return nil, err
		}
	}

	if p.NumComponents() > math.MaxUint16 {
		return nil, fmt.Errorf("%d components", p.NumComponents())
	}
	w.WriteU16(uint16(p.NumComponents()))
	for _, m := range p.Mappings {
		w.WriteU8(uint8(ComponentMapping))
		if err := writeMapping(w, m); err != nil {
			return nil, fmt.Errorf("mapping %s: %w", m.Name, err)
		}
	}
	for _, s := range p.Structs {
		w.WriteU8(uint8(ComponentStruct))
		if err := writeStruct(w, s); err != nil {
			return nil, fmt.Errorf("struct %s: %w", s.Name, err)
		}
	}
	for _, r := range p.Records {
		w.WriteU8(uint8(ComponentRecord))
		if err := writeRecord(w, r); err != nil {
			return nil, fmt.Errorf("record %s: %w", r.Name, err)
		}
	}
	for _, f := range p.Functions {
		switch f.Type {
		case FunctionTypeFunction:
			w.WriteU8(uint8(ComponentFunction))
		case FunctionTypeClosure:
			w.WriteU8(uint8(ComponentClosure))
		default:
			return nil, fmt.Errorf("function %s: cannot encode %s functions", f.Name, f.Type)
		}
		if err := writeFunction(w, f); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}
