package disasm

import (
	"fmt"

	"avmdis/internal/bytecode"
)

// OperandKind is the leading discriminant byte of an operand.
type OperandKind uint8

const (
	OperandLiteral OperandKind = iota
	OperandRegister
	OperandProgramID
	OperandCaller
)

func (k OperandKind) String() string {
	switch k {
	case OperandLiteral:
		return "literal"
	case OperandRegister:
		return "register"
	case OperandProgramID:
		return "program_id"
	case OperandCaller:
		return "caller"
	default:
		return "unknown"
	}
}

func (k OperandKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Locator is a call target or program reference. Internal locators name a
// function of the same program and only set Resource.
type Locator struct {
	Internal bool `json:"internal,omitempty"`
	bytecode.Locator
}

// InternalLocator refers to a function of the program being decoded.
func InternalLocator(name string) Locator {
	return Locator{Internal: true, Locator: bytecode.Locator{Resource: name}}
}

// ExternalLocator refers to a resource of another program.
func ExternalLocator(program, network, resource string) Locator {
	return Locator{Locator: bytecode.Locator{
		ProgramID: bytecode.ProgramID{Name: program, Network: network},
		Resource:  resource,
	}}
}

func (l Locator) String() string {
	if l.Internal {
		return l.Resource
	}
	return l.Locator.String()
}

// Operand is an instruction input. Exactly one payload field is set,
// chosen by Kind; Caller carries none.
type Operand struct {
	Kind     OperandKind `json:"kind"`
	Literal  *Literal    `json:"literal,omitempty"`
	Register *Register   `json:"register,omitempty"`
	Locator  *Locator    `json:"locator,omitempty"`
}

func LiteralOperand(l Literal) Operand { return Operand{Kind: OperandLiteral, Literal: &l} }

func RegisterOperand(r Register) Operand { return Operand{Kind: OperandRegister, Register: &r} }

func ProgramIDOperand(l Locator) Operand { return Operand{Kind: OperandProgramID, Locator: &l} }

func CallerOperand() Operand { return Operand{Kind: OperandCaller} }

// Reg is a shorthand for a plain register operand.
func Reg(locator uint64, members ...string) Operand {
	return RegisterOperand(Register{Locator: locator, Members: members})
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandLiteral:
		return o.Literal.String()
	case OperandRegister:
		return o.Register.String()
	case OperandProgramID:
		return o.Locator.String()
	case OperandCaller:
		return "self.caller"
	default:
		return "?"
	}
}

func readOperand(c *bytecode.Cursor) (Operand, error) {
	start := c.Offset()
	discr, err := c.ReadU8()
	if err != nil {
		return Operand{}, err
	}
	switch OperandKind(discr) {
	case OperandLiteral:
		l, err := readLiteral(c)
		if err != nil {
			return Operand{}, err
		}
		return LiteralOperand(l), nil
	case OperandRegister:
		r, err := readRegister(c)
		if err != nil {
			return Operand{}, err
		}
		return RegisterOperand(r), nil
	case OperandProgramID:
		l, err := c.ReadLocator()
		if err != nil {
			return Operand{}, err
		}
		return ProgramIDOperand(Locator{Locator: l}), nil
	case OperandCaller:
		return CallerOperand(), nil
	default:
		return Operand{}, bytecode.Errorf(bytecode.ErrUnknownTag, start, "operand kind %d", discr)
	}
}

func readOperands(c *bytecode.Cursor, n int) ([]Operand, error) {
	ops := make([]Operand, 0, n)
	for range n {
		op, err := readOperand(c)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func writeOperand(w *bytecode.Writer, o Operand) error {
	w.WriteU8(uint8(o.Kind))
	switch o.Kind {
	case OperandLiteral:
		if o.Literal == nil {
			return fmt.Errorf("literal operand without a literal")
		}
		return writeLiteral(w, *o.Literal)
	case OperandRegister:
		if o.Register == nil {
			return fmt.Errorf("register operand without a register")
		}
		return writeRegister(w, *o.Register)
	case OperandProgramID:
		if o.Locator == nil || o.Locator.Internal {
			return fmt.Errorf("program id operands must be external locators")
		}
		return w.WriteLocator(o.Locator.Locator)
	case OperandCaller:
		return nil
	default:
		return fmt.Errorf("unknown operand kind %d", o.Kind)
	}
}
