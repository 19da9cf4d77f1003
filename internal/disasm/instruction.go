package disasm

import (
	"fmt"

	"avmdis/internal/bytecode"
)

// OutputKind is the shape of the value an instruction binds.
type OutputKind uint8

const (
	OutputNone OutputKind = iota
	OutputSingle
	OutputMultiple
	OutputCast
)

func (k OutputKind) String() string {
	switch k {
	case OutputSingle:
		return "single"
	case OutputMultiple:
		return "multiple"
	case OutputCast:
		return "cast"
	default:
		return "none"
	}
}

func (k OutputKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Output is where an instruction stores its result. Single and Cast hold
// exactly one register; Cast also carries the declared result type.
type Output struct {
	Kind      OutputKind `json:"kind"`
	Registers []Register `json:"registers,omitempty"`
	Type      *Type      `json:"type,omitempty"`
}

func SingleOutput(r Register) Output { return Output{Kind: OutputSingle, Registers: []Register{r}} }

func MultipleOutput(rs ...Register) Output { return Output{Kind: OutputMultiple, Registers: rs} }

func CastOutput(r Register, t Type) Output {
	return Output{Kind: OutputCast, Registers: []Register{r}, Type: &t}
}

// Instruction is one decoded operation. For calls the first operand is the
// target as a program id operand.
type Instruction struct {
	Opcode   Opcode    `json:"opcode"`
	Operands []Operand `json:"operands,omitempty"`
	Output   Output    `json:"output"`
}

// Call returns the call target when the instruction is a call.
func (i Instruction) Call() (Locator, []Operand, bool) {
	if i.Opcode != OpCall || len(i.Operands) == 0 || i.Operands[0].Locator == nil {
		return Locator{}, nil, false
	}
	return *i.Operands[0].Locator, i.Operands[1:], true
}

func readInstruction(c *bytecode.Cursor) (Instruction, error) {
	op, err := readOpcode(c)
	if err != nil {
		return Instruction{}, err
	}
	inst, err := readInstructionBody(c, op)
	if err != nil {
		return Instruction{}, bytecode.WithContext(err, "instruction "+op.String())
	}
	return inst, nil
}

func readInstructionBody(c *bytecode.Cursor, op Opcode) (Instruction, error) {
	inst := Instruction{Opcode: op}
	var err error
	switch class := op.Class(); class {
	case ClassUnary, ClassBinary, ClassTernary:
		if inst.Operands, err = readOperands(c, class.Arity()); err != nil {
			return inst, err
		}
		r, err := readRegister(c)
		if err != nil {
			return inst, err
		}
		inst.Output = SingleOutput(r)
	case ClassAssert:
		if inst.Operands, err = readOperands(c, class.Arity()); err != nil {
			return inst, err
		}
		inst.Output = Output{Kind: OutputNone}
	case ClassCast:
		return readCast(c, inst)
	case ClassCall:
		return readCall(c, inst)
	}
	return inst, nil
}

func readCast(c *bytecode.Cursor, inst Instruction) (Instruction, error) {
	start := c.Offset()
	n, err := c.ReadU8()
	if err != nil {
		return inst, err
	}
	if n < 1 || n > MaxCastOperands {
		return inst, bytecode.Errorf(bytecode.ErrStructuralMismatch, start, "cast takes 1 to %d operands, got %d", MaxCastOperands, n)
	}
	if inst.Operands, err = readOperands(c, int(n)); err != nil {
		return inst, err
	}
	sep := c.Offset()
	b, err := c.ReadU8()
	if err != nil {
		return inst, err
	}
	if b != 0 {
		return inst, bytecode.Errorf(bytecode.ErrStructuralMismatch, sep, "cast separator %#x", b)
	}
	r, err := readRegister(c)
	if err != nil {
		return inst, err
	}
	t, err := readType(c)
	if err != nil {
		return inst, err
	}
	inst.Output = CastOutput(r, t)
	return inst, nil
}

const (
	callInternal = 0
	callExternal = 1
)

func readCall(c *bytecode.Cursor, inst Instruction) (Instruction, error) {
	start := c.Offset()
	tag, err := c.ReadU8()
	if err != nil {
		return inst, err
	}
	var target Locator
	switch tag {
	case callInternal:
		name, err := c.ReadIdentifier()
		if err != nil {
			return inst, err
		}
		target = InternalLocator(name)
	case callExternal:
		l, err := c.ReadLocator()
		if err != nil {
			return inst, err
		}
		target = Locator{Locator: l}
	default:
		return inst, bytecode.Errorf(bytecode.ErrUnknownTag, start, "call target kind %d", tag)
	}

	nops, err := c.ReadU8()
	if err != nil {
		return inst, err
	}
	args, err := readOperands(c, int(nops))
	if err != nil {
		return inst, err
	}
	inst.Operands = append([]Operand{ProgramIDOperand(target)}, args...)

	nouts, err := c.ReadU8()
	if err != nil {
		return inst, err
	}
	outs := make([]Register, 0, nouts)
	for range nouts {
		r, err := readRegister(c)
		if err != nil {
			return inst, err
		}
		outs = append(outs, r)
	}
	inst.Output = MultipleOutput(outs...)
	return inst, nil
}

// readInstructions trusts the leading count; it cannot tell whether the
// stream holds more or fewer instructions than declared.
func readInstructions(c *bytecode.Cursor) ([]Instruction, error) {
	n, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	insts := make([]Instruction, 0, min(int(n), c.Len()/2))
	for range n {
		inst, err := readInstruction(c)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
	}
	return insts, nil
}

func writeInstruction(w *bytecode.Writer, inst Instruction) error {
	if !inst.Opcode.Valid() {
		return fmt.Errorf("opcode %d out of range", inst.Opcode)
	}
	w.WriteU16(uint16(inst.Opcode))
	switch class := inst.Opcode.Class(); class {
	case ClassUnary, ClassBinary, ClassTernary, ClassAssert:
		if len(inst.Operands) != class.Arity() {
			return fmt.Errorf("%s takes %d operands, has %d", inst.Opcode, class.Arity(), len(inst.Operands))
		}
		if err := writeOperands(w, inst.Operands); err != nil {
			return err
		}
		if class == ClassAssert {
			return nil
		}
		if inst.Output.Kind != OutputSingle || len(inst.Output.Registers) != 1 {
			return fmt.Errorf("%s needs a single output register", inst.Opcode)
		}
		return writeRegister(w, inst.Output.Registers[0])
	case ClassCast:
		n := len(inst.Operands)
		if n < 1 || n > MaxCastOperands {
			return fmt.Errorf("cast takes 1 to %d operands, has %d", MaxCastOperands, n)
		}
		if inst.Output.Kind != OutputCast || len(inst.Output.Registers) != 1 || inst.Output.Type == nil {
			return fmt.Errorf("cast needs a typed output register")
		}
		w.WriteU8(uint8(n))
		if err := writeOperands(w, inst.Operands); err != nil {
			return err
		}
		w.WriteU8(0)
		if err := writeRegister(w, inst.Output.Registers[0]); err != nil {
			return err
		}
		return writeType(w, *inst.Output.Type)
	default:
		return writeCall(w, inst)
	}
}

func writeCall(w *bytecode.Writer, inst Instruction) error {
	target, args, ok := inst.Call()
	if !ok {
		return fmt.Errorf("call without a target operand")
	}
	if len(args) > MaxCallOperands || len(inst.Output.Registers) > MaxCallOutputs {
		return fmt.Errorf("call with %d operands and %d outputs", len(args), len(inst.Output.Registers))
	}
	if target.Internal {
		w.WriteU8(callInternal)
		if err := w.WriteIdentifier(target.Resource); err != nil {
			return err
		}
	} else {
		w.WriteU8(callExternal)
		if err := w.WriteLocator(target.Locator); err != nil {
			return err
		}
	}
	w.WriteU8(uint8(len(args)))
	if err := writeOperands(w, args); err != nil {
		return err
	}
	w.WriteU8(uint8(len(inst.Output.Registers)))
	for _, r := range inst.Output.Registers {
		if err := writeRegister(w, r); err != nil {
			return err
		}
	}
	return nil
}

func writeOperands(w *bytecode.Writer, ops []Operand) error {
	for _, op := range ops {
		if err := writeOperand(w, op); err != nil {
			return err
		}
	}
	return nil
}
