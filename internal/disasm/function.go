package disasm

import (
	"fmt"
	"math"

	"avmdis/internal/bytecode"
)

const (
	noFinalize  = 0
	hasFinalize = 1
)

// Function owns its declarations and instruction body.
type Function struct {
	Name         string        `json:"name"`
	Type         FunctionType  `json:"type"`
	Inputs       []IoRegister  `json:"inputs"`
	Instructions []Instruction `json:"instructions"`
	Outputs      []IoRegister  `json:"outputs"`
}

func readFunction(c *bytecode.Cursor, ft FunctionType) (Function, error) {
	name, err := c.ReadIdentifier()
	if err != nil {
		return Function{}, err
	}
	f := Function{Name: name, Type: ft}
	if err := readFunctionBody(c, &f); err != nil {
		return Function{}, bytecode.WithContext(err, ft.String()+" "+name)
	}
	return f, nil
}

func readFunctionBody(c *bytecode.Cursor, f *Function) error {
	var err error
	if f.Inputs, err = readIoRegisters(c, f.Type); err != nil {
		return err
	}
	if f.Instructions, err = readInstructions(c); err != nil {
		return err
	}
	if f.Outputs, err = readIoRegisters(c, f.Type); err != nil {
		return err
	}

	// Closures carry the flag too, always zero.
	start := c.Offset()
	flag, err := c.ReadU8()
	if err != nil {
		return err
	}
	switch flag {
	case noFinalize:
		return nil
	case hasFinalize:
		return bytecode.Errorf(bytecode.ErrUnsupportedConstruct, start, "finalize block")
	default:
		return bytecode.Errorf(bytecode.ErrUnknownTag, start, "finalize flag %d", flag)
	}
}

func readIoRegisters(c *bytecode.Cursor, ft FunctionType) ([]IoRegister, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	regs := make([]IoRegister, 0, min(int(n), c.Len()))
	for range n {
		r, err := readIoRegister(c, ft)
		if err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, nil
}

func writeFunction(w *bytecode.Writer, f Function) error {
	if err := w.WriteIdentifier(f.Name); err != nil {
		return err
	}
	if err := writeIoRegisters(w, f.Inputs, f.Type); err != nil {
		return err
	}
	if uint64(len(f.Instructions)) > math.MaxUint32 {
		return fmt.Errorf("function %s has too many instructions", f.Name)
	}
	w.WriteU32(uint32(len(f.Instructions)))
	for i, inst := range f.Instructions {
		if err := writeInstruction(w, inst); err != nil {
			return fmt.Errorf("function %s instruction %d: %w", f.Name, i, err)
		}
	}
	if err := writeIoRegisters(w, f.Outputs, f.Type); err != nil {
		return err
	}
	w.WriteU8(noFinalize)
	return nil
}

func writeIoRegisters(w *bytecode.Writer, regs []IoRegister, ft FunctionType) error {
	if len(regs) > math.MaxUint16 {
		return fmt.Errorf("%d register declarations", len(regs))
	}
	w.WriteU16(uint16(len(regs)))
	for _, r := range regs {
		if err := writeIoRegister(w, r, ft); err != nil {
			return err
		}
	}
	return nil
}
