package disasm

import (
	"avmdis/internal/bytecode"
)

func reg(n uint64) Register { return Register{Locator: n} }

func pub(n uint64, t LiteralType) IoRegister {
	return IoRegister{Register: reg(n), Attribute: AttrPublic, Type: Primitive(t), FunctionType: FunctionTypeFunction}
}

func priv(n uint64, t LiteralType) IoRegister {
	return IoRegister{Register: reg(n), Attribute: AttrPrivate, Type: Primitive(t), FunctionType: FunctionTypeFunction}
}

// sampleProgram exercises every component kind and instruction class.
func sampleProgram() *Program {
	return &Program{
		Version: 1,
		ID:      bytecode.ProgramID{Name: "token", Network: "aleo"},
		Imports: []bytecode.ProgramID{{Name: "credits", Network: "aleo"}},
		Mappings: []Mapping{{
			Name:  "account",
			Key:   KeyValue{Name: "owner", Attribute: AttrPublic, Type: Primitive(TypeAddress)},
			Value: KeyValue{Name: "amount", Attribute: AttrPublic, Type: Primitive(TypeU64)},
		}},
		Structs: []Struct{{
			Name: "point",
			Entries: []StructEntry{
				{Name: "x", Type: Primitive(TypeU32)},
				{Name: "y", Type: Primitive(TypeU32)},
			},
		}},
		Records: []Record{{
			Name:  "token",
			Owner: AttrPrivate,
			Gates: AttrPublic,
			Entries: []RecordEntry{
				{Name: "amount", Type: Primitive(TypeU64), Attribute: AttrPrivate},
				{Name: "origin", Type: Named("point"), Attribute: AttrConstant},
			},
		}},
		Functions: []Function{{
			Name:   "main",
			Type:   FunctionTypeFunction,
			Inputs: []IoRegister{pub(0, TypeU32), priv(1, TypeU32)},
			Instructions: []Instruction{
				{Opcode: OpAdd, Operands: []Operand{Reg(0), Reg(1)}, Output: SingleOutput(reg(2))},
				{Opcode: OpNot, Operands: []Operand{LiteralOperand(BoolLiteral(true))}, Output: SingleOutput(reg(3))},
				{Opcode: OpAssertNeq, Operands: []Operand{Reg(0), LiteralOperand(IntLiteral(TypeU32, 7))}, Output: Output{Kind: OutputNone}},
				{Opcode: OpTernary, Operands: []Operand{Reg(3), Reg(0), Reg(1)}, Output: SingleOutput(reg(4))},
				{Opcode: OpCast, Operands: []Operand{Reg(2), Reg(4)}, Output: CastOutput(reg(5), Named("point"))},
				{Opcode: OpAdd, Operands: []Operand{Reg(5, "x"), LiteralOperand(IntLiteral(TypeU32, 300))}, Output: SingleOutput(reg(6))},
				{Opcode: OpIsEq, Operands: []Operand{CallerOperand(), ProgramIDOperand(ExternalLocator("credits", "aleo", "account"))}, Output: SingleOutput(reg(7))},
				{Opcode: OpCall, Operands: []Operand{ProgramIDOperand(ExternalLocator("credits", "aleo", "transfer")), Reg(6), LiteralOperand(StringLiteral("memo"))}, Output: MultipleOutput(reg(8), reg(9))},
				{Opcode: OpCall, Operands: []Operand{ProgramIDOperand(InternalLocator("helper"))}, Output: MultipleOutput()},
			},
			Outputs: []IoRegister{priv(6, TypeU32)},
		}, {
			Name: "helper",
			Type: FunctionTypeClosure,
		}},
	}
}

// encodeInstruction returns the wire bytes of a single instruction.
func encodeInstruction(inst Instruction) []byte {
	w := bytecode.NewWriter()
	if err := writeInstruction(w, inst); err != nil {
		panic(err)
	}
	return w.Bytes()
}
