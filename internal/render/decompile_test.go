package render

import (
	"testing"

	"avmdis/internal/bytecode"
	"avmdis/internal/disasm"
)

func TestDecompiledProgram(t *testing.T) {
	want := `struct point {
	x: u32,
	y: u32,
}

function mint(constant r0: u32, r1: u32) -> (u64, field) {
	let r2 = point { x: r0, y: r1 };
	let r3 = r2.x.add_wrapped(5u32);
	assert_eq(r3, r1);
	let r4 = BHP256::hash(r3);
	let (r5, r6) = credits.aleo/transfer(self.caller, r4);
	return (r5, r6);
}
`
	if got := Decompiled(tokenProgram()); got != want {
		t.Errorf("Decompiled mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDecompiledSingleOutput(t *testing.T) {
	want := "function add(public r0: u32, r1: u32) -> u32 {\n" +
		"\tlet r2 = r0 + r1;\n" +
		"\treturn r2;\n" +
		"}\n"
	if got := Decompiled(addProgram()); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDecompiledOmitsMappingsAndRecords(t *testing.T) {
	p := tokenProgram()
	p.Structs = nil
	p.Functions = nil
	if got := Decompiled(p); got != "" {
		t.Errorf("got %q, want empty output", got)
	}
}

func TestStatements(t *testing.T) {
	field := disasm.Literal{Type: disasm.TypeField, Bytes: make([]byte, 32)}
	field.Bytes[0] = 7

	tests := []struct {
		name string
		inst disasm.Instruction
		want string
	}{
		{
			name: "ternary",
			inst: disasm.Instruction{Opcode: disasm.OpTernary, Operands: []disasm.Operand{disasm.Reg(0), disasm.Reg(1), disasm.Reg(2)}, Output: disasm.SingleOutput(reg(3))},
			want: "let r3 = r0 ? r1 : r2",
		},
		{
			name: "negation",
			inst: disasm.Instruction{Opcode: disasm.OpNeg, Operands: []disasm.Operand{disasm.LiteralOperand(disasm.IntLiteral(disasm.TypeI8, -3))}, Output: disasm.SingleOutput(reg(1))},
			want: "let r1 = -(-3i8)",
		},
		{
			name: "not",
			inst: disasm.Instruction{Opcode: disasm.OpNot, Operands: []disasm.Operand{disasm.Reg(0)}, Output: disasm.SingleOutput(reg(1))},
			want: "let r1 = !r0",
		},
		{
			name: "square root",
			inst: disasm.Instruction{Opcode: disasm.OpSquareRoot, Operands: []disasm.Operand{disasm.LiteralOperand(field)}, Output: disasm.SingleOutput(reg(1))},
			want: "let r1 = 7field.square_root()",
		},
		{
			name: "commitment",
			inst: disasm.Instruction{Opcode: disasm.OpCommitPED64, Operands: []disasm.Operand{disasm.Reg(0), disasm.Reg(1)}, Output: disasm.SingleOutput(reg(2))},
			want: "let r2 = Pedersen64::commit(r0, r1)",
		},
		{
			name: "comparison",
			inst: disasm.Instruction{Opcode: disasm.OpGreaterThanOrEqual, Operands: []disasm.Operand{disasm.Reg(0), disasm.LiteralOperand(disasm.IntLiteral(disasm.TypeU64, 10))}, Output: disasm.SingleOutput(reg(2))},
			want: "let r2 = r0 >= 10u64",
		},
		{
			name: "internal call without outputs",
			inst: disasm.Instruction{Opcode: disasm.OpCall, Operands: []disasm.Operand{disasm.ProgramIDOperand(disasm.InternalLocator("helper")), disasm.LiteralOperand(disasm.BoolLiteral(true))}, Output: disasm.MultipleOutput()},
			want: "helper(true)",
		},
		{
			name: "call with one output",
			inst: disasm.Instruction{Opcode: disasm.OpCall, Operands: []disasm.Operand{disasm.ProgramIDOperand(disasm.ExternalLocator("foo", "aleo", "bar")), disasm.Reg(0)}, Output: disasm.MultipleOutput(reg(1))},
			want: "let r1 = foo.aleo/bar(r0)",
		},
		{
			name: "cast to primitive",
			inst: disasm.Instruction{Opcode: disasm.OpCast, Operands: []disasm.Operand{disasm.Reg(0)}, Output: disasm.CastOutput(reg(1), disasm.Primitive(disasm.TypeField))},
			want: "let r1 = field(r0)",
		},
		{
			name: "cast with member count mismatch",
			inst: disasm.Instruction{Opcode: disasm.OpCast, Operands: []disasm.Operand{disasm.Reg(0)}, Output: disasm.CastOutput(reg(1), disasm.Named("point"))},
			want: "let r1 = point(r0)",
		},
		{
			name: "cast to record",
			inst: disasm.Instruction{Opcode: disasm.OpCast, Operands: []disasm.Operand{disasm.CallerOperand(), disasm.Reg(0), disasm.Reg(1)}, Output: disasm.CastOutput(reg(2), disasm.Named("token"))},
			want: "let r2 = token { owner: self.caller, gates: r0, amount: r1 }",
		},
	}
	p := tokenProgram()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statement(p, tt.inst); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEveryOpcodeDecompiles(t *testing.T) {
	p := &disasm.Program{ID: bytecode.ProgramID{Name: "ops", Network: "aleo"}}
	for op := range disasm.NumOpcodes {
		if got := statement(p, instructionFor(op)); got == "" {
			t.Errorf("%s has no decompiled form", op)
		}
	}
	if got := statement(p, disasm.Instruction{Opcode: disasm.NumOpcodes}); got != "" {
		t.Errorf("invalid opcode rendered as %q", got)
	}
}

func TestClosureKeyword(t *testing.T) {
	f := disasm.Function{Name: "helper", Type: disasm.FunctionTypeClosure}
	if got := FunctionDecompiled(&disasm.Program{}, f); got != "inline helper() {\n}\n" {
		t.Errorf("got %q", got)
	}
}
