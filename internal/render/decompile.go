package render

import (
	"fmt"
	"strings"

	"avmdis/internal/disasm"
)

// Decompiled renders p as approximate high-level source. Only structs and
// functions have a source form; mappings and records are omitted.
func Decompiled(p *disasm.Program) string {
	var blocks []string
	for _, s := range p.Structs {
		blocks = append(blocks, StructDecompiled(s))
	}
	for _, f := range p.Functions {
		blocks = append(blocks, FunctionDecompiled(p, f))
	}
	return strings.Join(blocks, "\n")
}

func StructDecompiled(s disasm.Struct) string {
	var b strings.Builder
	fmt.Fprintf(&b, "struct %s {\n", s.Name)
	for _, e := range s.Entries {
		fmt.Fprintf(&b, "\t%s: %s,\n", e.Name, e.Type)
	}
	b.WriteString("}\n")
	return b.String()
}

// FunctionDecompiled renders f with one statement per instruction. p is
// consulted to spell out struct and record construction from casts.
func FunctionDecompiled(p *disasm.Program, f disasm.Function) string {
	var b strings.Builder
	keyword := "function"
	if f.Type == disasm.FunctionTypeClosure {
		keyword = "inline"
	}

	params := make([]string, len(f.Inputs))
	for i, in := range f.Inputs {
		params[i] = param(in)
	}
	fmt.Fprintf(&b, "%s %s(%s)", keyword, f.Name, strings.Join(params, ", "))
	switch len(f.Outputs) {
	case 0:
	case 1:
		fmt.Fprintf(&b, " -> %s", f.Outputs[0].Type)
	default:
		types := make([]string, len(f.Outputs))
		for i, out := range f.Outputs {
			types[i] = out.Type.String()
		}
		fmt.Fprintf(&b, " -> (%s)", strings.Join(types, ", "))
	}
	b.WriteString(" {\n")

	for _, inst := range f.Instructions {
		if stmt := statement(p, inst); stmt != "" {
			fmt.Fprintf(&b, "\t%s;\n", stmt)
		}
	}

	switch len(f.Outputs) {
	case 0:
	case 1:
		fmt.Fprintf(&b, "\treturn %s;\n", f.Outputs[0].Register)
	default:
		regs := make([]string, len(f.Outputs))
		for i, out := range f.Outputs {
			regs[i] = out.Register.String()
		}
		fmt.Fprintf(&b, "\treturn (%s);\n", strings.Join(regs, ", "))
	}
	b.WriteString("}\n")
	return b.String()
}

func param(in disasm.IoRegister) string {
	switch in.Attribute {
	case disasm.AttrConstant, disasm.AttrPublic:
		return fmt.Sprintf("%s %s: %s", in.Attribute, in.Register, in.Type)
	default:
		return fmt.Sprintf("%s: %s", in.Register, in.Type)
	}
}

var infixOperators = map[disasm.Opcode]string{
	disasm.OpAdd:                "+",
	disasm.OpSub:                "-",
	disasm.OpMul:                "*",
	disasm.OpDiv:                "/",
	disasm.OpRem:                "%",
	disasm.OpPow:                "**",
	disasm.OpAnd:                "&",
	disasm.OpOr:                 "|",
	disasm.OpXor:                "^",
	disasm.OpShl:                "<<",
	disasm.OpShr:                ">>",
	disasm.OpGreaterThan:        ">",
	disasm.OpGreaterThanOrEqual: ">=",
	disasm.OpLessThan:           "<",
	disasm.OpLessThanOrEqual:    "<=",
	disasm.OpIsEq:               "==",
	disasm.OpIsNeq:              "!=",
}

var prefixOperators = map[disasm.Opcode]string{
	disasm.OpNeg: "-",
	disasm.OpNot: "!",
}

// methods are rendered as calls on the first operand.
var methods = map[disasm.Opcode]string{
	disasm.OpAbs:        "abs",
	disasm.OpAbsWrapped: "abs_wrapped",
	disasm.OpAddWrapped: "add_wrapped",
	disasm.OpSubWrapped: "sub_wrapped",
	disasm.OpMulWrapped: "mul_wrapped",
	disasm.OpDivWrapped: "div_wrapped",
	disasm.OpRemWrapped: "rem_wrapped",
	disasm.OpPowWrapped: "pow_wrapped",
	disasm.OpShlWrapped: "shl_wrapped",
	disasm.OpShrWrapped: "shr_wrapped",
	disasm.OpMod:        "mod",
	disasm.OpNand:       "nand",
	disasm.OpNor:        "nor",
	disasm.OpDouble:     "double",
	disasm.OpInv:        "inv",
	disasm.OpSquare:     "square",
	disasm.OpSquareRoot: "square_root",
}

// builtins are associated functions of a hashing or commitment scheme.
var builtins = map[disasm.Opcode]string{
	disasm.OpHashBHP256:    "BHP256::hash",
	disasm.OpHashBHP512:    "BHP512::hash",
	disasm.OpHashBHP768:    "BHP768::hash",
	disasm.OpHashBHP1024:   "BHP1024::hash",
	disasm.OpHashPED64:     "Pedersen64::hash",
	disasm.OpHashPED128:    "Pedersen128::hash",
	disasm.OpHashPSD2:      "Poseidon2::hash",
	disasm.OpHashPSD4:      "Poseidon4::hash",
	disasm.OpHashPSD8:      "Poseidon8::hash",
	disasm.OpCommitBHP256:  "BHP256::commit",
	disasm.OpCommitBHP512:  "BHP512::commit",
	disasm.OpCommitBHP768:  "BHP768::commit",
	disasm.OpCommitBHP1024: "BHP1024::commit",
	disasm.OpCommitPED64:   "Pedersen64::commit",
	disasm.OpCommitPED128:  "Pedersen128::commit",
	disasm.OpAssertEq:      "assert_eq",
	disasm.OpAssertNeq:     "assert_neq",
}

// statement renders inst without the trailing semicolon. Instructions that
// have no source form render as the empty string.
func statement(p *disasm.Program, inst disasm.Instruction) string {
	if !inst.Opcode.Valid() {
		return ""
	}
	args := make([]string, len(inst.Operands))
	for i, op := range inst.Operands {
		args[i] = sourceOperand(op)
	}

	var expr string
	op := inst.Opcode
	switch {
	case op == disasm.OpCall:
		if len(args) == 0 {
			return ""
		}
		expr = fmt.Sprintf("%s(%s)", args[0], strings.Join(args[1:], ", "))
	case op == disasm.OpCast:
		if inst.Output.Type == nil {
			return ""
		}
		expr = construct(p, *inst.Output.Type, args)
	case op == disasm.OpTernary && len(args) == 3:
		expr = fmt.Sprintf("%s ? %s : %s", args[0], args[1], args[2])
	case infixOperators[op] != "" && len(args) == 2:
		expr = fmt.Sprintf("%s %s %s", args[0], infixOperators[op], args[1])
	case prefixOperators[op] != "" && len(args) == 1:
		operand := args[0]
		if strings.HasPrefix(operand, "-") {
			operand = "(" + operand + ")"
		}
		expr = prefixOperators[op] + operand
	case methods[op] != "" && len(args) > 0:
		expr = fmt.Sprintf("%s.%s(%s)", args[0], methods[op], strings.Join(args[1:], ", "))
	case builtins[op] != "":
		expr = fmt.Sprintf("%s(%s)", builtins[op], strings.Join(args, ", "))
	default:
		return ""
	}

	switch regs := inst.Output.Registers; len(regs) {
	case 0:
		return expr
	case 1:
		return fmt.Sprintf("let %s = %s", regs[0], expr)
	default:
		names := make([]string, len(regs))
		for i, r := range regs {
			names[i] = r.String()
		}
		return fmt.Sprintf("let (%s) = %s", strings.Join(names, ", "), expr)
	}
}

// construct renders a cast into t. Casts into a known struct or record with
// a matching member count become initializers with named members.
func construct(p *disasm.Program, t disasm.Type, args []string) string {
	if t.Named {
		var members []string
		if s, ok := p.Struct(t.Name); ok {
			for _, e := range s.Entries {
				members = append(members, e.Name)
			}
		} else if r, ok := p.Record(t.Name); ok {
			members = append(members, "owner", "gates")
			for _, e := range r.Entries {
				members = append(members, e.Name)
			}
		}
		if len(members) > 0 && len(members) == len(args) {
			fields := make([]string, len(args))
			for i, a := range args {
				fields[i] = members[i] + ": " + a
			}
			return fmt.Sprintf("%s { %s }", t, strings.Join(fields, ", "))
		}
	}
	return fmt.Sprintf("%s(%s)", t, strings.Join(args, ", "))
}

// sourceOperand renders literals with their type suffix; every other operand
// is spelled as in assembly.
func sourceOperand(op disasm.Operand) string {
	if op.Kind != disasm.OperandLiteral || op.Literal == nil {
		return op.String()
	}
	l := *op.Literal
	switch {
	case l.Type.Integer():
		return l.Int().String() + l.Type.String()
	case l.Type == disasm.TypeField || l.Type == disasm.TypeScalar:
		return l.Int().String() + l.Type.String()
	default:
		return l.String()
	}
}
