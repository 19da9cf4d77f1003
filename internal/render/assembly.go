// Package render turns a decoded program back into text. Each renderer is a
// pure function of the program; none of them mutate it or share state, so
// they may run concurrently over the same tree.
package render

import (
	"fmt"
	"strings"

	"avmdis/internal/disasm"
)

// Assembly renders p in the canonical instruction listing form.
func Assembly(p *disasm.Program) string {
	var b strings.Builder
	for _, imp := range p.Imports {
		fmt.Fprintf(&b, "import %s;\n", imp)
	}
	if len(p.Imports) > 0 {
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "program %s;\n", p.ID)

	for _, m := range p.Mappings {
		b.WriteByte('\n')
		b.WriteString(MappingAssembly(m))
	}
	for _, r := range p.Records {
		b.WriteByte('\n')
		b.WriteString(RecordAssembly(r))
	}
	for _, s := range p.Structs {
		b.WriteByte('\n')
		b.WriteString(StructAssembly(s))
	}
	for _, f := range p.Functions {
		b.WriteByte('\n')
		b.WriteString(FunctionAssembly(f))
	}
	return b.String()
}

func MappingAssembly(m disasm.Mapping) string {
	var b strings.Builder
	fmt.Fprintf(&b, "mapping %s:\n", m.Name)
	fmt.Fprintf(&b, "\tkey %s as %s.%s;\n", m.Key.Name, m.Key.Type, m.Key.Attribute)
	fmt.Fprintf(&b, "\tvalue %s as %s.%s;\n", m.Value.Name, m.Value.Type, m.Value.Attribute)
	return b.String()
}

// RecordAssembly renders the implicit owner and gates members before the
// declared entries.
func RecordAssembly(r disasm.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "record %s:\n", r.Name)
	fmt.Fprintf(&b, "\towner as address.%s;\n", r.Owner)
	fmt.Fprintf(&b, "\tgates as u64.%s;\n", r.Gates)
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "\t%s as %s.%s;\n", e.Name, e.Type, e.Attribute)
	}
	return b.String()
}

func StructAssembly(s disasm.Struct) string {
	var b strings.Builder
	fmt.Fprintf(&b, "struct %s:\n", s.Name)
	for _, e := range s.Entries {
		fmt.Fprintf(&b, "\t%s as %s;\n", e.Name, e.Type)
	}
	return b.String()
}

func FunctionAssembly(f disasm.Function) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s:\n", f.Type, f.Name)
	for _, in := range f.Inputs {
		fmt.Fprintf(&b, "\tinput %s;\n", ioDecl(in))
	}
	for _, inst := range f.Instructions {
		fmt.Fprintf(&b, "\t%s;\n", InstructionAssembly(inst))
	}
	for _, out := range f.Outputs {
		fmt.Fprintf(&b, "\toutput %s;\n", ioDecl(out))
	}
	return b.String()
}

func ioDecl(io disasm.IoRegister) string {
	return fmt.Sprintf("%s as %s.%s", io.Register, io.Type, io.Attribute)
}

// InstructionAssembly renders one instruction without the trailing
// semicolon: the mnemonic, its operands and then the output clause.
func InstructionAssembly(inst disasm.Instruction) string {
	var b strings.Builder
	b.WriteString(inst.Opcode.String())
	for _, op := range inst.Operands {
		b.WriteByte(' ')
		b.WriteString(op.String())
	}
	out := inst.Output
	if len(out.Registers) > 0 {
		b.WriteString(" into")
		for _, r := range out.Registers {
			b.WriteByte(' ')
			b.WriteString(r.String())
		}
	}
	if out.Kind == disasm.OutputCast && out.Type != nil {
		b.WriteString(" as ")
		b.WriteString(out.Type.String())
	}
	return b.String()
}
