package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"avmdis/internal/bytecode"
	"avmdis/internal/disasm"
	"avmdis/internal/render"
)

func sample() *disasm.Program {
	return &disasm.Program{
		Version: 3,
		ID:      bytecode.ProgramID{Name: "vault", Network: "aleo"},
		Structs: []disasm.Struct{{
			Name:    "pair",
			Entries: []disasm.StructEntry{{Name: "a", Type: disasm.Primitive(disasm.TypeU8)}},
		}},
		Functions: []disasm.Function{{
			Name: "deposit",
			Type: disasm.FunctionTypeFunction,
			Inputs: []disasm.IoRegister{{
				Register:     disasm.Register{Locator: 0},
				Attribute:    disasm.AttrPublic,
				Type:         disasm.Primitive(disasm.TypeU8),
				FunctionType: disasm.FunctionTypeFunction,
			}},
			Instructions: []disasm.Instruction{
				{
					Opcode:   disasm.OpCast,
					Operands: []disasm.Operand{disasm.Reg(0)},
					Output:   disasm.CastOutput(disasm.Register{Locator: 1}, disasm.Named("pair")),
				},
				{
					Opcode:   disasm.OpCall,
					Operands: []disasm.Operand{disasm.ProgramIDOperand(disasm.ExternalLocator("bank", "aleo", "put")), disasm.Reg(1, "a")},
					Output:   disasm.MultipleOutput(disasm.Register{Locator: 2}),
				},
			},
		}},
	}
}

func TestCBORRoundTrip(t *testing.T) {
	p := sample()
	b, err := CBOR(p)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeCBOR(b)
	if err != nil {
		t.Fatal(err)
	}
	if render.Assembly(got) != render.Assembly(p) {
		t.Errorf("listing changed:\n%s\n%s", render.Assembly(got), render.Assembly(p))
	}

	again, err := CBOR(got)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again, b) {
		t.Error("canonical encoding is not stable")
	}
}

func TestJSONSpellsEnumsByName(t *testing.T) {
	b, err := JSON(sample())
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatal(err)
	}
	fn := doc["functions"].([]any)[0].(map[string]any)
	if fn["type"] != "function" {
		t.Errorf("function type = %v", fn["type"])
	}
	inst := fn["instructions"].([]any)[0].(map[string]any)
	if inst["opcode"] != "cast" {
		t.Errorf("opcode = %v", inst["opcode"])
	}
	out := inst["output"].(map[string]any)
	if out["type"] != "pair" {
		t.Errorf("cast type = %v", out["type"])
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.json", "out.cbor"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, sample()); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if isJSON := json.Valid(b); isJSON != (FormatForPath(path) == FormatJSON) {
			t.Errorf("%s: json.Valid = %v", name, isJSON)
		}
	}
}
