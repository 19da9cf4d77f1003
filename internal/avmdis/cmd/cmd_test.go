package cmd

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/spf13/cobra"

	"avmdis/internal/bytecode"
	"avmdis/internal/config"
	"avmdis/internal/disasm"
	"avmdis/internal/export"
	"avmdis/internal/logging"
	"avmdis/internal/render"
)

func testProgram(name string) *disasm.Program {
	return &disasm.Program{
		Version: 1,
		ID:      bytecode.ProgramID{Name: name, Network: "aleo"},
		Structs: []disasm.Struct{{
			Name:    "point",
			Entries: []disasm.StructEntry{{Name: "x", Type: disasm.Primitive(disasm.TypeU32)}},
		}},
		Functions: []disasm.Function{{
			Name: "add",
			Type: disasm.FunctionTypeFunction,
			Inputs: []disasm.IoRegister{{
				Register:     disasm.Register{Locator: 0},
				Attribute:    disasm.AttrPublic,
				Type:         disasm.Primitive(disasm.TypeU32),
				FunctionType: disasm.FunctionTypeFunction,
			}},
			Instructions: []disasm.Instruction{{
				Opcode:   disasm.OpAdd,
				Operands: []disasm.Operand{disasm.Reg(0), disasm.Reg(0)},
				Output:   disasm.SingleOutput(disasm.Register{Locator: 1}),
			}},
			Outputs: []disasm.IoRegister{{
				Register:     disasm.Register{Locator: 1},
				Attribute:    disasm.AttrPrivate,
				Type:         disasm.Primitive(disasm.TypeU32),
				FunctionType: disasm.FunctionTypeFunction,
			}},
		}},
	}
}

func encoded(t *testing.T, name string) []byte {
	t.Helper()
	raw, err := disasm.Encode(testProgram(name))
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func quietLogger() *logging.LoggerCloser {
	return logging.NewLoggerWithWriter(io.Discard, func(string) string { return "" })
}

func TestWriteProgram(t *testing.T) {
	p := testProgram("token")
	tests := []struct {
		name string
		opts outputOptions
		want []string
	}{
		{"assembly", outputOptions{mode: render.ModeAssembly}, []string{"program token.aleo;", "\tadd r0 r0 into r1;"}},
		{"decompiled", outputOptions{mode: render.ModeDecompiled}, []string{"struct point {", "\tlet r1 = r0 + r0;"}},
		{"both", outputOptions{mode: render.ModeBoth}, []string{"function add:", "function add(public r0: u32) -> u32 {"}},
		{"summary", outputOptions{summary: true}, []string{"# token.aleo", "| `add` | function | 1 | 1 | 1 | 0 |"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeProgram(&buf, p, []byte{1}, tt.opts); err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output lacks %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestWriteProgramJSONAndCBOR(t *testing.T) {
	out := filepath.Join(t.TempDir(), "token.cbor")
	var buf bytes.Buffer
	if err := writeProgram(&buf, testProgram("token"), nil, outputOptions{json: true, cborOut: out}); err != nil {
		t.Fatal(err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Errorf("stdout is not JSON: %s", buf.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	p, err := export.DecodeCBOR(data)
	if err != nil {
		t.Fatal(err)
	}
	if p.ID.String() != "token.aleo" {
		t.Errorf("exported program id = %s", p.ID)
	}
}

func TestRunHex(t *testing.T) {
	t.Setenv("AVMDIS_NO_COLOR", "")
	text := "0x" + hex.EncodeToString(encoded(t, "token"))

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	if err := runHex(cmd, text, config.Default()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "program token.aleo;\n") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	if err := runHex(cmd, "  ", config.Default()); err == nil {
		t.Error("expected an error for empty input")
	}
	err := runHex(cmd, "0100", config.Default())
	if err == nil || !strings.Contains(err.Error(), "truncated") {
		t.Errorf("err = %v, want a truncation error", err)
	}
}

func TestWatchFileWithoutFollow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "programs.hex")
	lines := []string{
		"# deployments",
		hex.EncodeToString(encoded(t, "first")),
		"",
		"not hex",
		"01",
		hex.EncodeToString(encoded(t, "second")),
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := watchFile(context.Background(), path, false, &buf, outputOptions{mode: render.ModeAssembly}, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, "program ") != 2 {
		t.Errorf("expected two programs:\n%s", out)
	}
	if strings.Index(out, "first.aleo") > strings.Index(out, "second.aleo") {
		t.Error("programs printed out of order")
	}
}

func TestWatchFileMissing(t *testing.T) {
	err := watchFile(context.Background(), filepath.Join(t.TempDir(), "missing"), false, io.Discard, outputOptions{}, quietLogger())
	if err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestSchemaDescribesConfig(t *testing.T) {
	var buf bytes.Buffer
	schemaCmd.SetOut(&buf)
	if err := schemaCmd.RunE(schemaCmd, nil); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"mode"`, `"noColor"`, `"signature"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("schema lacks %s", want)
		}
	}
}

func TestModelShowsListingAfterDecode(t *testing.T) {
	raw := encoded(t, "token")
	m := NewModel("token.avm", raw, outputOptions{mode: render.ModeAssembly})
	if !strings.Contains(m.View(), "Decoding") {
		t.Errorf("loading view:\n%s", m.View())
	}

	next, _ := m.Update(decodeCmd(raw, "token.avm")())
	next, _ = next.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got := next.(model)
	if got.program == nil {
		t.Fatal("program not decoded")
	}
	if !strings.Contains(got.View(), "program token.aleo;") {
		t.Errorf("listing missing from view:\n%s", got.View())
	}
	if n := len(got.components.Items()); n != 2 {
		t.Errorf("%d components listed, want 2", n)
	}
}

func TestModelShowsDecodeError(t *testing.T) {
	m := NewModel("bad.avm", []byte{1}, outputOptions{})
	next, _ := m.Update(decodeCmd([]byte{1}, "bad.avm")())
	view := next.(model).View()
	if !strings.Contains(view, "truncated") {
		t.Errorf("error missing from view:\n%s", view)
	}
}
