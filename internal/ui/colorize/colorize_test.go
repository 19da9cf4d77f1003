package colorize

import (
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

const listing = "program token.aleo;\n\nfunction add:\n\tinput r0 as u32.public;\n\tadd.w r0 5 into r1;\n\tcall credits.aleo/transfer self.caller r1 into r2;\n\toutput r1 as u32.private;\n"

func TestLexerIsRegistered(t *testing.T) {
	for _, name := range []string{"aleo-instructions", "aleo", "avm"} {
		if lexers.Get(name) == nil {
			t.Errorf("lexer %q not registered", name)
		}
	}
}

func TestLexerTokens(t *testing.T) {
	it, err := AleoInstructions.Tokenise(nil, "\tadd.w r0.x 5 into r1;")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]chroma.TokenType{
		"add.w": chroma.NameFunction,
		"r0.x":  chroma.NameVariable,
		"5":     chroma.LiteralNumberInteger,
		"into":  chroma.Keyword,
		"r1":    chroma.NameVariable,
	}
	for _, tok := range it.Tokens() {
		if typ, ok := want[tok.Value]; ok {
			if tok.Type != typ {
				t.Errorf("%q lexed as %s, want %s", tok.Value, tok.Type, typ)
			}
			delete(want, tok.Value)
		}
		if tok.Type == chroma.Error {
			t.Errorf("error token %q", tok.Value)
		}
	}
	for v := range want {
		t.Errorf("token %q not produced", v)
	}
}

func TestAssemblyHighlighting(t *testing.T) {
	t.Setenv("AVMDIS_NO_COLOR", "")
	out, err := Assembly(listing, "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "\x1b[") {
		t.Error("no escape sequences in highlighted output")
	}
	if StripANSI(out) != listing {
		t.Errorf("highlighting changed the text:\n%q", StripANSI(out))
	}
}

func TestNoColor(t *testing.T) {
	t.Setenv("AVMDIS_NO_COLOR", "1")
	for _, fn := range []func(string, string) (string, error){Assembly, Decompiled} {
		out, err := fn(listing, "avm-dark")
		if err != nil {
			t.Fatal(err)
		}
		if out != listing {
			t.Errorf("output modified with colors disabled: %q", out)
		}
	}
}

func TestUnknownLexerIsPassthrough(t *testing.T) {
	t.Setenv("AVMDIS_NO_COLOR", "")
	out, err := Highlight("x", "no-such-lexer", "")
	if err != nil || out != "x" {
		t.Errorf("got %q, %v", out, err)
	}
}

func TestGetStyleFallsBack(t *testing.T) {
	if got := getStyle("no-such-style"); got.Name != AVMDark.Name {
		t.Errorf("style = %s", got.Name)
	}
	if got := getStyle("monokai"); got.Name != "monokai" {
		t.Errorf("style = %s", got.Name)
	}
}
