package colorize

import (
	"cmp"
	"slices"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"avmdis/internal/disasm"
)

// AleoInstructions lexes the assembly listings produced by render.Assembly.
var AleoInstructions = lexers.Register(chroma.MustNewLexer(
	&chroma.Config{
		Name:      "aleo-instructions",
		Aliases:   []string{"aleo", "avm"},
		Filenames: []string{"*.aleo"},
	},
	aleoRules,
))

// mnemonics lists every opcode name, longest first so that add.w is tried
// before add.
func mnemonics() []string {
	names := make([]string, 0, disasm.NumOpcodes)
	for op := range disasm.NumOpcodes {
		names = append(names, op.String())
	}
	slices.SortFunc(names, func(a, b string) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), cmp.Compare(a, b))
	})
	return names
}

func aleoRules() chroma.Rules {
	return chroma.Rules{
		"root": {
			{Pattern: `\s+`, Type: chroma.TextWhitespace},
			{Pattern: `//.*?$`, Type: chroma.CommentSingle},
			{Pattern: `"(\\\\|\\"|[^"])*"`, Type: chroma.LiteralString},
			{Pattern: `\b(import|program|mapping|record|struct|function|closure|finalize|key|value|input|output|owner|gates|as|into)\b`, Type: chroma.Keyword},
			{Pattern: `\b(constant|public|private|external_record)\b`, Type: chroma.KeywordDeclaration},
			{Pattern: `\b(address|boolean|field|group|scalar|string|[iu](8|16|32|64|128))\b`, Type: chroma.KeywordType},
			{Pattern: `\b(true|false)\b`, Type: chroma.KeywordConstant},
			{Pattern: `\bself\.caller\b`, Type: chroma.NameBuiltin},
			{Pattern: `\br\d+(\.[A-Za-z_]\w*)*`, Type: chroma.NameVariable},
			{Pattern: chroma.Words(`\b`, `\b`, mnemonics()...), Type: chroma.NameFunction},
			{Pattern: `\b[0-9a-f]{64}\b`, Type: chroma.LiteralNumberHex},
			{Pattern: `-?\d+`, Type: chroma.LiteralNumberInteger},
			{Pattern: `[A-Za-z_]\w*\.[A-Za-z_]\w*/[A-Za-z_]\w*`, Type: chroma.NameNamespace},
			{Pattern: `[A-Za-z_]\w*`, Type: chroma.Name},
			{Pattern: `[;:./]`, Type: chroma.Punctuation},
		},
	}
}

// AVMDark is the default style for both listings.
var AVMDark = styles.Register(chroma.MustNewStyle("avm-dark", chroma.StyleEntries{
	chroma.Text:       "#FFFFFF",
	chroma.Background: "bg:#1e1e1e",
	chroma.Comment:    "#6A9955",

	chroma.Keyword:            "#569CD6",
	chroma.KeywordDeclaration: "#C586C0",
	chroma.KeywordType:        "#4EC9B0",
	chroma.KeywordConstant:    "#FF5F87",

	chroma.Name:          "#FFFFFF",
	chroma.NameVariable:  "#7C9C9D",
	chroma.NameBuiltin:   "#7C9C9D",
	chroma.NameFunction:  "#DCDCAA",
	chroma.NameNamespace: "#FFD700",

	chroma.LiteralNumber:        "#FF5F87",
	chroma.LiteralNumberHex:     "#FF5F87",
	chroma.LiteralNumberInteger: "#FF5F87",
	chroma.LiteralString:        "#EACD53",

	chroma.Operator:    "#FFFFFF",
	chroma.Punctuation: "#FFFFFF",
}))
