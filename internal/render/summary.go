package render

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"avmdis/internal/disasm"
)

// Summary renders a Markdown overview of p suitable for glamour. When source
// is non-empty its SHA-256 digest is included.
func Summary(p *disasm.Program, source []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.ID)
	fmt.Fprintf(&b, "- **Version:** %d\n", p.Version)
	if len(source) > 0 {
		sum := sha256.Sum256(source)
		fmt.Fprintf(&b, "- **Size:** %d bytes\n", len(source))
		fmt.Fprintf(&b, "- **SHA-256:** `%s`\n", hex.EncodeToString(sum[:]))
	}
	if len(p.Imports) > 0 {
		names := make([]string, len(p.Imports))
		for i, imp := range p.Imports {
			names[i] = "`" + imp.String() + "`"
		}
		fmt.Fprintf(&b, "- **Imports:** %s\n", strings.Join(names, ", "))
	}

	b.WriteString("\n## Components\n\n")
	b.WriteString("| Kind | Count |\n|---|---|\n")
	fmt.Fprintf(&b, "| mappings | %d |\n", len(p.Mappings))
	fmt.Fprintf(&b, "| structs | %d |\n", len(p.Structs))
	fmt.Fprintf(&b, "| records | %d |\n", len(p.Records))
	fmt.Fprintf(&b, "| functions | %d |\n", len(p.Functions))

	if len(p.Functions) == 0 {
		return b.String()
	}
	b.WriteString("\n## Functions\n\n")
	b.WriteString("| Name | Kind | Inputs | Instructions | Outputs | Calls |\n|---|---|---|---|---|---|\n")
	for _, f := range p.Functions {
		calls := 0
		for _, inst := range f.Instructions {
			if inst.Opcode == disasm.OpCall {
				calls++
			}
		}
		fmt.Fprintf(&b, "| `%s` | %s | %d | %d | %d | %d |\n",
			f.Name, f.Type, len(f.Inputs), len(f.Instructions), len(f.Outputs), calls)
	}
	return b.String()
}
