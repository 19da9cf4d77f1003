package render

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"avmdis/internal/disasm"
)

// Mode selects which listing Render produces.
type Mode string

const (
	ModeAssembly   Mode = "assembly"
	ModeDecompiled Mode = "decompiled"
	ModeBoth       Mode = "both"
)

// ParseMode accepts the mode names used on the command line and in the
// configuration file. The empty string selects assembly.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", "asm", ModeAssembly:
		return ModeAssembly, nil
	case "dec", "leo", ModeDecompiled:
		return ModeDecompiled, nil
	case ModeBoth:
		return ModeBoth, nil
	default:
		return "", fmt.Errorf("unknown render mode %q", s)
	}
}

// Both renders the assembly and decompiled listings concurrently. p must not
// be modified while Both runs.
func Both(p *disasm.Program) (asm, dec string) {
	var g errgroup.Group
	g.Go(func() error {
		asm = Assembly(p)
		return nil
	})
	g.Go(func() error {
		dec = Decompiled(p)
		return nil
	})
	_ = g.Wait()
	return asm, dec
}

// Render produces the listing for mode. In ModeBoth the decompiled text
// follows the assembly, separated by a blank line.
func Render(p *disasm.Program, mode Mode) string {
	switch mode {
	case ModeDecompiled:
		return Decompiled(p)
	case ModeBoth:
		asm, dec := Both(p)
		return asm + "\n" + dec
	default:
		return Assembly(p)
	}
}
