// Package colorize highlights listings for the terminal with chroma.
// Setting AVMDIS_NO_COLOR disables all highlighting.
package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DecompiledLexer is the chroma lexer used for decompiled listings; the
// source form is close enough to Rust for its lexer to do well.
const DecompiledLexer = "rust"

// Disabled reports whether highlighting is turned off by the environment.
func Disabled() bool {
	return os.Getenv("AVMDIS_NO_COLOR") != ""
}

// getStyle returns the named style with fallbacks
func getStyle(name string) *chroma.Style {
	for _, candidate := range []string{name, AVMDark.Name, "dracula"} {
		if candidate == "" {
			continue
		}
		if style := styles.Get(candidate); style != nil && style.Name == candidate {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	for _, name := range []string{"terminal16m", "terminal256"} {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Highlight tokenizes code with the named lexer and formats it with the
// named style. Unknown lexers leave the code unchanged.
func Highlight(code, lexer, style string) (string, error) {
	if Disabled() {
		return code, nil
	}
	l := lexers.Get(lexer)
	if l == nil {
		return code, nil
	}

	iterator, err := chroma.Coalesce(l).Tokenise(nil, code)
	if err != nil {
		return code, err
	}
	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getStyle(style), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// Assembly highlights an assembly listing.
func Assembly(code, style string) (string, error) {
	return Highlight(code, AleoInstructions.Config().Name, style)
}

// Decompiled highlights a decompiled listing.
func Decompiled(code, style string) (string, error) {
	return Highlight(code, DecompiledLexer, style)
}

// StripANSI removes ANSI escape sequences.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}
