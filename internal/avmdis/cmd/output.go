package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"avmdis/internal/avmdis/styles"
	"avmdis/internal/disasm"
	"avmdis/internal/export"
	"avmdis/internal/loader"
	"avmdis/internal/render"
	"avmdis/internal/ui/colorize"
)

// outputOptions is everything that shapes what a command prints.
type outputOptions struct {
	mode    render.Mode
	json    bool
	summary bool
	cborOut string
	color   bool
	style   string
	width   int
	loader  loader.Options
}

func decode(data []byte, name string) (*disasm.Program, error) {
	p, err := disasm.Decode(data)
	if err != nil {
		slog.Debug("Decode failed", "file", name, "size", len(data), "error", err)
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	slog.Debug("Decoded program", "file", name, "program", p.ID.String(),
		"components", p.NumComponents())
	return p, nil
}

// writeProgram prints p in the format selected by o. source is the decoded
// input, used for the summary digest.
func writeProgram(w io.Writer, p *disasm.Program, source []byte, o outputOptions) error {
	if o.cborOut != "" {
		if err := export.WriteFile(o.cborOut, p); err != nil {
			return fmt.Errorf("failed to write %s: %w", o.cborOut, err)
		}
		slog.Debug("Wrote export", "file", o.cborOut)
	}

	switch {
	case o.json:
		b, err := export.JSON(p)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case o.summary:
		md := render.Summary(p, source)
		if o.color {
			md = styles.RenderMarkdown(md, o.width)
		}
		_, err := io.WriteString(w, md)
		return err
	}

	var text string
	switch o.mode {
	case render.ModeDecompiled:
		text = highlight(render.Decompiled(p), colorize.Decompiled, o)
	case render.ModeBoth:
		asm, dec := render.Both(p)
		text = highlight(asm, colorize.Assembly, o) + "\n" + highlight(dec, colorize.Decompiled, o)
	default:
		text = highlight(render.Assembly(p), colorize.Assembly, o)
	}
	_, err := io.WriteString(w, text)
	return err
}

func highlight(code string, fn func(code, style string) (string, error), o outputOptions) string {
	if !o.color {
		return code
	}
	out, err := fn(code, o.style)
	if err != nil {
		slog.Debug("Highlighting failed", "error", err)
		return code
	}
	return out
}
