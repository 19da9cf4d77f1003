// Package export serializes decoded programs for other tools.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"avmdis/internal/disasm"
)

// Format is a serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// cborEncMode uses canonical encoding so equal programs produce equal bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("export: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// JSON renders p as indented JSON. Enumerations are spelled by name.
func JSON(p *disasm.Program) ([]byte, error) {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshal json: %w", err)
	}
	return append(b, '\n'), nil
}

// CBOR serializes p to canonical CBOR.
func CBOR(p *disasm.Program) ([]byte, error) {
	b, err := cborEncMode.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("export: marshal cbor: %w", err)
	}
	return b, nil
}

// DecodeCBOR reads a program previously written by CBOR.
func DecodeCBOR(data []byte) (*disasm.Program, error) {
	var p disasm.Program
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("export: unmarshal cbor: %w", err)
	}
	return &p, nil
}

// FormatForPath picks the format from the file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cbor":
		return FormatCBOR
	default:
		return FormatJSON
	}
}

// Marshal serializes p in format f.
func Marshal(p *disasm.Program, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return JSON(p)
	case FormatCBOR:
		return CBOR(p)
	default:
		return nil, fmt.Errorf("export: unknown format %q", f)
	}
}

// WriteFile serializes p in the format implied by path's extension.
func WriteFile(path string, p *disasm.Program) error {
	b, err := Marshal(p, FormatForPath(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
