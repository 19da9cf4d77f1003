// Package loader turns whatever the user hands the CLI into raw program
// bytes: hex text, gzip or zip wrapped files, and XXTEA encrypted payloads.
package loader

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/xxtea/xxtea-go/xxtea"
)

var (
	ErrEmpty   = errors.New("no program bytes")
	ErrDecrypt = errors.New("xxtea decryption failed")
)

// Options controls how Decode unwraps its input.
type Options struct {
	// Key enables XXTEA decryption when non-empty.
	Key string
	// Signature is stripped from the front of encrypted input when present.
	Signature string
	// Name identifies the input in log messages.
	Name string
}

// Load reads path and unwraps it with Decode.
func Load(path string, opts Options) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if opts.Name == "" {
		opts.Name = path
	}
	return Decode(data, opts)
}

// Decode decrypts, decompresses and hex decodes data, in that order, applying
// each step only when it applies.
func Decode(data []byte, opts Options) ([]byte, error) {
	var err error
	if opts.Key != "" {
		if data, err = decrypt(data, opts); err != nil {
			return nil, err
		}
	}
	if data, err = decompress(data, opts.Name); err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}
	if LooksLikeHex(data) {
		slog.Debug("Detected hex encoded input", "file", opts.Name)
		if data, err = DecodeHex(string(data)); err != nil {
			return nil, err
		}
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return data, nil
}

func decrypt(data []byte, opts Options) ([]byte, error) {
	if opts.Signature != "" && bytes.HasPrefix(data, []byte(opts.Signature)) {
		slog.Debug("Stripping signature", "file", opts.Name, "signature", opts.Signature)
		data = data[len(opts.Signature):]
	}
	out := xxtea.Decrypt(data, []byte(opts.Key))
	if out == nil {
		return nil, fmt.Errorf("%w: wrong key or corrupt input", ErrDecrypt)
	}
	slog.Debug("Decrypted input", "file", opts.Name, "encrypted_size", len(data), "decrypted_size", len(out))
	return out, nil
}

// decompress unwraps gzip streams and returns the first entry of zip
// archives. Anything else is returned unchanged.
func decompress(data []byte, name string) ([]byte, error) {
	if len(data) < 2 {
		return data, nil
	}

	if data[0] == 0x1f && data[1] == 0x8b {
		slog.Debug("Detected gzip compression", "file", name)
		reader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip reader creation failed: %w", err)
		}
		defer reader.Close()

		out, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip decompression failed: %w", err)
		}
		slog.Debug("Gzip decompression successful", "file", name,
			"original_size", len(data), "decompressed_size", len(out))
		return out, nil
	}

	if len(data) >= 4 && data[0] == 'P' && data[1] == 'K' && data[2] == 3 && data[3] == 4 {
		slog.Debug("Detected ZIP archive", "file", name)
		reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("zip reader creation failed: %w", err)
		}
		if len(reader.File) == 0 {
			return nil, fmt.Errorf("zip archive is empty")
		}

		file := reader.File[0]
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file in zip: %w", err)
		}
		defer rc.Close()

		out, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read file from zip: %w", err)
		}
		slog.Debug("ZIP decompression successful", "file", name,
			"archive_file", file.Name,
			"original_size", len(data), "decompressed_size", len(out))
		return out, nil
	}

	return data, nil
}

// LooksLikeHex reports whether data is hex text: an optional 0x prefix
// followed by an even number of hex digits, with whitespace ignored.
func LooksLikeHex(data []byte) bool {
	s := strings.TrimSpace(string(data))
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	digits := 0
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case isHexChar(ch):
			digits++
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
		default:
			return false
		}
	}
	return digits > 0 && digits%2 == 0
}

// DecodeHex decodes hex text, ignoring whitespace and an optional 0x prefix.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.Join(strings.Fields(s), "")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return b, nil
}

func isHexChar(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
