package loader

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xxtea/xxtea-go/xxtea"
)

var program = []byte{0x01, 0x00, 0x05, 't', 'o', 'k', 'e', 'n', 0x04, 'a', 'l', 'e', 'o'}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("program.avm")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input func(t *testing.T) []byte
		opts  Options
	}{
		{
			name:  "raw bytes",
			input: func(*testing.T) []byte { return program },
		},
		{
			name:  "hex text",
			input: func(*testing.T) []byte { return []byte("0x0100 05746f6b656e 04616c656f\n") },
		},
		{
			name:  "gzip",
			input: func(t *testing.T) []byte { return gzipped(t, program) },
		},
		{
			name:  "zip",
			input: func(t *testing.T) []byte { return zipped(t, program) },
		},
		{
			name:  "encrypted",
			input: func(*testing.T) []byte { return xxtea.Encrypt(program, []byte("secret")) },
			opts:  Options{Key: "secret"},
		},
		{
			name: "encrypted with signature",
			input: func(*testing.T) []byte {
				return append([]byte("AVMSIG"), xxtea.Encrypt(program, []byte("secret"))...)
			},
			opts: Options{Key: "secret", Signature: "AVMSIG"},
		},
		{
			name:  "encrypted gzip hex",
			input: func(t *testing.T) []byte { return xxtea.Encrypt(gzipped(t, []byte("010005746f6b656e04616c656f")), []byte("k")) },
			opts:  Options{Key: "k"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input(t), tt.opts)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !bytes.Equal(got, program) {
				t.Errorf("got %x, want %x", got, program)
			}
		})
	}
}

func TestDecodeWrongKey(t *testing.T) {
	enc := xxtea.Encrypt(program, []byte("secret"))
	_, err := Decode(enc, Options{Key: "other"})
	if !errors.Is(err, ErrDecrypt) {
		t.Errorf("err = %v, want ErrDecrypt", err)
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, err := Decode(nil, Options{}); !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v", err)
	}
}

func TestLooksLikeHex(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"00ff", true},
		{"0xABcd", true},
		{" 01 02\n03 04 ", true},
		{"abc", false},
		{"", false},
		{"0x", false},
		{"zz", false},
		{"\x01\x00", false},
	}
	for _, tt := range tests {
		if got := LooksLikeHex([]byte(tt.in)); got != tt.want {
			t.Errorf("LooksLikeHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecodeHexRejectsGarbage(t *testing.T) {
	if _, err := DecodeHex("0x0g"); err == nil {
		t.Error("expected an error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.avm.gz")
	if err := os.WriteFile(path, gzipped(t, program), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, program) {
		t.Errorf("got %x", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
}
