// Package config handles the avmdis.toml configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up in the working directory
// when no explicit path is given.
const FileName = "avmdis.toml"

// DefaultProfileAddr is where pprof listens when profiling is switched on
// without an address.
const DefaultProfileAddr = "localhost:6060"

// Config is the user configuration. Command line flags take precedence over
// environment variables, which take precedence over the file.
type Config struct {
	Debug     bool   `toml:"debug" json:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
	LogFile   string `toml:"log-file" json:"logFile,omitempty" jsonschema:"title=Log File,description=Write the process log to this file instead of stderr"`
	Mode      string `toml:"mode" json:"mode,omitempty" jsonschema:"title=Mode,description=Listing to print,enum=assembly,enum=decompiled,enum=both"`
	NoColor   bool   `toml:"no-color" json:"noColor" jsonschema:"title=No Color,description=Disable syntax highlighting"`
	Style     string `toml:"style" json:"style,omitempty" jsonschema:"title=Style,description=Chroma style used for highlighting"`
	Width     int    `toml:"width" json:"width,omitempty" jsonschema:"title=Width,description=Word wrap width of Markdown output"`
	Key       string `toml:"key" json:"key,omitempty" jsonschema:"title=Key,description=XXTEA key for encrypted programs"`
	Signature string `toml:"signature" json:"signature,omitempty" jsonschema:"title=Signature,description=Signature prefix stripped before decryption"`
	Profile   string `toml:"profile" json:"profile,omitempty" jsonschema:"title=Profile,description=Address for the pprof HTTP server; empty disables it"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-" json:"-"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Mode:  "assembly",
		Style: "avm-dark",
		Width: 100,
	}
}

// Load reads the configuration at path. An empty path means FileName in the
// working directory, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Path = path

	// Defaults
	if c.Style == "" {
		c.Style = Default().Style
	}
	if c.Width <= 0 {
		c.Width = Default().Width
	}
	return c, nil
}

// ApplyEnv overrides fields from AVMDIS_NO_COLOR, AVMDIS_DEBUG,
// AVMDIS_STYLE and AVMDIS_PROFILE. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("AVMDIS_NO_COLOR"); v != "" {
		c.NoColor = truthy(v)
	}
	if v := getenv("AVMDIS_DEBUG"); v != "" {
		c.Debug = truthy(v)
	}
	if v := getenv("AVMDIS_STYLE"); v != "" {
		c.Style = v
	}
	if v := getenv("AVMDIS_PROFILE"); v != "" {
		c.Profile = profileAddr(v)
	}
}

// profileAddr accepts either a listen address or a boolean switch.
func profileAddr(v string) string {
	if strings.Contains(v, ":") {
		return v
	}
	if truthy(v) {
		return DefaultProfileAddr
	}
	return ""
}

func truthy(s string) bool {
	b, err := strconv.ParseBool(s)
	return err != nil || b
}
