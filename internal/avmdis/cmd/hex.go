package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"avmdis/internal/config"
	"avmdis/internal/loader"
)

var hexCmd = &cobra.Command{
	Use:   "hex [hex...]",
	Short: "Decode a program given as hex text",
	Long: `Decode a program given as hex text on the command line or on stdin.
Whitespace and a leading 0x are ignored.`,
	Example: `
# Decode hex from the command line
avmdis hex 0100 05746f6b656e 04616c656f 00 0000

# Decode hex piped from another tool
cat token.hex | avmdis hex --decompile
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := MaybePrependStdin(strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runHex(cmd, text, cfg)
	},
}

func runHex(cmd *cobra.Command, text string, cfg *config.Config) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no hex input given")
	}
	data, err := loader.DecodeHex(text)
	if err != nil {
		return err
	}
	opts, err := outputOptionsFrom(cmd, cfg)
	if err != nil {
		return err
	}
	p, err := decode(data, "hex input")
	if err != nil {
		return err
	}
	return writeProgram(cmd.OutOrStdout(), p, data, opts)
}
