package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"avmdis/internal/avmdis/log"
	"avmdis/internal/config"
	"avmdis/internal/loader"
	"avmdis/internal/render"
)

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to avmdis.toml (default: ./avmdis.toml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable syntax highlighting")
	rootCmd.PersistentFlags().Bool("decompile", false, "Print the decompiled listing instead of assembly")
	rootCmd.PersistentFlags().BoolP("both", "b", false, "Print assembly followed by the decompiled listing")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Print the decoded program as JSON")
	rootCmd.PersistentFlags().BoolP("summary", "s", false, "Print a Markdown summary of the program")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("no-tui", "n", false, "Print the listing without the TUI")
	rootCmd.Flags().String("cbor", "", "Also write the decoded program as CBOR to this file")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")
	rootCmd.Flags().String("key", "", "XXTEA key for encrypted programs")
	rootCmd.Flags().String("signature", "", "Signature prefix stripped before decryption")

	rootCmd.AddCommand(hexCmd, watchCmd, schemaCmd)
}

var rootCmd = &cobra.Command{
	Use:   "avmdis [file]",
	Short: "Disassembler and decompiler for AVM programs",
	Long: `Avmdis decodes compiled AVM program bytecode and prints it as an
instruction listing or as approximate high-level source.
Input may be raw bytes or hex text, optionally gzip or zip compressed
and XXTEA encrypted.`,
	Example: `
# Browse a program interactively
avmdis token.avm

# Print the decompiled listing
avmdis --decompile --no-tui token.avm

# Export the decoded program
avmdis --json token.avm > token.json
  `,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log.Setup(cfg.LogFile, cfg.Debug)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup CPU profiling if requested
		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		// Setup memory profiling if requested
		memprofile, _ := cmd.Flags().GetString("memprofile")
		if memprofile != "" {
			defer func() {
				f, err := os.Create(memprofile)
				if err != nil {
					fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
					return
				}
				defer f.Close()
				if err := pprof.WriteHeapProfile(f); err != nil {
					fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
				}
			}()
		}

		absPath, err := pathpkg.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}
		if _, err := os.Stat(absPath); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", args[0])
			}
			return fmt.Errorf("cannot access file: %w", err)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts, err := outputOptionsFrom(cmd, cfg)
		if err != nil {
			return err
		}

		data, err := loader.Load(absPath, opts.loader)
		if err != nil {
			return err
		}

		noTUI, _ := cmd.Flags().GetBool("no-tui")
		if opts.json || opts.summary || !term.IsTerminal(os.Stdout.Fd()) {
			noTUI = true
		}
		if noTUI {
			p, err := decode(data, absPath)
			if err != nil {
				return err
			}
			return writeProgram(cmd.OutOrStdout(), p, data, opts)
		}

		program := tea.NewProgram(
			NewModel(absPath, data, opts),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	},
}

// loadConfig reads the configuration file, then applies the environment and
// finally any flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("no-color") {
		cfg.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Lookup("key") != nil && flags.Changed("key") {
		cfg.Key, _ = flags.GetString("key")
	}
	if flags.Lookup("signature") != nil && flags.Changed("signature") {
		cfg.Signature, _ = flags.GetString("signature")
	}
	return cfg, nil
}

// outputOptionsFrom resolves the listing mode and output format. Mode flags
// override the configured mode.
func outputOptionsFrom(cmd *cobra.Command, cfg *config.Config) (outputOptions, error) {
	mode, err := render.ParseMode(cfg.Mode)
	if err != nil {
		return outputOptions{}, err
	}
	flags := cmd.Flags()
	if v, _ := flags.GetBool("decompile"); v {
		mode = render.ModeDecompiled
	}
	if v, _ := flags.GetBool("both"); v {
		mode = render.ModeBoth
	}

	opts := outputOptions{
		mode:  mode,
		color: !cfg.NoColor && term.IsTerminal(os.Stdout.Fd()),
		style: cfg.Style,
		width: cfg.Width,
		loader: loader.Options{
			Key:       cfg.Key,
			Signature: cfg.Signature,
		},
	}
	opts.json, _ = flags.GetBool("json")
	opts.summary, _ = flags.GetBool("summary")
	if flags.Lookup("cbor") != nil {
		opts.cborOut, _ = flags.GetString("cbor")
	}
	if !opts.color {
		os.Setenv("AVMDIS_NO_COLOR", "1")
	}
	return opts, nil
}

func Execute() {
	// Bypass fang's styled output when piping or when the TUI is off.
	noTUI := false
	for _, arg := range os.Args[1:] {
		if arg == "--no-tui" || arg == "-n" {
			noTUI = true
			break
		}
	}
	if !noTUI && !term.IsTerminal(os.Stdout.Fd()) {
		noTUI = true
	}

	if noTUI {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// MaybePrependStdin returns stdin's content followed by text when stdin is a
// pipe, and text alone otherwise.
func MaybePrependStdin(text string) (string, error) {
	return maybePrependReader(os.Stdin, text)
}

func maybePrependReader(f *os.File, text string) (string, error) {
	if term.IsTerminal(f.Fd()) {
		return text, nil
	}
	fi, err := f.Stat()
	if err != nil {
		return text, err
	}
	if fi.Mode()&os.ModeNamedPipe == 0 {
		return text, nil
	}
	bts, err := io.ReadAll(f)
	if err != nil {
		return text, err
	}
	return string(bts) + "\n" + text, nil
}
