package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"avmdis/internal/avmdis/log"
	"avmdis/internal/loader"
	"avmdis/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Decode hex programs as they are appended to a file",
	Long: `Follow a file holding one hex encoded program per line and print each
program as it arrives. Blank lines and lines starting with # are skipped.
Lines that fail to decode are logged and skipped.`,
	Example: `
# Follow a deployment log
avmdis watch --decompile deployments.hex
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts, err := outputOptionsFrom(cmd, cfg)
		if err != nil {
			return err
		}
		follow, _ := cmd.Flags().GetBool("follow")

		lg := logging.NewLogger()
		defer lg.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return watchFile(ctx, args[0], follow, cmd.OutOrStdout(), opts, lg)
	},
}

func init() {
	watchCmd.Flags().BoolP("follow", "f", true, "Keep waiting for new lines at end of file")
}

// watchFile decodes every program line in path. Without follow it returns at
// end of file; with follow it runs until ctx is cancelled.
func watchFile(ctx context.Context, path string, follow bool, w io.Writer, opts outputOptions, lg *logging.LoggerCloser) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    follow,
		ReOpen:    follow,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	defer t.Cleanup()
	defer log.RecoverPanic("watch", func() { _ = t.Stop() })

	for {
		select {
		case <-ctx.Done():
			return t.Stop()
		case line, ok := <-t.Lines:
			if !ok {
				return t.Wait()
			}
			if line.Err != nil {
				lg.Warn("Tail error", "file", path, "error", line.Err)
				continue
			}
			text := strings.TrimSpace(line.Text)
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}

			name := fmt.Sprintf("%s:%d", path, line.Num)
			data, err := loader.DecodeHex(text)
			if err != nil {
				lg.Error("Skipping line", "line", name, "error", err)
				continue
			}
			p, err := decode(data, name)
			if err != nil {
				lg.Error("Skipping line", "line", name, "error", err)
				continue
			}
			lg.Info("Decoded program", "line", name, "program", p.ID.String())
			if err := writeProgram(w, p, data, opts); err != nil {
				return err
			}
		}
	}
}
