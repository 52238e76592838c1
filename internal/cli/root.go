// Package cli implements the streamkit command line.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gobeaver/streamkit"
	_ "github.com/gobeaver/streamkit/device/file"
	_ "github.com/gobeaver/streamkit/device/memory"
)

// options is shared by every subcommand.
type options struct {
	cfg   *streamkit.Config
	debug bool
}

// NewRootCommand builds the streamkit command tree. Defaults for codec,
// level, checksum algorithm and log level come from BEAVER_STREAMKIT_*
// environment variables.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "streamkit",
		Short:         "Compress, checksum and inspect byte streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := streamkit.GetConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts.cfg = cfg

			level, err := streamkit.ParseLogLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			if opts.debug {
				level = slog.LevelDebug
			}
			streamkit.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newPackCommand(opts),
		newUnpackCommand(opts),
		newSumCommand(opts),
		newCatCommand(opts),
	)
	return rootCmd
}

// closeAll closes p and reports the first error unless err is already set.
func closeAll(p *streamkit.Pipeline, err *error) {
	if cerr := p.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
