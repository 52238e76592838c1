package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gobeaver/streamkit"
	"github.com/gobeaver/streamkit/device/file"
)

func newCatCommand(opts *options) *cobra.Command {
	var (
		lines  bool
		offset int64
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "cat <file>",
		Short: "Print a file, optionally from an offset or line by line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if follow && offset != 0 {
				return errors.New("--offset cannot be combined with --follow")
			}

			var (
				dev streamkit.Component
				err error
			)
			if follow {
				dev, err = file.Follow(cmd.Context(), args[0])
			} else {
				dev, err = file.OpenSource(args[0], streamkit.Binary)
			}
			if err != nil {
				return err
			}
			return runCat(cmd.OutOrStdout(), dev, offset, lines, opts.cfg.MaxLineLength)
		},
	}

	cmd.Flags().BoolVar(&lines, "lines", false, "Read line by line and number the output")
	cmd.Flags().Int64Var(&offset, "offset", 0, "Start reading at this byte offset")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep reading as the file grows")
	return cmd
}

func runCat(out io.Writer, dev streamkit.Component, offset int64, lines bool, maxLine int) (err error) {
	var (
		filters []streamkit.Filter
		shift   *streamkit.SeekOffset
	)
	if offset != 0 {
		shift = streamkit.NewSeekOffset(offset)
		filters = append(filters, shift)
	}
	if lines {
		filters = append(filters, streamkit.NewLines(streamkit.WithMaxLineLength(maxLine)))
	}

	p, err := streamkit.Pipe(dev, filters...)
	if err != nil {
		if c, ok := dev.(io.Closer); ok {
			_ = c.Close()
		}
		return err
	}
	defer closeAll(p, &err)

	if shift != nil {
		// Position 0 of the shifted link is offset in the file.
		if _, err := shift.SeekG(0, streamkit.SeekBegin); err != nil {
			return err
		}
	}

	if !lines {
		_, err = io.Copy(out, p)
		return err
	}

	r := streamkit.NewReader(p)
	for n := 1; ; n++ {
		line, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%6d\t%s\n", n, line)
	}
}
