package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gobeaver/streamkit"
	"github.com/gobeaver/streamkit/device/file"
)

func newPackCommand(opts *options) *cobra.Command {
	var (
		codec    string
		level    int
		checksum string
	)

	cmd := &cobra.Command{
		Use:   "pack <in> <out>",
		Short: "Compress a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if codec == "" {
				codec = opts.cfg.CompressionCodec
			}
			if !cmd.Flags().Changed("level") {
				level = opts.cfg.CompressionLevel
			}
			return runPack(cmd.OutOrStdout(), args[0], args[1], codec, level, checksum)
		},
	}

	cmd.Flags().StringVar(&codec, "codec", "", "Compression codec (zlib, gzip, zstd, deflate)")
	cmd.Flags().IntVar(&level, "level", streamkit.DefaultCompressionLevel, "Compression level")
	cmd.Flags().StringVar(&checksum, "checksum", "", "Print a checksum of the input with this algorithm")
	return cmd
}

func runPack(out io.Writer, in, dst, codecName string, level int, checksum string) (err error) {
	codec, err := streamkit.ParseCodec(codecName)
	if err != nil {
		return err
	}
	var sum *streamkit.Checksum
	if checksum != "" {
		algo, err := streamkit.ParseChecksumAlgorithm(checksum)
		if err != nil {
			return err
		}
		sum = streamkit.NewChecksum(algo)
	}

	src, err := file.OpenSource(in, streamkit.Binary)
	if err != nil {
		return err
	}
	defer src.Close()

	sink, err := file.OpenSink(dst, streamkit.Binary)
	if err != nil {
		return err
	}

	filters := []streamkit.Filter{streamkit.NewCompress(streamkit.WithCodec(codec), streamkit.WithLevel(level))}
	if sum != nil {
		filters = append(filters, sum)
	}

	p, err := streamkit.Pipe(sink, filters...)
	if err != nil {
		_ = sink.Close()
		return err
	}
	defer closeAll(p, &err)

	n, err := io.Copy(p, src)
	if err != nil {
		return fmt.Errorf("pack %s: %w", in, err)
	}
	if sum != nil {
		digest, err := sum.Sum(sum.Algorithms()[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  %s\n", digest, in)
	}
	streamkit.Logger().Info("packed", "in", in, "out", dst, "codec", codec, "bytes", n)
	return nil
}
