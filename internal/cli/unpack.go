package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gobeaver/streamkit"
	"github.com/gobeaver/streamkit/device/file"
)

func newUnpackCommand(opts *options) *cobra.Command {
	var codec string

	cmd := &cobra.Command{
		Use:   "unpack <in> <out>",
		Short: "Decompress a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnpack(args[0], args[1], codec)
		},
	}

	cmd.Flags().StringVar(&codec, "codec", "auto", "Compression codec (auto, zlib, gzip, zstd, deflate)")
	return cmd
}

func runUnpack(in, dst, codecName string) (err error) {
	src, err := file.OpenSource(in, streamkit.Binary)
	if err != nil {
		return err
	}

	var codec streamkit.Codec
	if codecName == "auto" {
		codec, err = sniffCodec(src)
		if err != nil {
			_ = src.Close()
			return err
		}
	} else if codec, err = streamkit.ParseCodec(codecName); err != nil {
		_ = src.Close()
		return err
	}

	p, err := streamkit.Pipe(src, streamkit.NewCompress(streamkit.WithCodec(codec)))
	if err != nil {
		_ = src.Close()
		return err
	}
	defer closeAll(p, &err)

	sink, err := file.OpenSink(dst, streamkit.Binary)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	n, err := io.Copy(sink, p)
	if err != nil {
		return fmt.Errorf("unpack %s: %w", in, err)
	}
	streamkit.Logger().Info("unpacked", "in", in, "out", dst, "codec", codec, "bytes", n)
	return nil
}

// sniffCodec detects the codec from the first bytes and rewinds src.
func sniffCodec(src *file.Source) (streamkit.Codec, error) {
	header := make([]byte, 4)
	n, err := io.ReadFull(src, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	codec, ok := streamkit.DetectCodec(header[:n])
	if !ok {
		return "", fmt.Errorf("%s: %w: unknown compression format", src.Path(), streamkit.ErrCorrupt)
	}
	if _, err := src.SeekG(0, streamkit.SeekBegin); err != nil {
		return "", err
	}
	return codec, nil
}
