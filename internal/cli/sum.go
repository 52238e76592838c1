package cli

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/gobeaver/streamkit"
	"github.com/gobeaver/streamkit/device/file"
)

func newSumCommand(opts *options) *cobra.Command {
	var (
		algo  string
		match string
	)

	cmd := &cobra.Command{
		Use:   "sum <path>...",
		Short: "Print checksums of files; directories are walked",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if algo == "" {
				algo = opts.cfg.ChecksumAlgorithm
			}
			return runSum(cmd.OutOrStdout(), args, algo, match)
		},
	}

	cmd.Flags().StringVar(&algo, "algo", "", "Checksum algorithm (md5, sha1, sha256, sha512, crc32, xxhash, blake2b)")
	cmd.Flags().StringVar(&match, "match", "", "Only sum files whose path relative to the walked directory matches this glob")
	return cmd
}

func runSum(out io.Writer, paths []string, algoName, match string) error {
	algo, err := streamkit.ParseChecksumAlgorithm(algoName)
	if err != nil {
		return err
	}

	var g glob.Glob
	if match != "" {
		if g, err = glob.Compile(match, '/'); err != nil {
			return fmt.Errorf("invalid match pattern: %w", err)
		}
	}

	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if g != nil && path != root {
				rel, err := filepath.Rel(root, path)
				if err != nil {
					return err
				}
				if !g.Match(filepath.ToSlash(rel)) {
					return nil
				}
			}
			digest, err := sumFile(path, algo)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %s\n", digest, path)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func sumFile(path string, algo streamkit.ChecksumAlgorithm) (digest string, err error) {
	src, err := file.OpenSource(path, streamkit.Binary)
	if err != nil {
		return "", err
	}
	sum := streamkit.NewChecksum(algo)
	p, err := streamkit.Pipe(src, sum)
	if err != nil {
		_ = src.Close()
		return "", err
	}
	defer closeAll(p, &err)

	if _, err := io.Copy(io.Discard, p); err != nil {
		return "", err
	}
	return sum.Sum(algo)
}
