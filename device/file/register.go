package file

import "github.com/gobeaver/streamkit"

func init() {
	streamkit.RegisterDevice("file", func(cfg *streamkit.Config, target string, mode streamkit.OpenMode) (streamkit.Component, error) {
		fmode, err := streamkit.ParseFileMode(cfg.FileMode)
		if err != nil {
			return nil, err
		}
		opts := []Option{WithBufferSize(cfg.FileBufferSize)}
		if cfg.FileExclusive {
			opts = append(opts, WithExclusive())
		}
		return Open(target, mode, fmode, opts...)
	})
}
