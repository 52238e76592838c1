package memory

import "github.com/gobeaver/streamkit"

func init() {
	streamkit.RegisterDevice("memory", func(cfg *streamkit.Config, target string, mode streamkit.OpenMode) (streamkit.Component, error) {
		return New(Config{MaxSize: cfg.MemoryMaxSize}), nil
	})
}
