package streamkit

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gobeaver/beaver-kit/config"
)

// Builder loads configuration with a custom environment prefix
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Config loads the configuration using the builder's prefix
func (b *Builder) Config() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Open opens target using the builder's prefix
func (b *Builder) Open(target string, mode OpenMode) (*Pipeline, error) {
	cfg, err := b.Config()
	if err != nil {
		return nil, err
	}
	return Open(cfg, target, mode)
}

// Open creates the configured device for target and binds the configured
// filters around it, innermost first.
func Open(cfg *Config, target string, mode OpenMode) (*Pipeline, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dev, err := CreateDevice(cfg, target, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	names := FilterNames(cfg)
	filters := make([]Filter, 0, len(names))
	for _, name := range names {
		f, err := CreateFilter(name, cfg)
		if err != nil {
			closeQuietly(dev)
			return nil, fmt.Errorf("failed to create filter: %w", err)
		}
		filters = append(filters, f)
	}

	p, err := Pipe(dev, filters...)
	if err != nil {
		closeQuietly(dev)
		return nil, err
	}
	return p, nil
}

// OpenFromEnv opens target with configuration from environment variables
func OpenFromEnv(target string, mode OpenMode) (*Pipeline, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return Open(cfg, target, mode)
}

// FilterNames splits the configured filter list.
func FilterNames(cfg *Config) []string {
	var names []string
	for _, name := range strings.Split(cfg.Filters, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// FacadeOptionsFrom returns the façade options described by cfg.
func FacadeOptionsFrom(cfg *Config) ([]FacadeOption, error) {
	order, err := ParseByteOrder(cfg.ByteOrder)
	if err != nil {
		return nil, err
	}
	opts := []FacadeOption{WithByteOrder(order)}
	if cfg.MaxPrefixedLength > 0 {
		opts = append(opts, WithMaxLength(uint64(cfg.MaxPrefixedLength)))
	}
	return opts, nil
}

// validateConfig checks configuration validity
func validateConfig(cfg *Config) error {
	if cfg.Device == "" {
		return errors.New("device is required")
	}

	if _, err := ParseFileMode(cfg.FileMode); err != nil {
		return err
	}
	if cfg.FileBufferSize < 0 {
		return errors.New("file buffer size must not be negative")
	}
	if _, err := ParseByteOrder(cfg.ByteOrder); err != nil {
		return err
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	for _, name := range FilterNames(cfg) {
		switch name {
		case "compress":
			if _, err := ParseCodec(cfg.CompressionCodec); err != nil {
				return err
			}
		case "checksum":
			if _, err := ParseChecksumAlgorithm(cfg.ChecksumAlgorithm); err != nil {
				return err
			}
		case "encrypt":
			key, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
			if err != nil {
				return fmt.Errorf("invalid encryption key: %w", err)
			}
			if len(key) != EncryptionKeySize {
				return fmt.Errorf("encryption key must be %d bytes (got %d bytes)", EncryptionKeySize, len(key))
			}
		case "lines":
			if len(cfg.LineDelimiter) > 1 {
				return fmt.Errorf("line delimiter must be a single byte: %q", cfg.LineDelimiter)
			}
		}
	}

	return nil
}

func closeQuietly(c Component) {
	if closer, ok := c.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			Logger().Warn("close after failed open", "err", err)
		}
	}
}
