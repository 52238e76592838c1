package streamkit

import (
	"encoding/base64"
	"fmt"
	"sort"
	"sync"
)

// DeviceFactory creates a device for target from a config
type DeviceFactory func(cfg *Config, target string, mode OpenMode) (Component, error)

// FilterFactory creates an unbound filter from a config
type FilterFactory func(cfg *Config) (Filter, error)

var (
	deviceFactories = make(map[string]DeviceFactory)
	filterFactories = make(map[string]FilterFactory)
	factoryMutex    sync.RWMutex
)

// RegisterDevice registers a device factory function
func RegisterDevice(name string, factory DeviceFactory) {
	factoryMutex.Lock()
	defer factoryMutex.Unlock()
	deviceFactories[name] = factory
}

// RegisterFilter registers a filter factory function
func RegisterFilter(name string, factory FilterFactory) {
	factoryMutex.Lock()
	defer factoryMutex.Unlock()
	filterFactories[name] = factory
}

// CreateDevice creates a device instance from config
func CreateDevice(cfg *Config, target string, mode OpenMode) (Component, error) {
	factoryMutex.RLock()
	factory, exists := deviceFactories[cfg.Device]
	factoryMutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("device %s not registered", cfg.Device)
	}

	return factory(cfg, target, mode)
}

// CreateFilter creates a filter instance from config
func CreateFilter(name string, cfg *Config) (Filter, error) {
	factoryMutex.RLock()
	factory, exists := filterFactories[name]
	factoryMutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("filter %s not registered", name)
	}

	return factory(cfg)
}

// RegisteredDevices returns the names of all registered devices, sorted
func RegisteredDevices() []string {
	factoryMutex.RLock()
	defer factoryMutex.RUnlock()
	names := make([]string, 0, len(deviceFactories))
	for name := range deviceFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisteredFilters returns the names of all registered filters, sorted
func RegisteredFilters() []string {
	factoryMutex.RLock()
	defer factoryMutex.RUnlock()
	names := make([]string, 0, len(filterFactories))
	for name := range filterFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterFilter("seek-offset", func(cfg *Config) (Filter, error) {
		return NewSeekOffset(cfg.SeekOffset), nil
	})
	RegisterFilter("compress", func(cfg *Config) (Filter, error) {
		codec, err := ParseCodec(cfg.CompressionCodec)
		if err != nil {
			return nil, err
		}
		return NewCompress(WithCodec(codec), WithLevel(cfg.CompressionLevel)), nil
	})
	RegisterFilter("lines", func(cfg *Config) (Filter, error) {
		opts := []LineOption{WithMaxLineLength(cfg.MaxLineLength)}
		if cfg.LineDelimiter != "" {
			if len(cfg.LineDelimiter) != 1 {
				return nil, fmt.Errorf("line delimiter must be a single byte: %q", cfg.LineDelimiter)
			}
			opts = append(opts, WithDelimiter(cfg.LineDelimiter[0]))
		}
		return NewLines(opts...), nil
	})
	RegisterFilter("checksum", func(cfg *Config) (Filter, error) {
		algo, err := ParseChecksumAlgorithm(cfg.ChecksumAlgorithm)
		if err != nil {
			return nil, err
		}
		return NewChecksum(algo), nil
	})
	RegisterFilter("encrypt", func(cfg *Config) (Filter, error) {
		key, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		return NewEncryption(key)
	})
	RegisterFilter("read-only", func(cfg *Config) (Filter, error) {
		return NewReadOnly(), nil
	})
	RegisterFilter("meter", func(cfg *Config) (Filter, error) {
		return NewMeter(cfg.Device), nil
	})
}
