package streamkit

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// FacadeOption represents a configuration option for a Reader or Writer
type FacadeOption func(*FacadeOptions)

// FacadeOptions contains all possible options for the typed façades
type FacadeOptions struct {
	// ByteOrder is used for fixed-width values and length prefixes.
	// Defaults to little-endian.
	ByteOrder binary.ByteOrder

	// MaxLength caps the payload of length-prefixed reads and writes.
	// Zero means the prefix type's range is the only limit.
	MaxLength uint64
}

func defaultFacadeOptions() FacadeOptions {
	return FacadeOptions{ByteOrder: binary.LittleEndian}
}

// WithByteOrder sets the byte order of fixed-width values
func WithByteOrder(order binary.ByteOrder) FacadeOption {
	return func(o *FacadeOptions) {
		if order != nil {
			o.ByteOrder = order
		}
	}
}

// WithMaxLength caps length-prefixed payloads
func WithMaxLength(n uint64) FacadeOption {
	return func(o *FacadeOptions) {
		o.MaxLength = n
	}
}

// ParseByteOrder parses "little", "big" or "native".
func ParseByteOrder(name string) (binary.ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "little", "le", "little-endian":
		return binary.LittleEndian, nil
	case "big", "be", "big-endian":
		return binary.BigEndian, nil
	case "native":
		return binary.NativeEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order: %s", name)
	}
}
