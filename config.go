package streamkit

import (
	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Default device to open (file, memory)
	Device string `env:"STREAMKIT_DEVICE,default:file"`

	// File device configuration
	FileMode       string `env:"STREAMKIT_FILE_MODE,default:binary"` // binary or text
	FileBufferSize int    `env:"STREAMKIT_FILE_BUFFER_SIZE,default:65536"`
	FileExclusive  bool   `env:"STREAMKIT_FILE_EXCLUSIVE,default:false"`

	// Memory device configuration
	MemoryMaxSize int64 `env:"STREAMKIT_MEMORY_MAX_SIZE"` // 0 = unlimited

	// Filters applied innermost first, comma-separated
	// (seek-offset, compress, lines, checksum, encrypt, read-only, meter)
	Filters string `env:"STREAMKIT_FILTERS"`

	// Compression filter
	CompressionCodec string `env:"STREAMKIT_COMPRESSION_CODEC,default:zlib"`
	CompressionLevel int    `env:"STREAMKIT_COMPRESSION_LEVEL,default:-1"`

	// Checksum filter
	ChecksumAlgorithm string `env:"STREAMKIT_CHECKSUM_ALGORITHM,default:xxhash"`

	// Seek-offset filter
	SeekOffset int64 `env:"STREAMKIT_SEEK_OFFSET"`

	// Line filter
	LineDelimiter string `env:"STREAMKIT_LINE_DELIMITER"` // single byte, default newline
	MaxLineLength int    `env:"STREAMKIT_MAX_LINE_LENGTH"`

	// Encryption filter
	EncryptionKey string `env:"STREAMKIT_ENCRYPTION_KEY"` // base64, 32 bytes

	// Façade settings
	ByteOrder         string `env:"STREAMKIT_BYTE_ORDER,default:little"`
	MaxPrefixedLength int64  `env:"STREAMKIT_MAX_PREFIXED_LENGTH"`

	// Logging
	LogLevel string `env:"STREAMKIT_LOG_LEVEL,default:info"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
