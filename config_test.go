package streamkit

import (
	"os"
	"testing"
)

func TestGetConfig(t *testing.T) {
	defaults := Config{
		Device:            "file",
		FileMode:          "binary",
		FileBufferSize:    65536,
		CompressionCodec:  "zlib",
		CompressionLevel:  -1,
		ChecksumAlgorithm: "xxhash",
		ByteOrder:         "little",
		LogLevel:          "info",
	}

	tests := []struct {
		name    string
		envVars map[string]string
		want    func(c *Config)
	}{
		{
			name:    "default values",
			envVars: map[string]string{},
			want:    func(c *Config) {},
		},
		{
			name: "memory device",
			envVars: map[string]string{
				"BEAVER_STREAMKIT_DEVICE":          "memory",
				"BEAVER_STREAMKIT_MEMORY_MAX_SIZE": "1048576",
			},
			want: func(c *Config) {
				c.Device = "memory"
				c.MemoryMaxSize = 1048576
			},
		},
		{
			name: "file device options",
			envVars: map[string]string{
				"BEAVER_STREAMKIT_FILE_MODE":        "text",
				"BEAVER_STREAMKIT_FILE_BUFFER_SIZE": "4096",
				"BEAVER_STREAMKIT_FILE_EXCLUSIVE":   "true",
			},
			want: func(c *Config) {
				c.FileMode = "text"
				c.FileBufferSize = 4096
				c.FileExclusive = true
			},
		},
		{
			name: "filter chain",
			envVars: map[string]string{
				"BEAVER_STREAMKIT_FILTERS":            "seek-offset,compress,checksum",
				"BEAVER_STREAMKIT_SEEK_OFFSET":        "128",
				"BEAVER_STREAMKIT_COMPRESSION_CODEC":  "zstd",
				"BEAVER_STREAMKIT_COMPRESSION_LEVEL":  "9",
				"BEAVER_STREAMKIT_CHECKSUM_ALGORITHM": "sha256",
				"BEAVER_STREAMKIT_LINE_DELIMITER":     ";",
				"BEAVER_STREAMKIT_MAX_LINE_LENGTH":    "80",
			},
			want: func(c *Config) {
				c.Filters = "seek-offset,compress,checksum"
				c.SeekOffset = 128
				c.CompressionCodec = "zstd"
				c.CompressionLevel = 9
				c.ChecksumAlgorithm = "sha256"
				c.LineDelimiter = ";"
				c.MaxLineLength = 80
			},
		},
		{
			name: "encryption and facade settings",
			envVars: map[string]string{
				"BEAVER_STREAMKIT_ENCRYPTION_KEY":      "dGVzdC1rZXktdGVzdC1rZXktdGVzdC1rZXk=",
				"BEAVER_STREAMKIT_BYTE_ORDER":          "big",
				"BEAVER_STREAMKIT_MAX_PREFIXED_LENGTH": "65536",
				"BEAVER_STREAMKIT_LOG_LEVEL":           "debug",
			},
			want: func(c *Config) {
				c.EncryptionKey = "dGVzdC1rZXktdGVzdC1rZXktdGVzdC1rZXk="
				c.ByteOrder = "big"
				c.MaxPrefixedLength = 65536
				c.LogLevel = "debug"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Set environment variables
			for k, v := range tt.envVars {
				k := k // capture for closure
				os.Setenv(k, v)
				t.Cleanup(func() { os.Unsetenv(k) })
			}

			cfg, err := GetConfig()
			if err != nil {
				t.Fatalf("GetConfig() error = %v", err)
			}

			want := defaults
			tt.want(&want)
			if *cfg != want {
				t.Errorf("GetConfig() = %+v, want %+v", *cfg, want)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, s := range []string{"", "info", "DEBUG", "warn", "error"} {
		if _, err := ParseLogLevel(s); err != nil {
			t.Errorf("ParseLogLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLogLevel("chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}
