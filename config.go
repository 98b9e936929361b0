package settle

import (
	"fmt"
	"os"
	"time"
)

// Config is the serializable form of a Validator's instance configuration.
//
//	delay: 300ms
//	negate: true
//	max_cache_size: 100
type Config struct {
	// Delay is a time.ParseDuration string. Empty keeps DefaultDelay;
	// negative durations clamp to zero.
	Delay string `yaml:"delay" json:"delay" validate:"duration"`

	// Negate inverts the predicate's outcome.
	Negate bool `yaml:"negate" json:"negate"`

	// MaxCacheSize bounds the result cache. Zero keeps DefaultMaxCacheSize.
	MaxCacheSize int `yaml:"max_cache_size" json:"max_cache_size" validate:"gte=0"`
}

// ParseConfig decodes and validates a configuration document.
func ParseConfig(data []byte, codec Codec) (Config, error) {
	var cfg Config
	if err := codec.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding %s config: %w", codec.ContentType(), err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses a configuration file, choosing the codec from
// its extension.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // caller-supplied path
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data, CodecFor(path))
}

// delay returns the parsed delay, or DefaultDelay when unset.
func (c Config) delay() time.Duration {
	if c.Delay == "" {
		return DefaultDelay
	}
	d, err := time.ParseDuration(c.Delay)
	if err != nil {
		return DefaultDelay
	}
	return d
}
