package host

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hidio-go/hidio/host/transport"
	"github.com/hidio-go/hidio/protocol"
)

// Config is the on-disk configuration for hidio-hostd: which serial
// device to open, how the wire is framed, and how verbosely to log.
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Wire   WireConfig   `yaml:"wire"`
	LogLevel string     `yaml:"log_level"`
}

// SerialConfig mirrors transport.SerialConfig in a YAML-friendly shape
// (time.Duration doesn't round-trip through YAML as milliseconds).
type SerialConfig struct {
	Device        string `yaml:"device"`
	Baud          int    `yaml:"baud"`
	ReadTimeoutMS int    `yaml:"read_timeout_ms"`
}

// WireConfig mirrors the construction-time parameters of protocol.Config.
type WireConfig struct {
	ChunkSize         int `yaml:"chunk_size"`
	MaxMessageSize    int `yaml:"max_message_size"`
	MaxOutstanding    int `yaml:"max_outstanding"`
	SyncIntervalMS    int `yaml:"sync_interval_ms"`
	SendTimeoutMS     int `yaml:"send_timeout_ms"`
}

// DefaultConfig returns the configuration used when no file is supplied
// or a file leaves a field zero-valued.
func DefaultConfig(device string) *Config {
	return &Config{
		Serial: SerialConfig{
			Device:        device,
			Baud:          115200,
			ReadTimeoutMS: 200,
		},
		Wire: WireConfig{
			ChunkSize:      64,
			MaxMessageSize: 4096,
			MaxOutstanding: 16,
			SyncIntervalMS: 2000,
			SendTimeoutMS:  2000,
		},
		LogLevel: "info",
	}
}

// LoadConfig reads and parses a YAML configuration file, filling in
// defaults for any field the file left unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("host: read config %s: %w", path, err)
	}

	cfg := DefaultConfig("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("host: parse config %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills in any zero-valued field left over after parsing,
// the same way a hand-edited config with only a couple of overrides is
// expected to work.
func applyDefaults(cfg *Config) {
	defaults := DefaultConfig(cfg.Serial.Device)
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = defaults.Serial.Baud
	}
	if cfg.Serial.ReadTimeoutMS == 0 {
		cfg.Serial.ReadTimeoutMS = defaults.Serial.ReadTimeoutMS
	}
	if cfg.Wire.ChunkSize == 0 {
		cfg.Wire.ChunkSize = defaults.Wire.ChunkSize
	}
	if cfg.Wire.MaxMessageSize == 0 {
		cfg.Wire.MaxMessageSize = defaults.Wire.MaxMessageSize
	}
	if cfg.Wire.MaxOutstanding == 0 {
		cfg.Wire.MaxOutstanding = defaults.Wire.MaxOutstanding
	}
	if cfg.Wire.SyncIntervalMS == 0 {
		cfg.Wire.SyncIntervalMS = defaults.Wire.SyncIntervalMS
	}
	if cfg.Wire.SendTimeoutMS == 0 {
		cfg.Wire.SendTimeoutMS = defaults.Wire.SendTimeoutMS
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
}

// SerialTransportConfig converts the YAML-friendly SerialConfig into the
// transport package's config, with the wire chunk size folded in (the two
// must agree: the serial endpoint and the framer operate on the same
// chunk).
func (c *Config) SerialTransportConfig() transport.SerialConfig {
	return transport.SerialConfig{
		Device:      c.Serial.Device,
		Baud:        c.Serial.Baud,
		ReadTimeout: time.Duration(c.Serial.ReadTimeoutMS) * time.Millisecond,
		ChunkSize:   c.Wire.ChunkSize,
	}
}

// ProtocolConfig converts the YAML-friendly WireConfig into the shared
// protocol.Config the Decoder and Dispatcher are constructed from.
func (c *Config) ProtocolConfig() protocol.Config {
	return protocol.Config{
		ChunkSize:      c.Wire.ChunkSize,
		MaxMessageSize: c.Wire.MaxMessageSize,
		MaxOutstanding: c.Wire.MaxOutstanding,
		SyncInterval:   time.Duration(c.Wire.SyncIntervalMS) * time.Millisecond,
		SendTimeout:    time.Duration(c.Wire.SendTimeoutMS) * time.Millisecond,
	}
}
