// Package config supplies the tunables a connection is built from:
// transport chunking, request queue sizing, pipelining depth, timeouts
// and credentials. Values load from YAML with zero fields falling back
// to defaults.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/graphwire/bolt/chunk"
	"github.com/graphwire/bolt/errors"
)

const (
	// DefaultChunkSize matches a bufio reader's default buffer.
	DefaultChunkSize = 4096
	// DefaultQueueSize bounds how many requests may be queued per
	// connection before submission fails fast.
	DefaultQueueSize = 64
	// DefaultMaxPipelined bounds how many requests may be in flight at
	// once.
	DefaultMaxPipelined = 16
	// DefaultTimeout applies to every read and write on the socket.
	DefaultTimeout = 10 * time.Second
)

// Duration is a time.Duration that loads from YAML in the "5s" / "250ms"
// string form as well as raw nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return errors.Wrap(err, "Couldn't parse duration %q", s)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := node.Decode(&n); err != nil {
		return errors.Wrap(err, "Couldn't parse duration")
	}
	*d = Duration(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Auth carries the credentials presented in the INIT exchange.
type Auth struct {
	Scheme      string `yaml:"scheme"`
	Principal   string `yaml:"principal"`
	Credentials string `yaml:"credentials"`
}

// Config holds connection settings.
type Config struct {
	Addr             string        `yaml:"addr"`
	MinChunkSize     int           `yaml:"min_chunk_size"`
	MaxChunkSize     int           `yaml:"max_chunk_size"`
	RequestQueueSize int           `yaml:"request_queue_size"`
	MaxPipelined     int           `yaml:"max_pipelined_requests"`
	Timeout          Duration      `yaml:"timeout"`
	LogLevel         string        `yaml:"log_level"`
	Auth             Auth          `yaml:"auth"`
}

// Default returns a config with every tunable at its default.
func Default() *Config {
	return &Config{
		MinChunkSize:     DefaultChunkSize,
		MaxChunkSize:     DefaultChunkSize,
		RequestQueueSize: DefaultQueueSize,
		MaxPipelined:     DefaultMaxPipelined,
		Timeout:          Duration(DefaultTimeout),
	}
}

// Load reads a YAML config file, filling unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Couldn't read config file %s", path)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "Couldn't parse config file %s", path)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.MinChunkSize == 0 && c.MaxChunkSize == 0 {
		c.MinChunkSize = d.MinChunkSize
		c.MaxChunkSize = d.MaxChunkSize
	}
	if c.MaxChunkSize == 0 {
		c.MaxChunkSize = d.MaxChunkSize
	}
	if c.RequestQueueSize == 0 {
		c.RequestQueueSize = d.RequestQueueSize
	}
	if c.MaxPipelined == 0 {
		c.MaxPipelined = d.MaxPipelined
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
}

// Validate rejects configs the transport cannot honor.
func (c *Config) Validate() error {
	if c.MaxChunkSize < 0 || c.MaxChunkSize > chunk.MaxChunkSize {
		return errors.New("max_chunk_size %d out of range [1, %d]", c.MaxChunkSize, chunk.MaxChunkSize)
	}
	if c.MinChunkSize < 0 || c.MinChunkSize > c.MaxChunkSize {
		return errors.New("min_chunk_size %d out of range [0, %d]", c.MinChunkSize, c.MaxChunkSize)
	}
	if c.RequestQueueSize < 1 {
		return errors.New("request_queue_size must be positive, got %d", c.RequestQueueSize)
	}
	if c.MaxPipelined < 1 {
		return errors.New("max_pipelined_requests must be positive, got %d", c.MaxPipelined)
	}
	return nil
}
