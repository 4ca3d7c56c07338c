package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/solipsim/solipsim/sim"
)

// Config describes a deterministic echo workload: one server listening at
// (Host, Port) and a set of clients exchanging random-sized messages with
// it, all on a single virtual-time loop.
type Config struct {
	Seed     int64          `yaml:"seed"`
	Host     string         `yaml:"host"`
	Port     int            `yaml:"port"`
	Capacity int            `yaml:"capacity"` // per-direction pipe capacity; 0 = default
	Clients  []ClientConfig `yaml:"clients"`
}

// ClientConfig describes one client's side of the workload.
type ClientConfig struct {
	Name      string `yaml:"name"`
	Messages  int    `yaml:"messages"`
	MinBytes  int    `yaml:"min_bytes"`
	MaxBytes  int    `yaml:"max_bytes"`
	GapMicros int64  `yaml:"gap_micros"` // virtual pause between echo round-trips
}

// Load reads and validates a YAML scenario file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in scenario used when no config file is given:
// two clients, five messages each, modest sizes.
func Default() *Config {
	return &Config{
		Seed: 1,
		Host: "server",
		Port: 8080,
		Clients: []ClientConfig{
			{Name: "alpha", Messages: 5, MinBytes: 16, MaxBytes: 256, GapMicros: 1000},
			{Name: "beta", Messages: 5, MinBytes: 16, MaxBytes: 256, GapMicros: 1500},
		},
	}
}

// Validate rejects configurations the runner cannot execute.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("scenario: host must not be empty")
	}
	if c.Port < 0 {
		return fmt.Errorf("scenario: port must be >= 0")
	}
	if len(c.Clients) == 0 {
		return fmt.Errorf("scenario: at least one client required")
	}
	capacity := c.Capacity
	if capacity <= 0 {
		capacity = sim.DefaultCapacity
	}
	seen := make(map[string]bool, len(c.Clients))
	for _, cc := range c.Clients {
		if cc.Name == "" {
			return fmt.Errorf("scenario: client name must not be empty")
		}
		if seen[cc.Name] {
			return fmt.Errorf("scenario: duplicate client name %q", cc.Name)
		}
		seen[cc.Name] = true
		if cc.Messages <= 0 {
			return fmt.Errorf("scenario: client %q: messages must be > 0", cc.Name)
		}
		if cc.MinBytes <= 0 || cc.MaxBytes < cc.MinBytes {
			return fmt.Errorf("scenario: client %q: need 0 < min_bytes <= max_bytes", cc.Name)
		}
		if cc.MaxBytes > capacity {
			return fmt.Errorf("scenario: client %q: max_bytes %d exceeds pipe capacity %d", cc.Name, cc.MaxBytes, capacity)
		}
		if cc.GapMicros < 0 {
			return fmt.Errorf("scenario: client %q: gap_micros must be >= 0", cc.Name)
		}
	}
	return nil
}
