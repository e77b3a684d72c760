package config

import (
	"fmt"
	"net/netip"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the data structure of our user provided yaml
// configuration. Bounds are validated on load so the scan engine can
// assume every field is usable as-is.
type Config struct {
	IP         string `yaml:"ip"`
	StartPort  int    `yaml:"start_port"`
	EndPort    int    `yaml:"end_port"`
	MaxThreads int    `yaml:"max_threads"`
	Language   string `yaml:"language"`
}

// New returns unmarshaled and validated data structure of user
// provided config
func New(confPath string) (*Config, error) {
	var config Config

	raw, err := os.ReadFile(confPath)

	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(raw, &config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns a default configuration scanning the well-known
// port range on loopback
func Default() *Config {
	return &Config{
		IP:         "127.0.0.1",
		StartPort:  1,
		EndPort:    1024,
		MaxThreads: 50,
		Language:   "en",
	}
}

// Validate checks all config fields against their allowed bounds
func (c *Config) Validate() error {
	if _, err := netip.ParseAddr(c.IP); err != nil {
		return fmt.Errorf("invalid ip address %q: %w", c.IP, err)
	}

	if c.StartPort < 1 || c.StartPort > 65535 {
		return fmt.Errorf("start_port must be in [1, 65535]: got %d", c.StartPort)
	}

	if c.EndPort < 1 || c.EndPort > 65535 {
		return fmt.Errorf("end_port must be in [1, 65535]: got %d", c.EndPort)
	}

	if c.StartPort > c.EndPort {
		return fmt.Errorf("start_port %d exceeds end_port %d", c.StartPort, c.EndPort)
	}

	if c.MaxThreads < 1 || c.MaxThreads > 1000 {
		return fmt.Errorf("max_threads must be in [1, 1000]: got %d", c.MaxThreads)
	}

	return nil
}

// Addr returns the parsed target address. Only valid after Validate
// has passed.
func (c *Config) Addr() netip.Addr {
	addr, _ := netip.ParseAddr(c.IP)
	return addr
}

// Ports expands the configured inclusive range into an ascending list
// of ports to scan
func (c *Config) Ports() []uint16 {
	ports := make([]uint16, 0, c.EndPort-c.StartPort+1)

	for p := c.StartPort; p <= c.EndPort; p++ {
		ports = append(ports, uint16(p))
	}

	return ports
}
