package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"os"

	"github.com/dacapoday/membuf"
	"github.com/dacapoday/membuf/alloc"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

// Config holds the pack settings.
type Config struct {
	// Allocator is heap, pool or mmap.
	Allocator string `yaml:"allocator,omitempty"`

	// Limit caps the memory held by buffers, e.g. "512MiB". Empty is unlimited.
	Limit string `yaml:"limit,omitempty"`

	// Initial is the initial output capacity, e.g. "64KiB".
	Initial string `yaml:"initial,omitempty"`

	Zstd  bool `yaml:"zstd,omitempty"`
	Level int  `yaml:"level,omitempty"`

	// Suite is none, crc32 or aes-256-gcm.
	Suite string `yaml:"suite,omitempty"`

	// KeyFile holds the aes-256-gcm key as 32 raw bytes or 64 hex digits.
	KeyFile string `yaml:"key_file,omitempty"`
}

func defaultConfig() Config {
	return Config{
		Allocator: "heap",
		Initial:   "64KiB",
		Level:     3,
		Suite:     "crc32",
	}
}

// loadConfig returns the defaults overlaid with the YAML file at path, if any.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// override copies the flags the user set on cmd into cfg.
func (c *Config) override(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("allocator") {
		c.Allocator, _ = flags.GetString("allocator")
	}
	if flags.Changed("limit") {
		c.Limit, _ = flags.GetString("limit")
	}
	if flags.Changed("initial") {
		c.Initial, _ = flags.GetString("initial")
	}
	if flags.Changed("zstd") {
		c.Zstd, _ = flags.GetBool("zstd")
	}
	if flags.Changed("level") {
		c.Level, _ = flags.GetInt("level")
	}
	if flags.Changed("suite") {
		c.Suite, _ = flags.GetString("suite")
	}
	if flags.Changed("key-file") {
		c.KeyFile, _ = flags.GetString("key-file")
	}
}

func (c *Config) allocator() (membuf.Allocator, error) {
	var a membuf.Allocator
	switch c.Allocator {
	case "", "heap":
		a = alloc.Heap{}
	case "pool":
		a = new(alloc.Pool)
	case "mmap":
		a = alloc.Mmap{}
	default:
		return nil, fmt.Errorf("unknown allocator %q", c.Allocator)
	}
	if c.Limit == "" {
		return a, nil
	}
	limit, err := parseSize("limit", c.Limit)
	if err != nil {
		return nil, err
	}
	return alloc.NewLimit(a, int64(limit)), nil
}

func (c *Config) initialCapacity() (int, error) {
	if c.Initial == "" {
		return 0, nil
	}
	return parseSize("initial", c.Initial)
}

func (c *Config) key() ([]byte, error) {
	if c.KeyFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	if text := bytes.TrimSpace(data); len(text) == 64 {
		key := make([]byte, 32)
		if _, err := hex.Decode(key, text); err == nil {
			return key, nil
		}
	}
	return data, nil
}

func parseSize(name, s string) (int, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if n > math.MaxInt {
		return 0, fmt.Errorf("%s: %s is too large", name, s)
	}
	return int(n), nil
}
