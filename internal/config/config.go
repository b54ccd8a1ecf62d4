package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	units "github.com/docker/go-units"
	"github.com/natefinch/atomic"
	toml "github.com/pelletier/go-toml/v2"
	"mvdan.cc/sh/v3/shell"
)

// Config captures the user editable settings stored in leakrun.toml.
type Config struct {
	Image      string     `toml:"image" env:"LEAKRUN_IMAGE"`
	Buildfile  string     `toml:"buildfile" env:"LEAKRUN_BUILDFILE"`
	Context    string     `toml:"context"`
	ShmSize    string     `toml:"shm_size" env:"LEAKRUN_SHM_SIZE"`
	Entrypoint string     `toml:"entrypoint"`
	Engine     string     `toml:"engine" env:"LEAKRUN_ENGINE"`
	Hooks      HooksBlock `toml:"hooks"`
}

// HooksBlock describes optional shell commands around the launch sequence.
type HooksBlock struct {
	PreRun string `toml:"pre_run"`
}

var (
	// ErrInvalidImage indicates the image tag is not usable by an engine.
	ErrInvalidImage = errors.New("config.image must be lowercase with no whitespace")
	// ErrInvalidShmSize indicates shm_size is not a parseable RAM size.
	ErrInvalidShmSize = errors.New("config.shm_size must be a size like 256m or 1g")
	// ErrEmptyEntrypoint indicates there is no command to run in the container.
	ErrEmptyEntrypoint = errors.New("config.entrypoint must name a command")
)

// Default returns the baseline configuration matching the stock leak-test
// layout: a Dockerfile at the project root building an image that carries
// leak_test.py, run with 256 MiB of shared memory for the browser.
func Default() Config {
	return Config{
		Image:      "leak-test:latest",
		Buildfile:  "Dockerfile",
		Context:    ".",
		ShmSize:    "256m",
		Entrypoint: "python3 leak_test.py",
	}
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Image == "" {
		c.Image = def.Image
	}
	if c.Buildfile == "" {
		c.Buildfile = def.Buildfile
	}
	if c.Context == "" {
		c.Context = def.Context
	}
	if c.ShmSize == "" {
		c.ShmSize = def.ShmSize
	}
	if c.Entrypoint == "" {
		c.Entrypoint = def.Entrypoint
	}
}

// Validate ensures the configuration can drive a build and a run.
func (c Config) Validate() error {
	if c.Image == "" || strings.ToLower(c.Image) != c.Image || strings.ContainsAny(c.Image, " \t\n") {
		return ErrInvalidImage
	}
	if _, err := units.RAMInBytes(c.ShmSize); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidShmSize, c.ShmSize)
	}
	if _, err := c.SplitEntrypoint(); err != nil {
		return err
	}
	return nil
}

// SplitEntrypoint tokenizes the entrypoint command with shell word rules so
// quoted tokens survive intact.
func (c Config) SplitEntrypoint() ([]string, error) {
	fields, err := shell.Fields(c.Entrypoint, nil)
	if err != nil {
		return nil, fmt.Errorf("parse entrypoint %q: %w", c.Entrypoint, err)
	}
	if len(fields) == 0 {
		return nil, ErrEmptyEntrypoint
	}
	return fields, nil
}

// Load reads configuration from disk. A missing file yields the defaults;
// the file's presence only marks a project root. LEAKRUN_* environment
// variables are applied over whatever the file provides.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("environment overrides: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes configuration to disk atomically.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}
