package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/san-kum/orrery/internal/catalog"
	"github.com/san-kum/orrery/internal/dynamo"
	"github.com/san-kum/orrery/internal/integrators"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeStep    = 3600.0
	DefaultMethod      = "verlet"
	DefaultCadence     = 50 * time.Millisecond
	DefaultUpdateEvery = 5
	DefaultResetGrace  = 100 * time.Millisecond
	DefaultDataDir     = ".orrery"
	DefaultLogLevel    = "info"
)

type Config struct {
	// TimeStep is the base simulated seconds per step.
	TimeStep float64 `yaml:"time_step" env:"ORRERY_TIME_STEP"`
	Method   string  `yaml:"method" env:"ORRERY_METHOD"`
	// Catalog is a preset name or a path to a YAML body catalog.
	Catalog string `yaml:"catalog" env:"ORRERY_CATALOG"`

	Cadence     time.Duration `yaml:"cadence" env:"ORRERY_CADENCE"`
	UpdateEvery int           `yaml:"update_every" env:"ORRERY_UPDATE_EVERY"`
	ResetGrace  time.Duration `yaml:"reset_grace" env:"ORRERY_RESET_GRACE"`

	DataDir  string `yaml:"data_dir" env:"ORRERY_DATA_DIR"`
	LogLevel string `yaml:"log_level" env:"ORRERY_LOG_LEVEL"`
}

func DefaultConfig() *Config {
	return &Config{
		TimeStep:    DefaultTimeStep,
		Method:      DefaultMethod,
		Catalog:     catalog.DefaultPreset,
		Cadence:     DefaultCadence,
		UpdateEvery: DefaultUpdateEvery,
		ResetGrace:  DefaultResetGrace,
		DataDir:     DefaultDataDir,
		LogLevel:    DefaultLogLevel,
	}
}

// LoadOnto reads path over cfg. Keys absent from the file keep their
// current values.
func LoadOnto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from ORRERY_* environment variables. Unset
// variables leave the current value in place.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// IntegrationMethod parses the configured method name.
func (c *Config) IntegrationMethod() (integrators.Method, error) {
	return integrators.ParseMethod(c.Method)
}

func (c *Config) Validate() error {
	if !dynamo.IsFinite(c.TimeStep) || c.TimeStep <= 0 {
		return fmt.Errorf("%w: got %g", dynamo.ErrInvalidTimeStep, c.TimeStep)
	}
	if _, err := c.IntegrationMethod(); err != nil {
		return err
	}
	if c.Cadence <= 0 {
		return fmt.Errorf("cadence must be positive, got %s", c.Cadence)
	}
	if c.UpdateEvery < 1 {
		return fmt.Errorf("update_every must be at least 1, got %d", c.UpdateEvery)
	}
	if c.ResetGrace < 0 {
		return fmt.Errorf("reset_grace must not be negative, got %s", c.ResetGrace)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
