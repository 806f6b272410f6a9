// Package config loads and validates the launch configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Backend names.
const (
	BackendWindow   = "window"
	BackendTerminal = "terminal"
)

// Limits
const (
	MinSize     = 2
	MaxSize     = 7
	MaxScramble = 100
	MaxThreads  = 32
)

// Config is the validated launch configuration.
type Config struct {
	Size     int     `mapstructure:"size"`
	Duration float64 `mapstructure:"duration"`
	Scramble int     `mapstructure:"scramble"`
	Threads  int     `mapstructure:"threads"`
	Seed     int64   `mapstructure:"seed"`
	Backend  string  `mapstructure:"backend"`
	Width    int     `mapstructure:"width"`
	Height   int     `mapstructure:"height"`
	Moves    string  `mapstructure:"moves"`
	Record   bool    `mapstructure:"record"`
	DB       string  `mapstructure:"db"`

	Solver SolverConfig `mapstructure:"solver"`
	Device DeviceConfig `mapstructure:"device"`
	Log    LogConfig    `mapstructure:"log"`
}

// SolverConfig holds solver table settings.
type SolverConfig struct {
	Table string `mapstructure:"table"`
	Depth int    `mapstructure:"depth"`
}

// DeviceConfig holds physical cube settings.
type DeviceConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Address string        `mapstructure:"address"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// RotateDuration returns Duration as a time.Duration.
func (c Config) RotateDuration() time.Duration {
	return time.Duration(c.Duration * float64(time.Second))
}

// TablePath returns the solver table path, defaulting to one per size in
// the working directory.
func (c Config) TablePath() string {
	if c.Solver.Table != "" {
		return c.Solver.Table
	}
	return fmt.Sprintf("cubeview-%d.tbl", c.Size)
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("size", 3)
	v.SetDefault("duration", 0.5)
	v.SetDefault("scramble", 20)
	v.SetDefault("threads", 4)
	v.SetDefault("seed", 0)
	v.SetDefault("backend", BackendWindow)
	v.SetDefault("width", 800)
	v.SetDefault("height", 800)
	v.SetDefault("moves", "")
	v.SetDefault("record", true)
	v.SetDefault("db", "")

	v.SetDefault("solver.table", "")
	v.SetDefault("solver.depth", 0)

	v.SetDefault("device.enabled", false)
	v.SetDefault("device.address", "")
	v.SetDefault("device.timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// ReadFile reads an optional config file. An empty path searches dir for
// config.yaml; a missing file there is not an error.
func ReadFile(v *viper.Viper, path, dir string) error {
	v.SetEnvPrefix("CUBEVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		return nil
	}

	if dir == "" {
		return nil
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Size < MinSize || c.Size > MaxSize:
		return fmt.Errorf("%w: size %d outside %d..%d", ErrInvalidConfig, c.Size, MinSize, MaxSize)
	case c.Scramble < 0 || c.Scramble > MaxScramble:
		return fmt.Errorf("%w: scramble length %d outside 0..%d", ErrInvalidConfig, c.Scramble, MaxScramble)
	case c.Threads < 1 || c.Threads > MaxThreads:
		return fmt.Errorf("%w: threads %d outside 1..%d", ErrInvalidConfig, c.Threads, MaxThreads)
	case c.Backend != BackendWindow && c.Backend != BackendTerminal:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	case c.Backend == BackendWindow && (c.Width <= 0 || c.Height <= 0):
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.Solver.Depth < 0:
		return fmt.Errorf("%w: solver depth %d", ErrInvalidConfig, c.Solver.Depth)
	case c.Device.Timeout <= 0:
		return fmt.Errorf("%w: device timeout %s", ErrInvalidConfig, c.Device.Timeout)
	}
	return nil
}
