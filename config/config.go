package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/katalvlaran/balance/engine"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BALANCE"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the root of a balance configuration file.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"  validate:"required"`
	Log     LogConfig     `mapstructure:"log"     validate:"required"`
	Metrics MetricsConfig `mapstructure:"metrics" validate:"required"`
}

// EngineConfig mirrors engine.Options. Zero values of MaxIterations,
// BlandAfter, RefactorEvery and Parallelism keep the engine defaults.
type EngineConfig struct {
	Strategy      string        `mapstructure:"strategy"       validate:"oneof=auto simplex interior-point interior ipm"`
	Tolerance     float64       `mapstructure:"tolerance"      validate:"gt=0,lt=1"`
	MaxIterations int           `mapstructure:"max_iterations" validate:"gte=0"`
	TimeLimit     time.Duration `mapstructure:"time_limit"     validate:"gte=0"`
	Sensitivity   bool          `mapstructure:"sensitivity"`
	AutoThreshold int           `mapstructure:"auto_threshold" validate:"gte=1"`
	Crossover     bool          `mapstructure:"crossover"`
	BlandAfter    int           `mapstructure:"bland_after"    validate:"gte=0"`
	RefactorEvery int           `mapstructure:"refactor_every" validate:"gte=0"`
	Parallelism   int           `mapstructure:"parallelism"    validate:"gte=0"`
}

// LogConfig selects the slog handler and, when File is set, its rotation.
type LogConfig struct {
	Level      string `mapstructure:"level"       validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format"      validate:"oneof=json text"`
	Output     string `mapstructure:"output"      validate:"oneof=stdout stderr"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"    validate:"gte=0"` // megabytes
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAge     int    `mapstructure:"max_age"     validate:"gte=0"` // days
	Compress   bool   `mapstructure:"compress"`
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace" validate:"promname"`
	Runtime   bool   `mapstructure:"runtime"`
	Addr      string `mapstructure:"addr"      validate:"omitempty,hostname_port"`
}

var promName = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)

// Default returns the configuration used when no file or override is given.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Strategy:      engine.Auto.String(),
			Tolerance:     engine.DefaultTolerance,
			AutoThreshold: engine.DefaultAutoThreshold,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			Output:     "stdout",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
		},
		Metrics: MetricsConfig{
			Namespace: "balance",
		},
	}
}

// Load reads path (skipped when empty), applies BALANCE_* environment
// overrides and validates the result.
//
// Errors: file read and decode errors wrapped; ErrInvalidConfig when a value
// is out of range.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("engine.strategy", d.Engine.Strategy)
	v.SetDefault("engine.tolerance", d.Engine.Tolerance)
	v.SetDefault("engine.max_iterations", d.Engine.MaxIterations)
	v.SetDefault("engine.time_limit", d.Engine.TimeLimit)
	v.SetDefault("engine.sensitivity", d.Engine.Sensitivity)
	v.SetDefault("engine.auto_threshold", d.Engine.AutoThreshold)
	v.SetDefault("engine.crossover", d.Engine.Crossover)
	v.SetDefault("engine.bland_after", d.Engine.BlandAfter)
	v.SetDefault("engine.refactor_every", d.Engine.RefactorEvery)
	v.SetDefault("engine.parallelism", d.Engine.Parallelism)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age", d.Log.MaxAge)
	v.SetDefault("log.compress", d.Log.Compress)

	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.runtime", d.Metrics.Runtime)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}

// Validate checks every field against its validate tag.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("promname", func(fl validator.FieldLevel) bool {
		return promName.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("config: register validation: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// EngineOptions converts the engine section into engine options. Logger,
// Recorder and Cache are left to the caller.
func (c *Config) EngineOptions() ([]engine.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	e := c.Engine
	strategy, err := engine.ParseStrategy(e.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	opts := []engine.Option{
		engine.WithStrategy(strategy),
		engine.WithTolerance(e.Tolerance),
		engine.WithMaxIterations(e.MaxIterations),
		engine.WithTimeLimit(e.TimeLimit),
		engine.WithSensitivity(e.Sensitivity),
		engine.WithAutoThreshold(e.AutoThreshold),
		engine.WithCrossover(e.Crossover),
		engine.WithBlandAfter(e.BlandAfter),
	}
	if e.RefactorEvery > 0 {
		opts = append(opts, engine.WithRefactorEvery(e.RefactorEvery))
	}
	if e.Parallelism > 0 {
		opts = append(opts, engine.WithParallelism(e.Parallelism))
	}

	return opts, nil
}
