package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "KNITGRAPH"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the root configuration.
type Config struct {
	Builder BuilderConfig `mapstructure:"builder" yaml:"builder"`
	Mesh    MeshConfig    `mapstructure:"mesh" yaml:"mesh"`
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// BuilderConfig tunes the topology passes.
type BuilderConfig struct {
	StitchWidth float64 `mapstructure:"stitch_width" yaml:"stitch_width"`
	// MaxWarpDistance of 0 means twice the stitch width.
	MaxWarpDistance float64 `mapstructure:"max_warp_distance" yaml:"max_warp_distance"`
	// AngleToleranceDeg is the allowed deviation of a warp edge from the
	// course normal, in degrees.
	AngleToleranceDeg float64 `mapstructure:"angle_tolerance_deg" yaml:"angle_tolerance_deg"`
	RelaxFactor       float64 `mapstructure:"relax_factor" yaml:"relax_factor"`
	ClosureTolerance  float64 `mapstructure:"closure_tolerance" yaml:"closure_tolerance"`
	// Workers of 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// MeshConfig tunes face discovery.
type MeshConfig struct {
	// Projection is "local" or "xy".
	Projection string `mapstructure:"projection" yaml:"projection"`
	Workers    int    `mapstructure:"workers" yaml:"workers"`
	// SkipDuality disables VerifyDuality.
	SkipDuality bool `mapstructure:"skip_duality" yaml:"skip_duality"`
	// ConsolidatePattern aligns pattern rows on a shared column grid.
	ConsolidatePattern bool `mapstructure:"consolidate_pattern" yaml:"consolidate_pattern"`
	// MergeCreases turns adjacent increase and decrease pairs into one plain
	// stitch.
	MergeCreases bool `mapstructure:"merge_creases" yaml:"merge_creases"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddCaller   bool   `mapstructure:"add_caller" yaml:"add_caller"`
	// LogFile, when set, adds a rotating JSON file sink.
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// MetricsConfig configures the prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
	// Addr is the listen address of the /metrics endpoint, empty for none.
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Builder: BuilderConfig{
			StitchWidth:       1,
			AngleToleranceDeg: 15,
			RelaxFactor:       2,
			ClosureTolerance:  1e-6,
		},
		Mesh: MeshConfig{Projection: "local"},
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "knitgraph",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
		},
		Metrics: MetricsConfig{Namespace: "knitgraph"},
	}
}

// SetDefaults registers Default() on v so every key is known to viper, which
// AutomaticEnv needs to resolve environment overrides.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("builder.stitch_width", d.Builder.StitchWidth)
	v.SetDefault("builder.max_warp_distance", d.Builder.MaxWarpDistance)
	v.SetDefault("builder.angle_tolerance_deg", d.Builder.AngleToleranceDeg)
	v.SetDefault("builder.relax_factor", d.Builder.RelaxFactor)
	v.SetDefault("builder.closure_tolerance", d.Builder.ClosureTolerance)
	v.SetDefault("builder.workers", d.Builder.Workers)
	v.SetDefault("mesh.projection", d.Mesh.Projection)
	v.SetDefault("mesh.workers", d.Mesh.Workers)
	v.SetDefault("mesh.skip_duality", d.Mesh.SkipDuality)
	v.SetDefault("mesh.consolidate_pattern", d.Mesh.ConsolidatePattern)
	v.SetDefault("mesh.merge_creases", d.Mesh.MergeCreases)
	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.format", d.Logger.Format)
	v.SetDefault("logger.service_name", d.Logger.ServiceName)
	v.SetDefault("logger.add_caller", d.Logger.AddCaller)
	v.SetDefault("logger.log_file", d.Logger.LogFile)
	v.SetDefault("logger.max_size", d.Logger.MaxSize)
	v.SetDefault("logger.max_backups", d.Logger.MaxBackups)
	v.SetDefault("logger.max_age", d.Logger.MaxAge)
	v.SetDefault("logger.compress", d.Logger.Compress)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}

// Load reads path (skipped when empty) and the environment into a validated
// Config.
func Load(path string) (Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load on a caller-owned viper instance, so command-line flags
// bound to v take precedence.
func LoadWith(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Decode parses YAML over Default() and validates the result.
func Decode(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	b := c.Builder
	for _, f := range []struct {
		key string
		v   float64
	}{
		{"builder.stitch_width", b.StitchWidth},
		{"builder.max_warp_distance", b.MaxWarpDistance},
		{"builder.angle_tolerance_deg", b.AngleToleranceDeg},
		{"builder.relax_factor", b.RelaxFactor},
		{"builder.closure_tolerance", b.ClosureTolerance},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s=%v must be finite", ErrInvalid, f.key, f.v)
		}
	}
	switch {
	case !(b.StitchWidth > 0):
		return fmt.Errorf("%w: builder.stitch_width=%v must be > 0", ErrInvalid, b.StitchWidth)
	case b.MaxWarpDistance < 0:
		return fmt.Errorf("%w: builder.max_warp_distance=%v must be ≥ 0", ErrInvalid, b.MaxWarpDistance)
	case !(b.AngleToleranceDeg > 0) || b.AngleToleranceDeg > 90:
		return fmt.Errorf("%w: builder.angle_tolerance_deg=%v must be in (0, 90]", ErrInvalid, b.AngleToleranceDeg)
	case b.RelaxFactor < 1:
		return fmt.Errorf("%w: builder.relax_factor=%v must be ≥ 1", ErrInvalid, b.RelaxFactor)
	case !(b.ClosureTolerance > 0):
		return fmt.Errorf("%w: builder.closure_tolerance=%v must be > 0", ErrInvalid, b.ClosureTolerance)
	case b.Workers < 0:
		return fmt.Errorf("%w: builder.workers=%d must be ≥ 0", ErrInvalid, b.Workers)
	}
	if c.Mesh.Projection != "local" && c.Mesh.Projection != "xy" {
		return fmt.Errorf("%w: mesh.projection=%q must be local or xy", ErrInvalid, c.Mesh.Projection)
	}
	if c.Mesh.Workers < 0 {
		return fmt.Errorf("%w: mesh.workers=%d must be ≥ 0", ErrInvalid, c.Mesh.Workers)
	}
	if _, err := zapcore.ParseLevel(c.Logger.Level); err != nil {
		return fmt.Errorf("%w: logger.level=%q", ErrInvalid, c.Logger.Level)
	}
	if c.Logger.Format != "console" && c.Logger.Format != "json" {
		return fmt.Errorf("%w: logger.format=%q must be console or json", ErrInvalid, c.Logger.Format)
	}

	return nil
}
