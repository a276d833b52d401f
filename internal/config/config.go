// Package config loads classifier settings from a YAML file and the environment.
//
// Precedence, lowest to highest: built-in defaults, the YAML file, FACE_ROTATION_*
// environment variables, and finally command-line flags bound with RegisterFlags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/face-rotation/internal/imaging"
	"github.com/ironsheep/face-rotation/internal/orient"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FACE_ROTATION_"

// Config is the complete runtime configuration.
type Config struct {
	// OutputDir receives the JSON results. Empty writes next to each image.
	OutputDir string `yaml:"output_dir"`

	Grayscale bool   `yaml:"grayscale"`
	Luma      string `yaml:"luma"`
	Smooth    bool   `yaml:"smooth"`
	Kernel    string `yaml:"kernel"`
	ShowImage bool   `yaml:"show_image"`

	// Fix writes an upright copy of each classified image.
	Fix bool `yaml:"fix"`

	// HistoryDB enables the SQLite ledger when set.
	HistoryDB string `yaml:"history_db"`

	Workers  int    `yaml:"workers"`
	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grayscale: true,
		Luma:      string(imaging.LumaBT601),
		Smooth:    true,
		Kernel:    imaging.DefaultKernelSize.String(),
		ShowImage: true,
		Workers:   4,
		LogLevel:  "info",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), and environment overrides. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("error parsing %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// PathFromEnv returns the config file named by FACE_ROTATION_CONFIG, if any.
func PathFromEnv() string {
	return os.Getenv(EnvPrefix + "CONFIG")
}

func applyEnv(cfg *Config) error {
	envOverride(&cfg.OutputDir, "OUTPUT_DIR")
	envOverride(&cfg.Luma, "LUMA")
	envOverride(&cfg.Kernel, "KERNEL")
	envOverride(&cfg.HistoryDB, "HISTORY_DB")
	envOverride(&cfg.LogFile, "LOG_FILE")
	envOverride(&cfg.LogLevel, "LOG_LEVEL")

	var errs []error
	errs = append(errs,
		envOverrideBool(&cfg.Grayscale, "GRAYSCALE"),
		envOverrideBool(&cfg.Smooth, "SMOOTH"),
		envOverrideBool(&cfg.ShowImage, "SHOW_IMAGE"),
		envOverrideBool(&cfg.Fix, "FIX"),
		envOverrideInt(&cfg.Workers, "WORKERS"),
	)
	return errors.Join(errs...)
}

func envOverride(target *string, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		*target = v
	}
}

func envOverrideBool(target *bool, key string) error {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, v, err)
	}
	*target = b
	return nil
}

func envOverrideInt(target *int, key string) error {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, v, err)
	}
	*target = n
	return nil
}

// Validate checks every setting that can be checked without I/O.
// Malformed preprocessing settings are returned as *imaging.InvalidParameterError.
func (c Config) Validate() error {
	if _, err := c.Options(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return &imaging.InvalidParameterError{Param: "workers", Value: strconv.Itoa(c.Workers), Reason: "must be at least 1"}
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "info", "debug":
	default:
		return &imaging.InvalidParameterError{Param: "log level", Value: c.LogLevel, Reason: "must be info or debug"}
	}
	return nil
}

// Options converts the preprocessing settings into classifier options.
func (c Config) Options() (orient.Options, error) {
	luma, err := imaging.ParseLumaModel(c.Luma)
	if err != nil {
		return orient.Options{}, err
	}
	opts := orient.Options{
		Decode: imaging.DecodeMode{Grayscale: c.Grayscale, Luma: luma},
		Smooth: c.Smooth,
		Kernel: imaging.DefaultKernelSize,
	}
	if c.Kernel != "" {
		k, err := imaging.ParseKernelSize(c.Kernel)
		if err != nil {
			if c.Smooth {
				return orient.Options{}, err
			}
		} else {
			opts.Kernel = k
		}
	}
	return opts, nil
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}
