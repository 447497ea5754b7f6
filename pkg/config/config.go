// Package config loads the brep tool configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/chazu/brep/pkg/export"
	"github.com/chazu/brep/pkg/topo"
)

// validate is a singleton validator instance
var validate = validator.New()

// Config holds the settings shared by every command.
type Config struct {
	// DefaultMeshSize is the mesh size of points created without one.
	DefaultMeshSize float64 `yaml:"default_mesh_size" validate:"gt=0"`
	// Format is the output format used when the output path has no
	// recognised extension.
	Format string `yaml:"format" validate:"oneof=geo dmg"`
	// Physical appends physical groups to .geo output.
	Physical bool `yaml:"physical"`
	// EvalTimeout bounds a single script evaluation.
	EvalTimeout time.Duration `yaml:"eval_timeout" validate:"gt=0"`
	LogLevel    string        `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DefaultMeshSize: topo.DefaultMeshSize,
		Format:          "geo",
		EvalTimeout:     5 * time.Second,
		LogLevel:        "warn",
	}
}

// Load reads and validates the configuration at path. Keys absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration's field constraints.
func (c Config) Validate() error {
	return formatValidationError(validate.Struct(c))
}

// ExportFormat returns the parsed output format.
func (c Config) ExportFormat() export.Format {
	f, err := export.ParseFormat(c.Format)
	if err != nil {
		return export.FormatGeo
	}
	return f
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return l
}

func formatValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	// Report the first violation only.
	for _, e := range verrs {
		switch e.Tag() {
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", e.Field(), e.Param())
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %v", e.Field(), e.Param(), e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", e.Field(), e.Tag())
		}
	}
	return err
}
