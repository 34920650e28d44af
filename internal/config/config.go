package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-parambridge/pkg/params"
)

// Config holds the render CLI settings. Environment variables provide the
// defaults; command-line flags override them.
type Config struct {
	Template   string `env:"PARAMBRIDGE_TEMPLATE"`
	Data       string `env:"PARAMBRIDGE_DATA"`
	Converters string `env:"PARAMBRIDGE_CONVERTERS"`
	Output     string `env:"PARAMBRIDGE_OUTPUT"`
	LogLevel   string `env:"PARAMBRIDGE_LOG_LEVEL" envDefault:"warn"`
}

// LoadEnv reads Config from the environment.
func LoadEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

// Converters describes the parameter converters the CLI registers. Every
// section is optional.
type Converters struct {
	Time *struct {
		Layouts []string `yaml:"layouts"`
	} `yaml:"time"`
	Duration *struct {
		Aliases map[string]string `yaml:"aliases"`
	} `yaml:"duration"`
	Bool *struct {
		Truthy []string `yaml:"truthy"`
		Falsy  []string `yaml:"falsy"`
	} `yaml:"bool"`
	// Basic enables the scalar provider (ints, floats, strings).
	Basic bool `yaml:"basic"`
	// Text enables the encoding.TextMarshaler provider.
	Text bool `yaml:"text"`
}

// LoadConverters reads a YAML converter file. An empty path yields an empty
// configuration.
func LoadConverters(path string) (Converters, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Converters{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Converters{}, fmt.Errorf("config: read converters: %w", err)
	}
	return ParseConverters(data)
}

// ParseConverters decodes a YAML converter document.
func ParseConverters(data []byte) (Converters, error) {
	var out Converters
	if err := yaml.Unmarshal(data, &out); err != nil {
		return Converters{}, fmt.Errorf("config: decode converters: %w", err)
	}
	return out, nil
}

// RegistryOptions returns the provider options enabled by the configuration.
func (c Converters) RegistryOptions() []params.Option {
	var opts []params.Option
	if c.Text {
		opts = append(opts, params.WithProvider(params.TextProvider()))
	}
	if c.Basic {
		opts = append(opts, params.WithProvider(params.BasicProvider()))
	}
	return opts
}

// Apply registers the configured converters on reg.
func (c Converters) Apply(reg *params.Registry) error {
	if reg == nil {
		return fmt.Errorf("config: registry is required")
	}
	if c.Time != nil {
		if len(c.Time.Layouts) == 0 {
			return fmt.Errorf("config: time converter needs at least one layout")
		}
		if err := reg.Register(reflect.TypeOf(time.Time{}), params.TimeConverter(c.Time.Layouts...)); err != nil {
			return err
		}
	}
	if c.Duration != nil {
		aliases := make(map[string]time.Duration, len(c.Duration.Aliases))
		for name, raw := range c.Duration.Aliases {
			d, err := time.ParseDuration(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("config: duration alias %q: %w", name, err)
			}
			aliases[name] = d
		}
		if err := reg.Register(reflect.TypeOf(time.Duration(0)), params.DurationConverter(aliases)); err != nil {
			return err
		}
	}
	if c.Bool != nil {
		if err := reg.Register(reflect.TypeOf(false), params.BoolConverter(c.Bool.Truthy, c.Bool.Falsy)); err != nil {
			return err
		}
	}
	return nil
}

// LoadData reads the YAML data file rendered by the CLI.
func LoadData(path string) (map[string]any, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return map[string]any{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read data: %w", err)
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("config: decode data: %w", err)
	}
	return out, nil
}
