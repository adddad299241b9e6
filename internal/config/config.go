// Package config resolves conversion settings. Values are layered: built-in
// defaults, then an optional YAML file, then RANKCONV_* environment
// variables (a .env file is loaded into the environment first when present),
// then command-line flags applied by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/nconklindev/rankconv/internal/converter"
	"github.com/nconklindev/rankconv/internal/logging"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInput     = "REDRAFT-rankings.xlsx"
	DefaultOutput    = "src/data/players.json"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds everything a conversion run needs.
type Config struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`

	// Sheet forces a sheet by name; PreferredSheets is ignored when set.
	Sheet           string   `yaml:"sheet"`
	PreferredSheets []string `yaml:"preferred_sheets"`

	Mode     string `yaml:"mode"`
	IDPrefix string `yaml:"id_prefix"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the settings the original fixed-path conversion used.
func Default() *Config {
	return &Config{
		Input:           DefaultInput,
		Output:          DefaultOutput,
		PreferredSheets: slices.Clone(converter.DefaultPreferredSheets),
		Mode:            string(converter.ModeLenient),
		IDPrefix:        converter.DefaultIDPrefix,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment. It does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := cfg.decodeYAML(raw); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) decodeYAML(raw []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// LoadEnvFile loads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Input, "RANKCONV_INPUT")
	setFromEnv(&c.Output, "RANKCONV_OUTPUT")
	setFromEnv(&c.Sheet, "RANKCONV_SHEET")
	setFromEnv(&c.Mode, "RANKCONV_MODE")
	setFromEnv(&c.IDPrefix, "RANKCONV_ID_PREFIX")
	setFromEnv(&c.LogLevel, "RANKCONV_LOG_LEVEL")
	setFromEnv(&c.LogFormat, "RANKCONV_LOG_FORMAT")

	if v, ok := os.LookupEnv("RANKCONV_PREFERRED_SHEETS"); ok {
		c.PreferredSheets = SplitList(v)
	}
}

func setFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

// SplitList splits a comma-separated list, dropping blank entries. Sheet
// names are otherwise kept verbatim, inner spaces included.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate fails fast on settings no conversion could run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return errors.New("input path is required")
	}
	if strings.TrimSpace(c.Output) == "" {
		return errors.New("output path is required")
	}
	if c.IDPrefix == "" {
		return errors.New("id prefix must not be empty")
	}
	if _, err := converter.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.LogFormat)
	}
	return nil
}

// Options converts the settings into converter options.
func (c *Config) Options() (converter.Options, error) {
	mode, err := converter.ParseMode(c.Mode)
	if err != nil {
		return converter.Options{}, err
	}

	return converter.Options{
		InputFile:       c.Input,
		OutputFile:      c.Output,
		Sheet:           c.Sheet,
		PreferredSheets: c.PreferredSheets,
		Mode:            mode,
		IDPrefix:        c.IDPrefix,
	}, nil
}
