// Package config loads axlegen command configuration.
//
// Sources, highest priority first:
//  1. CLI flags (applied by the caller)
//  2. Environment variables (AXLEGEN_* prefix)
//  3. Config file (closest axlegen.toml or .axlegen.toml)
//  4. Built-in defaults
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/broady/axle/axlegen"
)

// FileNames are the config file names searched for, in priority order.
var FileNames = []string{"axlegen.toml", ".axlegen.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "AXLEGEN_"

// Config is the axlegen command configuration.
//
// Example TOML configuration:
//
//	dialect = "async"
//	strip-prefix = "example.com/"
//	models = ["api/**/*.axle.yaml"]
//	out = "gen"
//	header = ["Copyright 2025 Example Authors"]
type Config struct {
	// Dialect id string, e.g. "rx?suffix=reactive".
	Dialect string `koanf:"dialect"`

	// Header lines written at the top of every generated file.
	Header []string `koanf:"header"`

	// StripPrefix is removed from translated package paths.
	StripPrefix string `koanf:"strip-prefix"`

	// Concurrency bounds parallel class translation; zero means GOMAXPROCS.
	Concurrency int `koanf:"concurrency" validate:"gte=0"`

	// Models are model files, directories or doublestar globs, relative to
	// the config file's directory.
	Models []string `koanf:"models" validate:"dive,required"`

	// Out is the output root directory.
	Out string `koanf:"out" validate:"required"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Models: []string{"."},
		Out:    ".",
	}
}

// Generator returns the library configuration for c.
func (c *Config) Generator() axlegen.Config {
	return axlegen.Config{
		Dialect:            c.Dialect,
		Header:             c.Header,
		StripPackagePrefix: c.StripPrefix,
		Concurrency:        c.Concurrency,
	}
}

// Load discovers the closest config file starting at dir and loads it.
func Load(dir string) (*Config, error) {
	return LoadFromFile(Discover(dir))
}

// LoadFromFile loads configuration from path. An empty path loads only
// defaults and environment.
func LoadFromFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, errors.Wrap(err, "load defaults")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load %s", path)
		}
	}
	// AXLEGEN_STRIP_PREFIX -> strip-prefix
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load environment")
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, errors.WithHintf(errors.Wrap(err, "invalid config"), "check %s", orDefaults(path))
	}
	cfg.File = path
	if path != "" {
		cfg.rebase(filepath.Dir(path))
	}
	return cfg, nil
}

func orDefaults(path string) string {
	if path == "" {
		return "the AXLEGEN_* environment"
	}
	return path
}

// rebase makes relative model and output paths relative to dir.
func (c *Config) rebase(dir string) {
	for i, m := range c.Models {
		if !filepath.IsAbs(m) {
			c.Models[i] = filepath.Join(dir, m)
		}
	}
	if !filepath.IsAbs(c.Out) {
		c.Out = filepath.Join(dir, c.Out)
	}
}

var listKeys = map[string]bool{"header": true, "models": true}

var envKeys = map[string]bool{
	"dialect":      true,
	"header":       true,
	"strip-prefix": true,
	"concurrency":  true,
	"models":       true,
	"out":          true,
}

// envKeyTransform converts environment variable names to config keys.
// List values are comma-separated.
func envKeyTransform(k, v string) (string, any) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, EnvPrefix)), "_", "-")
	if !envKeys[key] {
		return "", nil
	}
	if listKeys[key] {
		var items []string
		for item := range strings.SplitSeq(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return key, items
	}
	return key, v
}

// Discover walks up from dir and returns the first config file found, or
// the empty string.
func Discover(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range FileNames {
			p := filepath.Join(abs, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p
			}
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return ""
		}
		abs = parent
	}
}
