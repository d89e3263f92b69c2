// Package configloader assembles a configuration root from a YAML file, a .env file and
// the process environment, in increasing order of precedence.
//
// Each binary owns an environment prefix derived from its name: the catalog service reads
// CATALOG_*, the catalogctl client reads CATALOGCTL_*. Keys map to koanf paths by
// lower-casing and turning underscores into dots, so CATALOG_STORAGE_POSTGRES_URL sets
// storage.postgres.url and CATALOGCTL_GRPCCLIENT_ADDR sets grpcclient.addr.
package configloader

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigFile is read from the working directory unless overridden.
const DefaultConfigFile = "config.yaml"

// Validator is implemented by every configuration root.
type Validator interface {
	Validate() error
}

type options struct {
	file    string
	envFile string
}

// Option adjusts where Load looks for its sources.
type Option func(*options)

// WithFile sets the YAML file read by default. <PREFIX>_CONFIG_FILE still overrides it.
func WithFile(name string) Option {
	return func(o *options) { o.file = name }
}

// WithEnvFile sets the dotenv file, ".env" by default.
func WithEnvFile(name string) Option {
	return func(o *options) { o.envFile = name }
}

// Load reads the configuration for the binary called name and validates it.
// A missing YAML or .env file is not an error; a malformed one is logged and skipped.
func Load[T Validator](name string, opts ...Option) (T, error) {
	var cfg T
	o := options{file: DefaultConfigFile, envFile: ".env"}
	for _, opt := range opts {
		opt(&o)
	}
	envPrefix := strings.ToUpper(name) + "_"
	if override := os.Getenv(envPrefix + "CONFIG_FILE"); override != "" {
		o.file = override
	}
	toPath := func(key string) string {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		return strings.ReplaceAll(key, "_", ".")
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(o.file), yaml.Parser()); err != nil && !os.IsNotExist(err) {
		slog.Warn("Skipping config file", slog.String("file", o.file), slog.String("error", err.Error()))
	}

	// Only keys carrying this binary's prefix are taken from the dotenv file, so one
	// .env can serve both the service and its clients.
	if dotenv, err := godotenv.Read(o.envFile); err == nil {
		values := make(map[string]any, len(dotenv))
		for key, value := range dotenv {
			if strings.HasPrefix(strings.ToUpper(key), envPrefix) {
				values[toPath(key)] = value
			}
		}
		if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
			slog.Warn("Skipping dotenv values", slog.String("file", o.envFile), slog.String("error", err.Error()))
		}
	} else if !os.IsNotExist(err) {
		slog.Warn("Skipping dotenv file", slog.String("file", o.envFile), slog.String("error", err.Error()))
	}

	if err := k.Load(env.Provider(envPrefix, ".", toPath), nil); err != nil {
		slog.Warn("Skipping environment overrides", slog.String("prefix", envPrefix), slog.String("error", err.Error()))
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling %s config: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
