// Package config reads the optional CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultNames are the files looked up by Discover, in order.
var DefaultNames = []string{"lexfsm.yaml", "lexfsm.yml", "lexfsm.json", "lexfsm.toml"}

// Config holds every setting a flag can also provide.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	Dir      string `mapstructure:"dir"`
	Redis    Redis  `mapstructure:"redis"`
	Server   Server `mapstructure:"server"`
	Lexer    Lexer  `mapstructure:"lexer"`
}

// Redis configures the description store.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Watch           bool          `mapstructure:"watch"`
}

// Lexer configures tokenization.
type Lexer struct {
	IgnoreUnknown bool `mapstructure:"ignore_unknown"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LogLevel: "info",
		Dir:      ".",
		Redis: Redis{
			Prefix: "lexfsm:description:",
		},
		Server: Server{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// Discover returns the first of DefaultNames present in dir, or "" if none is.
func Discover(dir string) string {
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads the file at path over the defaults.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	raw, err := parse(content, filepath.Ext(path))
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return cfg, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

func parse(content []byte, ext string) (map[string]any, error) {
	raw := make(map[string]any)
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(content), &raw); err != nil {
			return nil, err
		}
	case ".yaml", ".yml", ".json":
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	return raw, nil
}
