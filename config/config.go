// Package config loads changelog settings from defaults, a config file, and
// CHANGELOG_ environment variables, in that order of precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "CHANGELOG_"

// DefaultFileNames are the config files looked up in the working directory
// when no path is given.
var DefaultFileNames = []string{".changelog.yaml", ".changelog.yml", ".changelog.json"}

// Config is the root configuration structure.
type Config struct {
	Source   string         `koanf:"source" json:"source" yaml:"source"`
	Title    string         `koanf:"title" json:"title" yaml:"title"`
	PageSize int            `koanf:"page_size" json:"page_size" yaml:"page_size"`
	Server   ServerConfig   `koanf:"server" json:"server" yaml:"server"`
	Output   OutputConfig   `koanf:"output" json:"output" yaml:"output"`
	Generate GenerateConfig `koanf:"generate" json:"generate" yaml:"generate"`
	Log      LogConfig      `koanf:"log" json:"log" yaml:"log"`
}

// ServerConfig holds options for the serve command.
type ServerConfig struct {
	Addr  string `koanf:"addr" json:"addr" yaml:"addr"`
	Watch bool   `koanf:"watch" json:"watch" yaml:"watch"`
}

// OutputConfig holds options for render and build.
type OutputConfig struct {
	Format string `koanf:"format" json:"format" yaml:"format"`
	Dir    string `koanf:"dir" json:"dir" yaml:"dir"`
}

// GenerateConfig holds options for generating a changelog from git history.
type GenerateConfig struct {
	Summarizer  string   `koanf:"summarizer" json:"summarizer" yaml:"summarizer"` // "message" or "chat"
	MaxCount    int      `koanf:"max_count" json:"max_count" yaml:"max_count"`    // 0 = unlimited
	Concurrency int      `koanf:"concurrency" json:"concurrency" yaml:"concurrency"`
	Model       string   `koanf:"model" json:"model" yaml:"model"`
	BaseURL     string   `koanf:"base_url" json:"base_url" yaml:"base_url"`
	Include     []string `koanf:"include" json:"include" yaml:"include"`
	Exclude     []string `koanf:"exclude" json:"exclude" yaml:"exclude"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `koanf:"level" json:"level" yaml:"level"`
}

// Summarizer names.
const (
	SummarizerMessage = "message"
	SummarizerChat    = "chat"
)

var validFormats = map[string]bool{
	"console":  true,
	"json":     true,
	"csv":      true,
	"markdown": true,
	"md":       true,
	"html":     true,
}

var sections = []string{"server", "output", "generate", "log"}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Source:   "changelog/changelog",
		PageSize: 5,
		Server: ServerConfig{
			Addr: ":8080",
		},
		Output: OutputConfig{
			Format: "console",
			Dir:    "site",
		},
		Generate: GenerateConfig{
			Summarizer:  SummarizerMessage,
			MaxCount:    0,
			Concurrency: 4,
			Model:       "gpt-4o-mini",
			BaseURL:     "https://api.openai.com/v1",
			Include:     []string{},
			Exclude:     []string{},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaults flattens DefaultConfig into koanf keys.
func defaults() map[string]interface{} {
	cfg := DefaultConfig()
	return map[string]interface{}{
		"source":               cfg.Source,
		"title":                cfg.Title,
		"page_size":            cfg.PageSize,
		"server.addr":          cfg.Server.Addr,
		"server.watch":         cfg.Server.Watch,
		"output.format":        cfg.Output.Format,
		"output.dir":           cfg.Output.Dir,
		"generate.summarizer":  cfg.Generate.Summarizer,
		"generate.max_count":   cfg.Generate.MaxCount,
		"generate.concurrency": cfg.Generate.Concurrency,
		"generate.model":       cfg.Generate.Model,
		"generate.base_url":    cfg.Generate.BaseURL,
		"generate.include":     cfg.Generate.Include,
		"generate.exclude":     cfg.Generate.Exclude,
		"log.level":            cfg.Log.Level,
	}
}

// LoadConfig loads configuration from a file, merging with defaults and
// environment overrides. An empty path searches DefaultFileNames; a missing
// default file is not an error, a missing explicit file is. The result is not
// validated, so callers can apply further overrides before calling Validate.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if path == "" {
		path = findDefaultFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func findDefaultFile() string {
	for _, name := range DefaultFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return kjson.Parser()
	}
	return yaml.Parser()
}

// envTransform converts environment variable names to config keys.
// Example: CHANGELOG_SERVER_ADDR -> server.addr, CHANGELOG_PAGE_SIZE -> page_size
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

// Validate reports the first invalid setting, naming its key.
func (c *Config) Validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("invalid page_size %d: must be at least 1", c.PageSize)
	}
	if c.Output.Format != "" && !validFormats[strings.ToLower(c.Output.Format)] {
		return fmt.Errorf("invalid output.format %q", c.Output.Format)
	}
	switch c.Generate.Summarizer {
	case SummarizerMessage, SummarizerChat:
	default:
		return fmt.Errorf("invalid generate.summarizer %q: must be %q or %q",
			c.Generate.Summarizer, SummarizerMessage, SummarizerChat)
	}
	if c.Generate.MaxCount < 0 {
		return fmt.Errorf("invalid generate.max_count %d: must not be negative", c.Generate.MaxCount)
	}
	if c.Generate.Concurrency < 1 {
		return fmt.Errorf("invalid generate.concurrency %d: must be at least 1", c.Generate.Concurrency)
	}
	return nil
}

// SaveConfig saves configuration to a file, as JSON when the path ends in
// .json and as YAML otherwise.
func SaveConfig(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yamlv3.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
