package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/comptree/pkg/extractor"
	"github.com/gnana997/comptree/pkg/mcp"
	"github.com/gnana997/comptree/pkg/resolver"
	"github.com/gnana997/comptree/pkg/tree"
	"github.com/gnana997/comptree/pkg/util"
	"github.com/gnana997/comptree/pkg/watch"
)

const defaultConfigPath = ".comptree/config.yaml"

// ProjectConfig holds the contents of .comptree/config.yaml.
type ProjectConfig struct {
	AliasPrefix  string `yaml:"alias_prefix"`
	Manifest     string `yaml:"manifest"`
	ReduxPackage string `yaml:"redux_package"`
	AllowPartial bool   `yaml:"allow_partial"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`

	Watch WatchConfig `yaml:"watch"`
	MCP   MCPConfig   `yaml:"mcp"`
}

type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
	// Ignore is appended to the built-in ignore patterns.
	Ignore []string `yaml:"ignore"`
}

type MCPConfig struct {
	LogPath     string `yaml:"log_path"`
	MaxSessions int    `yaml:"max_sessions"`
}

func defaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		AliasPrefix:  resolver.DefaultAliasPrefix,
		Manifest:     resolver.DefaultManifest,
		ReduxPackage: extractor.DefaultReduxPackage,
		LogLevel:     string(util.LevelWarn),
		LogFormat:    string(util.FormatText),
		Watch:        WatchConfig{DebounceMs: 200},
		MCP:          MCPConfig{MaxSessions: mcp.DefaultMaxSessions},
	}
}

// loadProjectConfig reads the config file at path on top of the defaults.
// A missing file yields the defaults unless required is set.
func loadProjectConfig(path string, required bool) (*ProjectConfig, error) {
	cfg := defaultProjectConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// newLogger builds the process logger from log_level and log_format.
func (c *ProjectConfig) newLogger(out io.Writer) (*slog.Logger, error) {
	level, err := util.ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := util.ParseLogFormat(c.LogFormat)
	if err != nil {
		return nil, err
	}
	return util.NewLogger(util.LoggerConfig{
		Level:  level,
		Format: format,
		Output: out,
	}), nil
}

func (c *ProjectConfig) builderOptions(logger *slog.Logger) tree.Options {
	return tree.Options{
		AliasPrefix:  c.AliasPrefix,
		Manifest:     c.Manifest,
		ReduxPackage: c.ReduxPackage,
		AllowPartial: c.AllowPartial,
		Logger:       logger,
	}
}

func (c *ProjectConfig) watchOptions() watch.Options {
	return watch.Options{
		DebounceMs:     c.Watch.DebounceMs,
		IgnorePatterns: append(watch.DefaultIgnorePatterns(), c.Watch.Ignore...),
	}
}
