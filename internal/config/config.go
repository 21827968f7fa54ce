// Package config handles loading tasklist.toml configuration files, .env files
// and TASKLIST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amonks/tasklist/internal/paths"
	"github.com/joho/godotenv"
)

// ProjectFileName is the per-directory config file.
const ProjectFileName = "tasklist.toml"

// Environment variables read by Load.
const (
	EnvBaseURL  = "TASKLIST_API_BASE_URL"
	EnvPageSize = "TASKLIST_PAGE_SIZE"
	EnvLogLevel = "TASKLIST_LOG_LEVEL"
)

// Defaults applied after merging.
const (
	DefaultPageSize = 10
	DefaultLogLevel = "warn"
	DefaultWebAddr  = "127.0.0.1:8080"
)

var (
	// ErrMissingBaseURL is returned when no API base URL is configured.
	ErrMissingBaseURL = errors.New("api base URL is not configured")

	// ErrInvalidBaseURL is returned when the configured base URL is not an
	// absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("api base URL is invalid")

	// ErrInvalidPageSize is returned when the page size is not a positive integer.
	ErrInvalidPageSize = errors.New("page size must be a positive integer")
)

// Config represents the merged configuration.
type Config struct {
	API API `toml:"api"`
	Log Log `toml:"log"`
	Web Web `toml:"web"`
}

// API contains todo API settings.
type API struct {
	// BaseURL is the collection URL, e.g. http://localhost:3000/api/todos.
	BaseURL string `toml:"base-url"`
	// PageSize is the number of todos requested per page.
	PageSize int `toml:"page-size"`
}

// Log contains logging settings.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// File receives logs from the terminal client. Empty discards them.
	File string `toml:"file"`
}

// Web contains browser client settings.
type Web struct {
	Addr string `toml:"addr"`
}

// Options controls where Load looks.
type Options struct {
	// Dir holds tasklist.toml and .env. Defaults to the working directory.
	Dir string
	// File replaces Dir/tasklist.toml when set.
	File string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load merges the global config file, the project config file, the project
// .env file and the environment, in increasing precedence.
func Load(opts Options) (*Config, error) {
	dir, err := paths.ResolveWithDefault(opts.Dir, paths.WorkingDir)
	if err != nil {
		return nil, err
	}
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	globalPath, err := paths.GlobalConfigFile()
	if err != nil {
		return nil, err
	}
	globalCfg, globalMeta, err := loadConfigFile(globalPath, false)
	if err != nil {
		return nil, err
	}

	projectPath := filepath.Join(dir, ProjectFileName)
	required := false
	if opts.File != "" {
		projectPath = opts.File
		required = true
	}
	projectCfg, projectMeta, err := loadConfigFile(projectPath, required)
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)

	dotenv, err := loadDotenv(filepath.Join(dir, ".env"))
	if err != nil {
		return nil, err
	}
	env := func(key string) (string, bool) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return value, true
		}
		value, ok := dotenv[key]
		return value, ok
	}
	if err := applyEnv(merged, env); err != nil {
		return nil, err
	}

	applyDefaults(merged)
	return merged, nil
}

// Validate reports whether the configuration can reach the API.
func (c *Config) Validate() error {
	raw := strings.TrimSpace(c.API.BaseURL)
	if raw == "" {
		return ErrMissingBaseURL
	}
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}
	if c.API.PageSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, c.API.PageSize)
	}
	return nil
}

func loadConfigFile(path string, required bool) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: unknown key %s", path, undecoded[0])
	}
	if meta.IsDefined("api", "page-size") && cfg.API.PageSize < 1 {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: api.page-size: %w", path, ErrInvalidPageSize)
	}
	return &cfg, meta, nil
}

func loadDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	merged := Config{}
	merged.API.BaseURL = mergeString(projectMeta.IsDefined("api", "base-url"), projectCfg.API.BaseURL, globalCfg.API.BaseURL)
	merged.Log.Level = mergeString(projectMeta.IsDefined("log", "level"), projectCfg.Log.Level, globalCfg.Log.Level)
	merged.Log.Format = mergeString(projectMeta.IsDefined("log", "format"), projectCfg.Log.Format, globalCfg.Log.Format)
	merged.Log.File = mergeString(projectMeta.IsDefined("log", "file"), projectCfg.Log.File, globalCfg.Log.File)
	merged.Web.Addr = mergeString(projectMeta.IsDefined("web", "addr"), projectCfg.Web.Addr, globalCfg.Web.Addr)

	if projectMeta.IsDefined("api", "page-size") {
		merged.API.PageSize = projectCfg.API.PageSize
	} else if globalMeta.IsDefined("api", "page-size") {
		merged.API.PageSize = globalCfg.API.PageSize
	}
	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

func applyEnv(cfg *Config, env func(string) (string, bool)) error {
	if value, ok := env(EnvBaseURL); ok && strings.TrimSpace(value) != "" {
		cfg.API.BaseURL = strings.TrimSpace(value)
	}
	if value, ok := env(EnvLogLevel); ok && strings.TrimSpace(value) != "" {
		cfg.Log.Level = strings.TrimSpace(value)
	}
	if value, ok := env(EnvPageSize); ok && strings.TrimSpace(value) != "" {
		size, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || size < 1 {
			return fmt.Errorf("invalid %s %q: %w", EnvPageSize, value, ErrInvalidPageSize)
		}
		cfg.API.PageSize = size
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.PageSize < 1 {
		cfg.API.PageSize = DefaultPageSize
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Web.Addr == "" {
		cfg.Web.Addr = DefaultWebAddr
	}
}
