package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brettbedarf/dirindex/internal/util"
	"gopkg.in/yaml.v3"
)

// CLI style verbosity values accepted by [ConfigOverride.LogLvl].
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Policy names understood by the built-in policy registry.
const (
	PolicyDirect   = "direct"
	PolicyFallback = "fallback"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultRootDir           = "."
	DefaultAddr              = ":8000"
	DefaultPolicy            = PolicyDirect
	DefaultIndexDocument     = "index.html"
	DefaultPluginName        = "directory-index"
	DefaultLogLvl            = util.InfoLevel
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second
)

// Config contains runtime configuration values for the host and the directory index plugin.
type Config struct {
	RootDir       string        // Physical directory logical request paths resolve against (Default ".")
	Addr          string        // Listen address of the host server (Default ":8000")
	Policy        string        // Interception policy name, "direct" or "fallback" (Default "direct")
	IndexDocument string        // Host's canonical index document name (Default "index.html")
	PluginName    string        // Name the plugin reports to the host (Default "directory-index")
	LogLvl        util.LogLevel // Internal log level (Default info)

	ReadHeaderTimeout time.Duration // http.Server ReadHeaderTimeout (Default 10s)
	ShutdownTimeout   time.Duration // Grace period for in-flight requests on shutdown (Default 5s)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	RootDir           *string        `yaml:"root_dir,omitempty" json:"root_dir,omitempty"`
	Addr              *string        `yaml:"addr,omitempty" json:"addr,omitempty"`
	Policy            *string        `yaml:"policy,omitempty" json:"policy,omitempty"`
	IndexDocument     *string        `yaml:"index_document,omitempty" json:"index_document,omitempty"`
	PluginName        *string        `yaml:"plugin_name,omitempty" json:"plugin_name,omitempty"`
	LogLvl            *int           `yaml:"verbose,omitempty" json:"verbose,omitempty"` // 1 (error) to 5 (trace)
	ReadHeaderTimeout *time.Duration `yaml:"read_header_timeout,omitempty" json:"read_header_timeout,omitempty"`
	ShutdownTimeout   *time.Duration `yaml:"shutdown_timeout,omitempty" json:"shutdown_timeout,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		RootDir:           DefaultRootDir,
		Addr:              DefaultAddr,
		Policy:            DefaultPolicy,
		IndexDocument:     DefaultIndexDocument,
		PluginName:        DefaultPluginName,
		LogLvl:            DefaultLogLvl,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		ShutdownTimeout:   DefaultShutdownTimeout,
	}
}

// NewConfig returns the defaults with override applied. A nil override yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.RootDir != nil {
		c.RootDir = *override.RootDir
	}
	if override.Addr != nil {
		c.Addr = *override.Addr
	}
	if override.Policy != nil {
		c.Policy = *override.Policy
	}
	if override.IndexDocument != nil {
		c.IndexDocument = *override.IndexDocument
	}
	if override.PluginName != nil {
		c.PluginName = *override.PluginName
	}
	if override.LogLvl != nil {
		c.LogLvl = verboseToLogLevel(*override.LogLvl)
	}
	if override.ReadHeaderTimeout != nil {
		c.ReadHeaderTimeout = *override.ReadHeaderTimeout
	}
	if override.ShutdownTimeout != nil {
		c.ShutdownTimeout = *override.ShutdownTimeout
	}
}

// Validate reports configuration values the host cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.RootDir == "" {
		errs = append(errs, errors.New("root_dir must not be empty"))
	}
	if c.Policy == "" {
		errs = append(errs, errors.New("policy must not be empty"))
	}
	if c.IndexDocument == "" || strings.ContainsAny(c.IndexDocument, `/\`) {
		errs = append(errs, fmt.Errorf("index_document must be a plain file name, got %q", c.IndexDocument))
	}
	return errors.Join(errs...)
}

// verboseToLogLevel clamps a CLI verbosity (1 error .. 5 trace) and maps it to a LogLevel
func verboseToLogLevel(verbose int) util.LogLevel {
	verbose = max(ErrorVerbose, min(verbose, TraceVerbose))
	lvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return lvls[verbose-1]
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}
