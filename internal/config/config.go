package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"toolup/pkg/backend"
	"toolup/pkg/install"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the complete toolup configuration.
type Config struct {
	Install  InstallConfig     `toml:"install"`
	Output   OutputConfig      `toml:"output"`
	Catalog  CatalogConfig     `toml:"catalog"`
	Backends BackendsConfig    `toml:"backends"`
	Aliases  map[string]string `toml:"aliases"`
}

// InstallConfig tunes the installation loop.
type InstallConfig struct {
	// RetryCount is the number of extra rounds after the first.
	RetryCount int `toml:"retry_count"`

	// TimeoutSeconds bounds each backend install invocation.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// ProbeTimeoutSeconds bounds each backend availability probe.
	ProbeTimeoutSeconds int `toml:"probe_timeout_seconds"`

	// SettleSeconds is the pause before verifying a fresh install.
	SettleSeconds int `toml:"settle_seconds"`

	BackoffStepSeconds int `toml:"backoff_step_seconds"`
	BackoffMaxSeconds  int `toml:"backoff_max_seconds"`

	// Concurrency is how many tools are installed at once.
	Concurrency int `toml:"concurrency"`

	// Force reinstalls tools that are already present.
	Force bool `toml:"force"`

	// DryRun reports what would be installed without running anything.
	DryRun bool `toml:"dry_run"`

	// AutoConfirm skips confirmation prompts when true (like -y flag).
	AutoConfirm bool `toml:"auto_confirm"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Color enables colored output (respects NO_COLOR env var).
	Color bool `toml:"color"`

	// Unicode enables unicode symbols in output.
	Unicode bool `toml:"unicode"`

	// Verbose enables detailed output.
	Verbose bool `toml:"verbose"`
}

// CatalogConfig points at an extra tool catalog.
type CatalogConfig struct {
	// Path is a YAML catalog merged over the built-in one.
	Path string `toml:"path"`
}

// BackendsConfig controls which backends are probed.
type BackendsConfig struct {
	// Disabled lists backend names (winget, chocolatey, scoop) never used.
	Disabled []string `toml:"disabled"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Install: InstallConfig{
			RetryCount:          install.DefaultRetryCount,
			TimeoutSeconds:      int(install.DefaultTimeout / time.Second),
			ProbeTimeoutSeconds: int(backend.DefaultProbeTimeout / time.Second),
			SettleSeconds:       int(install.DefaultSettleDelay / time.Second),
			BackoffStepSeconds:  int(install.DefaultBackoffStep / time.Second),
			BackoffMaxSeconds:   int(install.DefaultBackoffMax / time.Second),
			Concurrency:         1,
		},
		Output: OutputConfig{
			Color:   true,
			Unicode: true,
			Verbose: false,
		},
		Aliases: map[string]string{},
	}
}

// Load loads the configuration from the default path.
// If the config file doesn't exist, it returns the default configuration.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from a specific path.
// If the config file doesn't exist, it returns the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	in := c.Install
	if in.RetryCount < 0 {
		errs = append(errs, fmt.Errorf("%w: retry_count must not be negative", ErrInvalid))
	}
	if in.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("%w: timeout_seconds must be positive", ErrInvalid))
	}
	if in.ProbeTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("%w: probe_timeout_seconds must be positive", ErrInvalid))
	}
	if in.SettleSeconds < 0 || in.BackoffStepSeconds < 0 || in.BackoffMaxSeconds < 0 {
		errs = append(errs, fmt.Errorf("%w: delays must not be negative", ErrInvalid))
	}
	if in.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("%w: concurrency must be positive", ErrInvalid))
	}

	if _, err := c.DisabledBackends(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalid, err))
	}

	return errors.Join(errs...)
}

// DisabledBackends parses the disabled backend names.
func (c *Config) DisabledBackends() ([]backend.Kind, error) {
	var kinds []backend.Kind
	for _, name := range c.Backends.Disabled {
		var k backend.Kind
		if err := k.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
			return nil, err
		}
		if k != backend.None {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// InstallOptions converts the install section into orchestrator options.
func (c *Config) InstallOptions() install.Options {
	in := c.Install
	return install.Options{
		RetryCount:  in.RetryCount,
		Timeout:     seconds(in.TimeoutSeconds),
		BackoffStep: seconds(in.BackoffStepSeconds),
		BackoffMax:  seconds(in.BackoffMaxSeconds),
		Force:       in.Force,
		DryRun:      in.DryRun,
		Concurrency: in.Concurrency,
	}
}

// ProbeTimeout returns the backend probe timeout.
func (c *Config) ProbeTimeout() time.Duration {
	return seconds(c.Install.ProbeTimeoutSeconds)
}

// SettleDelay returns the pause before verification.
func (c *Config) SettleDelay() time.Duration {
	return seconds(c.Install.SettleSeconds)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// ResolveAlias returns the tool name for an alias, or the original name if no alias exists.
func (c *Config) ResolveAlias(tool string) string {
	if alias, ok := c.Aliases[tool]; ok {
		return alias
	}
	return tool
}

// ResolveAliases resolves all aliases in a list of tool names.
func (c *Config) ResolveAliases(tools []string) []string {
	resolved := make([]string, len(tools))
	for i, tool := range tools {
		resolved[i] = c.ResolveAlias(tool)
	}
	return resolved
}

// ShouldUseColor returns true if colored output should be used.
// Respects the NO_COLOR environment variable.
func (c *Config) ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.Output.Color
}
