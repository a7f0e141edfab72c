package appconfig

import (
	"os"
	"path/filepath"

	"pkt.systems/jove/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int           `mapstructure:"config_version" yaml:"config_version"`
	Kernel        KernelConfig  `mapstructure:"kernel" yaml:"kernel"`
	Service       ServiceConfig `mapstructure:"service" yaml:"service"`
	Logging       LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// KernelConfig configures the kernel shim process.
type KernelConfig struct {
	Binary string            `mapstructure:"binary" yaml:"binary"`
	Args   []string          `mapstructure:"args" yaml:"args"`
	Env    map[string]string `mapstructure:"env" yaml:"env"`
	// Name is the kernel identity passed to the shim, e.g. python3.
	Name string `mapstructure:"name" yaml:"name"`
}

// ServiceConfig controls core service behavior.
type ServiceConfig struct {
	BufferMaxLines int `mapstructure:"buffer_max_lines" yaml:"buffer_max_lines"`
}

// LoggingConfig controls audit logging behavior.
type LoggingConfig struct {
	DisableAuditTrails bool `mapstructure:"disable_audit_trails" yaml:"disable_audit_trails"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Kernel: KernelConfig{
			Binary: "jove-kernel",
			Args:   []string{},
			Env:    map[string]string{},
			Name:   "python3",
		},
		Service: ServiceConfig{
			BufferMaxLines: schema.DefaultBufferMaxLines,
		},
		Logging: LoggingConfig{
			DisableAuditTrails: false,
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".jove", "config.yaml"), nil
}
