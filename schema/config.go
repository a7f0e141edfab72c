package schema

// ServiceConfig defines defaults and limits for the core service.
type ServiceConfig struct {
	DefaultKernel  KernelName
	BufferMaxLines int
	// DisableAuditLogging disables audit trail debug logs for executions.
	DisableAuditLogging bool
}

// DefaultBufferMaxLines is the default per-block terminal buffer limit.
const DefaultBufferMaxLines = 5000

// NormalizeServiceConfig applies defaults and validates the config.
func NormalizeServiceConfig(cfg ServiceConfig) (ServiceConfig, error) {
	if cfg.DefaultKernel == "" {
		cfg.DefaultKernel = KernelName("python3")
	}
	if cfg.BufferMaxLines <= 0 {
		cfg.BufferMaxLines = DefaultBufferMaxLines
	}
	return cfg, nil
}
