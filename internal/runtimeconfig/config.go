package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCommandsCronRequiresScheduling ensures automatic cron wiring only runs when scheduling is enabled.
var ErrCommandsCronRequiresScheduling = errors.New("backoffice config: command cron auto-registration requires scheduling to be enabled")

// ErrCommandsDisabled is returned when the command surface is requested while disabled.
var ErrCommandsDisabled = errors.New("backoffice config: command surface is disabled")

var ErrLoggingProviderRequired = errors.New("backoffice config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("backoffice config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("backoffice config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("backoffice config: logging format is invalid")
var ErrSchedulerBatchSizeInvalid = errors.New("backoffice config: scheduler batch size must be zero or positive")
var ErrSchedulerMaxAttemptsInvalid = errors.New("backoffice config: scheduler max attempts must be zero or positive")

// Config aggregates feature flags and adapter bindings for the backoffice module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled   bool
	Storage   StorageConfig
	Cache     CacheConfig
	Scheduler SchedulerConfig
	Features  Features
	Commands  CommandsConfig
	Logging   LoggingConfig
}

// StorageConfig lists identifiers for storage-related dependencies. Driver and
// DSN are only consulted when the provider is "bun"; an empty DSN keeps the
// module on in-memory repositories.
type StorageConfig struct {
	Provider string
	Driver   string
	DSN      string
}

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// SchedulerConfig captures publish worker behaviour.
type SchedulerConfig struct {
	BatchSize   int
	MaxAttempts int
}

// Features toggles module functionality.
type Features struct {
	Scheduling bool
	Logger     bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled          bool
	AutoRegisterCron bool
	PublishDueCron   string
}

// DefaultConfig returns opinionated defaults for a fully featured deployment.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Storage: StorageConfig{
			Provider: "bun",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Scheduler: SchedulerConfig{
			BatchSize:   50,
			MaxAttempts: 3,
		},
		Features: Features{
			Scheduling: true,
		},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Commands.AutoRegisterCron && !cfg.Features.Scheduling {
		return ErrCommandsCronRequiresScheduling
	}
	if cfg.Scheduler.BatchSize < 0 {
		return ErrSchedulerBatchSizeInvalid
	}
	if cfg.Scheduler.MaxAttempts < 0 {
		return ErrSchedulerMaxAttemptsInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "noop", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
