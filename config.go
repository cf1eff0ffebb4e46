package backoffice

import "github.com/MelodiApp/melodia-backoffice-sub000/internal/runtimeconfig"

var (
	ErrCommandsCronRequiresScheduling = runtimeconfig.ErrCommandsCronRequiresScheduling
	ErrCommandsDisabled               = runtimeconfig.ErrCommandsDisabled
	ErrLoggingProviderRequired        = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown         = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid            = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid           = runtimeconfig.ErrLoggingFormatInvalid
	ErrSchedulerBatchSizeInvalid      = runtimeconfig.ErrSchedulerBatchSizeInvalid
	ErrSchedulerMaxAttemptsInvalid    = runtimeconfig.ErrSchedulerMaxAttemptsInvalid
)

type (
	Config          = runtimeconfig.Config
	StorageConfig   = runtimeconfig.StorageConfig
	CacheConfig     = runtimeconfig.CacheConfig
	SchedulerConfig = runtimeconfig.SchedulerConfig
	Features        = runtimeconfig.Features
	CommandsConfig  = runtimeconfig.CommandsConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
