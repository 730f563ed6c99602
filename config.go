package lms

import "github.com/goliatone/go-lms/internal/runtimeconfig"

var (
	ErrAssessmentsFeatureRequired     = runtimeconfig.ErrAssessmentsFeatureRequired
	ErrAnalyticsFeatureRequiresCache  = runtimeconfig.ErrAnalyticsFeatureRequiresCache
	ErrCommandsCronRequiresScheduling = runtimeconfig.ErrCommandsCronRequiresScheduling
	ErrMarkdownFeatureRequired        = runtimeconfig.ErrMarkdownFeatureRequired
	ErrMarkdownContentDirRequired     = runtimeconfig.ErrMarkdownContentDirRequired
	ErrExportOutputDirRequired        = runtimeconfig.ErrExportOutputDirRequired
	ErrLoggingProviderRequired        = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown         = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid            = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid           = runtimeconfig.ErrLoggingFormatInvalid
	ErrRetentionDaysInvalid           = runtimeconfig.ErrRetentionDaysInvalid
	ErrPassingScoreInvalid            = runtimeconfig.ErrPassingScoreInvalid
	ErrAtRiskThresholdInvalid         = runtimeconfig.ErrAtRiskThresholdInvalid
	ErrConsentMinimumAgeInvalid       = runtimeconfig.ErrConsentMinimumAgeInvalid
)

type (
	Config               = runtimeconfig.Config
	CatalogConfig        = runtimeconfig.CatalogConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	NavigationConfig     = runtimeconfig.NavigationConfig
	URLKitResolverConfig = runtimeconfig.URLKitResolverConfig
	RetentionConfig      = runtimeconfig.RetentionConfig
	Features             = runtimeconfig.Features
	CommandsConfig       = runtimeconfig.CommandsConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	GradingConfig        = runtimeconfig.GradingConfig
	AnalyticsConfig      = runtimeconfig.AnalyticsConfig
	ConsentConfig        = runtimeconfig.ConsentConfig
	ExportConfig         = runtimeconfig.ExportConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
