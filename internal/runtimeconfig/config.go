package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// ErrAssessmentsFeatureRequired indicates inconsistent assessment configuration.
var ErrAssessmentsFeatureRequired = errors.New("lms config: assessments feature must be enabled to configure grading")

// ErrAnalyticsFeatureRequiresCache ensures analytics read models only build on top of a cache.
var ErrAnalyticsFeatureRequiresCache = errors.New("lms config: analytics feature requires cache to be enabled")

// ErrCommandsCronRequiresScheduling ensures automatic cron wiring only runs when scheduling is enabled.
var ErrCommandsCronRequiresScheduling = errors.New("lms config: command cron auto-registration requires scheduling to be enabled")
var ErrMarkdownFeatureRequired = errors.New("lms config: markdown feature must be enabled to configure lesson import")
var ErrMarkdownContentDirRequired = errors.New("lms config: markdown content directory is required when lesson import is enabled")
var ErrExportOutputDirRequired = errors.New("lms config: export output directory is required when export is enabled")
var ErrLoggingProviderRequired = errors.New("lms config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("lms config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("lms config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("lms config: logging format is invalid")
var ErrRetentionDaysInvalid = errors.New("lms config: retention days must be zero or positive")
var ErrPassingScoreInvalid = errors.New("lms config: passing score must be between 0 and 100")
var ErrAtRiskThresholdInvalid = errors.New("lms config: at-risk threshold must be between 0 and 100")
var ErrConsentMinimumAgeInvalid = errors.New("lms config: consent minimum age must be positive")

// Config aggregates feature flags and adapter bindings for the LMS module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled       bool
	DefaultLocale string
	Catalog       CatalogConfig
	Storage       StorageConfig
	Cache         CacheConfig
	Navigation    NavigationConfig
	Retention     RetentionConfig
	Features      Features
	Commands      CommandsConfig
	Markdown      MarkdownConfig
	Grading       GradingConfig
	Analytics     AnalyticsConfig
	Consent       ConsentConfig
	Export        ExportConfig
	Logging       LoggingConfig
}

// CatalogConfig captures configuration for the course catalog module.
type CatalogConfig struct {
	// DefaultCapacity is applied to courses created without an explicit
	// capacity. Zero means unlimited seats.
	DefaultCapacity int
	// RequireLessons rejects course publication when no lessons exist.
	RequireLessons bool
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// NavigationConfig captures routing configuration for portal URL resolution.
type NavigationConfig struct {
	RouteConfig *urlkit.Config
	URLKit      URLKitResolverConfig
}

// URLKitResolverConfig configures the go-urlkit based link builder.
type URLKitResolverConfig struct {
	DefaultGroup string
	CourseRoute  string
	LessonRoute  string
	StudentRoute string
	CourseParam  string
	LessonParam  string
	StudentParam string
}

// Features toggles module functionality.
type Features struct {
	Assessments    bool
	Analytics      bool
	Scheduling     bool
	AIInteractions bool
	Markdown       bool
	Export         bool
	Logger         bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// RetentionConfig captures data-retention windows enforced by scheduled jobs.
type RetentionConfig struct {
	// InteractionDays bounds how long AI tutor interaction logs are kept.
	// Zero disables the purge job.
	InteractionDays int
	// AttemptDays bounds how long expired in-progress attempts are kept
	// before they are swept to the expired status.
	AttemptDays int
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
	AutoRegisterCron       bool
	RetentionCron          string
}

// MarkdownConfig captures filesystem and parser behaviour for lesson ingestion.
type MarkdownConfig struct {
	Enabled    bool
	ContentDir string
	Pattern    string
	Recursive  bool
	Parser     MarkdownParserConfig
}

// MarkdownParserConfig mirrors the parser options exposed by the markdown package.
type MarkdownParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// GradingConfig captures assessment grading behaviour.
type GradingConfig struct {
	// PassingScore is the minimum percentage required to pass an assessment.
	PassingScore float64
	// MaxAttempts limits retakes per assessment. Zero means unlimited.
	MaxAttempts int
	// DefaultTimeLimit bounds attempts without a per-assessment limit.
	DefaultTimeLimit time.Duration
}

// AnalyticsConfig captures thresholds for derived read models.
type AnalyticsConfig struct {
	// AtRiskProgressThreshold marks students below this completion percentage
	// as at risk.
	AtRiskProgressThreshold float64
	// AtRiskInactivity marks students idle for longer than this window as at risk.
	AtRiskInactivity time.Duration
	// OverviewTTL bounds how long cached overviews are served.
	OverviewTTL time.Duration
}

// ConsentConfig captures privacy-consent policy knobs.
type ConsentConfig struct {
	// MinimumSelfConsentAge is the age at which students can grant their own
	// consent. Younger students require a guardian grant.
	MinimumSelfConsentAge int
	// RequireAIConsent gates AI tutor interaction logging behind consent.
	RequireAIConsent bool
}

// ExportConfig captures spreadsheet export behaviour.
type ExportConfig struct {
	Enabled   bool
	OutputDir string
	// SheetName overrides the default gradebook sheet name.
	SheetName string
}

// DefaultConfig returns opinionated defaults matching an embedded deployment.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		DefaultLocale: "en",
		Catalog: CatalogConfig{
			RequireLessons: true,
		},
		Storage: StorageConfig{
			Provider: "bun",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Navigation: NavigationConfig{},
		Retention: RetentionConfig{
			InteractionDays: 365,
		},
		Features: Features{},
		Commands: CommandsConfig{},
		Markdown: MarkdownConfig{
			ContentDir: "lessons",
			Pattern:    "*.md",
			Recursive:  true,
		},
		Grading: GradingConfig{
			PassingScore: 70,
		},
		Analytics: AnalyticsConfig{
			AtRiskProgressThreshold: 25,
			AtRiskInactivity:        14 * 24 * time.Hour,
			OverviewTTL:             5 * time.Minute,
		},
		Consent: ConsentConfig{
			MinimumSelfConsentAge: 13,
			RequireAIConsent:      true,
		},
		Export: ExportConfig{
			OutputDir: "exports",
			SheetName: "Gradebook",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if !cfg.Features.Assessments {
		if cfg.Grading.MaxAttempts != 0 || cfg.Grading.DefaultTimeLimit != 0 {
			return ErrAssessmentsFeatureRequired
		}
	}
	if cfg.Features.Analytics && !cfg.Cache.Enabled {
		return ErrAnalyticsFeatureRequiresCache
	}
	if cfg.Commands.AutoRegisterCron && !cfg.Features.Scheduling {
		return ErrCommandsCronRequiresScheduling
	}
	if cfg.Markdown.Enabled {
		if !cfg.Features.Markdown {
			return ErrMarkdownFeatureRequired
		}
		if strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
			return ErrMarkdownContentDirRequired
		}
	}
	if cfg.Export.Enabled {
		if strings.TrimSpace(cfg.Export.OutputDir) == "" {
			return ErrExportOutputDirRequired
		}
	}
	if cfg.Retention.InteractionDays < 0 {
		return fmt.Errorf("%w: interactions", ErrRetentionDaysInvalid)
	}
	if cfg.Retention.AttemptDays < 0 {
		return fmt.Errorf("%w: attempts", ErrRetentionDaysInvalid)
	}
	if cfg.Grading.PassingScore < 0 || cfg.Grading.PassingScore > 100 {
		return fmt.Errorf("%w: %.2f", ErrPassingScoreInvalid, cfg.Grading.PassingScore)
	}
	if cfg.Analytics.AtRiskProgressThreshold < 0 || cfg.Analytics.AtRiskProgressThreshold > 100 {
		return fmt.Errorf("%w: %.2f", ErrAtRiskThresholdInvalid, cfg.Analytics.AtRiskProgressThreshold)
	}
	if cfg.Consent.MinimumSelfConsentAge <= 0 {
		return fmt.Errorf("%w: %d", ErrConsentMinimumAgeInvalid, cfg.Consent.MinimumSelfConsentAge)
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
	case "console", "gologger":
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
