package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-lms/internal/runtimeconfig"
)

func TestConfigValidate_AllowsDisabledExportWithoutOutput(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Export.OutputDir = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RequiresOutputDirWhenExportEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Export.Enabled = true
	cfg.Export.OutputDir = " "

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrExportOutputDirRequired) {
		t.Fatalf("expected ErrExportOutputDirRequired, got %v", err)
	}
}

func TestConfigValidate_RequiresLoggingProviderWhenFeatureEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresAssessmentsFeatureForGradingKnobs(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Assessments = false
	cfg.Grading.MaxAttempts = 3

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrAssessmentsFeatureRequired) {
		t.Fatalf("expected ErrAssessmentsFeatureRequired, got %v", err)
	}
}

func TestConfigValidate_AnalyticsRequiresCache(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Analytics = true
	cfg.Cache.Enabled = false

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrAnalyticsFeatureRequiresCache) {
		t.Fatalf("expected ErrAnalyticsFeatureRequiresCache, got %v", err)
	}
}

func TestConfigValidate_CronRequiresScheduling(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Commands.AutoRegisterCron = true
	cfg.Features.Scheduling = false

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrCommandsCronRequiresScheduling) {
		t.Fatalf("expected ErrCommandsCronRequiresScheduling, got %v", err)
	}
}

func TestConfigValidate_RejectsNegativeRetention(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Retention.InteractionDays = -1

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrRetentionDaysInvalid) {
		t.Fatalf("expected ErrRetentionDaysInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsOutOfRangePassingScore(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Assessments = true
	cfg.Grading.PassingScore = 120

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrPassingScoreInvalid) {
		t.Fatalf("expected ErrPassingScoreInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsOutOfRangeAtRiskThreshold(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Analytics.AtRiskProgressThreshold = -5

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrAtRiskThresholdInvalid) {
		t.Fatalf("expected ErrAtRiskThresholdInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsNonPositiveConsentAge(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Consent.MinimumSelfConsentAge = 0

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrConsentMinimumAgeInvalid) {
		t.Fatalf("expected ErrConsentMinimumAgeInvalid, got %v", err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.Analytics.OverviewTTL != 5*time.Minute {
		t.Fatalf("unexpected overview TTL: %v", cfg.Analytics.OverviewTTL)
	}
}
