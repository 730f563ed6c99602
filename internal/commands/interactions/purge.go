// Package interactionscmd exposes AI interaction retention operations as go-command
// messages, including the scheduled purge that enforces the retention window.
package interactionscmd

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-lms/internal/commands"
	"github.com/goliatone/go-lms/internal/interactions"
	"github.com/goliatone/go-lms/internal/logging"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

const purgeInteractionsMessageType = "lms.interactions.purge"

// PurgeInteractionsCommand removes AI interactions older than the retention window.
type PurgeInteractionsCommand struct{}

// Type implements command.Message.
func (PurgeInteractionsCommand) Type() string { return purgeInteractionsMessageType }

// Validate satisfies command.Message.
func (PurgeInteractionsCommand) Validate() error {
	return validation.ValidateStruct(&PurgeInteractionsCommand{})
}

type purgeHandlerConfig struct {
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

// PurgeHandlerOption customises the purge handler.
type PurgeHandlerOption func(*purgeHandlerConfig)

// PurgeWithCronConfig overrides the cron registration options for the purge handler.
func PurgeWithCronConfig(config command.HandlerConfig) PurgeHandlerOption {
	return func(cfg *purgeHandlerConfig) {
		cfg.cronConfig = config
	}
}

// PurgeWithCronExpression overrides the cron expression for the purge handler.
func PurgeWithCronExpression(expression string) PurgeHandlerOption {
	return func(cfg *purgeHandlerConfig) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			cfg.cronConfig.Expression = trimmed
		}
	}
}

// PurgeWithTimeout overrides the default execution timeout.
func PurgeWithTimeout(timeout time.Duration) PurgeHandlerOption {
	return func(cfg *purgeHandlerConfig) {
		cfg.timeout = timeout
	}
}

// PurgeInteractionsHandler drops expired AI interactions via the interactions service.
type PurgeInteractionsHandler struct {
	service    interactions.Service
	logger     interfaces.Logger
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

// NewPurgeInteractionsHandler constructs a handler that delegates to the provided service.
func NewPurgeInteractionsHandler(service interactions.Service, logger interfaces.Logger, opts ...PurgeHandlerOption) *PurgeInteractionsHandler {
	cfg := purgeHandlerConfig{
		cronConfig: command.HandlerConfig{
			Expression: "@daily",
		},
		timeout: commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &PurgeInteractionsHandler{
		service:    service,
		logger:     commands.EnsureLogger(logger),
		cronConfig: cfg.cronConfig,
		timeout:    cfg.timeout,
	}
}

// Execute satisfies command.Commander[PurgeInteractionsCommand].
func (h *PurgeInteractionsHandler) Execute(ctx context.Context, msg PurgeInteractionsCommand) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return commands.WrapContextError(err)
	}

	purged, err := h.service.PurgeExpired(ctx)
	if err != nil {
		return commands.WrapExecuteError(err)
	}

	logging.WithFields(h.logger, map[string]any{
		"operation": "interactions.purge",
		"purged":    purged,
	}).Debug("interactions.command.purge.removed")
	return nil
}

// CronHandler satisfies command.CronCommand by binding the purge to a cron runner.
func (h *PurgeInteractionsHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), PurgeInteractionsCommand{})
	}
}

// CronOptions satisfies command.CronCommand by returning the configured cron metadata.
func (h *PurgeInteractionsHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIHandler exposes the purge handler to CLI integrations.
func (h *PurgeInteractionsHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for the retention purge.
func (h *PurgeInteractionsHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"interactions", "purge"},
		Group:       "interactions",
		Description: "Remove AI interactions older than the retention window",
	}
}
