package interactions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/logging"
	"github.com/goliatone/go-lms/internal/roster"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

// Service records AI tutor exchanges and enforces the retention policy.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*AIInteraction, error)
	Get(ctx context.Context, id uuid.UUID) (*AIInteraction, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, opts ListOptions) ([]*AIInteraction, int, error)
	ListBySession(ctx context.Context, sessionID string) ([]*AIInteraction, error)
	// FlagForReview marks an exchange for a human moderation pass.
	FlagForReview(ctx context.Context, input FlagInput) (*AIInteraction, error)
	// PurgeExpired removes interactions older than the retention window and
	// returns how many records were dropped.
	PurgeExpired(ctx context.Context) (int, error)
	// EraseStudent removes every interaction for a student regardless of age.
	EraseStudent(ctx context.Context, studentID uuid.UUID) (int, error)
}

// RecordInput captures one AI tutor exchange.
type RecordInput struct {
	StudentID      uuid.UUID
	EnrollmentID   *uuid.UUID
	LessonID       *uuid.UUID
	SessionID      string
	Prompt         string
	Response       string
	Model          string
	TokensPrompt   int
	TokensResponse int
	Metadata       map[string]any
}

// FlagInput marks an interaction for moderation review.
type FlagInput struct {
	InteractionID uuid.UUID
	Reason        string
}

var (
	ErrStudentRequired  = errors.New("interactions: student id required")
	ErrPromptRequired   = errors.New("interactions: prompt required")
	ErrResponseRequired = errors.New("interactions: response required")
	ErrConsentRequired  = errors.New("interactions: student has not consented to AI tutoring")
	ErrRetentionInvalid = errors.New("interactions: retention days must be positive")
	ErrTokensInvalid    = errors.New("interactions: token counts must not be negative")
	ErrAlreadyFlagged   = errors.New("interactions: interaction is already flagged")
)

const defaultRetentionDays = 365

// IDGenerator produces unique identifiers.
type IDGenerator func() uuid.UUID

// ServiceOption configures interaction service behaviour.
type ServiceOption func(*service)

// WithClock overrides the time source used by the service.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the ID generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger wires the module logger.
func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		s.logger = logging.InteractionsLogger(provider)
	}
}

// WithRetentionDays sets the retention window applied by PurgeExpired.
func WithRetentionDays(days int) ServiceOption {
	return func(s *service) {
		if days > 0 {
			s.retentionDays = days
		}
	}
}

// WithConsentRequired toggles the AI tutoring consent gate on Record.
func WithConsentRequired(required bool) ServiceOption {
	return func(s *service) {
		s.requireConsent = required
	}
}

type service struct {
	records        Repository
	students       roster.Service
	logger         interfaces.Logger
	now            func() time.Time
	id             IDGenerator
	retentionDays  int
	requireConsent bool
}

// NewService constructs an interaction service. Consent gating is on by
// default, callers opt out through WithConsentRequired(false).
func NewService(repo Repository, students roster.Service, opts ...ServiceOption) Service {
	s := &service{
		records:        repo,
		students:       students,
		logger:         logging.NoOp(),
		now:            time.Now,
		id:             uuid.New,
		retentionDays:  defaultRetentionDays,
		requireConsent: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) Record(ctx context.Context, input RecordInput) (*AIInteraction, error) {
	if input.StudentID == uuid.Nil {
		return nil, ErrStudentRequired
	}
	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		return nil, ErrPromptRequired
	}
	response := strings.TrimSpace(input.Response)
	if response == "" {
		return nil, ErrResponseRequired
	}
	if input.TokensPrompt < 0 || input.TokensResponse < 0 {
		return nil, ErrTokensInvalid
	}

	if s.requireConsent {
		granted, err := s.students.HasConsent(ctx, input.StudentID, domain.ConsentAITutor)
		if err != nil {
			return nil, err
		}
		if !granted {
			return nil, ErrConsentRequired
		}
	}

	now := s.now()
	record := &AIInteraction{
		ID:             s.id(),
		StudentID:      input.StudentID,
		EnrollmentID:   input.EnrollmentID,
		LessonID:       input.LessonID,
		SessionID:      strings.TrimSpace(input.SessionID),
		Prompt:         prompt,
		Response:       response,
		Model:          strings.TrimSpace(input.Model),
		TokensPrompt:   input.TokensPrompt,
		TokensResponse: input.TokensResponse,
		Metadata:       input.Metadata,
		OccurredAt:     now,
		CreatedAt:      now,
	}

	created, err := s.records.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("interaction.recorded",
		"interaction_id", created.ID,
		"student_id", created.StudentID,
		"session_id", created.SessionID,
	)
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AIInteraction, error) {
	return s.records.GetByID(ctx, id)
}

func (s *service) ListByStudent(ctx context.Context, studentID uuid.UUID, opts ListOptions) ([]*AIInteraction, int, error) {
	return s.records.ListByStudent(ctx, studentID, opts)
}

func (s *service) ListBySession(ctx context.Context, sessionID string) ([]*AIInteraction, error) {
	return s.records.ListBySession(ctx, sessionID)
}

func (s *service) FlagForReview(ctx context.Context, input FlagInput) (*AIInteraction, error) {
	record, err := s.records.GetByID(ctx, input.InteractionID)
	if err != nil {
		return nil, err
	}
	if record.Flagged {
		return nil, ErrAlreadyFlagged
	}

	record.Flagged = true
	record.FlagReason = strings.TrimSpace(input.Reason)
	updated, err := s.records.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("interaction.flagged",
		"interaction_id", updated.ID,
		"student_id", updated.StudentID,
		"reason", updated.FlagReason,
	)
	return updated, nil
}

func (s *service) PurgeExpired(ctx context.Context) (int, error) {
	if s.retentionDays <= 0 {
		return 0, ErrRetentionInvalid
	}
	cutoff := s.now().AddDate(0, 0, -s.retentionDays)
	purged, err := s.records.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("interactions.purged", "count", purged, "cutoff", cutoff)
	}
	return purged, nil
}

func (s *service) EraseStudent(ctx context.Context, studentID uuid.UUID) (int, error) {
	if studentID == uuid.Nil {
		return 0, ErrStudentRequired
	}
	removed, err := s.records.DeleteByStudent(ctx, studentID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("interactions.erased", "student_id", studentID, "count", removed)
	return removed, nil
}
