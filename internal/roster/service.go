package roster

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/logging"
	"github.com/goliatone/go-lms/pkg/activity"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

// Service exposes roster and privacy-consent management capabilities.
type Service interface {
	RegisterStudent(ctx context.Context, input RegisterStudentInput) (*Student, error)
	UpdateStudent(ctx context.Context, input UpdateStudentInput) (*Student, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*Student, error)
	GetStudentByEmail(ctx context.Context, email string) (*Student, error)
	ListStudents(ctx context.Context, opts ListStudentsOptions) ([]*Student, int, error)
	DeactivateStudent(ctx context.Context, id uuid.UUID) (*Student, error)
	DeleteStudent(ctx context.Context, req DeleteStudentRequest) error

	GrantConsent(ctx context.Context, input GrantConsentInput) (*PrivacyConsent, error)
	RevokeConsent(ctx context.Context, input RevokeConsentInput) (*PrivacyConsent, error)
	HasConsent(ctx context.Context, studentID uuid.UUID, purpose domain.ConsentPurpose) (bool, error)
	ListConsents(ctx context.Context, studentID uuid.UUID) ([]*PrivacyConsent, error)
	RequiresGuardianConsent(student *Student, now time.Time) bool
}

// RegisterStudentInput captures the information required to register a student.
type RegisterStudentInput struct {
	Email         string
	FullName      string
	GradeLevel    string
	BirthDate     *time.Time
	GuardianEmail *string
}

// UpdateStudentInput defines mutable student fields.
type UpdateStudentInput struct {
	StudentID     uuid.UUID
	FullName      *string
	GradeLevel    *string
	GuardianEmail *string
}

type DeleteStudentRequest struct {
	StudentID  uuid.UUID
	HardDelete bool
}

// GrantConsentInput records a consent grant for a purpose.
type GrantConsentInput struct {
	StudentID uuid.UUID
	Purpose   domain.ConsentPurpose
	GrantedBy ConsentActor
}

// RevokeConsentInput withdraws a previously granted consent.
type RevokeConsentInput struct {
	StudentID uuid.UUID
	Purpose   domain.ConsentPurpose
	RevokedBy ConsentActor
}

var (
	ErrStudentEmailRequired         = errors.New("roster: student email required")
	ErrStudentEmailInvalid          = errors.New("roster: student email is invalid")
	ErrStudentNameRequired          = errors.New("roster: student full name required")
	ErrStudentExists                = errors.New("roster: student email already exists")
	ErrStudentInactive              = errors.New("roster: student is inactive")
	ErrGuardianEmailRequired        = errors.New("roster: guardian email required for students under the self-consent age")
	ErrGuardianEmailInvalid         = errors.New("roster: guardian email is invalid")
	ErrBirthDateInFuture            = errors.New("roster: birth date cannot be in the future")
	ErrStudentSoftDeleteUnsupported = errors.New("roster: soft delete not supported for students")

	ErrConsentPurposeInvalid   = errors.New("roster: unknown consent purpose")
	ErrConsentActorInvalid     = errors.New("roster: consent actor must be student or guardian")
	ErrGuardianConsentRequired = errors.New("roster: guardian must grant consent for students under the self-consent age")
	ErrConsentNotGranted       = errors.New("roster: consent was never granted")
)

// IDGenerator produces unique identifiers.
type IDGenerator func() uuid.UUID

// ServiceOption configures roster service behaviour.
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
		s.logger = logging.RosterLogger(provider)
	}
}

// WithMinimumSelfConsentAge overrides the age at which students grant their
// own consent.
func WithMinimumSelfConsentAge(age int) ServiceOption {
	return func(s *service) {
		if age > 0 {
			s.minSelfConsentAge = age
		}
	}
}

// WithActivityEmitter wires roster activity events.
func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *service) {
		if emitter != nil {
			s.activity = emitter
		}
	}
}

const defaultMinSelfConsentAge = 13

type service struct {
	students          StudentRepository
	consents          ConsentRepository
	logger            interfaces.Logger
	activity          *activity.Emitter
	now               func() time.Time
	id                IDGenerator
	minSelfConsentAge int
}

// NewService constructs a roster service instance.
func NewService(studentRepo StudentRepository, consentRepo ConsentRepository, opts ...ServiceOption) Service {
	s := &service{
		students:          studentRepo,
		consents:          consentRepo,
		logger:            logging.NoOp(),
		now:               time.Now,
		id:                uuid.New,
		minSelfConsentAge: defaultMinSelfConsentAge,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) RegisterStudent(ctx context.Context, input RegisterStudentInput) (*Student, error) {
	email, err := normalizeEmail(input.Email, ErrStudentEmailRequired, ErrStudentEmailInvalid)
	if err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, ErrStudentNameRequired
	}

	now := s.now()
	if input.BirthDate != nil && input.BirthDate.After(now) {
		return nil, ErrBirthDateInFuture
	}

	var guardianEmail *string
	if input.GuardianEmail != nil && strings.TrimSpace(*input.GuardianEmail) != "" {
		normalized, err := normalizeEmail(*input.GuardianEmail, ErrGuardianEmailInvalid, ErrGuardianEmailInvalid)
		if err != nil {
			return nil, err
		}
		guardianEmail = &normalized
	}

	if s.requiresGuardian(input.BirthDate, now) && guardianEmail == nil {
		return nil, ErrGuardianEmailRequired
	}

	if existing, err := s.students.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrStudentExists
	} else if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	student := &Student{
		ID:            s.id(),
		Email:         email,
		FullName:      fullName,
		GradeLevel:    strings.TrimSpace(input.GradeLevel),
		BirthDate:     cloneTimePtr(input.BirthDate),
		GuardianEmail: guardianEmail,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.students.Create(ctx, student)
	if err != nil {
		return nil, err
	}
	s.logger.Info("student.registered", "student_id", created.ID, "email", created.Email)
	s.emit(ctx, "register", "student", created.ID.String(), map[string]any{"email": created.Email})
	return created, nil
}

func (s *service) UpdateStudent(ctx context.Context, input UpdateStudentInput) (*Student, error) {
	student, err := s.students.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		fullName := strings.TrimSpace(*input.FullName)
		if fullName == "" {
			return nil, ErrStudentNameRequired
		}
		student.FullName = fullName
	}
	if input.GradeLevel != nil {
		student.GradeLevel = strings.TrimSpace(*input.GradeLevel)
	}
	if input.GuardianEmail != nil {
		if strings.TrimSpace(*input.GuardianEmail) == "" {
			if s.requiresGuardian(student.BirthDate, s.now()) {
				return nil, ErrGuardianEmailRequired
			}
			student.GuardianEmail = nil
		} else {
			normalized, err := normalizeEmail(*input.GuardianEmail, ErrGuardianEmailInvalid, ErrGuardianEmailInvalid)
			if err != nil {
				return nil, err
			}
			student.GuardianEmail = &normalized
		}
	}

	student.UpdatedAt = s.now()
	return s.students.Update(ctx, student)
}

func (s *service) GetStudent(ctx context.Context, id uuid.UUID) (*Student, error) {
	return s.students.GetByID(ctx, id)
}

func (s *service) GetStudentByEmail(ctx context.Context, email string) (*Student, error) {
	return s.students.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *service) ListStudents(ctx context.Context, opts ListStudentsOptions) ([]*Student, int, error) {
	return s.students.List(ctx, opts)
}

func (s *service) DeactivateStudent(ctx context.Context, id uuid.UUID) (*Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !student.Active {
		return student, nil
	}
	student.Active = false
	student.UpdatedAt = s.now()
	updated, err := s.students.Update(ctx, student)
	if err != nil {
		return nil, err
	}
	s.logger.Info("student.deactivated", "student_id", updated.ID)
	return updated, nil
}

func (s *service) DeleteStudent(ctx context.Context, req DeleteStudentRequest) error {
	if req.StudentID == uuid.Nil {
		return &NotFoundError{Resource: "student", Key: ""}
	}
	if !req.HardDelete {
		return ErrStudentSoftDeleteUnsupported
	}
	return s.students.Delete(ctx, req.StudentID)
}

func (s *service) GrantConsent(ctx context.Context, input GrantConsentInput) (*PrivacyConsent, error) {
	if !domain.KnownConsentPurpose(input.Purpose) {
		return nil, ErrConsentPurposeInvalid
	}
	if input.GrantedBy != ConsentActorStudent && input.GrantedBy != ConsentActorGuardian {
		return nil, ErrConsentActorInvalid
	}

	student, err := s.students.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}
	if !student.Active {
		return nil, ErrStudentInactive
	}

	now := s.now()
	if s.requiresGuardian(student.BirthDate, now) && input.GrantedBy != ConsentActorGuardian {
		return nil, ErrGuardianConsentRequired
	}

	// A fresh grant supersedes any active grant for the same purpose so at
	// most one consent row is active per student+purpose.
	if latest, err := s.consents.GetLatest(ctx, student.ID, input.Purpose); err == nil {
		if latest.Granted && latest.RevokedAt == nil {
			latest.Granted = false
			latest.RevokedAt = &now
			latest.UpdatedAt = now
			if _, err := s.consents.Update(ctx, latest); err != nil {
				return nil, err
			}
		}
	} else {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	consent := &PrivacyConsent{
		ID:        s.id(),
		StudentID: student.ID,
		Purpose:   input.Purpose,
		Granted:   true,
		GrantedBy: input.GrantedBy,
		GrantedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.consents.Create(ctx, consent)
	if err != nil {
		return nil, err
	}
	s.logger.Info("consent.granted", "student_id", student.ID, "purpose", string(input.Purpose), "granted_by", string(input.GrantedBy))
	s.emit(ctx, "consent.grant", "privacy_consent", created.ID.String(), map[string]any{
		"purpose":    string(input.Purpose),
		"granted_by": string(input.GrantedBy),
	})
	return created, nil
}

func (s *service) RevokeConsent(ctx context.Context, input RevokeConsentInput) (*PrivacyConsent, error) {
	if !domain.KnownConsentPurpose(input.Purpose) {
		return nil, ErrConsentPurposeInvalid
	}

	latest, err := s.consents.GetLatest(ctx, input.StudentID, input.Purpose)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, ErrConsentNotGranted
		}
		return nil, err
	}
	if !latest.Granted || latest.RevokedAt != nil {
		return nil, ErrConsentNotGranted
	}

	now := s.now()
	latest.Granted = false
	latest.RevokedAt = &now
	latest.UpdatedAt = now

	updated, err := s.consents.Update(ctx, latest)
	if err != nil {
		return nil, err
	}
	s.logger.Info("consent.revoked", "student_id", input.StudentID, "purpose", string(input.Purpose))
	s.emit(ctx, "consent.revoke", "privacy_consent", updated.ID.String(), map[string]any{
		"purpose": string(input.Purpose),
	})
	return updated, nil
}

func (s *service) HasConsent(ctx context.Context, studentID uuid.UUID, purpose domain.ConsentPurpose) (bool, error) {
	latest, err := s.consents.GetLatest(ctx, studentID, purpose)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, err
	}
	return latest.Granted && latest.RevokedAt == nil, nil
}

func (s *service) ListConsents(ctx context.Context, studentID uuid.UUID) ([]*PrivacyConsent, error) {
	return s.consents.ListByStudent(ctx, studentID)
}

// RequiresGuardianConsent reports whether the student is below the
// self-consent age at the supplied instant.
func (s *service) RequiresGuardianConsent(student *Student, now time.Time) bool {
	if student == nil {
		return false
	}
	return s.requiresGuardian(student.BirthDate, now)
}

func (s *service) requiresGuardian(birthDate *time.Time, now time.Time) bool {
	if birthDate == nil {
		return false
	}
	return ageAt(*birthDate, now) < s.minSelfConsentAge
}

func (s *service) emit(ctx context.Context, verb, objectType, objectID string, metadata map[string]any) {
	if s.activity == nil || !s.activity.Enabled() {
		return
	}
	if err := s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ObjectType: objectType,
		ObjectID:   objectID,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn("activity.emit.failed", "verb", verb, "error", err)
	}
}

func ageAt(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	anniversary := birthDate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

func normalizeEmail(email string, requiredErr, invalidErr error) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", requiredErr
	}
	if err := validation.Validate(trimmed, validation.Required, is.EmailFormat); err != nil {
		return "", invalidErr
	}
	return trimmed, nil
}
