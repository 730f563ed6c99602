// Package export produces gradebook spreadsheets and ingests roster
// spreadsheets using excelize.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-lms/internal/assessment"
	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/links"
	"github.com/goliatone/go-lms/internal/logging"
	"github.com/goliatone/go-lms/internal/progress"
	"github.com/goliatone/go-lms/internal/roster"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

const defaultSheetName = "Gradebook"

// Service builds gradebook workbooks and imports roster spreadsheets.
type Service struct {
	courses     catalog.Service
	students    roster.Service
	enrollments enrollment.Service
	progress    progress.Service
	assessments assessment.Service
	links       *links.Builder
	sheetName   string
	logger      interfaces.Logger
}

// Option configures optional exporter collaborators.
type Option func(*Service)

// WithLinkBuilder embeds portal hyperlinks in exported workbooks.
func WithLinkBuilder(builder *links.Builder) Option {
	return func(s *Service) {
		s.links = builder
	}
}

// WithSheetName overrides the gradebook sheet name.
func WithSheetName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.sheetName = name
		}
	}
}

// WithLogger wires the module logger.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(s *Service) {
		s.logger = logging.ExportLogger(provider)
	}
}

// NewService constructs an export service over the given domain services.
func NewService(
	courses catalog.Service,
	students roster.Service,
	enrollments enrollment.Service,
	progressSvc progress.Service,
	assessments assessment.Service,
	opts ...Option,
) *Service {
	s := &Service{
		courses:     courses,
		students:    students,
		enrollments: enrollments,
		progress:    progressSvc,
		assessments: assessments,
		sheetName:   defaultSheetName,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Gradebook builds an in-memory workbook for the course. Callers own the
// returned file and must Close it.
func (s *Service) Gradebook(ctx context.Context, courseID uuid.UUID) (*excelize.File, error) {
	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	published, err := s.publishedAssessments(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	records, _, err := s.enrollments.ListByCourse(ctx, course.ID, enrollment.ListOptions{})
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	if err := file.SetSheetName(sheet, s.sheetName); err != nil {
		file.Close()
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}
	sheet = s.sheetName

	if err := s.writeHeader(file, sheet, published); err != nil {
		file.Close()
		return nil, err
	}

	rows := make([]gradebookRow, 0, len(records))
	for _, record := range records {
		student, err := s.students.GetStudent(ctx, record.StudentID)
		if err != nil {
			file.Close()
			return nil, err
		}
		rows = append(rows, gradebookRow{student: student, record: record})
	}
	// Stable alphabetical roster regardless of enrollment order.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].student.FullName != rows[j].student.FullName {
			return rows[i].student.FullName < rows[j].student.FullName
		}
		return rows[i].student.Email < rows[j].student.Email
	})

	row := 2
	for _, entry := range rows {
		if err := s.writeStudentRow(ctx, file, sheet, row, entry, published); err != nil {
			file.Close()
			return nil, err
		}
		row++
	}

	s.logger.Info("export.gradebook", "course_id", course.ID, "code", course.Code, "rows", row-2)
	return file, nil
}

// WriteGradebook streams the workbook for the course to w.
func (s *Service) WriteGradebook(ctx context.Context, courseID uuid.UUID, w io.Writer) error {
	file, err := s.Gradebook(ctx, courseID)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func (s *Service) publishedAssessments(ctx context.Context, courseID uuid.UUID) ([]*assessment.Assessment, error) {
	if s.assessments == nil {
		return nil, nil
	}
	all, err := s.assessments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	published := make([]*assessment.Assessment, 0, len(all))
	for _, a := range all {
		if a.Status == domain.StatusPublished {
			published = append(published, a)
		}
	}
	return published, nil
}

func (s *Service) writeHeader(file *excelize.File, sheet string, published []*assessment.Assessment) error {
	headers := []string{"Student", "Email", "Grade Level", "Status", "Progress %", "Time Spent (min)"}
	for _, a := range published {
		headers = append(headers, a.Title+" (Best %)")
	}
	headers = append(headers, "Final Grade")

	for idx, header := range headers {
		cell, err := excelize.CoordinatesToCellName(idx+1, 1)
		if err != nil {
			return fmt.Errorf("export: header cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("export: header cell %s: %w", cell, err)
		}
	}
	return nil
}

type gradebookRow struct {
	student *roster.Student
	record  *enrollment.Enrollment
}

func (s *Service) writeStudentRow(ctx context.Context, file *excelize.File, sheet string, row int, entry gradebookRow, published []*assessment.Assessment) error {
	student := entry.student
	record := entry.record

	summary, err := s.progress.Summary(ctx, record.ID)
	if err != nil {
		return err
	}

	values := []any{
		student.FullName,
		student.Email,
		student.GradeLevel,
		string(record.Status),
		summary.PercentComplete,
		summary.TimeSpentSeconds / 60,
	}

	for _, a := range published {
		best, err := s.assessments.BestAttempt(ctx, a.ID, record.ID)
		if err != nil {
			if errors.Is(err, assessment.ErrNoGradedAttempts) {
				values = append(values, "")
				continue
			}
			return err
		}
		if best.Score != nil {
			values = append(values, *best.Score)
		} else {
			values = append(values, "")
		}
	}

	if record.FinalGrade != nil {
		values = append(values, *record.FinalGrade)
	} else {
		values = append(values, "")
	}

	for idx, value := range values {
		cell, err := excelize.CoordinatesToCellName(idx+1, row)
		if err != nil {
			return fmt.Errorf("export: cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("export: cell %s: %w", cell, err)
		}
	}

	if s.links != nil {
		url, err := s.links.StudentURL(student.ID)
		if err == nil && url != "" {
			cell, cellErr := excelize.CoordinatesToCellName(1, row)
			if cellErr != nil {
				return fmt.Errorf("export: cell: %w", cellErr)
			}
			if err := file.SetCellHyperLink(sheet, cell, url, "External"); err != nil {
				return fmt.Errorf("export: hyperlink %s: %w", cell, err)
			}
		}
	}

	return nil
}
