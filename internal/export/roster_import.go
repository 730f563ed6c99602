package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-lms/internal/roster"
)

var ErrNoSheets = errors.New("export: spreadsheet contains no sheets")

// RosterImportResult summarises a roster spreadsheet ingest.
type RosterImportResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

// rosterColumns maps the expected header layout: Email, Full Name, Grade
// Level, Guardian Email, Birth Date. Only the first two are required.
const (
	colEmail = iota
	colFullName
	colGradeLevel
	colGuardianEmail
	colBirthDate
)

// ImportRoster reads student rows from the first sheet of an xlsx stream and
// registers them. Rows whose email already exists are counted as skipped;
// malformed rows are collected as errors without aborting the run.
func (s *Service) ImportRoster(ctx context.Context, r io.Reader) (*RosterImportResult, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("export: open spreadsheet: %w", err)
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoSheets
	}

	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("export: read sheet %s: %w", sheet, err)
	}

	result := &RosterImportResult{}
	for idx, row := range rows {
		if idx == 0 {
			// Header row.
			continue
		}
		if isBlankRow(row) {
			continue
		}

		input, err := rowToRegistration(idx+1, row)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}

		if _, err := s.students.RegisterStudent(ctx, input); err != nil {
			if errors.Is(err, roster.ErrStudentExists) {
				result.Skipped++
				continue
			}
			result.Errors = append(result.Errors, fmt.Errorf("export: row %d: %w", idx+1, err))
			continue
		}
		result.Imported++
	}

	s.logger.Info("export.roster_import", "imported", result.Imported, "skipped", result.Skipped, "errors", len(result.Errors))
	return result, nil
}

func rowToRegistration(line int, row []string) (roster.RegisterStudentInput, error) {
	input := roster.RegisterStudentInput{
		Email:      cellAt(row, colEmail),
		FullName:   cellAt(row, colFullName),
		GradeLevel: cellAt(row, colGradeLevel),
	}

	if guardian := cellAt(row, colGuardianEmail); guardian != "" {
		input.GuardianEmail = &guardian
	}

	if raw := cellAt(row, colBirthDate); raw != "" {
		birth, err := parseBirthDate(raw)
		if err != nil {
			return roster.RegisterStudentInput{}, fmt.Errorf("export: row %d: %w", line, err)
		}
		input.BirthDate = &birth
	}

	return input, nil
}

func parseBirthDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "01/02/2006"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid birth date %q", raw)
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
