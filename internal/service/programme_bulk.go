package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/dto"
	"github.com/courtline/courtline-api/internal/models"
	"github.com/courtline/courtline-api/internal/observability"
	"github.com/courtline/courtline-api/internal/repository"
)

// Columns a register upload must carry. Order is free; matching is by
// header name, case-insensitively.
var uploadColumns = []string{"student_name", "date_of_birth", "contact_email", "coach_email", "group_name"}

func (s *programmeService) BulkEnroll(ctx context.Context, actor Actor, periodID uint, rows [][]string) (dto.BulkEnrollmentResult, error) {
	ctx, span := s.tracer.Start(ctx, "programme.bulk_enroll", trace.WithAttributes(
		attribute.Int("club_id", int(actor.ClubID)),
		attribute.Int("teaching_period_id", int(periodID)),
		attribute.Int("rows", len(rows)),
	))
	defer span.End()

	if !actor.IsAdmin() {
		return dto.BulkEnrollmentResult{}, ErrPermissionDenied
	}
	if _, err := s.periodInClub(ctx, actor, periodID); err != nil {
		return dto.BulkEnrollmentResult{}, err
	}
	if len(rows) < 2 {
		return dto.BulkEnrollmentResult{}, NewValidationError(map[string]string{
			"file": "upload must contain a header row and at least one data row",
		})
	}

	columns, err := uploadColumnIndex(rows[0])
	if err != nil {
		return dto.BulkEnrollmentResult{}, err
	}

	batch := newBulkBatch()
	var rowErrors []dto.RowErrorResponse

	// Row numbers are 1-based and count the header, matching what the
	// uploader sees in a spreadsheet.
	for i, row := range rows[1:] {
		rowNumber := i + 2
		entry, err := s.resolveRow(ctx, actor, periodID, columns, row, batch)
		if err != nil {
			observability.Enrollments().WithLabelValues("row_error").Inc()
			rowErrors = append(rowErrors, dto.RowErrorResponse{Row: rowNumber, Message: err.Error()})
			continue
		}
		batch.add(entry)
	}

	if len(rowErrors) > 0 {
		s.logger.Warn().
			Int("rows", len(rows)-1).
			Int("errors", len(rowErrors)).
			Msg("bulk enrollment rejected")
		return dto.BulkEnrollmentResult{Errors: rowErrors}, nil
	}

	studentsCreated := 0
	for _, entry := range batch.entries {
		if entry.Student.ID == 0 {
			studentsCreated++
		}
	}

	if err := s.players.BulkCreate(ctx, batch.entries); err != nil {
		observability.Enrollments().WithLabelValues("error").Inc()
		return dto.BulkEnrollmentResult{}, err
	}

	observability.Enrollments().WithLabelValues("created").Add(float64(len(batch.entries)))
	s.invalidateDashboard(ctx, actor.ClubID, periodID)

	s.logger.Info().
		Int("players", len(batch.entries)).
		Int("students_created", studentsCreated).
		Msg("bulk enrollment committed")

	return dto.BulkEnrollmentResult{
		PlayersCreated:  len(batch.entries),
		StudentsCreated: studentsCreated,
	}, nil
}

func (s *programmeService) resolveRow(ctx context.Context, actor Actor, periodID uint, columns map[string]int, row []string, batch *bulkBatch) (repository.BulkEntry, error) {
	cell := func(name string) string {
		index := columns[name]
		if index >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[index])
	}

	name := cell("student_name")
	if name == "" {
		return repository.BulkEntry{}, errors.New("student_name is required")
	}

	var dob *time.Time
	if raw := cell("date_of_birth"); raw != "" {
		parsed, err := time.Parse(uploadDateLayout, raw)
		if err != nil {
			return repository.BulkEntry{}, fmt.Errorf("invalid date_of_birth %q, expected DD-MMM-YYYY", raw)
		}
		dob = &parsed
	}

	coachEmail := cell("coach_email")
	if coachEmail == "" {
		return repository.BulkEntry{}, errors.New("coach_email is required")
	}
	coach, err := s.users.GetByEmail(ctx, coachEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.BulkEntry{}, fmt.Errorf("no coach with email %q", coachEmail)
		}
		return repository.BulkEntry{}, err
	}
	if !actor.SameClub(coach.TennisClubID) {
		return repository.BulkEntry{}, fmt.Errorf("no coach with email %q", coachEmail)
	}

	groupName := cell("group_name")
	if groupName == "" {
		return repository.BulkEntry{}, errors.New("group_name is required")
	}
	group, err := s.groups.FindByName(ctx, actor.ClubID, groupName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.BulkEntry{}, fmt.Errorf("no group named %q", groupName)
		}
		return repository.BulkEntry{}, err
	}

	if batch.enrolled(name) {
		return repository.BulkEntry{}, fmt.Errorf("%s appears more than once in the upload", name)
	}

	student, err := s.resolveStudent(ctx, actor.ClubID, name, dob, cell("contact_email"))
	if err != nil {
		return repository.BulkEntry{}, err
	}

	if student.ID != 0 {
		exists, err := s.players.ExistsForStudentPeriod(ctx, student.ID, periodID)
		if err != nil {
			return repository.BulkEntry{}, err
		}
		if exists {
			return repository.BulkEntry{}, fmt.Errorf("%s is already enrolled for this period", name)
		}
	}

	return repository.BulkEntry{
		Student: student,
		Player: &models.ProgrammePlayer{
			TeachingPeriodID: periodID,
			CoachID:          coach.ID,
			GroupID:          group.ID,
			TennisClubID:     actor.ClubID,
		},
	}, nil
}

// resolveStudent finds the student in the database, or builds a pending
// record (ID zero) the batch transaction will create.
func (s *programmeService) resolveStudent(ctx context.Context, clubID uint, name string, dob *time.Time, contactEmail string) (*models.Student, error) {
	student, err := s.students.FindByName(ctx, clubID, name)
	if err == nil {
		return &student, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &models.Student{
		Name:         strings.TrimSpace(name),
		DateOfBirth:  dob,
		ContactEmail: contactEmail,
		TennisClubID: clubID,
	}, nil
}

func uploadColumnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range uploadColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, NewValidationError(map[string]string{
			"file": fmt.Sprintf("missing column(s): %s", strings.Join(missing, ", ")),
		})
	}

	return index, nil
}

// bulkBatch tracks enrollments resolved so far in one upload so in-file
// duplicates are caught before anything touches the database.
type bulkBatch struct {
	entries []repository.BulkEntry
	names   map[string]bool
}

func newBulkBatch() *bulkBatch {
	return &bulkBatch{names: make(map[string]bool)}
}

func (b *bulkBatch) add(entry repository.BulkEntry) {
	b.entries = append(b.entries, entry)
	b.names[strings.ToLower(strings.TrimSpace(entry.Student.Name))] = true
}

func (b *bulkBatch) enrolled(name string) bool {
	return b.names[strings.ToLower(strings.TrimSpace(name))]
}
