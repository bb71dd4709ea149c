package service

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to handlers. Handlers map them onto HTTP codes
// with errors.Is, so wrapping with fmt.Errorf("%w", ...) stays safe.
var (
	ErrClubNotFound       = errors.New("tennis club not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrCoachNotFound      = errors.New("coach not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrPeriodNotFound     = errors.New("teaching period not found")
	ErrPlayerNotFound     = errors.New("programme player not found")
	ErrTemplateNotFound   = errors.New("report template not found")
	ErrReportNotFound     = errors.New("report not found")
	ErrInvitationNotFound = errors.New("invitation not found")

	// ErrPermissionDenied means the actor's club or role does not allow the
	// operation on a resource that does exist. It is never returned for a
	// missing resource; the distinction matters to callers.
	ErrPermissionDenied = errors.New("permission denied")

	ErrSubdomainTaken       = errors.New("subdomain already registered")
	ErrDuplicateGroupName   = errors.New("a group with that name already exists")
	ErrDuplicateEnrollment  = errors.New("student already enrolled for this teaching period")
	ErrDuplicateReport      = errors.New("a report already exists for this student and period")
	ErrNoActiveTemplate     = errors.New("no active report template is assigned to the group")
	ErrInvitationUsed       = errors.New("invitation has already been used")
	ErrInvitationExpired    = errors.New("invitation has expired")
	ErrGroupInUse           = errors.New("group has enrolled players and cannot be deleted")
	ErrPeriodInUse          = errors.New("teaching period has enrollments or reports and cannot be deleted")
	ErrReportAlreadyEmailed = errors.New("report has already been emailed")
)

// ValidationError carries field-level problems with a submitted payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// RowError is one rejected row of a batch upload, 1-based and counting the
// header row, so the number matches what the uploader sees in a spreadsheet.
type RowError struct {
	Row     int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}
