package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/dto"
	"github.com/courtline/courtline-api/internal/models"
	"github.com/courtline/courtline-api/internal/observability"
	"github.com/courtline/courtline-api/internal/repository"
)

// uploadDateLayout is the DD-MMM-YYYY format used by register exports,
// e.g. 05-Nov-2013.
const uploadDateLayout = "02-Jan-2006"

// ProgrammeService manages teaching periods, groups and enrollments.
type ProgrammeService interface {
	CreatePeriod(ctx context.Context, actor Actor, req dto.CreatePeriodRequest) (dto.PeriodResponse, error)
	UpdatePeriod(ctx context.Context, actor Actor, id uint, req dto.UpdatePeriodRequest) (dto.PeriodResponse, error)
	DeletePeriod(ctx context.Context, actor Actor, id uint) error
	ListPeriods(ctx context.Context, actor Actor) ([]dto.PeriodResponse, error)

	CreateGroup(ctx context.Context, actor Actor, req dto.CreateGroupRequest) (dto.GroupResponse, error)
	DeleteGroup(ctx context.Context, actor Actor, id uint) error
	ListGroups(ctx context.Context, actor Actor) ([]dto.GroupResponse, error)

	// EnrollPlayer looks a student up by (name, club), creating one when
	// missing, then records the enrollment. Commits immediately.
	EnrollPlayer(ctx context.Context, actor Actor, req dto.EnrollPlayerRequest) (dto.PlayerResponse, error)
	RemovePlayer(ctx context.Context, actor Actor, id uint) error
	ListPlayers(ctx context.Context, actor Actor, periodID uint, groupID *uint) ([]dto.PlayerResponse, error)

	// BulkEnroll processes a register upload. Rows are validated
	// independently but committed all-or-nothing: any row error means
	// nothing is persisted.
	BulkEnroll(ctx context.Context, actor Actor, periodID uint, rows [][]string) (dto.BulkEnrollmentResult, error)
}

type programmeService struct {
	periods  repository.PeriodRepository
	groups   repository.GroupRepository
	students repository.StudentRepository
	players  repository.ProgrammePlayerRepository
	users    repository.UserRepository
	reports  repository.ReportRepository
	validate *validator.Validate
	logger   zerolog.Logger
	tracer   trace.Tracer
	cache    DashboardInvalidator
	now      func() time.Time
}

// NewProgrammeService constructs the programme service.
func NewProgrammeService(
	periods repository.PeriodRepository,
	groups repository.GroupRepository,
	students repository.StudentRepository,
	players repository.ProgrammePlayerRepository,
	users repository.UserRepository,
	reports repository.ReportRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
	cache DashboardInvalidator,
) ProgrammeService {
	return &programmeService{
		periods:  periods,
		groups:   groups,
		students: students,
		players:  players,
		users:    users,
		reports:  reports,
		validate: validate,
		logger:   logger.With().Str("component", "programme_service").Logger(),
		tracer:   otel.Tracer("github.com/courtline/courtline-api/internal/service/programme"),
		cache:    cache,
		now:      time.Now,
	}
}

func (s *programmeService) CreatePeriod(ctx context.Context, actor Actor, req dto.CreatePeriodRequest) (dto.PeriodResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.PeriodResponse{}, err
	}
	if !actor.IsAdmin() {
		return dto.PeriodResponse{}, ErrPermissionDenied
	}

	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)
	if end.Before(start) {
		return dto.PeriodResponse{}, NewValidationError(map[string]string{
			"end_date": "end date must not be before start date",
		})
	}

	period := models.TeachingPeriod{
		Name:         strings.TrimSpace(req.Name),
		StartDate:    start,
		EndDate:      end,
		TennisClubID: actor.ClubID,
	}
	if err := s.periods.Create(ctx, &period); err != nil {
		return dto.PeriodResponse{}, err
	}

	return dto.NewPeriodResponse(period), nil
}

func (s *programmeService) UpdatePeriod(ctx context.Context, actor Actor, id uint, req dto.UpdatePeriodRequest) (dto.PeriodResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.PeriodResponse{}, err
	}
	if !actor.IsAdmin() {
		return dto.PeriodResponse{}, ErrPermissionDenied
	}

	period, err := s.periodInClub(ctx, actor, id)
	if err != nil {
		return dto.PeriodResponse{}, err
	}

	if req.Name != nil {
		period.Name = strings.TrimSpace(*req.Name)
	}
	if req.StartDate != nil {
		start, _ := time.Parse(dateLayout, *req.StartDate)
		period.StartDate = start
	}
	if req.EndDate != nil {
		end, _ := time.Parse(dateLayout, *req.EndDate)
		period.EndDate = end
	}
	if period.EndDate.Before(period.StartDate) {
		return dto.PeriodResponse{}, NewValidationError(map[string]string{
			"end_date": "end date must not be before start date",
		})
	}

	if err := s.periods.Update(ctx, &period); err != nil {
		return dto.PeriodResponse{}, err
	}

	return dto.NewPeriodResponse(period), nil
}

func (s *programmeService) DeletePeriod(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return ErrPermissionDenied
	}

	period, err := s.periodInClub(ctx, actor, id)
	if err != nil {
		return err
	}

	enrollments, err := s.players.CountByPeriod(ctx, period.ID)
	if err != nil {
		return err
	}
	reports, err := s.reports.CountByPeriod(ctx, period.ID)
	if err != nil {
		return err
	}
	if enrollments > 0 || reports > 0 {
		return ErrPeriodInUse
	}

	return s.periods.Delete(ctx, period.ID)
}

func (s *programmeService) ListPeriods(ctx context.Context, actor Actor) ([]dto.PeriodResponse, error) {
	periods, err := s.periods.List(ctx, actor.ClubID)
	if err != nil {
		return nil, err
	}
	return dto.NewPeriodResponseSlice(periods), nil
}

func (s *programmeService) CreateGroup(ctx context.Context, actor Actor, req dto.CreateGroupRequest) (dto.GroupResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.GroupResponse{}, err
	}
	if !actor.IsAdmin() {
		return dto.GroupResponse{}, ErrPermissionDenied
	}

	group := models.TennisGroup{
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		TennisClubID: actor.ClubID,
	}
	if err := s.groups.Create(ctx, &group); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.GroupResponse{}, ErrDuplicateGroupName
		}
		return dto.GroupResponse{}, err
	}

	return dto.NewGroupResponse(group), nil
}

func (s *programmeService) DeleteGroup(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return ErrPermissionDenied
	}

	group, err := s.groupInClub(ctx, actor, id)
	if err != nil {
		return err
	}

	enrolled, err := s.players.CountByGroup(ctx, group.ID)
	if err != nil {
		return err
	}
	if enrolled > 0 {
		return ErrGroupInUse
	}

	return s.groups.Delete(ctx, group.ID)
}

func (s *programmeService) ListGroups(ctx context.Context, actor Actor) ([]dto.GroupResponse, error) {
	groups, err := s.groups.List(ctx, actor.ClubID)
	if err != nil {
		return nil, err
	}
	return dto.NewGroupResponseSlice(groups), nil
}

func (s *programmeService) EnrollPlayer(ctx context.Context, actor Actor, req dto.EnrollPlayerRequest) (dto.PlayerResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.PlayerResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "programme.enroll_player", trace.WithAttributes(
		attribute.Int("club_id", int(actor.ClubID)),
		attribute.Int("teaching_period_id", int(req.PeriodID)),
	))
	defer span.End()

	if _, err := s.periodInClub(ctx, actor, req.PeriodID); err != nil {
		return dto.PlayerResponse{}, err
	}
	if _, err := s.groupInClub(ctx, actor, req.GroupID); err != nil {
		return dto.PlayerResponse{}, err
	}
	coach, err := s.coachInClub(ctx, actor, req.CoachID)
	if err != nil {
		return dto.PlayerResponse{}, err
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse(uploadDateLayout, req.DateOfBirth)
		if err != nil {
			return dto.PlayerResponse{}, NewValidationError(map[string]string{
				"date_of_birth": "expected DD-MMM-YYYY, e.g. 05-Nov-2013",
			})
		}
		dob = &parsed
	}

	student, err := s.findOrCreateStudent(ctx, actor.ClubID, req.StudentName, dob, req.ContactEmail)
	if err != nil {
		return dto.PlayerResponse{}, err
	}

	exists, err := s.players.ExistsForStudentPeriod(ctx, student.ID, req.PeriodID)
	if err != nil {
		return dto.PlayerResponse{}, err
	}
	if exists {
		observability.Enrollments().WithLabelValues("duplicate").Inc()
		return dto.PlayerResponse{}, ErrDuplicateEnrollment
	}

	player := models.ProgrammePlayer{
		StudentID:        student.ID,
		TeachingPeriodID: req.PeriodID,
		CoachID:          coach.ID,
		GroupID:          req.GroupID,
		TennisClubID:     actor.ClubID,
	}
	if err := s.players.Create(ctx, &player); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.Enrollments().WithLabelValues("duplicate").Inc()
			return dto.PlayerResponse{}, ErrDuplicateEnrollment
		}
		observability.Enrollments().WithLabelValues("error").Inc()
		return dto.PlayerResponse{}, err
	}

	observability.Enrollments().WithLabelValues("created").Inc()
	s.invalidateDashboard(ctx, actor.ClubID, req.PeriodID)

	player.Student = student
	player.Coach = coach
	if group, err := s.groups.GetByID(ctx, req.GroupID); err == nil {
		player.Group = group
	}

	return dto.NewPlayerResponse(player), nil
}

func (s *programmeService) RemovePlayer(ctx context.Context, actor Actor, id uint) error {
	player, err := s.players.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	if !actor.SameClub(player.TennisClubID) {
		return ErrPermissionDenied
	}
	if !actor.CanManage(player.CoachID) {
		return ErrPermissionDenied
	}

	if err := s.players.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateDashboard(ctx, actor.ClubID, player.TeachingPeriodID)
	return nil
}

func (s *programmeService) ListPlayers(ctx context.Context, actor Actor, periodID uint, groupID *uint) ([]dto.PlayerResponse, error) {
	if _, err := s.periodInClub(ctx, actor, periodID); err != nil {
		return nil, err
	}

	filter := repository.PlayerFilter{
		ClubID:   actor.ClubID,
		PeriodID: periodID,
		GroupID:  groupID,
	}
	// Coaches only see their own players; admins see the whole club.
	if !actor.IsAdmin() {
		coachID := actor.UserID
		filter.CoachID = &coachID
	}

	players, err := s.players.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewPlayerResponseSlice(players), nil
}

func (s *programmeService) findOrCreateStudent(ctx context.Context, clubID uint, name string, dob *time.Time, contactEmail string) (models.Student, error) {
	student, err := s.students.FindByName(ctx, clubID, name)
	if err == nil {
		// Backfill details the earlier term didn't have.
		changed := false
		if student.DateOfBirth == nil && dob != nil {
			student.DateOfBirth = dob
			changed = true
		}
		if student.ContactEmail == "" && contactEmail != "" {
			student.ContactEmail = contactEmail
			changed = true
		}
		if changed {
			if err := s.students.Update(ctx, &student); err != nil {
				return models.Student{}, err
			}
		}
		return student, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Student{}, err
	}

	student = models.Student{
		Name:         strings.TrimSpace(name),
		DateOfBirth:  dob,
		ContactEmail: contactEmail,
		TennisClubID: clubID,
	}
	if err := s.students.Create(ctx, &student); err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (s *programmeService) periodInClub(ctx context.Context, actor Actor, id uint) (models.TeachingPeriod, error) {
	period, err := s.periods.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TeachingPeriod{}, ErrPeriodNotFound
		}
		return models.TeachingPeriod{}, err
	}
	if !actor.SameClub(period.TennisClubID) {
		return models.TeachingPeriod{}, ErrPermissionDenied
	}
	return period, nil
}

func (s *programmeService) groupInClub(ctx context.Context, actor Actor, id uint) (models.TennisGroup, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TennisGroup{}, ErrGroupNotFound
		}
		return models.TennisGroup{}, err
	}
	if !actor.SameClub(group.TennisClubID) {
		return models.TennisGroup{}, ErrPermissionDenied
	}
	return group, nil
}

func (s *programmeService) coachInClub(ctx context.Context, actor Actor, id uint) (models.User, error) {
	coach, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrCoachNotFound
		}
		return models.User{}, err
	}
	if !actor.SameClub(coach.TennisClubID) {
		return models.User{}, ErrPermissionDenied
	}
	return coach, nil
}

func (s *programmeService) invalidateDashboard(ctx context.Context, clubID, periodID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, clubID, periodID); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate dashboard cache")
	}
}
