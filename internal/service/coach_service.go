package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/dto"
	"github.com/courtline/courtline-api/internal/models"
	"github.com/courtline/courtline-api/internal/repository"
)

const dateLayout = "2006-01-02"

// CoachService manages coach profile records and accreditation status.
type CoachService interface {
	List(ctx context.Context, actor Actor) ([]dto.UserResponse, error)
	GetDetails(ctx context.Context, actor Actor, coachID uint) (dto.CoachDetailsResponse, error)
	// SaveDetails upserts the accreditation record. Coaches may only edit
	// their own; admins may edit any coach in their club.
	SaveDetails(ctx context.Context, actor Actor, coachID uint, req dto.CoachDetailsRequest) (dto.CoachDetailsResponse, error)
	// Accreditations classifies every tracked expiry date for every coach
	// in the club, for the admin compliance view.
	Accreditations(ctx context.Context, actor Actor) ([]dto.CoachAccreditationResponse, error)
	// AtRisk narrows Accreditations to coaches with any expired, expiring
	// or missing accreditation.
	AtRisk(ctx context.Context, actor Actor) ([]dto.CoachAccreditationResponse, error)
}

type coachService struct {
	users    repository.UserRepository
	details  repository.CoachDetailsRepository
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
}

// NewCoachService constructs the coach service.
func NewCoachService(users repository.UserRepository, details repository.CoachDetailsRepository, validate *validator.Validate, logger zerolog.Logger) CoachService {
	return &coachService{
		users:    users,
		details:  details,
		validate: validate,
		logger:   logger.With().Str("component", "coach_service").Logger(),
		now:      time.Now,
	}
}

func (s *coachService) List(ctx context.Context, actor Actor) ([]dto.UserResponse, error) {
	users, err := s.users.ListCoaches(ctx, actor.ClubID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return responses, nil
}

func (s *coachService) GetDetails(ctx context.Context, actor Actor, coachID uint) (dto.CoachDetailsResponse, error) {
	if _, err := s.coachInClub(ctx, actor, coachID); err != nil {
		return dto.CoachDetailsResponse{}, err
	}

	details, err := s.details.GetByUserID(ctx, coachID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CoachDetailsResponse{}, ErrCoachNotFound
		}
		return dto.CoachDetailsResponse{}, err
	}

	return dto.NewCoachDetailsResponse(details), nil
}

func (s *coachService) SaveDetails(ctx context.Context, actor Actor, coachID uint, req dto.CoachDetailsRequest) (dto.CoachDetailsResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.CoachDetailsResponse{}, err
	}
	if !actor.CanManage(coachID) {
		return dto.CoachDetailsResponse{}, ErrPermissionDenied
	}

	coach, err := s.coachInClub(ctx, actor, coachID)
	if err != nil {
		return dto.CoachDetailsResponse{}, err
	}

	details, err := s.details.GetByUserID(ctx, coachID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CoachDetailsResponse{}, err
		}
		details = models.CoachDetails{UserID: coachID, TennisClubID: coach.TennisClubID}
	}

	details.CoachNumber = req.CoachNumber
	details.Qualification = models.CoachQualification(req.Qualification)
	details.Position = models.CoachPosition(req.Position)
	details.ContactNumber = req.ContactNumber
	details.UTRNumber = req.UTRNumber
	details.EmergencyContactName = req.EmergencyContactName
	details.EmergencyContactNumber = req.EmergencyContactNumber
	details.AddressLine1 = req.AddressLine1
	details.AddressLine2 = req.AddressLine2
	details.City = req.City
	details.Postcode = req.Postcode
	details.DBSNumber = req.DBSNumber
	details.DBSUpdateServiceID = req.DBSUpdateServiceID

	dates := []struct {
		raw    string
		target **time.Time
	}{
		{req.DateOfBirth, &details.DateOfBirth},
		{req.AccreditationExpiry, &details.AccreditationExpiry},
		{req.DBSExpiry, &details.DBSExpiry},
		{req.FirstAidExpiry, &details.FirstAidExpiry},
		{req.SafeguardingExpiry, &details.SafeguardingExpiry},
	}
	for _, d := range dates {
		parsed, err := parseOptionalDate(d.raw)
		if err != nil {
			return dto.CoachDetailsResponse{}, err
		}
		*d.target = parsed
	}

	if err := s.details.Save(ctx, &details); err != nil {
		return dto.CoachDetailsResponse{}, err
	}

	s.logger.Info().Uint("coach_id", coachID).Msg("coach details saved")

	return dto.NewCoachDetailsResponse(details), nil
}

func (s *coachService) Accreditations(ctx context.Context, actor Actor) ([]dto.CoachAccreditationResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	records, err := s.details.ListByClub(ctx, actor.ClubID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]dto.CoachAccreditationResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, s.classify(record, now))
	}
	return responses, nil
}

func (s *coachService) AtRisk(ctx context.Context, actor Actor) ([]dto.CoachAccreditationResponse, error) {
	all, err := s.Accreditations(ctx, actor)
	if err != nil {
		return nil, err
	}

	atRisk := make([]dto.CoachAccreditationResponse, 0, len(all))
	for _, coach := range all {
		if coach.AtRisk {
			atRisk = append(atRisk, coach)
		}
	}
	return atRisk, nil
}

func (s *coachService) classify(record models.CoachDetails, now time.Time) dto.CoachAccreditationResponse {
	statuses := make(map[string]dto.ExpiryStatusResponse, 4)
	atRisk := false
	for name, expiry := range record.ExpiryDates() {
		status, days := models.ClassifyExpiry(expiry, now)
		statuses[name] = dto.ExpiryStatusResponse{Status: status, DaysRemaining: days}
		if status.AtRisk() {
			atRisk = true
		}
	}

	return dto.CoachAccreditationResponse{
		CoachID:       record.UserID,
		CoachName:     record.User.Name,
		Email:         record.User.Email,
		Accreditation: statuses,
		AtRisk:        atRisk,
	}
}

// coachInClub resolves the coach and enforces the tenant boundary. A row
// that exists but belongs to another club is a permission error, never a
// not-found, so the two conditions stay distinguishable.
func (s *coachService) coachInClub(ctx context.Context, actor Actor, coachID uint) (models.User, error) {
	coach, err := s.users.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrCoachNotFound
		}
		return models.User{}, err
	}
	if coach.TennisClubID != actor.ClubID {
		return models.User{}, ErrPermissionDenied
	}
	return coach, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
