package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/dto"
	"github.com/courtline/courtline-api/internal/models"
	"github.com/courtline/courtline-api/internal/repository"
)

// Seed data every new club starts with.
var defaultGroupNames = []string{"Beginners", "Intermediate", "Advanced"}

const initialPeriodWeeks = 12

// ClubService exposes tenant onboarding and lookup operations.
type ClubService interface {
	// Onboard provisions a club with its first admin, the default skill
	// groups and an initial teaching period, atomically.
	Onboard(ctx context.Context, req dto.OnboardClubRequest) (dto.OnboardClubResponse, error)
	Get(ctx context.Context, actor Actor, id uint) (dto.ClubResponse, error)
}

type clubService struct {
	clubs    repository.ClubRepository
	users    repository.UserRepository
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
}

// NewClubService constructs the club service.
func NewClubService(clubs repository.ClubRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) ClubService {
	return &clubService{
		clubs:    clubs,
		users:    users,
		validate: validate,
		logger:   logger.With().Str("component", "club_service").Logger(),
		now:      time.Now,
	}
}

func (s *clubService) Onboard(ctx context.Context, req dto.OnboardClubRequest) (dto.OnboardClubResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.OnboardClubResponse{}, err
	}

	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if _, err := s.clubs.GetBySubdomain(ctx, subdomain); err == nil {
		return dto.OnboardClubResponse{}, ErrSubdomainTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.OnboardClubResponse{}, err
	}

	username, err := s.adminUsername(ctx, subdomain)
	if err != nil {
		return dto.OnboardClubResponse{}, err
	}

	club := models.TennisClub{
		Name:      strings.TrimSpace(req.ClubName),
		Subdomain: subdomain,
	}
	admin := models.User{
		Email:    req.AdminEmail,
		Username: username,
		Name:     strings.TrimSpace(req.AdminName),
		Role:     models.RoleAdmin,
		IsActive: true,
	}

	groups := make([]models.TennisGroup, 0, len(defaultGroupNames))
	for _, name := range defaultGroupNames {
		groups = append(groups, models.TennisGroup{Name: name})
	}

	start := s.now().Truncate(24 * time.Hour)
	period := models.TeachingPeriod{
		Name:      "Initial Teaching Period",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, initialPeriodWeeks*7),
	}

	if err := s.clubs.Onboard(ctx, &club, &admin, groups, &period); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.OnboardClubResponse{}, ErrSubdomainTaken
		}
		return dto.OnboardClubResponse{}, err
	}

	s.logger.Info().
		Uint("club_id", club.ID).
		Str("subdomain", club.Subdomain).
		Msg("club onboarded")

	return dto.OnboardClubResponse{
		Club:   dto.NewClubResponse(club),
		Admin:  dto.NewUserResponse(admin),
		Groups: dto.NewGroupResponseSlice(groups),
		Period: dto.NewPeriodResponse(period),
	}, nil
}

func (s *clubService) Get(ctx context.Context, actor Actor, id uint) (dto.ClubResponse, error) {
	club, err := s.clubs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClubResponse{}, ErrClubNotFound
		}
		return dto.ClubResponse{}, err
	}

	if !actor.SameClub(club.ID) && !actor.Role.IsSuperAdmin() {
		return dto.ClubResponse{}, ErrPermissionDenied
	}

	return dto.NewClubResponse(club), nil
}

// adminUsername derives a unique seed-admin username from the subdomain,
// appending a numeric suffix on collision.
func (s *clubService) adminUsername(ctx context.Context, subdomain string) (string, error) {
	base := fmt.Sprintf("admin_%s", subdomain)
	candidate := base
	for suffix := 2; ; suffix++ {
		taken, err := s.users.UsernameTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, suffix)
	}
}
