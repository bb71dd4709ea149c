package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/dto"
	"github.com/courtline/courtline-api/internal/models"
	"github.com/courtline/courtline-api/internal/repository"
)

// InvitationService manages coach invitations: issuing tokens and turning
// an accepted token into an active coach account.
type InvitationService interface {
	Invite(ctx context.Context, actor Actor, req dto.InviteCoachRequest) (dto.InvitationResponse, error)
	// Accept redeems a token. An existing user with the invited email is
	// re-homed to the inviting club as an active coach; otherwise a fresh
	// account is created.
	Accept(ctx context.Context, req dto.AcceptInvitationRequest) (dto.UserResponse, error)
}

type invitationService struct {
	invitations repository.InvitationRepository
	users       repository.UserRepository
	validate    *validator.Validate
	logger      zerolog.Logger
	ttl         time.Duration
	now         func() time.Time
}

// NewInvitationService constructs the invitation service.
func NewInvitationService(invitations repository.InvitationRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger, ttl time.Duration) InvitationService {
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &invitationService{
		invitations: invitations,
		users:       users,
		validate:    validate,
		logger:      logger.With().Str("component", "invitation_service").Logger(),
		ttl:         ttl,
		now:         time.Now,
	}
}

func (s *invitationService) Invite(ctx context.Context, actor Actor, req dto.InviteCoachRequest) (dto.InvitationResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.InvitationResponse{}, err
	}
	if !actor.IsAdmin() {
		return dto.InvitationResponse{}, ErrPermissionDenied
	}

	invitation := models.CoachInvitation{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		TennisClubID: actor.ClubID,
		InvitedByID:  actor.UserID,
		Token:        uuid.NewString(),
		ExpiresAt:    s.now().Add(s.ttl),
	}

	if err := s.invitations.Create(ctx, &invitation); err != nil {
		return dto.InvitationResponse{}, err
	}

	s.logger.Info().
		Uint("club_id", actor.ClubID).
		Str("email", invitation.Email).
		Msg("coach invitation issued")

	return dto.NewInvitationResponse(invitation), nil
}

func (s *invitationService) Accept(ctx context.Context, req dto.AcceptInvitationRequest) (dto.UserResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	invitation, err := s.invitations.GetByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrInvitationNotFound
		}
		return dto.UserResponse{}, err
	}

	if invitation.Used {
		return dto.UserResponse{}, ErrInvitationUsed
	}
	if invitation.Expired(s.now()) {
		return dto.UserResponse{}, ErrInvitationExpired
	}

	user, err := s.users.GetByEmail(ctx, invitation.Email)
	switch {
	case err == nil:
		user.TennisClubID = invitation.TennisClubID
		user.Role = models.RoleCoach
		user.IsActive = true
		if name := strings.TrimSpace(req.Name); name != "" {
			user.Name = name
		}
		if err := s.users.Update(ctx, &user); err != nil {
			return dto.UserResponse{}, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		username, err := s.coachUsername(ctx, invitation.Email)
		if err != nil {
			return dto.UserResponse{}, err
		}
		user = models.User{
			Email:        invitation.Email,
			Username:     username,
			Name:         strings.TrimSpace(req.Name),
			Role:         models.RoleCoach,
			IsActive:     true,
			TennisClubID: invitation.TennisClubID,
		}
		if err := s.users.Create(ctx, &user); err != nil {
			return dto.UserResponse{}, err
		}
	default:
		return dto.UserResponse{}, err
	}

	if err := s.invitations.MarkUsed(ctx, invitation.ID); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().
		Uint("user_id", user.ID).
		Uint("club_id", user.TennisClubID).
		Msg("coach invitation accepted")

	return dto.NewUserResponse(user), nil
}

// coachUsername derives a unique username from the email's local part.
func (s *invitationService) coachUsername(ctx context.Context, email string) (string, error) {
	base := email
	if at := strings.Index(email, "@"); at > 0 {
		base = email[:at]
	}
	base = strings.ToLower(strings.TrimSpace(base))

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
