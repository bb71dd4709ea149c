package dto

import (
	"time"

	"github.com/courtline/courtline-api/internal/models"
)

// OnboardClubRequest is the payload for creating a new tenant.
type OnboardClubRequest struct {
	ClubName   string `json:"club_name" validate:"required,max=100"`
	Subdomain  string `json:"subdomain" validate:"required,max=50,hostname_rfc1123"`
	AdminName  string `json:"admin_name" validate:"required,max=100"`
	AdminEmail string `json:"admin_email" validate:"required,email"`
}

// ClubResponse is the serialized tenant.
type ClubResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	CreatedAt time.Time `json:"created_at"`
}

// NewClubResponse maps a club model to its response shape.
func NewClubResponse(club models.TennisClub) ClubResponse {
	return ClubResponse{
		ID:        club.ID,
		Name:      club.Name,
		Subdomain: club.Subdomain,
		CreatedAt: club.CreatedAt,
	}
}

// OnboardClubResponse returns everything seeded during onboarding.
type OnboardClubResponse struct {
	Club   ClubResponse    `json:"club"`
	Admin  UserResponse    `json:"admin"`
	Groups []GroupResponse `json:"groups"`
	Period PeriodResponse  `json:"period"`
}

// UserResponse is the serialized user.
type UserResponse struct {
	ID       uint            `json:"id"`
	Email    string          `json:"email"`
	Username string          `json:"username"`
	Name     string          `json:"name"`
	Role     models.UserRole `json:"role"`
	IsActive bool            `json:"is_active"`
	ClubID   uint            `json:"tennis_club_id"`
}

// NewUserResponse maps a user model to its response shape.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
		IsActive: user.IsActive,
		ClubID:   user.TennisClubID,
	}
}
