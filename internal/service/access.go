package service

import "github.com/courtline/courtline-api/internal/models"

// Actor identifies the authenticated caller for permission checks. It is
// built by the handlers from the JWT claims and passed into every
// tenant-scoped operation.
type Actor struct {
	UserID uint
	Role   models.UserRole
	ClubID uint
}

// IsAdmin reports whether the actor holds ADMIN or SUPER_ADMIN.
func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}

// SameClub reports whether the resource belongs to the actor's tenant.
func (a Actor) SameClub(clubID uint) bool {
	return a.ClubID == clubID
}

// CanManage reports whether the actor may modify a resource owned by the
// given coach: owners always can, admins can within their own club.
func (a Actor) CanManage(ownerID uint) bool {
	return a.UserID == ownerID || a.IsAdmin()
}
