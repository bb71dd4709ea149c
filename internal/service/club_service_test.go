package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/courtline/courtline-api/internal/dto"
	"github.com/courtline/courtline-api/internal/models"
)

func newClubServiceForTest() (*clubService, *fakeClubRepo, *fakeUserRepo) {
	users := newFakeUserRepo()
	groups := newFakeGroupRepo()
	periods := newFakePeriodRepo()
	clubs := newFakeClubRepo(users, groups, periods)

	svc := NewClubService(clubs, users, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop()).(*clubService)
	svc.now = func() time.Time { return time.Date(2026, 1, 5, 10, 30, 0, 0, time.UTC) }
	return svc, clubs, users
}

func TestClubServiceOnboardSeedsDefaults(t *testing.T) {
	svc, _, users := newClubServiceForTest()

	resp, err := svc.Onboard(context.Background(), dto.OnboardClubRequest{
		ClubName:   "Riverside Tennis Club",
		Subdomain:  "Riverside",
		AdminName:  "Jo Park",
		AdminEmail: "jo@riverside.club",
	})
	require.NoError(t, err)

	require.Equal(t, "riverside", resp.Club.Subdomain)
	require.Equal(t, "admin_riverside", resp.Admin.Username)
	require.Equal(t, models.RoleAdmin, resp.Admin.Role)
	require.Equal(t, resp.Club.ID, resp.Admin.ClubID)

	names := make([]string, 0, len(resp.Groups))
	for _, group := range resp.Groups {
		names = append(names, group.Name)
	}
	require.ElementsMatch(t, []string{"Beginners", "Intermediate", "Advanced"}, names)

	require.Equal(t, "Initial Teaching Period", resp.Period.Name)
	require.Equal(t, 12*7*24*time.Hour, resp.Period.EndDate.Sub(resp.Period.StartDate))

	admin, err := users.GetByEmail(context.Background(), "jo@riverside.club")
	require.NoError(t, err)
	require.True(t, admin.IsActive)
}

func TestClubServiceOnboardSuffixesTakenAdminUsername(t *testing.T) {
	svc, _, users := newClubServiceForTest()

	require.NoError(t, users.Create(context.Background(), &models.User{
		Email:    "other@elsewhere.club",
		Username: "admin_lakeside",
		Role:     models.RoleAdmin,
	}))

	resp, err := svc.Onboard(context.Background(), dto.OnboardClubRequest{
		ClubName:   "Lakeside",
		Subdomain:  "lakeside",
		AdminName:  "Ana Silva",
		AdminEmail: "ana@lakeside.club",
	})
	require.NoError(t, err)
	require.Equal(t, "admin_lakeside2", resp.Admin.Username)
}

func TestClubServiceOnboardRejectsTakenSubdomain(t *testing.T) {
	svc, _, _ := newClubServiceForTest()

	req := dto.OnboardClubRequest{
		ClubName:   "Riverside Tennis Club",
		Subdomain:  "riverside",
		AdminName:  "Jo Park",
		AdminEmail: "jo@riverside.club",
	}
	_, err := svc.Onboard(context.Background(), req)
	require.NoError(t, err)

	req.AdminEmail = "second@riverside.club"
	_, err = svc.Onboard(context.Background(), req)
	require.ErrorIs(t, err, ErrSubdomainTaken)
}

func TestClubServiceOnboardValidatesRequest(t *testing.T) {
	svc, _, _ := newClubServiceForTest()

	_, err := svc.Onboard(context.Background(), dto.OnboardClubRequest{
		ClubName:  "Riverside",
		Subdomain: "riverside",
		AdminName: "Jo Park",
	})

	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
}

func TestClubServiceGetEnforcesTenancy(t *testing.T) {
	svc, clubs, _ := newClubServiceForTest()
	clubs.clubs[1] = models.TennisClub{ID: 1, Name: "Riverside", Subdomain: "riverside"}
	clubs.clubs[2] = models.TennisClub{ID: 2, Name: "Lakeside", Subdomain: "lakeside"}

	_, err := svc.Get(context.Background(), Actor{UserID: 1, Role: models.RoleAdmin, ClubID: 1}, 2)
	require.ErrorIs(t, err, ErrPermissionDenied)

	resp, err := svc.Get(context.Background(), Actor{UserID: 9, Role: models.RoleSuperAdmin, ClubID: 1}, 2)
	require.NoError(t, err)
	require.Equal(t, "lakeside", resp.Subdomain)

	_, err = svc.Get(context.Background(), Actor{UserID: 1, Role: models.RoleAdmin, ClubID: 1}, 99)
	require.ErrorIs(t, err, ErrClubNotFound)
}
