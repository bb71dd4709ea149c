package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/courtline/courtline-api/internal/models"
)

type dashboardEnv struct {
	svc     DashboardService
	players *fakePlayerRepo
	redis   *miniredis.Miniredis

	period models.TeachingPeriod
	group  models.TennisGroup
	coach  models.User
}

func newDashboardEnv(t *testing.T, withCache bool) *dashboardEnv {
	t.Helper()

	users := newFakeUserRepo()
	groups := newFakeGroupRepo()
	periods := newFakePeriodRepo()
	students := newFakeStudentRepo()
	players := newFakePlayerRepo(students, groups, users, periods)

	var client *redis.Client
	var mr *miniredis.Miniredis
	if withCache {
		mr = miniredis.RunT(t)
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	}

	svc := NewDashboardService(players, periods, client, time.Minute, zerolog.Nop())

	coach := models.User{Email: "coach@riverside.club", Username: "coach_riverside", Name: "Sam Reed", Role: models.RoleCoach, IsActive: true, TennisClubID: 1}
	require.NoError(t, users.Create(context.Background(), &coach))

	period := models.TeachingPeriod{
		Name:         "Spring Term",
		StartDate:    time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC),
		TennisClubID: 1,
	}
	require.NoError(t, periods.Create(context.Background(), &period))

	group := models.TennisGroup{Name: "Beginners", TennisClubID: 1}
	require.NoError(t, groups.Create(context.Background(), &group))

	for i, name := range []string{"Alice Morgan", "Ben Okafor", "Cara Diaz"} {
		student := models.Student{Name: name, TennisClubID: 1}
		require.NoError(t, students.Create(context.Background(), &student))
		player := models.ProgrammePlayer{
			StudentID:        student.ID,
			TeachingPeriodID: period.ID,
			CoachID:          coach.ID,
			GroupID:          group.ID,
			TennisClubID:     1,
			ReportSubmitted:  i == 0,
		}
		require.NoError(t, players.Create(context.Background(), &player))
	}

	return &dashboardEnv{svc: svc, players: players, redis: mr, period: period, group: group, coach: coach}
}

func TestDashboardServiceStatsAggregatesProgress(t *testing.T) {
	env := newDashboardEnv(t, false)
	actor := Actor{UserID: 9, Role: models.RoleAdmin, ClubID: 1}

	stats, err := env.svc.Stats(context.Background(), actor, env.period.ID)
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalPlayers)
	require.Equal(t, 1, stats.ReportsSubmitted)
	require.Equal(t, 2, stats.ReportsPending)

	require.Len(t, stats.Groups, 1)
	require.Equal(t, "Beginners", stats.Groups[0].GroupName)
	require.Equal(t, 3, stats.Groups[0].Players)
	require.Equal(t, 1, stats.Groups[0].Submitted)

	require.Len(t, stats.Coaches, 1)
	require.Equal(t, "Sam Reed", stats.Coaches[0].CoachName)
	require.Equal(t, 3, stats.Coaches[0].Players)
}

func TestDashboardServiceStatsEnforcesTenancy(t *testing.T) {
	env := newDashboardEnv(t, false)

	_, err := env.svc.Stats(context.Background(), Actor{UserID: 9, Role: models.RoleAdmin, ClubID: 2}, env.period.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.svc.Stats(context.Background(), Actor{UserID: 9, Role: models.RoleAdmin, ClubID: 1}, 9999)
	require.ErrorIs(t, err, ErrPeriodNotFound)
}

func TestDashboardServiceStatsServesFromCacheUntilInvalidated(t *testing.T) {
	env := newDashboardEnv(t, true)
	actor := Actor{UserID: 9, Role: models.RoleAdmin, ClubID: 1}

	first, err := env.svc.Stats(context.Background(), actor, env.period.ID)
	require.NoError(t, err)
	require.Equal(t, 3, first.TotalPlayers)
	require.True(t, env.redis.Exists("dashboard:v1:1:1"))

	// A write the cache has not seen yet.
	env.players.setSubmitted(2, true)

	cached, err := env.svc.Stats(context.Background(), actor, env.period.ID)
	require.NoError(t, err)
	require.Equal(t, 1, cached.ReportsSubmitted)

	require.NoError(t, env.svc.Invalidate(context.Background(), 1, env.period.ID))
	require.False(t, env.redis.Exists("dashboard:v1:1:1"))

	fresh, err := env.svc.Stats(context.Background(), actor, env.period.ID)
	require.NoError(t, err)
	require.Equal(t, 2, fresh.ReportsSubmitted)
}

func TestDashboardServiceWorksWithoutCache(t *testing.T) {
	env := newDashboardEnv(t, false)
	actor := Actor{UserID: 9, Role: models.RoleAdmin, ClubID: 1}

	require.NoError(t, env.svc.Invalidate(context.Background(), 1, env.period.ID))

	env.players.setSubmitted(2, true)
	stats, err := env.svc.Stats(context.Background(), actor, env.period.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stats.ReportsSubmitted)
}
