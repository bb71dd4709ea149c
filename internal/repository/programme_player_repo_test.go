package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/models"
)

func TestProgrammePlayerRepositoryDuplicateEnrollment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgrammePlayerRepository(db)
	fixture := seedProgramme(t, db)

	player := models.ProgrammePlayer{
		StudentID:        fixture.student.ID,
		TeachingPeriodID: fixture.period.ID,
		CoachID:          fixture.coach.ID,
		GroupID:          fixture.group.ID,
		TennisClubID:     fixture.club.ID,
	}
	require.NoError(t, repo.Create(context.Background(), &player))

	duplicate := models.ProgrammePlayer{
		StudentID:        fixture.student.ID,
		TeachingPeriodID: fixture.period.ID,
		CoachID:          fixture.coach.ID,
		GroupID:          fixture.group.ID,
		TennisClubID:     fixture.club.ID,
	}
	err := repo.Create(context.Background(), &duplicate)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	exists, err := repo.ExistsForStudentPeriod(context.Background(), fixture.student.ID, fixture.period.ID)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestProgrammePlayerRepositoryBulkCreateRollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgrammePlayerRepository(db)
	fixture := seedProgramme(t, db)

	newStudent := models.Student{Name: "Freya Olsen", TennisClubID: fixture.club.ID}
	entries := []BulkEntry{
		{
			Student: &newStudent,
			Player: &models.ProgrammePlayer{
				TeachingPeriodID: fixture.period.ID,
				CoachID:          fixture.coach.ID,
				GroupID:          fixture.group.ID,
				TennisClubID:     fixture.club.ID,
			},
		},
		{
			// Same student twice in the batch trips the unique index and
			// must roll back the whole transaction.
			Student: &newStudent,
			Player: &models.ProgrammePlayer{
				TeachingPeriodID: fixture.period.ID,
				CoachID:          fixture.coach.ID,
				GroupID:          fixture.group.ID,
				TennisClubID:     fixture.club.ID,
			},
		},
	}

	err := repo.BulkCreate(context.Background(), entries)
	require.Error(t, err)

	var students int64
	require.NoError(t, db.Model(&models.Student{}).Where("name = ?", "Freya Olsen").Count(&students).Error)
	require.Zero(t, students)

	var players int64
	require.NoError(t, db.Model(&models.ProgrammePlayer{}).Count(&players).Error)
	require.Zero(t, players)
}

func TestProgrammePlayerRepositoryBulkCreateCommitsCleanBatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgrammePlayerRepository(db)
	fixture := seedProgramme(t, db)

	entries := []BulkEntry{
		{
			Student: &models.Student{Name: "Freya Olsen", TennisClubID: fixture.club.ID},
			Player: &models.ProgrammePlayer{
				TeachingPeriodID: fixture.period.ID,
				CoachID:          fixture.coach.ID,
				GroupID:          fixture.group.ID,
				TennisClubID:     fixture.club.ID,
			},
		},
		{
			Student: &fixture.student,
			Player: &models.ProgrammePlayer{
				TeachingPeriodID: fixture.period.ID,
				CoachID:          fixture.coach.ID,
				GroupID:          fixture.group.ID,
				TennisClubID:     fixture.club.ID,
			},
		},
	}

	require.NoError(t, repo.BulkCreate(context.Background(), entries))

	players, err := repo.List(context.Background(), PlayerFilter{ClubID: fixture.club.ID, PeriodID: fixture.period.ID})
	require.NoError(t, err)
	require.Len(t, players, 2)
}

type programmeFixture struct {
	club    models.TennisClub
	coach   models.User
	group   models.TennisGroup
	period  models.TeachingPeriod
	student models.Student
}

func seedProgramme(t *testing.T, db *gorm.DB) programmeFixture {
	t.Helper()

	club := models.TennisClub{Name: "Riverside Tennis Club", Subdomain: "riverside"}
	require.NoError(t, db.Create(&club).Error)

	coach := models.User{
		Email:        "coach@riverside.club",
		Username:     "coach_riverside",
		Name:         "Sam Reed",
		Role:         models.RoleCoach,
		IsActive:     true,
		TennisClubID: club.ID,
	}
	require.NoError(t, db.Create(&coach).Error)

	group := models.TennisGroup{Name: "Beginners", TennisClubID: club.ID}
	require.NoError(t, db.Create(&group).Error)

	period := models.TeachingPeriod{
		Name:         "Spring Term",
		StartDate:    time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC),
		TennisClubID: club.ID,
	}
	require.NoError(t, db.Create(&period).Error)

	student := models.Student{Name: "Alice Morgan", TennisClubID: club.ID}
	require.NoError(t, db.Create(&student).Error)

	return programmeFixture{club: club, coach: coach, group: group, period: period, student: student}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.TennisClub{},
		&models.User{},
		&models.CoachDetails{},
		&models.CoachInvitation{},
		&models.TeachingPeriod{},
		&models.TennisGroup{},
		&models.Student{},
		&models.ProgrammePlayer{},
		&models.ReportTemplate{},
		&models.TemplateSection{},
		&models.TemplateField{},
		&models.GroupTemplate{},
		&models.Report{},
	))
	return db
}
