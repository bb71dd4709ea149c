package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/models"
)

func TestTemplateRepositoryAssignGroupKeepsSingleActiveLink(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTemplateRepository(db)
	fixture := seedProgramme(t, db)

	first := seedTemplate(t, db, fixture)
	second := models.ReportTemplate{
		Name:         "Holiday Camp",
		TennisClubID: fixture.club.ID,
		CreatedByID:  fixture.coach.ID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&second).Error)

	require.NoError(t, repo.AssignGroup(context.Background(), first.ID, fixture.group.ID))

	active, err := repo.ActiveForGroup(context.Background(), fixture.group.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, active.ID)

	// Assigning another template displaces the first link.
	require.NoError(t, repo.AssignGroup(context.Background(), second.ID, fixture.group.ID))

	active, err = repo.ActiveForGroup(context.Background(), fixture.group.ID)
	require.NoError(t, err)
	require.Equal(t, second.ID, active.ID)

	var activeLinks int64
	require.NoError(t, db.Model(&models.GroupTemplate{}).
		Where("group_id = ? AND is_active = ?", fixture.group.ID, true).
		Count(&activeLinks).Error)
	require.Equal(t, int64(1), activeLinks)

	// Re-assigning the first template reactivates its existing link
	// instead of inserting a second row.
	require.NoError(t, repo.AssignGroup(context.Background(), first.ID, fixture.group.ID))

	var totalLinks int64
	require.NoError(t, db.Model(&models.GroupTemplate{}).
		Where("group_id = ?", fixture.group.ID).
		Count(&totalLinks).Error)
	require.Equal(t, int64(2), totalLinks)
}

func TestTemplateRepositoryUnassignThenNoActiveTemplate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTemplateRepository(db)
	fixture := seedProgramme(t, db)
	template := seedTemplate(t, db, fixture)

	require.NoError(t, repo.AssignGroup(context.Background(), template.ID, fixture.group.ID))
	require.NoError(t, repo.UnassignGroup(context.Background(), template.ID, fixture.group.ID))

	_, err := repo.ActiveForGroup(context.Background(), fixture.group.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTemplateRepositoryDeactivatedTemplateIsNotActiveForGroup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTemplateRepository(db)
	fixture := seedProgramme(t, db)
	template := seedTemplate(t, db, fixture)

	require.NoError(t, repo.AssignGroup(context.Background(), template.ID, fixture.group.ID))
	require.NoError(t, repo.Deactivate(context.Background(), template.ID))

	_, err := repo.ActiveForGroup(context.Background(), fixture.group.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTemplateRepositoryReplaceSections(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTemplateRepository(db)
	fixture := seedProgramme(t, db)
	template := seedTemplate(t, db, fixture)

	template.Name = "End of Term v2"
	sections := []models.TemplateSection{
		{
			Name:      "Technique",
			SortOrder: 0,
			Fields: []models.TemplateField{
				{Name: "Forehand", FieldType: models.FieldTypeRating, SortOrder: 0},
				{Name: "Backhand", FieldType: models.FieldTypeRating, SortOrder: 1},
			},
		},
		{
			Name:      "Next Steps",
			SortOrder: 1,
			Fields: []models.TemplateField{
				{Name: "Focus", FieldType: models.FieldTypeText, SortOrder: 0},
			},
		},
	}
	require.NoError(t, repo.ReplaceSections(context.Background(), &template, sections))

	updated, err := repo.GetByID(context.Background(), template.ID)
	require.NoError(t, err)
	require.Equal(t, "End of Term v2", updated.Name)
	require.Len(t, updated.Sections, 2)
	require.Equal(t, "Technique", updated.Sections[0].Name)
	require.Len(t, updated.Sections[0].Fields, 2)
	require.Equal(t, "Next Steps", updated.Sections[1].Name)

	var orphanFields int64
	require.NoError(t, db.Model(&models.TemplateField{}).
		Where("name = ?", "Comments").
		Count(&orphanFields).Error)
	require.Zero(t, orphanFields)
}
