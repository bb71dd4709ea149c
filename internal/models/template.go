package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// FieldType enumerates the supported report field kinds.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeRating   FieldType = "rating"
	FieldTypeSelect   FieldType = "select"
	FieldTypeProgress FieldType = "progress"
)

// Valid reports whether the field type is one of the known values.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeRating, FieldTypeSelect, FieldTypeProgress:
		return true
	default:
		return false
	}
}

// RequiresOptions reports whether the field type carries a structured
// options payload. TEXT and TEXTAREA ignore options entirely.
func (t FieldType) RequiresOptions() bool {
	return t == FieldTypeRating || t == FieldTypeSelect
}

// FieldOptions is the type-specific configuration of a template field.
// RATING uses Min/Max/Labels, SELECT uses Options.
type FieldOptions struct {
	Min     *int     `json:"min,omitempty"`
	Max     *int     `json:"max,omitempty"`
	Labels  []string `json:"labels,omitempty"`
	Options []string `json:"options,omitempty"`
}

// ReportTemplate is an admin-authored report shape: ordered sections of
// ordered typed fields, optionally bound to groups via GroupTemplate links.
type ReportTemplate struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Name         string            `gorm:"size:100;not null" json:"name"`
	Description  string            `gorm:"size:200" json:"description"`
	TennisClubID uint              `gorm:"not null;index" json:"tennis_club_id"`
	CreatedByID  uint              `gorm:"not null" json:"created_by_id"`
	IsActive     bool              `gorm:"not null;default:true" json:"is_active"`
	Sections     []TemplateSection `gorm:"constraint:OnDelete:CASCADE" json:"sections"`
	GroupLinks   []GroupTemplate   `gorm:"constraint:OnDelete:CASCADE" json:"group_links"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Section returns the section with the given name, if present.
func (t ReportTemplate) Section(name string) (TemplateSection, bool) {
	for _, section := range t.Sections {
		if section.Name == name {
			return section, true
		}
	}
	return TemplateSection{}, false
}

// TemplateSection is an ordered group of fields within a template.
type TemplateSection struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ReportTemplateID uint            `gorm:"not null;index" json:"report_template_id"`
	Name             string          `gorm:"size:100;not null" json:"name"`
	SortOrder        int             `gorm:"not null" json:"order"`
	Fields           []TemplateField `gorm:"constraint:OnDelete:CASCADE" json:"fields"`
}

// Field returns the field with the given name, if present.
func (s TemplateSection) Field(name string) (TemplateField, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return TemplateField{}, false
}

// TemplateField is a single typed entry within a section.
type TemplateField struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	TemplateSectionID uint           `gorm:"not null;index" json:"template_section_id"`
	Name              string         `gorm:"size:100;not null" json:"name"`
	Description       string         `gorm:"size:200" json:"description"`
	FieldType         FieldType      `gorm:"size:20;not null" json:"field_type"`
	IsRequired        bool           `gorm:"not null;default:false" json:"is_required"`
	SortOrder         int            `gorm:"not null" json:"order"`
	Options           datatypes.JSON `gorm:"type:json" json:"options,omitempty"`
}

// ParsedOptions decodes the stored options payload. Fields without options
// yield the zero value.
func (f TemplateField) ParsedOptions() (FieldOptions, error) {
	var opts FieldOptions
	if len(f.Options) == 0 {
		return opts, nil
	}
	if err := json.Unmarshal(f.Options, &opts); err != nil {
		return FieldOptions{}, err
	}
	return opts, nil
}

// GroupTemplate binds a template to a group. Deactivating the link keeps
// history intact while making the template unavailable for new reports.
type GroupTemplate struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ReportTemplateID uint      `gorm:"not null;uniqueIndex:idx_group_template" json:"report_template_id"`
	GroupID          uint      `gorm:"not null;uniqueIndex:idx_group_template;index" json:"group_id"`
	IsActive         bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
