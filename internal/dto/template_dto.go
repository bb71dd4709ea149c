package dto

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/courtline/courtline-api/internal/models"
)

// FieldRequest describes one template field on the wire.
type FieldRequest struct {
	Name        string               `json:"name" validate:"required,max=100"`
	Description string               `json:"description" validate:"max=200"`
	FieldType   string               `json:"fieldType" validate:"required,oneof=text textarea rating select progress"`
	IsRequired  bool                 `json:"isRequired"`
	Order       int                  `json:"order" validate:"gte=0"`
	Options     *models.FieldOptions `json:"options,omitempty"`
}

// SectionRequest describes one ordered template section.
type SectionRequest struct {
	Name   string         `json:"name" validate:"required,max=100"`
	Order  int            `json:"order" validate:"gte=0"`
	Fields []FieldRequest `json:"fields" validate:"required,min=1,dive"`
}

// TemplateRequest creates or replaces a report template.
type TemplateRequest struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Description string           `json:"description" validate:"max=200"`
	Sections    []SectionRequest `json:"sections" validate:"required,min=1,dive"`
}

// AssignGroupRequest binds a template to a group.
type AssignGroupRequest struct {
	GroupID uint `json:"group_id" validate:"required"`
}

// FieldResponse is the wire shape of a template field.
type FieldResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	FieldType   string               `json:"fieldType"`
	IsRequired  bool                 `json:"isRequired"`
	Order       int                  `json:"order"`
	Options     *models.FieldOptions `json:"options,omitempty"`
}

// SectionResponse is the wire shape of a template section.
type SectionResponse struct {
	ID     uint            `json:"id"`
	Name   string          `json:"name"`
	Order  int             `json:"order"`
	Fields []FieldResponse `json:"fields"`
}

// TemplateResponse is the wire shape of a template.
type TemplateResponse struct {
	ID             uint              `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	IsActive       bool              `json:"is_active"`
	Sections       []SectionResponse `json:"sections"`
	AssignedGroups []uint            `json:"assignedGroups"`
}

// NewTemplateResponse maps a template model to its wire shape.
func NewTemplateResponse(template models.ReportTemplate) TemplateResponse {
	sections := make([]SectionResponse, 0, len(template.Sections))
	for _, section := range template.Sections {
		fields := make([]FieldResponse, 0, len(section.Fields))
		for _, field := range section.Fields {
			var options *models.FieldOptions
			if parsed, err := field.ParsedOptions(); err == nil && len(field.Options) > 0 {
				options = &parsed
			}
			fields = append(fields, FieldResponse{
				ID:          field.ID,
				Name:        field.Name,
				Description: field.Description,
				FieldType:   string(field.FieldType),
				IsRequired:  field.IsRequired,
				Order:       field.SortOrder,
				Options:     options,
			})
		}
		sections = append(sections, SectionResponse{
			ID:     section.ID,
			Name:   section.Name,
			Order:  section.SortOrder,
			Fields: fields,
		})
	}

	assigned := make([]uint, 0, len(template.GroupLinks))
	for _, link := range template.GroupLinks {
		if link.IsActive {
			assigned = append(assigned, link.GroupID)
		}
	}

	return TemplateResponse{
		ID:             template.ID,
		Name:           template.Name,
		Description:    template.Description,
		IsActive:       template.IsActive,
		Sections:       sections,
		AssignedGroups: assigned,
	}
}

// NewTemplateResponseSlice maps a slice of templates.
func NewTemplateResponseSlice(templates []models.ReportTemplate) []TemplateResponse {
	responses := make([]TemplateResponse, 0, len(templates))
	for _, template := range templates {
		responses = append(responses, NewTemplateResponse(template))
	}
	return responses
}

// SectionsToModels converts the request shape to model sections, encoding
// field options to their stored JSON form.
func (r TemplateRequest) SectionsToModels() ([]models.TemplateSection, error) {
	sections := make([]models.TemplateSection, 0, len(r.Sections))
	for _, sectionReq := range r.Sections {
		section := models.TemplateSection{
			Name:      sectionReq.Name,
			SortOrder: sectionReq.Order,
		}
		for _, fieldReq := range sectionReq.Fields {
			field := models.TemplateField{
				Name:        fieldReq.Name,
				Description: fieldReq.Description,
				FieldType:   models.FieldType(fieldReq.FieldType),
				IsRequired:  fieldReq.IsRequired,
				SortOrder:   fieldReq.Order,
			}
			if fieldReq.Options != nil {
				encoded, err := json.Marshal(fieldReq.Options)
				if err != nil {
					return nil, err
				}
				field.Options = datatypes.JSON(encoded)
			}
			section.Fields = append(section.Fields, field)
		}
		sections = append(sections, section)
	}
	return sections, nil
}
