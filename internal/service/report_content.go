package service

import (
	"fmt"
	"strings"

	"github.com/courtline/courtline-api/internal/models"
)

// validateContent checks submitted report content against the template
// schema: every section and field must exist in the template, required
// fields must be filled, ratings must sit inside their bounds and select
// values must be one of the configured options. Free-text values are
// sanitized in place. Returns the content that should be stored.
func (s *reportService) validateContent(template models.ReportTemplate, content models.ReportContent) (models.ReportContent, error) {
	problems := map[string]string{}
	clean := models.ReportContent{}

	for sectionName, fields := range content {
		section, ok := template.Section(sectionName)
		if !ok {
			problems[sectionName] = "unknown section"
			continue
		}
		cleanFields := map[string]any{}
		for fieldName, value := range fields {
			field, ok := section.Field(fieldName)
			if !ok {
				problems[fmt.Sprintf("%s.%s", sectionName, fieldName)] = "unknown field"
				continue
			}
			cleaned, err := s.validateFieldValue(field, value)
			if err != nil {
				problems[fmt.Sprintf("%s.%s", sectionName, fieldName)] = err.Error()
				continue
			}
			cleanFields[fieldName] = cleaned
		}
		clean[sectionName] = cleanFields
	}

	for _, section := range template.Sections {
		for _, field := range section.Fields {
			if !field.IsRequired {
				continue
			}
			if isBlank(clean[section.Name][field.Name]) {
				problems[fmt.Sprintf("%s.%s", section.Name, field.Name)] = "required field is missing"
			}
		}
	}

	if len(problems) > 0 {
		return nil, NewValidationError(problems)
	}
	return clean, nil
}

func (s *reportService) validateFieldValue(field models.TemplateField, value any) (any, error) {
	switch field.FieldType {
	case models.FieldTypeText, models.FieldTypeTextarea:
		text, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected text")
		}
		return s.sanitizer.Sanitize(text), nil

	case models.FieldTypeRating:
		rating, ok := numeric(value)
		if !ok {
			return nil, fmt.Errorf("expected a number")
		}
		opts, err := field.ParsedOptions()
		if err != nil {
			return nil, err
		}
		if opts.Min != nil && rating < float64(*opts.Min) {
			return nil, fmt.Errorf("rating below minimum %d", *opts.Min)
		}
		if opts.Max != nil && rating > float64(*opts.Max) {
			return nil, fmt.Errorf("rating above maximum %d", *opts.Max)
		}
		return rating, nil

	case models.FieldTypeSelect:
		choice, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string option")
		}
		opts, err := field.ParsedOptions()
		if err != nil {
			return nil, err
		}
		for _, option := range opts.Options {
			if option == choice {
				return choice, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of the configured options", choice)

	case models.FieldTypeProgress:
		if _, ok := value.(bool); ok {
			return value, nil
		}
		if text, ok := value.(string); ok {
			return s.sanitizer.Sanitize(text), nil
		}
		if rating, ok := numeric(value); ok {
			return rating, nil
		}
		return nil, fmt.Errorf("unsupported progress value")

	default:
		return nil, fmt.Errorf("unsupported field type %q", field.FieldType)
	}
}

// numeric accepts the numeric shapes JSON decoding can produce.
func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func isBlank(value any) bool {
	if value == nil {
		return true
	}
	if text, ok := value.(string); ok {
		return strings.TrimSpace(text) == ""
	}
	return false
}
