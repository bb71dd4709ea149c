package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/courtline/courtline-api/internal/middleware"
	"github.com/courtline/courtline-api/internal/models"
	"github.com/courtline/courtline-api/internal/service"
	"github.com/courtline/courtline-api/internal/utils"
)

// actorFromContext rebuilds the acting user from the locals populated by
// the JWT middleware.
func actorFromContext(c *fiber.Ctx) (service.Actor, error) {
	userID, ok := c.Locals(middleware.LocalUserID).(uint)
	if !ok {
		return service.Actor{}, errors.New("missing user id")
	}
	clubID, ok := c.Locals(middleware.LocalClubID).(uint)
	if !ok {
		return service.Actor{}, errors.New("missing club id")
	}

	role := models.RoleCoach
	if raw, ok := c.Locals(middleware.LocalRole).(string); ok {
		if candidate := models.UserRole(raw); candidate.Valid() {
			role = candidate
		}
	}

	return service.Actor{UserID: userID, Role: role, ClubID: clubID}, nil
}

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

func parseOptionalUintQuery(c *fiber.Ctx, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	parsed := uint(value)
	return &parsed, nil
}

// sendServiceError maps service-layer errors onto HTTP responses. Not
// found, permission, conflict and validation outcomes each keep their own
// status so clients can tell them apart.
func sendServiceError(c *fiber.Ctx, err error) error {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return utils.SendErrorWithDetails(c, fiber.StatusUnprocessableEntity, "validation failed", validationErr.Fields)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for _, fieldErr := range fieldErrs {
			details[fieldErr.Field()] = fieldErr.Tag()
		}
		return utils.SendErrorWithDetails(c, fiber.StatusUnprocessableEntity, "validation failed", details)
	}

	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrClubNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCoachNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrPeriodNotFound),
		errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrReportNotFound),
		errors.Is(err, service.ErrInvitationNotFound),
		errors.Is(err, service.ErrNoActiveTemplate):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrSubdomainTaken),
		errors.Is(err, service.ErrDuplicateGroupName),
		errors.Is(err, service.ErrDuplicateEnrollment),
		errors.Is(err, service.ErrDuplicateReport),
		errors.Is(err, service.ErrInvitationUsed),
		errors.Is(err, service.ErrGroupInUse),
		errors.Is(err, service.ErrPeriodInUse),
		errors.Is(err, service.ErrReportAlreadyEmailed):
		return utils.SendError(c, fiber.StatusConflict, err.Error())

	case errors.Is(err, service.ErrInvitationExpired):
		return utils.SendError(c, fiber.StatusGone, err.Error())

	default:
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
