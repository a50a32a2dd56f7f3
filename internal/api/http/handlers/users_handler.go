package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/pegasus-hq/support-core/internal/api/dto"
	"github.com/pegasus-hq/support-core/internal/service"
	apperrors "github.com/pegasus-hq/support-core/pkg/util"
)

// UsersHandler serves the admin bulk-moderation endpoint.
type UsersHandler struct {
	moderation *service.ModerationService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(moderation *service.ModerationService) *UsersHandler {
	return &UsersHandler{moderation: moderation}
}

// Manage applies one action to a batch of user identifiers. The batch always
// returns 200 with per-user accounting; only a missing action or empty id
// list is rejected up front.
func (h *UsersHandler) Manage(c *fiber.Ctx) error {
	var req dto.BulkManageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.moderation.ApplyBulk(c.UserContext(),
		service.BulkAction(req.Action), req.UserIDs, service.BulkActionData{
			Reason:     req.Data.Reason,
			TokenLimit: req.Data.TokenLimit,
		})
	if err != nil {
		return err
	}

	return c.JSON(dto.BulkManageResponse{
		Success:        result.AffectedUsers() > 0,
		Message:        fmt.Sprintf("%s applied to %d of %d users", req.Action, result.AffectedUsers(), len(req.UserIDs)),
		AffectedUsers:  result.AffectedUsers(),
		RequestedUsers: len(req.UserIDs),
		Errors:         result.Errors(),
	})
}
