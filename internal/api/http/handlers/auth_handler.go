package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pegasus-hq/support-core/internal/api/dto"
	"github.com/pegasus-hq/support-core/internal/service"
	apperrors "github.com/pegasus-hq/support-core/pkg/util"
)

// AuthHandler serves credential exchange.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login exchanges email/password for a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, token, expiresAt, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.Key(),
		IsAdmin:   user.IsAdmin,
	})
}
