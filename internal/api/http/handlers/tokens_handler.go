package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pegasus-hq/support-core/internal/api/dto"
	"github.com/pegasus-hq/support-core/internal/auth"
	"github.com/pegasus-hq/support-core/internal/service"
	apperrors "github.com/pegasus-hq/support-core/pkg/util"
)

// TokensHandler serves quota views, token administration and self-service
// usage increments.
type TokensHandler struct {
	tokens *service.TokenService
}

// NewTokensHandler constructs the handler.
func NewTokensHandler(tokens *service.TokenService) *TokensHandler {
	return &TokensHandler{tokens: tokens}
}

// Info returns the caller's quota view. Admins may pass userId to inspect
// someone else.
func (h *TokensHandler) Info(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	userID := principal.User.Key()
	if principal.IsAdmin && c.Query("userId") != "" {
		userID = c.Query("userId")
	}

	info, err := h.tokens.GetUserTokenInfo(c.UserContext(), userID)
	if err != nil {
		return err
	}
	if info == nil {
		return apperrors.NewNotFound("user", map[string]any{"userId": userID})
	}
	return c.JSON(info)
}

// Administer applies an admin token action to one user and returns the
// resulting quota view.
func (h *TokensHandler) Administer(c *fiber.Ctx) error {
	var req dto.TokenAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ctx := c.UserContext()
	switch req.Action {
	case "setLimit":
		ok, err := h.tokens.SetLimit(ctx, req.UserID, req.Amount)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewNotFound("user", map[string]any{"userId": req.UserID})
		}
	case "setUsage":
		if err := h.tokens.SetUsage(ctx, req.UserID, req.Amount); err != nil {
			return err
		}
	case "resetUsage":
		if err := h.tokens.ResetUsage(ctx, req.UserID); err != nil {
			return err
		}
	case "addTokens":
		ok, err := h.tokens.AddTokens(ctx, req.UserID, req.Amount)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewNotFound("user", map[string]any{"userId": req.UserID})
		}
	}

	info, err := h.tokens.GetUserTokenInfo(ctx, req.UserID)
	if err != nil {
		return err
	}
	if info == nil {
		return apperrors.NewNotFound("user", map[string]any{"userId": req.UserID})
	}
	return c.JSON(info)
}

// Increment records the caller's own token consumption. A request that would
// breach the limit is rejected with QUOTA_EXCEEDED and nothing is written.
func (h *TokensHandler) Increment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.TokenIncrementRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	info, err := h.tokens.IncrementUsage(c.UserContext(), principal.User.Key(), req.TokensToAdd)
	if err != nil {
		return err
	}
	return c.JSON(info)
}
