package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pegasus-hq/support-core/internal/auth"
	"github.com/pegasus-hq/support-core/internal/service"
	apperrors "github.com/pegasus-hq/support-core/pkg/util"
)

// NotificationsHandler serves in-app notification reads.
type NotificationsHandler struct {
	tickets *service.TicketService
}

// NewNotificationsHandler constructs the handler.
func NewNotificationsHandler(tickets *service.TicketService) *NotificationsHandler {
	return &NotificationsHandler{tickets: tickets}
}

// List returns the caller's notifications, newest first.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	notifications, err := h.tickets.GetNotifications(c.UserContext(),
		principal.User.Key(), c.QueryBool("unread", false))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"notifications": notifications})
}

// MarkRead flags one notification as read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	ok, err := h.tickets.MarkNotificationAsRead(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewNotFound("notification", map[string]any{"id": c.Params("id")})
	}
	return c.SendStatus(http.StatusNoContent)
}
