package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pegasus-hq/support-core/internal/api/dto"
	"github.com/pegasus-hq/support-core/internal/auth"
	"github.com/pegasus-hq/support-core/internal/domain"
	"github.com/pegasus-hq/support-core/internal/service"
	apperrors "github.com/pegasus-hq/support-core/pkg/util"
)

// TemplatesHandler serves reply templates and automation rules.
type TemplatesHandler struct {
	tickets *service.TicketService
}

// NewTemplatesHandler constructs the handler.
func NewTemplatesHandler(tickets *service.TicketService) *TemplatesHandler {
	return &TemplatesHandler{tickets: tickets}
}

// CreateTemplate stores a reply preset.
func (h *TemplatesHandler) CreateTemplate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	template := &domain.TicketTemplate{
		Name:     req.Name,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Priority: req.Priority,
		Tags:     req.Tags,
	}
	template.CreatedBy = principal.User.Key()
	if err := h.tickets.CreateTemplate(c.UserContext(), template); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(template)
}

// ListTemplates returns all templates.
func (h *TemplatesHandler) ListTemplates(c *fiber.Ctx) error {
	templates, err := h.tickets.ListTemplates(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"templates": templates})
}

// UseTemplate bumps a template's usage counter.
func (h *TemplatesHandler) UseTemplate(c *fiber.Ctx) error {
	ok, err := h.tickets.UseTemplate(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewNotFound("template", map[string]any{"id": c.Params("id")})
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateAutomation stores an automation rule.
func (h *TemplatesHandler) CreateAutomation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateAutomationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	automation := &domain.TicketAutomation{
		Name:        req.Name,
		Description: req.Description,
		Trigger:     req.Trigger,
		Actions:     req.Actions,
		Enabled:     req.Enabled,
	}
	automation.CreatedBy = principal.User.Key()
	if err := h.tickets.CreateAutomation(c.UserContext(), automation); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(automation)
}

// ListAutomations returns all automation rules.
func (h *TemplatesHandler) ListAutomations(c *fiber.Ctx) error {
	automations, err := h.tickets.ListAutomations(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"automations": automations})
}

// TriggerAutomation records a trigger on a rule.
func (h *TemplatesHandler) TriggerAutomation(c *fiber.Ctx) error {
	ok, err := h.tickets.TriggerAutomation(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewNotFound("automation", map[string]any{"id": c.Params("id")})
	}
	return c.SendStatus(http.StatusNoContent)
}
