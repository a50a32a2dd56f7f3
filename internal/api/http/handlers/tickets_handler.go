package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pegasus-hq/support-core/internal/api/dto"
	"github.com/pegasus-hq/support-core/internal/auth"
	"github.com/pegasus-hq/support-core/internal/domain"
	"github.com/pegasus-hq/support-core/internal/repository"
	"github.com/pegasus-hq/support-core/internal/service"
	apperrors "github.com/pegasus-hq/support-core/pkg/util"
)

// TicketsHandler serves the ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// Create opens a new ticket for the authenticated user.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.tickets.CreateTicket(c.UserContext(), service.CreateTicketInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Category:     req.Category,
		Type:         req.Type,
		CustomFields: req.CustomFields,
	}, principal.User.Key(), principal.User.Email, principal.User.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ticket)
}

// List runs a filtered, paginated search. Non-admin callers only see their
// own tickets regardless of the filters they pass.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter := repository.TicketFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Type:   domain.TicketType(c.Query("type")),
	}
	for _, status := range splitCSV(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.TicketStatus(status))
	}
	for _, priority := range splitCSV(c.Query("priority")) {
		filter.Priorities = append(filter.Priorities, domain.TicketPriority(priority))
	}
	for _, category := range splitCSV(c.Query("category")) {
		filter.Categories = append(filter.Categories, domain.TicketCategory(category))
	}
	filter.AssignedTo = splitCSV(c.Query("assignedTo"))

	from, err := parseTimeQuery(c.Query("createdFrom"))
	if err != nil {
		return err
	}
	filter.CreatedFrom = from

	to, err := parseTimeQuery(c.Query("createdTo"))
	if err != nil {
		return err
	}
	filter.CreatedTo = to

	if principal.IsAdmin {
		filter.UserID = c.Query("userId")
	} else {
		filter.UserID = principal.User.Key()
	}

	result, err := h.tickets.SearchTickets(c.UserContext(),
		filter, c.QueryInt("page", 1), c.QueryInt("pageSize", 10))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Get returns one ticket by id or ticket number.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	_, ticket, err := h.accessibleTicket(c)
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// Update shallow-merges admin-supplied fields into a ticket.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	ticket, err := h.tickets.UpdateTicket(c.UserContext(), c.Params("ref"), service.UpdateTicketInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		Category:       req.Category,
		Type:           req.Type,
		AssignedTo:     req.AssignedTo,
		AssignedToName: req.AssignedToName,
		TimeSpent:      req.TimeSpent,
		CustomFields:   req.CustomFields,
	})
	if err != nil {
		return err
	}
	if ticket == nil {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket": c.Params("ref")})
	}
	return c.JSON(ticket)
}

// Delete hard-deletes a ticket.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	deleted, err := h.tickets.DeleteTicket(c.UserContext(), c.Params("ref"))
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket": c.Params("ref")})
	}
	return c.SendStatus(http.StatusNoContent)
}

// Messages returns the ticket thread. Internal notes are visible to staff
// only.
func (h *TicketsHandler) Messages(c *fiber.Ctx) error {
	principal, _, err := h.accessibleTicket(c)
	if err != nil {
		return err
	}
	messages, err := h.tickets.GetMessages(c.UserContext(), c.Params("ref"), principal.IsAdmin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// AddMessage appends to the ticket thread. Only staff may post internal
// notes; for everyone else the flag is ignored.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	principal, _, err := h.accessibleTicket(c)
	if err != nil {
		return err
	}

	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	role := domain.AuthorRoleUser
	if principal.IsAdmin {
		role = domain.AuthorRoleAdmin
	} else {
		req.IsInternal = false
	}

	msg, err := h.tickets.AddMessage(c.UserContext(), c.Params("ref"), service.AddMessageInput{
		Content:     req.Content,
		IsInternal:  req.IsInternal,
		Attachments: req.Attachments,
		Metadata:    req.Metadata,
	}, principal.User.Key(), principal.User.Name, principal.User.Email, role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(msg)
}

// Assign sets the assignee.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ok, err := h.tickets.AssignTicket(c.UserContext(), c.Params("ref"),
		req.AssignedTo, req.AssignedToName, principal.User.Key(), principal.User.Name)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket": c.Params("ref")})
	}
	return c.SendStatus(http.StatusNoContent)
}

// Unassign removes the assignment.
func (h *TicketsHandler) Unassign(c *fiber.Ctx) error {
	ok, err := h.tickets.UnassignTicket(c.UserContext(), c.Params("ref"))
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket": c.Params("ref")})
	}
	return c.SendStatus(http.StatusNoContent)
}

// Escalate marks the ticket escalated and raises its priority.
func (h *TicketsHandler) Escalate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.EscalateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ok, err := h.tickets.EscalateTicket(c.UserContext(), c.Params("ref"), principal.User.Key(), req.Reason)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket": c.Params("ref")})
	}
	return c.SendStatus(http.StatusNoContent)
}

// View bumps the view counter.
func (h *TicketsHandler) View(c *fiber.Ctx) error {
	_, _, err := h.accessibleTicket(c)
	if err != nil {
		return err
	}
	if _, err := h.tickets.IncrementViewCount(c.UserContext(), c.Params("ref")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Rate records a satisfaction rating from the ticket owner.
func (h *TicketsHandler) Rate(c *fiber.Ctx) error {
	principal, ticket, err := h.accessibleTicket(c)
	if err != nil {
		return err
	}
	if ticket.UserID != principal.User.Key() {
		return apperrors.NewForbidden("only the ticket owner can rate")
	}

	var req dto.SatisfactionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ok, err := h.tickets.UpdateSatisfactionRating(c.UserContext(), c.Params("ref"), req.Rating, req.Feedback)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket": c.Params("ref")})
	}
	return c.SendStatus(http.StatusNoContent)
}

// Stats aggregates ticket statistics. Non-admin callers only see their own
// tickets; admins may scope by requester or assignee.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	scope := repository.StatsScope{}
	if principal.IsAdmin {
		scope.UserID = c.Query("userId")
		scope.AssignedTo = c.Query("assignedTo")
	} else {
		scope.UserID = principal.User.Key()
	}

	stats, err := h.tickets.GetTicketStats(c.UserContext(), scope)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// accessibleTicket loads the ticket and enforces owner-or-admin access.
func (h *TicketsHandler) accessibleTicket(c *fiber.Ctx) (*auth.Principal, *domain.Ticket, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, nil, apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), c.Params("ref"))
	if err != nil {
		return nil, nil, err
	}
	if ticket == nil {
		return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket": c.Params("ref")})
	}
	if !principal.IsAdmin && ticket.UserID != principal.User.Key() {
		return nil, nil, apperrors.NewForbidden("not your ticket")
	}
	return principal, ticket, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseTimeQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid timestamp, expected RFC3339", map[string]any{"value": raw})
	}
	return &parsed, nil
}
