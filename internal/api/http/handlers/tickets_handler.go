package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/helpdesk-service/internal/api/dto"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/service"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	tickets    *service.TicketService
	assignment *service.AssignmentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, assignment *service.AssignmentService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, assignment: assignment}
}

// CreateTicket POST /tickets (CLIENT).
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("title and description required", nil)
	}
	if req.CategoryID <= 0 {
		return apperrors.NewValidationError("category_id required", nil)
	}

	ticket, err := h.tickets.CreateForClient(c.UserContext(), principal.ID, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListForUser(c.UserContext(), principal, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketListResponse(tickets)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetForUser(c.UserContext(), ticketID, principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AssignTicket PATCH /tickets/:id/assign (ADMIN).
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TechnicianUserID == "" {
		return apperrors.NewValidationError("technician_user_id required", nil)
	}

	ticket, err := h.assignment.AssignToTechnician(c.UserContext(), principal, ticketID, req.TechnicianUserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateStatus PATCH /tickets/:id/status (TECHNICIAN or ADMIN).
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	ticket, err := h.tickets.UpdateStatus(c.UserContext(), principal, ticketID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListByClient GET /tickets/client/:userId (ADMIN).
func (h *TicketsHandler) ListByClient(c *fiber.Ctx) error {
	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListByClientUserID(c.UserContext(), c.Params("userId"), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketListResponse(tickets)})
}

// ListByTechnician GET /tickets/technician/:userId (ADMIN).
func (h *TicketsHandler) ListByTechnician(c *fiber.Ctx) error {
	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListByTechnicianUserID(c.UserContext(), c.Params("userId"), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketListResponse(tickets)})
}

func parseTicketID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", nil)
	}
	return id, nil
}

func parseTicketFilter(c *fiber.Ctx) (service.TicketListFilter, error) {
	var filter service.TicketListFilter
	if raw := c.Query("status"); raw != "" {
		status := domain.TicketStatus(strings.ToUpper(raw))
		if !domain.ValidStatus(status) {
			return filter, apperrors.NewValidationError("invalid status filter", map[string]any{"status": raw})
		}
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := domain.TicketPriority(strings.ToUpper(raw))
		if !domain.ValidPriority(priority) {
			return filter, apperrors.NewValidationError("invalid priority filter", map[string]any{"priority": raw})
		}
		filter.Priority = &priority
	}
	return filter, nil
}
