package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/helpdesk-service/internal/api/dto"
	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

func currentPrincipal(c *fiber.Ctx) (auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return auth.Principal{}, apperrors.NewUnauthorized("authentication required")
	}
	return *principal, nil
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	resp := dto.TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if ticket.Client != nil {
		summary := clientSummary(ticket.Client)
		resp.Client = &summary
	}
	if ticket.Technician != nil {
		summary := technicianSummary(ticket.Technician)
		resp.Technician = &summary
	}
	if ticket.Category != nil {
		category := categoryResponse(ticket.Category)
		resp.Category = &category
	}
	return resp
}

func ticketListResponse(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}

func clientSummary(client *domain.ClientProfile) dto.ClientSummary {
	summary := dto.ClientSummary{
		UserID:       client.UserID,
		Company:      client.Company,
		ContactEmail: client.ContactEmail,
		CreatedAt:    client.CreatedAt,
	}
	if client.User != nil {
		summary.Name = client.User.Name
	}
	return summary
}

func technicianSummary(technician *domain.TechnicianProfile) dto.TechnicianSummary {
	return dto.TechnicianSummary{
		UserID:       technician.UserID,
		Name:         technician.Name,
		Specialty:    technician.Specialty,
		Availability: technician.Availability,
		CreatedAt:    technician.CreatedAt,
	}
}

func categoryResponse(category *domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
