package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/helpdesk-service/internal/api/dto"
	"github.com/helpdesk-kit/helpdesk-service/internal/service"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// ProfilesHandler manages client and technician profile endpoints.
type ProfilesHandler struct {
	profiles *service.ProfileService
}

// NewProfilesHandler constructs handler.
func NewProfilesHandler(profiles *service.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{profiles: profiles}
}

// CreateClient POST /clients (ADMIN).
func (h *ProfilesHandler) CreateClient(c *fiber.Ctx) error {
	var req dto.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" {
		return apperrors.NewValidationError("user_id required", nil)
	}
	client, err := h.profiles.CreateClientProfile(c.UserContext(), service.ClientProfileInput{
		UserID:       req.UserID,
		Company:      req.Company,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": clientSummary(client)})
}

// ListClients GET /clients (ADMIN).
func (h *ProfilesHandler) ListClients(c *fiber.Ctx) error {
	clients, err := h.profiles.ListClients(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ClientSummary, 0, len(clients))
	for i := range clients {
		items = append(items, clientSummary(&clients[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetClient GET /clients/:userId (ADMIN).
func (h *ProfilesHandler) GetClient(c *fiber.Ctx) error {
	client, err := h.profiles.GetClientByUserID(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clientSummary(client)})
}

// CreateTechnician POST /technicians (ADMIN).
func (h *ProfilesHandler) CreateTechnician(c *fiber.Ctx) error {
	var req dto.CreateTechnicianRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" || req.Specialty == "" {
		return apperrors.NewValidationError("user_id and specialty required", nil)
	}
	technician, err := h.profiles.CreateTechnicianProfile(c.UserContext(), service.TechnicianProfileInput{
		UserID:       req.UserID,
		Name:         req.Name,
		Specialty:    req.Specialty,
		Availability: req.Availability,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": technicianSummary(technician)})
}

// ListTechnicians GET /technicians (ADMIN).
func (h *ProfilesHandler) ListTechnicians(c *fiber.Ctx) error {
	technicians, err := h.profiles.ListTechnicians(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TechnicianSummary, 0, len(technicians))
	for i := range technicians {
		items = append(items, technicianSummary(&technicians[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTechnician GET /technicians/:userId (ADMIN).
func (h *ProfilesHandler) GetTechnician(c *fiber.Ctx) error {
	technician, err := h.profiles.GetTechnicianByUserID(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": technicianSummary(technician)})
}
