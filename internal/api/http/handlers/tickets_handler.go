package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
)

// TicketsHandler exposes ticket CRUD endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	caller, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.TicketCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	ticket, err := h.tickets.CreateTicket(c.UserContext(), caller.ID, req.Title, req.Description)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewTicketSummaryResponse(ticket),
	})
}

// List handles GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	caller, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	tickets, err := h.tickets.ListTickets(c.UserContext(), caller, limit, offset)
	if err != nil {
		return err
	}

	if caller.Role == domain.RoleUser {
		out := make([]dto.TicketSummaryResponse, 0, len(tickets))
		for i := range tickets {
			out = append(out, dto.NewTicketSummaryResponse(&tickets[i]))
		}
		return c.JSON(fiber.Map{"data": out})
	}

	out := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, dto.NewTicketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	caller, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	ticket, err := h.tickets.GetTicket(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}

	if caller.Role == domain.RoleUser {
		return c.JSON(fiber.Map{"data": dto.NewTicketSummaryResponse(ticket)})
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}
