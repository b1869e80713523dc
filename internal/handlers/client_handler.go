package handlers

import (
	"realestatecrm/internal/logging"
	"realestatecrm/internal/models"
	"realestatecrm/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ClientHandler handles HTTP requests for clients.
type ClientHandler struct {
	service *services.ClientService
	log     logging.Logger
}

func NewClientHandler(service *services.ClientService, log logging.Logger) *ClientHandler {
	return &ClientHandler{
		service: service,
		log:     log,
	}
}

func (h *ClientHandler) RegisterRoutes(router fiber.Router) {
	clientRoutes := router.Group("/clients")
	clientRoutes.Get("/", h.HandleGetClients)
	clientRoutes.Get("/:id", h.HandleGetClientByID)
	clientRoutes.Post("/", h.HandleCreateClient)
	clientRoutes.Put("/:id", h.HandleUpdateClient)
	clientRoutes.Delete("/:id", h.HandleDeleteClient)
}

func (h *ClientHandler) HandleGetClients(c *fiber.Ctx) error {
	clients, err := h.service.GetAllClients(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve clients", err)
	}
	return c.JSON(clients)
}

func (h *ClientHandler) HandleGetClientByID(c *fiber.Ctx) error {
	client, err := h.service.GetClientByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve client", err)
	}
	return c.JSON(client)
}

func (h *ClientHandler) HandleCreateClient(c *fiber.Ctx) error {
	var in models.ClientInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	client, err := h.service.CreateClient(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, "Could not create client", err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// HandleUpdateClient answers 204. A supplied createdAt is ignored.
func (h *ClientHandler) HandleUpdateClient(c *fiber.Ctx) error {
	var patch models.ClientPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	if err := h.service.UpdateClient(c.UserContext(), c.Params("id"), patch); err != nil {
		return respondError(c, h.log, "Could not update client", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ClientHandler) HandleDeleteClient(c *fiber.Ctx) error {
	if err := h.service.DeleteClient(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, "Could not delete client", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
