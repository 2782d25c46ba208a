package handlers

import (
	"errors"
	"log"

	"serverhub/internal/repositories"
	"serverhub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles HTTP requests for moderation actions. Routes are
// expected to be registered under a group guarded by the admin middleware.
type AdminHandler struct {
	service *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *services.AdminService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

// RegisterRoutes registers the admin routes with the Fiber app.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin")
	adminRoutes.Get("/servers/pending", h.HandlePendingServers)
	adminRoutes.Patch("/servers/:id", h.HandleApprove)
	adminRoutes.Patch("/servers/:id/feature", h.HandleFeature)
}

// HandlePendingServers returns all listings awaiting moderation.
func (h *AdminHandler) HandlePendingServers(c *fiber.Ctx) error {
	servers, err := h.service.PendingServers()
	if err != nil {
		log.Printf("Error getting pending servers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve pending servers",
		})
	}
	return c.JSON(servers)
}

// HandleApprove approves or rejects a listing.
func (h *AdminHandler) HandleApprove(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid server ID",
		})
	}

	var body struct {
		Approve *bool `json:"approve"`
	}
	if err := c.BodyParser(&body); err != nil || body.Approve == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Approve parameter must be a boolean",
		})
	}

	server, err := h.service.Approve(uint(id), *body.Approve)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Server not found",
			})
		}
		log.Printf("Error approving server %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update server",
		})
	}

	message := "Server rejected successfully"
	if *body.Approve {
		message = "Server approved successfully"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"server":  server,
	})
}

// HandleFeature sets or clears the featured flag on a listing.
func (h *AdminHandler) HandleFeature(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid server ID",
		})
	}

	var body struct {
		Featured *bool `json:"featured"`
	}
	if err := c.BodyParser(&body); err != nil || body.Featured == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Featured parameter must be a boolean",
		})
	}

	server, err := h.service.Feature(uint(id), *body.Featured)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Server not found",
			})
		}
		log.Printf("Error featuring server %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update server",
		})
	}

	message := "Server unfeatured successfully"
	if *body.Featured {
		message = "Server featured successfully"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"server":  server,
	})
}
