package handlers

import (
	"errors"
	"log"

	"serverhub/internal/middleware"
	"serverhub/internal/models"
	"serverhub/internal/repositories"
	"serverhub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ServerHandler handles HTTP requests for server listings.
type ServerHandler struct {
	service  *services.ServerService
	validate *validator.Validate
}

// NewServerHandler creates a new ServerHandler.
func NewServerHandler(service *services.ServerService) *ServerHandler {
	return &ServerHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the server listing routes with the Fiber app.
// requireAuth guards the routes that need an authenticated caller.
func (h *ServerHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	serverRoutes := router.Group("/servers")
	serverRoutes.Get("/", h.HandleList)
	serverRoutes.Get("/featured", h.HandleFeatured)
	serverRoutes.Get("/games/list", h.HandleGames)
	serverRoutes.Get("/mine", requireAuth, h.HandleMyServers)
	serverRoutes.Get("/:id", h.HandleGetByID)
	serverRoutes.Post("/", requireAuth, h.HandleCreate)
}

// searchQuery mirrors the accepted listing query parameters.
type searchQuery struct {
	Search string `validate:"omitempty,max=100"`
	Game   string `validate:"omitempty,max=32"`
	Region string `validate:"omitempty,oneof=na eu asia oce sa"`
	Status string `validate:"omitempty,oneof=online featured"`
	Sort   string `validate:"required,oneof=votes players newest name"`
	Page   int    `validate:"required,min=1"`
	Limit  int    `validate:"required,min=1,max=100"`
}

// HandleList returns one page of the filtered/sorted listing query.
func (h *ServerHandler) HandleList(c *fiber.Ctx) error {
	query := searchQuery{
		Search: c.Query("search"),
		Game:   c.Query("game"),
		Region: c.Query("region"),
		Status: c.Query("status"),
		Sort:   c.Query("sort", repositories.SortVotes),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 9),
	}
	if err := h.validate.Struct(query); err != nil {
		return validationErrorResponse(c, err)
	}

	servers, pagination, err := h.service.List(repositories.ServerFilters{
		Search: query.Search,
		Game:   query.Game,
		Region: query.Region,
		Status: query.Status,
		Sort:   query.Sort,
		Page:   query.Page,
		Limit:  query.Limit,
	}, middleware.CallerID(c))
	if err != nil {
		log.Printf("Error querying servers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve servers",
		})
	}

	return c.JSON(fiber.Map{
		"servers":    servers,
		"pagination": pagination,
	})
}

// HandleFeatured returns the featured server carousel.
func (h *ServerHandler) HandleFeatured(c *fiber.Ctx) error {
	servers, err := h.service.Featured(middleware.CallerID(c))
	if err != nil {
		log.Printf("Error querying featured servers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve featured servers",
		})
	}
	return c.JSON(servers)
}

// HandleGetByID returns a single listing, refreshing its live status
// best-effort before responding.
func (h *ServerHandler) HandleGetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid server ID",
		})
	}

	server, err := h.service.GetDetail(c.UserContext(), uint(id), middleware.CallerID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Server not found",
			})
		}
		log.Printf("Error getting server %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve server",
		})
	}
	return c.JSON(server)
}

// CreateServerRequest represents the request body for a listing submission.
type CreateServerRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,max=500"`
	Game        string `json:"game" validate:"required,max=32"`
	IP          string `json:"ip" validate:"required,max=255"`
	Port        int    `json:"port" validate:"required,min=1,max=65535"`
	Region      string `json:"region" validate:"required,oneof=na eu asia oce sa"`
}

// HandleCreate submits a new server listing for the authenticated caller.
func (h *ServerHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateServerRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing server submission body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	callerID := middleware.CallerID(c)
	if callerID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	server, err := h.service.Create(*callerID, &models.Server{
		Name:        req.Name,
		Description: req.Description,
		Game:        req.Game,
		IP:          req.IP,
		Port:        req.Port,
		Region:      req.Region,
	})
	if err != nil {
		if errors.Is(err, services.ErrUnknownGame) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Unknown game",
				"error":   err.Error(),
			})
		}
		log.Printf("Error creating server: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create server",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Server submitted successfully and is pending approval",
		"server":  server,
	})
}

// HandleMyServers returns all listings submitted by the caller.
func (h *ServerHandler) HandleMyServers(c *fiber.Ctx) error {
	callerID := middleware.CallerID(c)
	if callerID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	servers, err := h.service.MyServers(*callerID)
	if err != nil {
		log.Printf("Error getting servers for user %d: %v", *callerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve servers",
		})
	}
	return c.JSON(servers)
}

// HandleGames returns the game catalog used to populate filter UIs.
func (h *ServerHandler) HandleGames(c *fiber.Ctx) error {
	games, err := h.service.Games()
	if err != nil {
		log.Printf("Error getting games: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve games",
		})
	}
	return c.JSON(games)
}
