package handlers

import (
	"errors"
	"log"

	"serverhub/internal/middleware"
	"serverhub/internal/repositories"
	"serverhub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// VoteHandler handles HTTP requests for votes.
type VoteHandler struct {
	service *services.VoteService
}

// NewVoteHandler creates a new VoteHandler.
func NewVoteHandler(service *services.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

// RegisterRoutes registers the vote routes with the Fiber app.
func (h *VoteHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	voteRoutes := router.Group("/votes")
	voteRoutes.Post("/:serverId", requireAuth, h.HandleToggle)
	voteRoutes.Get("/:serverId/count", h.HandleCount)
}

// HandleToggle flips the caller's vote on a server. The response always
// states clearly whether the vote was added or removed.
func (h *VoteHandler) HandleToggle(c *fiber.Ctx) error {
	serverID, err := c.ParamsInt("serverId")
	if err != nil || serverID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid server ID",
		})
	}

	callerID := middleware.CallerID(c)
	if callerID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required to vote",
		})
	}

	voted, count, err := h.service.Toggle(*callerID, uint(serverID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Server not found",
			})
		}
		log.Printf("Error toggling vote for user %d on server %d: %v", *callerID, serverID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not process vote",
		})
	}

	if voted {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":    "Vote added successfully",
			"voted":      true,
			"vote_count": count,
		})
	}
	return c.JSON(fiber.Map{
		"message":    "Vote removed successfully",
		"voted":      false,
		"vote_count": count,
	})
}

// HandleCount returns the live vote count for a server, plus whether the
// caller (if any) has an active vote.
func (h *VoteHandler) HandleCount(c *fiber.Ctx) error {
	serverID, err := c.ParamsInt("serverId")
	if err != nil || serverID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid server ID",
		})
	}

	count, hasVoted, err := h.service.Count(uint(serverID), middleware.CallerID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Server not found",
			})
		}
		log.Printf("Error getting vote count for server %d: %v", serverID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve vote count",
		})
	}

	return c.JSON(fiber.Map{
		"vote_count": count,
		"has_voted":  hasVoted,
	})
}
