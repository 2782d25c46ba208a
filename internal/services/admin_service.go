package services

import (
	"encoding/json"
	"log"

	"serverhub/internal/models"
	"serverhub/internal/repositories"

	"github.com/google/uuid"
)

// AdminService handles moderation actions on server listings. Approval and
// feature changes are thin repository updates; the owner notification each
// one triggers is fire-and-forget relative to the action itself.
type AdminService struct {
	serverRepo repositories.ServerRepository
	userRepo   repositories.UserRepository
	publisher  Publisher
}

// NewAdminService creates a new AdminService. publisher may be nil, in
// which case notification events are skipped.
func NewAdminService(serverRepo repositories.ServerRepository, userRepo repositories.UserRepository, publisher Publisher) *AdminService {
	return &AdminService{
		serverRepo: serverRepo,
		userRepo:   userRepo,
		publisher:  publisher,
	}
}

// PendingServers returns all listings awaiting moderation.
func (s *AdminService) PendingServers() ([]models.Server, error) {
	return s.serverRepo.GetUnapproved()
}

// Approve sets the approval flag on a listing and notifies the owner.
func (s *AdminService) Approve(id uint, approve bool) (*models.Server, error) {
	server, err := s.serverRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	updated, err := s.serverRepo.Update(id, map[string]interface{}{"is_approved": approve})
	if err != nil {
		return nil, err
	}

	s.notifyOwner(server, "server_approval", map[string]interface{}{"approved": approve})
	return updated, nil
}

// Feature sets the featured flag on a listing. Featuring is independent of
// approval: a featured listing still needs approval to appear publicly.
func (s *AdminService) Feature(id uint, featured bool) (*models.Server, error) {
	if _, err := s.serverRepo.GetByID(id); err != nil {
		return nil, err
	}
	return s.serverRepo.Update(id, map[string]interface{}{"is_featured": featured})
}

func (s *AdminService) notifyOwner(server *models.Server, eventType string, extra map[string]interface{}) {
	if s.publisher == nil {
		log.Println("Message publisher is not initialized. Skipping notification event.")
		return
	}

	owner, err := s.userRepo.GetByID(server.UserID)
	if err != nil {
		log.Printf("Failed to look up owner of server %d for notification: %v", server.ID, err)
		return
	}

	event := map[string]interface{}{
		"id":          uuid.New().String(),
		"type":        eventType,
		"username":    owner.Username,
		"email":       owner.Email,
		"server_name": server.Name,
	}
	for k, v := range extra {
		event[k] = v
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal notification event: %v", err)
		return
	}
	if err := s.publisher.Publish("notification."+eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for server %d: %v", eventType, server.ID, err)
	}
}
