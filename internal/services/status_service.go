package services

import (
	"context"
	"sync"

	"serverhub/internal/models"
	"serverhub/pkg/gamequery"
)

// StatusUpdate is the set of listing fields a probe refreshes. The four
// fields always travel together: a listing is either fully refreshed or not
// touched at all.
type StatusUpdate struct {
	IsOnline       bool
	CurrentPlayers int
	MaxPlayers     int
	CurrentMap     *string
}

// Fields converts the update into the column map the server repository
// consumes.
func (u StatusUpdate) Fields() map[string]interface{} {
	return map[string]interface{}{
		"is_online":       u.IsOnline,
		"current_players": u.CurrentPlayers,
		"max_players":     u.MaxPlayers,
		"current_map":     u.CurrentMap,
	}
}

// StatusService refreshes the live status of server listings through the
// game query driver. Probe failure is a normal outcome here, never an
// error: an unreachable server is reported offline with zero players.
type StatusService struct {
	driver gamequery.Driver
}

// NewStatusService creates a new StatusService.
func NewStatusService(driver gamequery.Driver) *StatusService {
	return &StatusService{
		driver: driver,
	}
}

// Refresh probes a single listing and maps the outcome to a StatusUpdate.
// Persisting the update is the caller's job.
func (s *StatusService) Refresh(ctx context.Context, server *models.Server) StatusUpdate {
	status := s.driver.Query(ctx, server.Game, server.IP, server.Port)
	update := StatusUpdate{
		IsOnline:       status.Online,
		CurrentPlayers: status.CurrentPlayers,
		MaxPlayers:     status.MaxPlayers,
	}
	if status.Online && status.CurrentMap != "" {
		mapName := status.CurrentMap
		update.CurrentMap = &mapName
	}
	return update
}

// RefreshAll probes every listing concurrently and collects one update per
// listing. Total wall time is bounded by the slowest single probe. A failed
// probe never prevents the other results from being collected; the failed
// listing simply gets the offline update.
func (s *StatusService) RefreshAll(ctx context.Context, servers []models.Server) map[uint]StatusUpdate {
	updates := make(map[uint]StatusUpdate, len(servers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := range servers {
		wg.Add(1)
		go func(server models.Server) {
			defer wg.Done()
			update := s.Refresh(ctx, &server)
			mu.Lock()
			updates[server.ID] = update
			mu.Unlock()
		}(servers[i])
	}
	wg.Wait()
	return updates
}
