package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"serverhub/internal/models"
	"serverhub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupDB opens a fresh in-memory SQLite database with all models migrated.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Server{}, &models.Vote{}, &models.Game{}))
	return db
}

func createListing(t *testing.T, repo repositories.ServerRepository, name string, mutate func(*models.Server)) *models.Server {
	t.Helper()
	server := &models.Server{
		Name:        name,
		Description: "A test server",
		Game:        "cs2",
		IP:          "198.51.100.10",
		Port:        27015,
		Region:      "eu",
		UserID:      1,
	}
	require.NoError(t, repo.Create(server))
	if mutate != nil {
		fields := map[string]interface{}{}
		mutate(server)
		fields["is_approved"] = server.IsApproved
		fields["is_featured"] = server.IsFeatured
		fields["is_online"] = server.IsOnline
		fields["current_players"] = server.CurrentPlayers
		updated, err := repo.Update(server.ID, fields)
		require.NoError(t, err)
		return updated
	}
	return server
}

func TestGORMServerRepository_CreateForcesModerationDefaults(t *testing.T) {
	repo := repositories.NewGORMServerRepository(setupDB(t))

	currentMap := "de_dust2"
	server := &models.Server{
		Name:           "Sneaky Server",
		Description:    "Tries to self-approve",
		Game:           "cs2",
		IP:             "198.51.100.10",
		Port:           27015,
		Region:         "eu",
		UserID:         1,
		IsApproved:     true,
		IsFeatured:     true,
		IsOnline:       true,
		CurrentPlayers: 99,
		CurrentMap:     &currentMap,
	}
	require.NoError(t, repo.Create(server))

	stored, err := repo.GetByID(server.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsApproved)
	assert.False(t, stored.IsFeatured)
	assert.False(t, stored.IsOnline)
	assert.Equal(t, 0, stored.CurrentPlayers)
	assert.Nil(t, stored.CurrentMap)
}

func TestGORMServerRepository_QueryApprovalGating(t *testing.T) {
	repo := repositories.NewGORMServerRepository(setupDB(t))

	approved := createListing(t, repo, "Approved", func(s *models.Server) { s.IsApproved = true })
	createListing(t, repo, "Pending", nil)

	servers, total, err := repo.Query(repositories.ServerFilters{})
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, approved.ID, servers[0].ID)
	assert.Equal(t, int64(1), total)
}

func TestGORMServerRepository_QueryFilters(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMServerRepository(db)

	createListing(t, repo, "Dust2 24/7", func(s *models.Server) { s.IsApproved = true; s.IsOnline = true })
	rust := &models.Server{
		Name: "Rusty Shores", Description: "Monthly wipe", Game: "rust",
		IP: "203.0.113.5", Port: 28015, Region: "na", UserID: 1,
	}
	require.NoError(t, repo.Create(rust))
	_, err := repo.Update(rust.ID, map[string]interface{}{"is_approved": true, "is_featured": true})
	require.NoError(t, err)

	// Free-text search is case-insensitive and matches name, description or ip.
	for _, search := range []string{"DUST2", "monthly", "203.0.113"} {
		servers, _, err := repo.Query(repositories.ServerFilters{Search: search})
		require.NoError(t, err)
		require.Len(t, servers, 1, "search %q", search)
	}

	servers, _, err := repo.Query(repositories.ServerFilters{Game: "rust"})
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, "Rusty Shores", servers[0].Name)

	servers, _, err = repo.Query(repositories.ServerFilters{Region: "eu"})
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, "Dust2 24/7", servers[0].Name)

	servers, _, err = repo.Query(repositories.ServerFilters{Status: "online"})
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, "Dust2 24/7", servers[0].Name)

	servers, _, err = repo.Query(repositories.ServerFilters{Status: "featured"})
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, "Rusty Shores", servers[0].Name)

	// Conjunctive filters narrow to nothing when they disagree.
	servers, total, err := repo.Query(repositories.ServerFilters{Game: "rust", Region: "eu"})
	require.NoError(t, err)
	assert.Empty(t, servers)
	assert.Zero(t, total)
}

func TestGORMServerRepository_QueryVotesSortAggregatesFullSet(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMServerRepository(db)
	voteRepo := repositories.NewGORMVoteRepository(db)

	a := createListing(t, repo, "Server A", func(s *models.Server) { s.IsApproved = true })
	b := createListing(t, repo, "Server B", func(s *models.Server) { s.IsApproved = true })
	c := createListing(t, repo, "Server C", func(s *models.Server) { s.IsApproved = true })

	for userID := uint(1); userID <= 3; userID++ {
		_, err := voteRepo.Toggle(userID, a.ID)
		require.NoError(t, err)
	}
	_, err := voteRepo.Toggle(1, b.ID)
	require.NoError(t, err)

	servers, total, err := repo.Query(repositories.ServerFilters{Sort: repositories.SortVotes})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, servers, 3)
	assert.Equal(t, a.ID, servers[0].ID)
	assert.Equal(t, b.ID, servers[1].ID)
	assert.Equal(t, c.ID, servers[2].ID)

	// Ranking holds across pages: the aggregation runs over the full
	// filtered set, not per page.
	pageTwo, _, err := repo.Query(repositories.ServerFilters{Sort: repositories.SortVotes, Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Len(t, pageTwo, 1)
	assert.Equal(t, b.ID, pageTwo[0].ID)
}

func TestGORMServerRepository_QuerySortKeys(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMServerRepository(db)

	createListing(t, repo, "bravo", func(s *models.Server) { s.IsApproved = true; s.CurrentPlayers = 10 })
	createListing(t, repo, "Alpha", func(s *models.Server) { s.IsApproved = true; s.CurrentPlayers = 30 })
	createListing(t, repo, "charlie", func(s *models.Server) { s.IsApproved = true; s.CurrentPlayers = 20 })

	servers, _, err := repo.Query(repositories.ServerFilters{Sort: repositories.SortPlayers})
	require.NoError(t, err)
	require.Len(t, servers, 3)
	assert.Equal(t, []int{30, 20, 10}, []int{servers[0].CurrentPlayers, servers[1].CurrentPlayers, servers[2].CurrentPlayers})

	// Name sort is case-insensitive.
	servers, _, err = repo.Query(repositories.ServerFilters{Sort: repositories.SortName})
	require.NoError(t, err)
	require.Len(t, servers, 3)
	assert.Equal(t, "Alpha", servers[0].Name)
	assert.Equal(t, "bravo", servers[1].Name)
	assert.Equal(t, "charlie", servers[2].Name)
}

func TestGORMServerRepository_QueryPageBeyondEnd(t *testing.T) {
	repo := repositories.NewGORMServerRepository(setupDB(t))
	for i := 0; i < 4; i++ {
		createListing(t, repo, fmt.Sprintf("Server %d", i), func(s *models.Server) { s.IsApproved = true })
	}

	servers, total, err := repo.Query(repositories.ServerFilters{Page: 9, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, servers)
	assert.Equal(t, int64(4), total)
}

func TestGORMServerRepository_UpdateStampsLastUpdated(t *testing.T) {
	repo := repositories.NewGORMServerRepository(setupDB(t))
	server := createListing(t, repo, "Server", nil)
	before := server.LastUpdated

	time.Sleep(10 * time.Millisecond)
	updated, err := repo.Update(server.ID, map[string]interface{}{"is_approved": true})
	require.NoError(t, err)
	assert.True(t, updated.IsApproved)
	assert.True(t, updated.LastUpdated.After(before))
	// CreatedAt is immutable.
	assert.Equal(t, server.CreatedAt.Unix(), updated.CreatedAt.Unix())

	_, err = repo.Update(999, map[string]interface{}{"is_approved": true})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMUserRepository_CaseInsensitiveLookups(t *testing.T) {
	repo := repositories.NewGORMUserRepository(setupDB(t))

	user := &models.User{Username: "GamerOne", Email: "Gamer@Example.com", Password: "hash"}
	require.NoError(t, repo.Create(user))

	found, err := repo.GetByUsername("gamerone")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	found, err = repo.GetByEmail("GAMER@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.GetByUsername("nobody")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMGameRepository_SeedIsIdempotent(t *testing.T) {
	repo := repositories.NewGORMGameRepository(setupDB(t))

	require.NoError(t, repo.Seed())
	games, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, games, len(repositories.DefaultGames))

	// A second seed must not duplicate the catalog.
	require.NoError(t, repo.Seed())
	games, err = repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, games, len(repositories.DefaultGames))

	game, err := repo.GetByShortName("minecraft")
	require.NoError(t, err)
	assert.Equal(t, "Minecraft", game.Name)

	_, err = repo.GetByShortName("quake99")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
