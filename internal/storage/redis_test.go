package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/bike-town/pkg/state"
)

func setupTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))

	return NewRedisStorage(mr.Addr(), t.TempDir(), logger), mr
}

func TestRedisStorage_GameStateRoundTrip(t *testing.T) {
	store, _ := setupTestStorage(t)
	ctx := context.Background()

	gs := state.NewGameState("Sam", 100, 80, 1)
	require.NoError(t, store.SaveGameState(ctx, gs.ID, gs))

	loaded, err := store.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, gs.ID, loaded.ID)
	assert.Equal(t, "Sam", loaded.PlayerName)
	assert.Equal(t, 100, loaded.Money)
	assert.Equal(t, 80, loaded.Energy)
	assert.Equal(t, 1, loaded.LocationID)
	assert.Equal(t, state.StatusPlaying, loaded.Status)
	assert.False(t, loaded.UpdatedAt.IsZero(), "save should stamp UpdatedAt")
}

func TestRedisStorage_LoadMissingGameState(t *testing.T) {
	store, _ := setupTestStorage(t)

	loaded, err := store.LoadGameState(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, loaded, "missing game should load as nil, not error")
}

func TestRedisStorage_UpdateGameState(t *testing.T) {
	store, _ := setupTestStorage(t)
	ctx := context.Background()

	gs := state.NewGameState("Sam", 100, 80, 1)
	require.NoError(t, store.SaveGameState(ctx, gs.ID, gs))

	money := 60
	location := 4
	updated, err := store.UpdateGameState(ctx, gs.ID, state.Patch{Money: &money, LocationID: &location})
	require.NoError(t, err)

	assert.Equal(t, 60, updated.Money)
	assert.Equal(t, 4, updated.LocationID)
	assert.Equal(t, 80, updated.Energy, "unset patch field must survive")

	// The update is persisted, not just returned
	loaded, err := store.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, loaded.Money)
	assert.Equal(t, 4, loaded.LocationID)
}

func TestRedisStorage_UpdateMissingGameState(t *testing.T) {
	store, _ := setupTestStorage(t)

	money := 10
	_, err := store.UpdateGameState(context.Background(), uuid.New(), state.Patch{Money: &money})
	assert.Error(t, err)
}

func TestRedisStorage_DeleteGameState(t *testing.T) {
	store, _ := setupTestStorage(t)
	ctx := context.Background()

	gs := state.NewGameState("Sam", 100, 80, 1)
	require.NoError(t, store.SaveGameState(ctx, gs.ID, gs))
	require.NoError(t, store.DeleteGameState(ctx, gs.ID))

	loaded, err := store.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_GameStateTTL(t *testing.T) {
	store, mr := setupTestStorage(t)
	ctx := context.Background()

	gs := state.NewGameState("Sam", 100, 80, 1)
	require.NoError(t, store.SaveGameState(ctx, gs.ID, gs))

	mr.FastForward(gameStateTTL + 1)

	loaded, err := store.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded, "game should expire after the TTL")
}

func TestRedisStorage_Placements(t *testing.T) {
	store, _ := setupTestStorage(t)
	ctx := context.Background()

	gameID := uuid.New()
	placements := []state.Placement{
		{ID: uuid.New(), GameID: gameID, EventID: 10, LocationID: 2},
		{ID: uuid.New(), GameID: gameID, EventID: 11, LocationID: 3},
	}
	require.NoError(t, store.SavePlacements(ctx, gameID, placements))

	found, err := store.UnresolvedEventAt(ctx, gameID, 2)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 10, found.EventID)

	empty, err := store.UnresolvedEventAt(ctx, gameID, 99)
	require.NoError(t, err)
	assert.Nil(t, empty, "location without a placement should return nil")

	require.NoError(t, store.MarkEventResolved(ctx, gameID, placements[0].ID))

	resolved, err := store.UnresolvedEventAt(ctx, gameID, 2)
	require.NoError(t, err)
	assert.Nil(t, resolved, "resolved placement should no longer be offered")

	// The other placement is untouched
	other, err := store.UnresolvedEventAt(ctx, gameID, 3)
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.Equal(t, 11, other.EventID)
}

func TestRedisStorage_MarkEventResolvedMissing(t *testing.T) {
	store, _ := setupTestStorage(t)
	ctx := context.Background()

	gameID := uuid.New()
	require.NoError(t, store.SavePlacements(ctx, gameID, []state.Placement{}))

	err := store.MarkEventResolved(ctx, gameID, uuid.New())
	assert.Error(t, err)
}

func TestRedisStorage_DeletePlacements(t *testing.T) {
	store, _ := setupTestStorage(t)
	ctx := context.Background()

	gameID := uuid.New()
	placements := []state.Placement{
		{ID: uuid.New(), GameID: gameID, EventID: 10, LocationID: 2},
	}
	require.NoError(t, store.SavePlacements(ctx, gameID, placements))
	require.NoError(t, store.DeletePlacements(ctx, gameID))

	found, err := store.UnresolvedEventAt(ctx, gameID, 2)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestRedisStorage_WorldData(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	dataDir := t.TempDir()
	locationsJSON := `[
		{"id": 2, "name": "Harbor", "x": 0, "y": 1},
		{"id": 1, "name": "Home", "x": 2, "y": 2, "is_home": true}
	]`
	eventsJSON := `[
		{"id": 1, "name": "The Hidden Key", "is_key": true}
	]`
	routesJSON := `[
		{"from_id": 1, "to_id": 2, "condition": "rough", "multiplier": 2.0}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "locations.json"), []byte(locationsJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "events.json"), []byte(eventsJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "routes.json"), []byte(routesJSON), 0644))

	store := NewRedisStorage(mr.Addr(), dataDir, logger)
	ctx := context.Background()

	locations, err := store.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Harbor", locations[0].Name, "locations should come back ordered by (x,y)")
	assert.Equal(t, "Home", locations[1].Name)

	loc, err := store.GetLocation(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.True(t, loc.IsHome)

	missing, err := store.GetLocation(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	routes, err := store.ListRoutes(ctx)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, 2.0, routes[0].Multiplier)

	route, err := store.GetRoute(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, route)
	assert.Equal(t, "rough", route.Condition)

	// Reverse direction has no entry
	reverse, err := store.GetRoute(ctx, 2, 1)
	require.NoError(t, err)
	assert.Nil(t, reverse)

	events, err := store.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].IsKey)
}

func TestRedisStorage_MissingRoutesFile(t *testing.T) {
	store, _ := setupTestStorage(t)

	routes, err := store.ListRoutes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, routes, "a world without explicit routes is valid")
}

func TestRedisStorage_Ping(t *testing.T) {
	store, mr := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	mr.Close()
	assert.Error(t, store.Ping(ctx))
}
