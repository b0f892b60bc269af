package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/bike-town/pkg/state"
	"github.com/jwebster45206/bike-town/pkg/storage"
	"github.com/jwebster45206/bike-town/pkg/world"
)

// Game sessions are short-lived; abandoned records expire on their own.
const gameStateTTL = 24 * time.Hour

// RedisStorage implements the Storage interface using Redis for game
// records and event placements, and the filesystem for static world
// data (locations, routes, events).
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisURL string, dataDir string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	if dataDir == "" {
		dataDir = "./data"
	}

	return &RedisStorage{
		client:  rdb,
		logger:  logger,
		dataDir: dataDir,
	}
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// GameState operations (Redis-backed)

func (r *RedisStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	gs.UpdatedAt = time.Now()

	data, err := json.Marshal(gs)
	if err != nil {
		r.logger.Error("Failed to marshal game state", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	key := "game:" + id.String()
	cmd := r.client.Set(ctx, key, string(data), gameStateTTL)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save game state", "uuid", id, "error", err)
		return fmt.Errorf("failed to save game state: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	key := "game:" + id.String()
	cmd := r.client.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Game state not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load game state", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}

	data := cmd.Val()
	if data == "" {
		r.logger.Warn("Game state not found", "uuid", id)
		return nil, nil
	}

	var gs state.GameState
	if err := json.Unmarshal([]byte(data), &gs); err != nil {
		r.logger.Error("Failed to unmarshal game state", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	return &gs, nil
}

func (r *RedisStorage) UpdateGameState(ctx context.Context, id uuid.UUID, patch state.Patch) (*state.GameState, error) {
	gs, err := r.LoadGameState(ctx, id)
	if err != nil {
		return nil, err
	}
	if gs == nil {
		return nil, fmt.Errorf("game state %s not found", id)
	}

	patch.Apply(gs)
	if err := r.SaveGameState(ctx, id, gs); err != nil {
		return nil, err
	}
	return gs, nil
}

func (r *RedisStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	key := "game:" + id.String()
	cmd := r.client.Del(ctx, key)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete game state", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete game state: %w", err)
	}
	return nil
}

// Event placement operations (Redis-backed, one layout per game)

func (r *RedisStorage) SavePlacements(ctx context.Context, gameID uuid.UUID, placements []state.Placement) error {
	data, err := json.Marshal(placements)
	if err != nil {
		r.logger.Error("Failed to marshal placements", "game", gameID, "error", err)
		return fmt.Errorf("failed to marshal placements: %w", err)
	}

	key := "placements:" + gameID.String()
	cmd := r.client.Set(ctx, key, string(data), gameStateTTL)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save placements", "game", gameID, "error", err)
		return fmt.Errorf("failed to save placements: %w", err)
	}
	return nil
}

func (r *RedisStorage) loadPlacements(ctx context.Context, gameID uuid.UUID) ([]state.Placement, error) {
	key := "placements:" + gameID.String()
	cmd := r.client.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		r.logger.Error("Failed to load placements", "game", gameID, "error", err)
		return nil, fmt.Errorf("failed to load placements: %w", err)
	}

	var placements []state.Placement
	if err := json.Unmarshal([]byte(cmd.Val()), &placements); err != nil {
		r.logger.Error("Failed to unmarshal placements", "game", gameID, "error", err)
		return nil, fmt.Errorf("failed to unmarshal placements: %w", err)
	}
	return placements, nil
}

func (r *RedisStorage) UnresolvedEventAt(ctx context.Context, gameID uuid.UUID, locationID int) (*state.Placement, error) {
	placements, err := r.loadPlacements(ctx, gameID)
	if err != nil {
		return nil, err
	}
	for i := range placements {
		if placements[i].LocationID == locationID && !placements[i].Resolved {
			return &placements[i], nil
		}
	}
	return nil, nil
}

func (r *RedisStorage) MarkEventResolved(ctx context.Context, gameID uuid.UUID, placementID uuid.UUID) error {
	placements, err := r.loadPlacements(ctx, gameID)
	if err != nil {
		return err
	}
	for i := range placements {
		if placements[i].ID == placementID {
			placements[i].Resolved = true
			return r.SavePlacements(ctx, gameID, placements)
		}
	}
	return fmt.Errorf("placement %s not found for game %s", placementID, gameID)
}

func (r *RedisStorage) DeletePlacements(ctx context.Context, gameID uuid.UUID) error {
	key := "placements:" + gameID.String()
	cmd := r.client.Del(ctx, key)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete placements", "game", gameID, "error", err)
		return fmt.Errorf("failed to delete placements: %w", err)
	}
	return nil
}

// World data operations (filesystem-backed)

func (r *RedisStorage) ListLocations(ctx context.Context) ([]world.Location, error) {
	path := filepath.Join(r.dataDir, "locations.json")

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations file: %w", err)
	}

	var locations []world.Location
	if err := json.Unmarshal(file, &locations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal locations: %w", err)
	}

	// Deterministic order regardless of file order
	sort.Slice(locations, func(i, j int) bool {
		if locations[i].X != locations[j].X {
			return locations[i].X < locations[j].X
		}
		return locations[i].Y < locations[j].Y
	})

	return locations, nil
}

func (r *RedisStorage) GetLocation(ctx context.Context, id int) (*world.Location, error) {
	locations, err := r.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	for i := range locations {
		if locations[i].ID == id {
			return &locations[i], nil
		}
	}
	return nil, nil
}

func (r *RedisStorage) ListRoutes(ctx context.Context) ([]world.RouteInfo, error) {
	path := filepath.Join(r.dataDir, "routes.json")

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []world.RouteInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read routes file: %w", err)
	}

	var routes []world.RouteInfo
	if err := json.Unmarshal(file, &routes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal routes: %w", err)
	}
	return routes, nil
}

func (r *RedisStorage) GetRoute(ctx context.Context, fromID, toID int) (*world.RouteInfo, error) {
	routes, err := r.ListRoutes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range routes {
		if routes[i].FromID == fromID && routes[i].ToID == toID {
			return &routes[i], nil
		}
	}
	return nil, nil
}

func (r *RedisStorage) ListEvents(ctx context.Context) ([]world.Event, error) {
	path := filepath.Join(r.dataDir, "events.json")

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}

	var events []world.Event
	if err := json.Unmarshal(file, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %w", err)
	}
	return events, nil
}
