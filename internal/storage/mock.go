package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/bike-town/pkg/state"
	"github.com/jwebster45206/bike-town/pkg/storage"
	"github.com/jwebster45206/bike-town/pkg/world"
)

// MockStorage is an in-memory implementation of Storage for testing
type MockStorage struct {
	mu         sync.RWMutex
	games      map[uuid.UUID]*state.GameState
	placements map[uuid.UUID][]state.Placement
	locations  []world.Location
	routes     []world.RouteInfo
	events     []world.Event
	pingError  error
}

// Ensure MockStorage implements Storage interface
var _ storage.Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		games:      make(map[uuid.UUID]*state.GameState),
		placements: make(map[uuid.UUID][]state.Placement),
	}
}

// SetWorld seeds the static world data (for testing)
func (m *MockStorage) SetWorld(locations []world.Location, routes []world.RouteInfo, events []world.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations = locations
	m.routes = routes
	m.events = events
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// SaveGameState mocks saving a game record
func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	if gs == nil {
		return errors.New("game state cannot be nil")
	}
	gs.UpdatedAt = time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *gs
	m.games[id] = &copied
	return nil
}

// LoadGameState mocks loading a game record
func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gs, exists := m.games[id]
	if !exists {
		return nil, nil // Return nil for not found
	}
	copied := *gs
	return &copied, nil
}

// UpdateGameState mocks a partial update
func (m *MockStorage) UpdateGameState(ctx context.Context, id uuid.UUID, patch state.Patch) (*state.GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gs, exists := m.games[id]
	if !exists {
		return nil, errors.New("game state not found")
	}
	patch.Apply(gs)
	gs.UpdatedAt = time.Now()
	copied := *gs
	return &copied, nil
}

// DeleteGameState mocks deleting a game record
func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

// ListLocations mocks listing locations
func (m *MockStorage) ListLocations(ctx context.Context) ([]world.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]world.Location, len(m.locations))
	copy(out, m.locations)
	return out, nil
}

// GetLocation mocks looking up a location by id
func (m *MockStorage) GetLocation(ctx context.Context, id int) (*world.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.locations {
		if m.locations[i].ID == id {
			loc := m.locations[i]
			return &loc, nil
		}
	}
	return nil, nil
}

// ListRoutes mocks listing explicit routes
func (m *MockStorage) ListRoutes(ctx context.Context) ([]world.RouteInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]world.RouteInfo, len(m.routes))
	copy(out, m.routes)
	return out, nil
}

// GetRoute mocks looking up an explicit route
func (m *MockStorage) GetRoute(ctx context.Context, fromID, toID int) (*world.RouteInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.routes {
		if m.routes[i].FromID == fromID && m.routes[i].ToID == toID {
			r := m.routes[i]
			return &r, nil
		}
	}
	return nil, nil
}

// ListEvents mocks listing the event catalog
func (m *MockStorage) ListEvents(ctx context.Context) ([]world.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]world.Event, len(m.events))
	copy(out, m.events)
	return out, nil
}

// SavePlacements mocks storing a game's event layout
func (m *MockStorage) SavePlacements(ctx context.Context, gameID uuid.UUID, placements []state.Placement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]state.Placement, len(placements))
	copy(copied, placements)
	m.placements[gameID] = copied
	return nil
}

// Placements returns a game's layout (for testing)
func (m *MockStorage) Placements(gameID uuid.UUID) []state.Placement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]state.Placement, len(m.placements[gameID]))
	copy(out, m.placements[gameID])
	return out
}

// UnresolvedEventAt mocks finding the unresolved placement at a location
func (m *MockStorage) UnresolvedEventAt(ctx context.Context, gameID uuid.UUID, locationID int) (*state.Placement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.placements[gameID] {
		if p.LocationID == locationID && !p.Resolved {
			placement := p
			return &placement, nil
		}
	}
	return nil, nil
}

// MarkEventResolved mocks resolving a placement
func (m *MockStorage) MarkEventResolved(ctx context.Context, gameID uuid.UUID, placementID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	placements := m.placements[gameID]
	for i := range placements {
		if placements[i].ID == placementID {
			placements[i].Resolved = true
			return nil
		}
	}
	return errors.New("placement not found")
}

// DeletePlacements mocks removing a game's layout
func (m *MockStorage) DeletePlacements(ctx context.Context, gameID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.placements, gameID)
	return nil
}
