package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/bike-town/pkg/state"
	"github.com/jwebster45206/bike-town/pkg/world"
)

// HealthChecker defines basic health check capabilities
type HealthChecker interface {
	// Ping tests the service connection
	Ping(ctx context.Context) error
}

// Closer defines cleanup capabilities
type Closer interface {
	// Close closes the service connection
	Close() error
}

// Storage is the persistence provider consumed by the game engine.
// Game records and event placements are mutable per session; the world
// catalog (locations, routes, events) is read-only after load.
type Storage interface {
	HealthChecker
	Closer

	// SaveGameState saves a game record under its UUID
	SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error

	// LoadGameState retrieves a game record by UUID.
	// Returns nil if the game doesn't exist.
	LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error)

	// UpdateGameState applies a partial update to an existing game
	// record and returns the updated record. Unset fields are unchanged.
	UpdateGameState(ctx context.Context, id uuid.UUID, patch state.Patch) (*state.GameState, error)

	// DeleteGameState removes a game record by UUID
	DeleteGameState(ctx context.Context, id uuid.UUID) error

	// ListLocations returns all locations ordered by x, then y
	ListLocations(ctx context.Context) ([]world.Location, error)

	// GetLocation retrieves a location by id.
	// Returns nil if no such location exists.
	GetLocation(ctx context.Context, id int) (*world.Location, error)

	// ListRoutes returns every explicit route entry
	ListRoutes(ctx context.Context) ([]world.RouteInfo, error)

	// GetRoute retrieves the explicit route between two locations.
	// Returns nil when no entry exists; the caller applies the default.
	GetRoute(ctx context.Context, fromID, toID int) (*world.RouteInfo, error)

	// ListEvents returns the static event catalog
	ListEvents(ctx context.Context) ([]world.Event, error)

	// SavePlacements stores the event layout for one game
	SavePlacements(ctx context.Context, gameID uuid.UUID, placements []state.Placement) error

	// UnresolvedEventAt finds the unresolved placement at a location for
	// one game. Returns nil when there is none.
	UnresolvedEventAt(ctx context.Context, gameID uuid.UUID, locationID int) (*state.Placement, error)

	// MarkEventResolved permanently resolves a placement
	MarkEventResolved(ctx context.Context, gameID uuid.UUID, placementID uuid.UUID) error

	// DeletePlacements removes the event layout for one game
	DeletePlacements(ctx context.Context, gameID uuid.UUID) error
}
