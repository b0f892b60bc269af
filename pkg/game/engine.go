package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
	"github.com/jwebster45206/bike-town/pkg/state"
	"github.com/jwebster45206/bike-town/pkg/storage"
	"github.com/jwebster45206/bike-town/pkg/world"
)

// Engine applies player actions to a game session: movement, energy
// purchases and event resolution. It processes one action at a time per
// session and settles state fully before returning.
type Engine struct {
	catalog *world.Catalog
	storage storage.Storage
	logger  *slog.Logger
	rng     *rand.Rand
}

// NewEngine creates an engine over a loaded world catalog and a
// persistence provider. A nil rng gets a randomly seeded source.
func NewEngine(catalog *world.Catalog, store storage.Storage, logger *slog.Logger, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{
		catalog: catalog,
		storage: store,
		logger:  logger,
		rng:     rng,
	}
}

// Catalog exposes the read-only world catalog for presentation layers.
func (e *Engine) Catalog() *world.Catalog {
	return e.catalog
}

// Outcome is the terminal evaluation run after every mutating action.
type Outcome struct {
	Status string `json:"status"`
	// StrandedWarning flags energy at zero with money left: not
	// terminal, but the only recovery is buying energy.
	StrandedWarning bool `json:"stranded_warning,omitempty"`
}

// EventOffer announces an unresolved event at the player's location.
// The event's contents stay hidden until the player opens it.
type EventOffer struct {
	PlacementID uuid.UUID `json:"placement_id"`
	LocationID  int       `json:"location_id"`
}

// MoveResult is the settled outcome of a successful move.
type MoveResult struct {
	GameState  *state.GameState `json:"game_state"`
	Location   world.Location   `json:"location"`
	Distance   int              `json:"distance"`
	EnergyCost int              `json:"energy_cost"`
	Route      world.RouteInfo  `json:"route"`
	Event      *EventOffer      `json:"event,omitempty"`
	Outcome    Outcome          `json:"outcome"`
}

// PurchaseResult is the settled outcome of an energy purchase.
type PurchaseResult struct {
	GameState *state.GameState `json:"game_state"`
	Amount    int              `json:"amount"`
}

// EventResult is the settled outcome of opening or skipping an event.
type EventResult struct {
	GameState    *state.GameState `json:"game_state"`
	Event        world.Event      `json:"event"`
	Accepted     bool             `json:"accepted"`
	MoneyChange  int              `json:"money_change"`
	EnergyChange int              `json:"energy_change"`
	KeyFound     bool             `json:"key_found"`
	Outcome      Outcome          `json:"outcome"`
}

// CreateGame starts a new session at home with the given resources and
// lays out the event catalog across the town for this game.
func (e *Engine) CreateGame(ctx context.Context, playerName string, startMoney, startEnergy int) (*state.GameState, error) {
	if startMoney <= 0 {
		startMoney = state.DefaultStartMoney
	}
	if startEnergy <= 0 {
		startEnergy = state.DefaultStartEnergy
	}

	home := e.catalog.Home()
	gs := state.NewGameState(playerName, startMoney, startEnergy, home.ID)

	if err := e.storage.SaveGameState(ctx, gs.ID, gs); err != nil {
		return nil, fmt.Errorf("failed to save new game: %w", err)
	}

	placements := AssignEvents(gs.ID, e.catalog.Locations(), e.catalog.Events(), e.rng)
	if err := e.storage.SavePlacements(ctx, gs.ID, placements); err != nil {
		return nil, fmt.Errorf("failed to save event placements: %w", err)
	}

	e.logger.Info("Game created", "id", gs.ID.String(), "player", playerName, "placements", len(placements))
	return gs, nil
}

// Game loads a session by id.
func (e *Engine) Game(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	gs, err := e.storage.LoadGameState(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	if gs == nil {
		return nil, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	return gs, nil
}

// DeleteGame discards a session and its event layout.
func (e *Engine) DeleteGame(ctx context.Context, id uuid.UUID) error {
	if err := e.storage.DeletePlacements(ctx, id); err != nil {
		return fmt.Errorf("failed to delete placements: %w", err)
	}
	if err := e.storage.DeleteGameState(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}

// Reachable lists the destinations the session can afford from its
// current location.
func (e *Engine) Reachable(ctx context.Context, id uuid.UUID) ([]world.ReachableLocation, error) {
	gs, err := e.Game(ctx, id)
	if err != nil {
		return nil, err
	}
	current, ok := e.catalog.Location(gs.LocationID)
	if !ok {
		return nil, fmt.Errorf("location %d: %w", gs.LocationID, ErrNotFound)
	}
	return e.catalog.Reachable(current, gs.Energy), nil
}

// resolveTarget matches player input against the catalog, by name
// first, then by numeric id.
func (e *Engine) resolveTarget(target string) (world.Location, bool) {
	if loc, ok := e.catalog.LocationByName(target); ok {
		return loc, true
	}
	if id, err := strconv.Atoi(target); err == nil {
		if loc, ok := e.catalog.Location(id); ok {
			return loc, true
		}
	}
	return world.Location{}, false
}

// MoveTo moves the session to the named location, paying the terrain-
// adjusted energy cost. On success the destination's unresolved event,
// if any, is offered in the result; opening or skipping it is a
// separate action. While an offer is open the move's terminal
// evaluation is deferred to ResolveEvent, so the turn settles as a
// whole and an event at the destination can still rescue a player who
// arrived on their last energy. A rejected move leaves the session
// unchanged.
func (e *Engine) MoveTo(ctx context.Context, id uuid.UUID, target string) (*MoveResult, error) {
	gs, err := e.Game(ctx, id)
	if err != nil {
		return nil, err
	}
	if gs.Ended() {
		return nil, &RejectedError{Reason: ReasonGameFinished, Message: "the game is over"}
	}

	current, ok := e.catalog.Location(gs.LocationID)
	if !ok {
		return nil, fmt.Errorf("location %d: %w", gs.LocationID, ErrNotFound)
	}

	dest, ok := e.resolveTarget(target)
	if !ok {
		return nil, &RejectedError{
			Reason:  ReasonUnknownLocation,
			Message: fmt.Sprintf("no location named %q", target),
		}
	}
	if dest.ID == current.ID {
		return nil, &RejectedError{
			Reason:  ReasonSameLocation,
			Message: "already at " + dest.Name,
		}
	}

	route := e.catalog.RouteInfo(current.ID, dest.ID)
	cost := e.catalog.EnergyCost(current, dest)
	if cost > gs.Energy {
		return nil, rejectInsufficientEnergy(cost, gs.Energy, route)
	}

	newEnergy := gs.Energy - cost
	gs, err = e.storage.UpdateGameState(ctx, id, state.Patch{
		Energy:     &newEnergy,
		LocationID: &dest.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	result := &MoveResult{
		GameState:  gs,
		Location:   dest,
		Distance:   world.ManhattanDistance(current, dest),
		EnergyCost: cost,
		Route:      route,
	}

	placement, err := e.storage.UnresolvedEventAt(ctx, id, dest.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for event: %w", err)
	}
	if placement != nil {
		// The turn is still open; ResolveEvent runs the terminal checks
		// once the player opens or skips the event.
		result.Event = &EventOffer{
			PlacementID: placement.ID,
			LocationID:  placement.LocationID,
		}
		result.Outcome = Outcome{Status: gs.Status, StrandedWarning: strandedWarning(gs)}
	} else {
		result.Outcome, err = e.evaluate(ctx, gs)
		if err != nil {
			return nil, err
		}
	}

	e.logger.Debug("Moved", "id", id.String(), "to", dest.Name, "cost", cost, "energy", gs.Energy, "status", result.Outcome.Status)
	return result, nil
}

// PurchaseEnergy converts money into energy 1:1 at the town shop.
// Non-positive amounts and amounts above the session's money are
// rejected without touching state.
func (e *Engine) PurchaseEnergy(ctx context.Context, id uuid.UUID, amount int) (*PurchaseResult, error) {
	gs, err := e.Game(ctx, id)
	if err != nil {
		return nil, err
	}
	if gs.Ended() {
		return nil, &RejectedError{Reason: ReasonGameFinished, Message: "the game is over"}
	}

	if amount <= 0 {
		return nil, &RejectedError{
			Reason:  ReasonNonPositiveAmount,
			Message: "purchase amount must be positive",
		}
	}
	if amount > gs.Money {
		return nil, rejectInsufficientFunds(amount, gs.Money)
	}

	newMoney := gs.Money - amount
	newEnergy := gs.Energy + amount
	gs, err = e.storage.UpdateGameState(ctx, id, state.Patch{
		Money:  &newMoney,
		Energy: &newEnergy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	e.logger.Debug("Energy purchased", "id", id.String(), "amount", amount, "money", gs.Money, "energy", gs.Energy)
	return &PurchaseResult{GameState: gs, Amount: amount}, nil
}

// ResolveEvent opens or skips the unresolved event at the session's
// current location, closing the turn the preceding move opened.
// Skipping leaves the placement for a later visit. Opening applies the
// event's money and energy deltas (a bully takes half the player's
// money instead of the event's money delta), sets the key flag when
// found, and permanently resolves the placement. Terminal evaluation
// runs on both paths.
func (e *Engine) ResolveEvent(ctx context.Context, id uuid.UUID, accept bool) (*EventResult, error) {
	gs, err := e.Game(ctx, id)
	if err != nil {
		return nil, err
	}
	if gs.Ended() {
		return nil, &RejectedError{Reason: ReasonGameFinished, Message: "the game is over"}
	}

	placement, err := e.storage.UnresolvedEventAt(ctx, id, gs.LocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for event: %w", err)
	}
	if placement == nil {
		return nil, &RejectedError{
			Reason:  ReasonNoEvent,
			Message: "no event at this location",
		}
	}

	event, ok := e.catalog.Event(placement.EventID)
	if !ok {
		return nil, fmt.Errorf("event %d: %w", placement.EventID, ErrNotFound)
	}

	result := &EventResult{GameState: gs, Event: event}
	if !accept {
		result.Outcome, err = e.evaluate(ctx, gs)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("Event skipped", "id", id.String(), "event", event.Name)
		return result, nil
	}

	oldMoney, oldEnergy := gs.Money, gs.Energy
	newMoney := gs.Money
	newEnergy := gs.Energy
	keyFound := gs.KeyFound

	if event.IsBully {
		// A bully takes half of the current money, rounded down,
		// regardless of the event's own money delta.
		newMoney -= newMoney / 2
	} else {
		// Money is allowed to go negative here; only the double-zero
		// rule treats money specially.
		newMoney += event.MoneyDelta
	}
	newEnergy += event.EnergyDelta
	if newEnergy < 0 {
		newEnergy = 0
	}
	if event.IsKey {
		keyFound = true
	}

	gs, err = e.storage.UpdateGameState(ctx, id, state.Patch{
		Money:    &newMoney,
		Energy:   &newEnergy,
		KeyFound: &keyFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	if err := e.storage.MarkEventResolved(ctx, id, placement.ID); err != nil {
		return nil, fmt.Errorf("failed to resolve event: %w", err)
	}

	result.GameState = gs
	result.Accepted = true
	result.MoneyChange = gs.Money - oldMoney
	result.EnergyChange = gs.Energy - oldEnergy
	result.KeyFound = gs.KeyFound
	result.Outcome, err = e.evaluate(ctx, gs)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Event resolved", "id", id.String(), "event", event.Name, "money", gs.Money, "energy", gs.Energy, "key_found", gs.KeyFound)
	return result, nil
}

// evaluate runs the terminal checks after a mutating action. The win
// check runs before the loss check, so returning home with the key on
// the turn resources hit zero still wins.
func (e *Engine) evaluate(ctx context.Context, gs *state.GameState) (Outcome, error) {
	loc, _ := e.catalog.Location(gs.LocationID)

	status := gs.Status
	switch {
	case gs.KeyFound && loc.IsHome:
		status = state.StatusWon
	case gs.Energy == 0 && gs.Money == 0:
		status = state.StatusLost
	}

	if status != gs.Status {
		updated, err := e.storage.UpdateGameState(ctx, gs.ID, state.Patch{Status: &status})
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to update game status: %w", err)
		}
		*gs = *updated
		e.logger.Info("Game ended", "id", gs.ID.String(), "status", status, "money", gs.Money, "energy", gs.Energy)
	}

	return Outcome{Status: gs.Status, StrandedWarning: strandedWarning(gs)}, nil
}

func strandedWarning(gs *state.GameState) bool {
	return gs.Status == state.StatusPlaying && gs.Energy == 0 && gs.Money > 0
}
