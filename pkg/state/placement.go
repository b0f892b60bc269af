package state

import "github.com/google/uuid"

// Placement binds one event to one location within one game. At most
// one placement exists per (game, location) and per (game, event).
// Resolved is permanent; a resolved placement is never re-offered.
type Placement struct {
	ID         uuid.UUID `json:"id"`
	GameID     uuid.UUID `json:"game_id"`
	EventID    int       `json:"event_id"`
	LocationID int       `json:"location_id"`
	Resolved   bool      `json:"resolved"`
}
