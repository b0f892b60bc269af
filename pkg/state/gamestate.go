package state

import (
	"time"

	"github.com/google/uuid"
)

// Game status values. A game leaves StatusPlaying exactly once.
const (
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusLost    = "lost"
)

// Default starting resources.
const (
	DefaultStartMoney  = 100
	DefaultStartEnergy = 100
)

// GameState is the persisted record of a single game session. It is
// mutated exclusively by engine actions.
type GameState struct {
	ID         uuid.UUID `json:"id"`
	PlayerName string    `json:"player_name"`
	Money      int       `json:"money"`
	Energy     int       `json:"energy"`
	LocationID int       `json:"location_id"`
	KeyFound   bool      `json:"key_found"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// NewGameState creates a fresh session at the given home location.
func NewGameState(playerName string, startMoney, startEnergy, homeID int) *GameState {
	return &GameState{
		ID:         uuid.New(),
		PlayerName: playerName,
		Money:      startMoney,
		Energy:     startEnergy,
		LocationID: homeID,
		Status:     StatusPlaying,
		CreatedAt:  time.Now(),
	}
}

// Ended reports whether the game has reached a terminal state.
func (gs *GameState) Ended() bool {
	return gs.Status == StatusWon || gs.Status == StatusLost
}

// Patch is a partial update to a game record. Nil fields are left
// unchanged.
type Patch struct {
	Money      *int    `json:"money,omitempty"`
	Energy     *int    `json:"energy,omitempty"`
	LocationID *int    `json:"location_id,omitempty"`
	KeyFound   *bool   `json:"key_found,omitempty"`
	Status     *string `json:"status,omitempty"`
}

// Apply copies the set fields of the patch onto the game state.
func (p Patch) Apply(gs *GameState) {
	if p.Money != nil {
		gs.Money = *p.Money
	}
	if p.Energy != nil {
		gs.Energy = *p.Energy
	}
	if p.LocationID != nil {
		gs.LocationID = *p.LocationID
	}
	if p.KeyFound != nil {
		gs.KeyFound = *p.KeyFound
	}
	if p.Status != nil {
		gs.Status = *p.Status
	}
}
