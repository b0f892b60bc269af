package world

// Event is one scripted outcome from the static catalog. The catalog is
// loaded once and shared read-only, like the location grid.
type Event struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	MoneyDelta  int    `json:"money_delta"`
	EnergyDelta int    `json:"energy_delta"`
	IsKey       bool   `json:"is_key,omitempty"`
	IsBully     bool   `json:"is_bully,omitempty"`
	Description string `json:"description"`
}
