package world

// GridSize is the width and height of the town grid.
const GridSize = 5

// Location is a fixed point on the town grid. Locations are immutable
// after the catalog is loaded.
type Location struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	IsHome bool   `json:"is_home,omitempty"`
}

// Road conditions for routes between locations.
const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionPoor      = "poor"
	ConditionRough     = "rough"
)

// RouteInfo describes the directed terrain relationship between two
// locations. Routes need not be symmetric.
type RouteInfo struct {
	FromID     int     `json:"from_id,omitempty"`
	ToID       int     `json:"to_id,omitempty"`
	Condition  string  `json:"condition"`
	Multiplier float64 `json:"multiplier"`
}

// DefaultRoute is assumed for any pair without an explicit route entry.
func DefaultRoute() RouteInfo {
	return RouteInfo{Condition: ConditionGood, Multiplier: 1.0}
}
