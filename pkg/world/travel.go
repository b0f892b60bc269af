package world

import "sort"

// ManhattanDistance is the grid distance between two locations.
func ManhattanDistance(a, b Location) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// EnergyCost is the terrain-adjusted price of moving between two
// locations. The product is truncated toward zero, so a multiplier of
// 1.4 over distance 2 costs 2, not 3. Affordability checks depend on
// this rounding.
func (c *Catalog) EnergyCost(from, to Location) int {
	distance := ManhattanDistance(from, to)
	route := c.RouteInfo(from.ID, to.ID)
	return int(float64(distance) * route.Multiplier)
}

// ReachableLocation is one destination within the current energy budget.
type ReachableLocation struct {
	Location   Location  `json:"location"`
	Distance   int       `json:"distance"`
	EnergyCost int       `json:"energy_cost"`
	Route      RouteInfo `json:"route"`
}

// Reachable lists every location other than from whose energy cost fits
// the budget, sorted ascending by cost. Ties keep catalog order.
func (c *Catalog) Reachable(from Location, energyBudget int) []ReachableLocation {
	reachable := make([]ReachableLocation, 0, len(c.locations))
	for _, loc := range c.locations {
		if loc.ID == from.ID {
			continue
		}
		cost := c.EnergyCost(from, loc)
		if cost <= energyBudget {
			reachable = append(reachable, ReachableLocation{
				Location:   loc,
				Distance:   ManhattanDistance(from, loc),
				EnergyCost: cost,
				Route:      c.RouteInfo(from.ID, loc.ID),
			})
		}
	}
	sort.SliceStable(reachable, func(i, j int) bool {
		return reachable[i].EnergyCost < reachable[j].EnergyCost
	})
	return reachable
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
