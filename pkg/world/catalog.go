package world

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog is the read-only world grid: locations and the sparse route
// table between them. It is built once at startup and safely shared
// across all game sessions.
type Catalog struct {
	locations []Location
	byID      map[int]Location
	byName    map[string]Location
	routes    map[[2]int]RouteInfo
	events    []Event
	eventByID map[int]Event
}

// NewCatalog validates the world data and builds a catalog. Locations
// are kept ordered by x ascending, then y ascending, regardless of the
// order in the backing store. Events keep catalog order.
func NewCatalog(locations []Location, routes []RouteInfo, events []Event) (*Catalog, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("catalog requires at least one location")
	}

	c := &Catalog{
		locations: make([]Location, len(locations)),
		byID:      make(map[int]Location, len(locations)),
		byName:    make(map[string]Location, len(locations)),
		routes:    make(map[[2]int]RouteInfo, len(routes)),
		events:    make([]Event, len(events)),
		eventByID: make(map[int]Event, len(events)),
	}
	copy(c.events, events)
	copy(c.locations, locations)
	sort.Slice(c.locations, func(i, j int) bool {
		if c.locations[i].X != c.locations[j].X {
			return c.locations[i].X < c.locations[j].X
		}
		return c.locations[i].Y < c.locations[j].Y
	})

	homes := 0
	for _, loc := range c.locations {
		if loc.X < 0 || loc.X >= GridSize || loc.Y < 0 || loc.Y >= GridSize {
			return nil, fmt.Errorf("location %q has coordinates (%d,%d) outside the %dx%d grid", loc.Name, loc.X, loc.Y, GridSize, GridSize)
		}
		if _, exists := c.byID[loc.ID]; exists {
			return nil, fmt.Errorf("duplicate location id %d", loc.ID)
		}
		key := strings.ToLower(loc.Name)
		if _, exists := c.byName[key]; exists {
			return nil, fmt.Errorf("duplicate location name %q", loc.Name)
		}
		c.byID[loc.ID] = loc
		c.byName[key] = loc
		if loc.IsHome {
			homes++
		}
	}
	if homes != 1 {
		return nil, fmt.Errorf("catalog requires exactly one home location, found %d", homes)
	}

	for _, r := range routes {
		if _, ok := c.byID[r.FromID]; !ok {
			return nil, fmt.Errorf("route references unknown location id %d", r.FromID)
		}
		if _, ok := c.byID[r.ToID]; !ok {
			return nil, fmt.Errorf("route references unknown location id %d", r.ToID)
		}
		if r.Multiplier <= 0 {
			return nil, fmt.Errorf("route %d->%d has non-positive multiplier %v", r.FromID, r.ToID, r.Multiplier)
		}
		c.routes[[2]int{r.FromID, r.ToID}] = r
	}

	for _, ev := range c.events {
		if _, exists := c.eventByID[ev.ID]; exists {
			return nil, fmt.Errorf("duplicate event id %d", ev.ID)
		}
		c.eventByID[ev.ID] = ev
	}

	return c, nil
}

// Locations returns all locations ordered by x, then y.
func (c *Catalog) Locations() []Location {
	out := make([]Location, len(c.locations))
	copy(out, c.locations)
	return out
}

// Location looks up a location by id.
func (c *Catalog) Location(id int) (Location, bool) {
	loc, ok := c.byID[id]
	return loc, ok
}

// LocationByName looks up a location by name, case-insensitively.
func (c *Catalog) LocationByName(name string) (Location, bool) {
	loc, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return loc, ok
}

// Home returns the home location.
func (c *Catalog) Home() Location {
	for _, loc := range c.locations {
		if loc.IsHome {
			return loc
		}
	}
	// NewCatalog guarantees exactly one home.
	return Location{}
}

// RouteInfo returns the route between two locations, or the default
// (good, 1.0) when no explicit entry exists.
func (c *Catalog) RouteInfo(fromID, toID int) RouteInfo {
	if r, ok := c.routes[[2]int{fromID, toID}]; ok {
		return r
	}
	return DefaultRoute()
}

// Events returns the static event catalog in catalog order.
func (c *Catalog) Events() []Event {
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Event looks up an event by id.
func (c *Catalog) Event(id int) (Event, bool) {
	ev, ok := c.eventByID[id]
	return ev, ok
}
