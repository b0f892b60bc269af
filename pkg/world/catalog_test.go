package world

import (
	"strings"
	"testing"
)

func testLocations() []Location {
	return []Location{
		{ID: 1, Name: "Home", X: 2, Y: 2, IsHome: true},
		{ID: 2, Name: "Harbor", X: 0, Y: 1},
		{ID: 3, Name: "Town Square", X: 2, Y: 1},
		{ID: 4, Name: "Quarry", X: 4, Y: 0},
	}
}

func testRoutes() []RouteInfo {
	return []RouteInfo{
		{FromID: 1, ToID: 3, Condition: ConditionExcellent, Multiplier: 0.8},
		{FromID: 1, ToID: 2, Condition: ConditionRough, Multiplier: 2.0},
		{FromID: 2, ToID: 1, Condition: ConditionPoor, Multiplier: 1.4},
	}
}

func testEvents() []Event {
	return []Event{
		{ID: 1, Name: "The Hidden Key", IsKey: true},
		{ID: 2, Name: "Pocket Money", MoneyDelta: 20},
		{ID: 3, Name: "Local Bully", IsBully: true},
	}
}

func TestNewCatalog(t *testing.T) {
	tests := []struct {
		name      string
		locations []Location
		routes    []RouteInfo
		events    []Event
		wantErr   string
	}{
		{
			name:      "valid world",
			locations: testLocations(),
			routes:    testRoutes(),
			events:    testEvents(),
		},
		{
			name:    "no locations",
			wantErr: "at least one location",
		},
		{
			name: "coordinates outside grid",
			locations: []Location{
				{ID: 1, Name: "Home", X: 2, Y: 2, IsHome: true},
				{ID: 2, Name: "Nowhere", X: 5, Y: 0},
			},
			wantErr: "outside the 5x5 grid",
		},
		{
			name: "duplicate location id",
			locations: []Location{
				{ID: 1, Name: "Home", X: 2, Y: 2, IsHome: true},
				{ID: 1, Name: "Harbor", X: 0, Y: 1},
			},
			wantErr: "duplicate location id",
		},
		{
			name: "duplicate location name differing only in case",
			locations: []Location{
				{ID: 1, Name: "Home", X: 2, Y: 2, IsHome: true},
				{ID: 2, Name: "Harbor", X: 0, Y: 1},
				{ID: 3, Name: "HARBOR", X: 0, Y: 2},
			},
			wantErr: "duplicate location name",
		},
		{
			name: "no home",
			locations: []Location{
				{ID: 1, Name: "Harbor", X: 0, Y: 1},
			},
			wantErr: "exactly one home",
		},
		{
			name: "two homes",
			locations: []Location{
				{ID: 1, Name: "Home", X: 2, Y: 2, IsHome: true},
				{ID: 2, Name: "Other Home", X: 0, Y: 1, IsHome: true},
			},
			wantErr: "exactly one home",
		},
		{
			name:      "route references unknown location",
			locations: testLocations(),
			routes:    []RouteInfo{{FromID: 1, ToID: 99, Condition: ConditionGood, Multiplier: 1.0}},
			wantErr:   "unknown location id 99",
		},
		{
			name:      "non-positive multiplier",
			locations: testLocations(),
			routes:    []RouteInfo{{FromID: 1, ToID: 2, Condition: ConditionGood, Multiplier: 0}},
			wantErr:   "non-positive multiplier",
		},
		{
			name:      "duplicate event id",
			locations: testLocations(),
			events: []Event{
				{ID: 1, Name: "The Hidden Key", IsKey: true},
				{ID: 1, Name: "Pocket Money"},
			},
			wantErr: "duplicate event id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.locations, tt.routes, tt.events)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("NewCatalog() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("NewCatalog() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewCatalog() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestCatalog_LocationsOrdered(t *testing.T) {
	catalog, err := NewCatalog(testLocations(), nil, nil)
	if err != nil {
		t.Fatalf("NewCatalog() error: %v", err)
	}

	locations := catalog.Locations()
	for i := 1; i < len(locations); i++ {
		prev, cur := locations[i-1], locations[i]
		if prev.X > cur.X || (prev.X == cur.X && prev.Y > cur.Y) {
			t.Errorf("locations not ordered by (x,y): %v before %v", prev, cur)
		}
	}
}

func TestCatalog_LocationByName(t *testing.T) {
	catalog, err := NewCatalog(testLocations(), nil, nil)
	if err != nil {
		t.Fatalf("NewCatalog() error: %v", err)
	}

	tests := []struct {
		input  string
		wantID int
		wantOK bool
	}{
		{"Town Square", 3, true},
		{"town square", 3, true},
		{"  TOWN SQUARE  ", 3, true},
		{"home", 1, true},
		{"Mall", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		loc, ok := catalog.LocationByName(tt.input)
		if ok != tt.wantOK {
			t.Errorf("LocationByName(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			continue
		}
		if ok && loc.ID != tt.wantID {
			t.Errorf("LocationByName(%q) id = %d, want %d", tt.input, loc.ID, tt.wantID)
		}
	}
}

func TestCatalog_Home(t *testing.T) {
	catalog, err := NewCatalog(testLocations(), nil, nil)
	if err != nil {
		t.Fatalf("NewCatalog() error: %v", err)
	}

	home := catalog.Home()
	if home.ID != 1 || !home.IsHome {
		t.Errorf("Home() = %+v, want location 1", home)
	}
}

func TestCatalog_RouteInfoDefault(t *testing.T) {
	catalog, err := NewCatalog(testLocations(), testRoutes(), nil)
	if err != nil {
		t.Fatalf("NewCatalog() error: %v", err)
	}

	// Explicit entry
	r := catalog.RouteInfo(1, 2)
	if r.Condition != ConditionRough || r.Multiplier != 2.0 {
		t.Errorf("RouteInfo(1,2) = %+v, want rough/2.0", r)
	}

	// Routes are directed: the reverse has its own entry
	r = catalog.RouteInfo(2, 1)
	if r.Condition != ConditionPoor || r.Multiplier != 1.4 {
		t.Errorf("RouteInfo(2,1) = %+v, want poor/1.4", r)
	}

	// No entry falls back to the default
	r = catalog.RouteInfo(3, 4)
	if r.Condition != ConditionGood || r.Multiplier != 1.0 {
		t.Errorf("RouteInfo(3,4) = %+v, want default good/1.0", r)
	}
}

func TestCatalog_Event(t *testing.T) {
	catalog, err := NewCatalog(testLocations(), nil, testEvents())
	if err != nil {
		t.Fatalf("NewCatalog() error: %v", err)
	}

	ev, ok := catalog.Event(3)
	if !ok || !ev.IsBully {
		t.Errorf("Event(3) = %+v, %v, want bully event", ev, ok)
	}
	if _, ok := catalog.Event(99); ok {
		t.Error("Event(99) should not exist")
	}
}
