package world

import "testing"

func TestManhattanDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Location
		want int
	}{
		{"same point", Location{X: 2, Y: 2}, Location{X: 2, Y: 2}, 0},
		{"adjacent", Location{X: 2, Y: 2}, Location{X: 2, Y: 3}, 1},
		{"diagonal", Location{X: 0, Y: 0}, Location{X: 4, Y: 4}, 8},
		{"symmetric", Location{X: 4, Y: 1}, Location{X: 1, Y: 3}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ManhattanDistance(tt.a, tt.b); got != tt.want {
				t.Errorf("ManhattanDistance() = %d, want %d", got, tt.want)
			}
			if got := ManhattanDistance(tt.b, tt.a); got != tt.want {
				t.Errorf("ManhattanDistance() reversed = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCatalog_EnergyCost(t *testing.T) {
	locations := []Location{
		{ID: 1, Name: "Home", X: 2, Y: 2, IsHome: true},
		{ID: 2, Name: "Harbor", X: 0, Y: 1},   // distance 3 from home
		{ID: 3, Name: "Bakery", X: 3, Y: 2},   // distance 1 from home
		{ID: 4, Name: "Quarry", X: 4, Y: 0},   // distance 4 from home
		{ID: 5, Name: "Library", X: 2, Y: 3},  // distance 1 from home
	}
	routes := []RouteInfo{
		{FromID: 1, ToID: 2, Condition: ConditionPoor, Multiplier: 1.5},
		{FromID: 1, ToID: 3, Condition: ConditionExcellent, Multiplier: 0.8},
		{FromID: 1, ToID: 4, Condition: ConditionRough, Multiplier: 1.4},
	}
	catalog, err := NewCatalog(locations, routes, nil)
	if err != nil {
		t.Fatalf("NewCatalog() error: %v", err)
	}
	home, _ := catalog.Location(1)

	tests := []struct {
		name string
		to   int
		want int
	}{
		// 3 * 1.5 = 4.5, truncated to 4
		{"fractional cost truncates", 2, 4},
		// 1 * 0.8 = 0.8, truncated to 0: excellent short hops are free
		{"cost can truncate to zero", 3, 0},
		// 4 * 1.4 = 5.6, truncated to 5
		{"rough road", 4, 5},
		// No route entry: 1 * 1.0
		{"default route", 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			to, _ := catalog.Location(tt.to)
			if got := catalog.EnergyCost(home, to); got != tt.want {
				t.Errorf("EnergyCost(home, %s) = %d, want %d", to.Name, got, tt.want)
			}
		})
	}
}

func TestCatalog_Reachable(t *testing.T) {
	locations := []Location{
		{ID: 1, Name: "Home", X: 2, Y: 2, IsHome: true},
		{ID: 2, Name: "Bakery", X: 3, Y: 2},  // distance 1
		{ID: 3, Name: "Harbor", X: 0, Y: 1},  // distance 3
		{ID: 4, Name: "Quarry", X: 4, Y: 0},  // distance 4
	}
	routes := []RouteInfo{
		{FromID: 1, ToID: 4, Condition: ConditionRough, Multiplier: 2.0}, // cost 8
	}
	catalog, err := NewCatalog(locations, routes, nil)
	if err != nil {
		t.Fatalf("NewCatalog() error: %v", err)
	}
	home, _ := catalog.Location(1)

	reachable := catalog.Reachable(home, 3)
	if len(reachable) != 2 {
		t.Fatalf("Reachable(home, 3) returned %d locations, want 2", len(reachable))
	}

	// Sorted ascending by cost
	if reachable[0].Location.ID != 2 || reachable[0].EnergyCost != 1 {
		t.Errorf("first reachable = %+v, want Bakery at cost 1", reachable[0])
	}
	if reachable[1].Location.ID != 3 || reachable[1].EnergyCost != 3 {
		t.Errorf("second reachable = %+v, want Harbor at cost 3", reachable[1])
	}

	// The source is never included, even with a big budget
	for _, r := range catalog.Reachable(home, 100) {
		if r.Location.ID == home.ID {
			t.Error("Reachable() included the source location")
		}
	}

	// Zero budget still reaches zero-cost destinations only
	if got := catalog.Reachable(home, 0); len(got) != 0 {
		t.Errorf("Reachable(home, 0) = %d locations, want 0", len(got))
	}
}
