package state

import (
	"encoding/json"
	"testing"
)

func TestNewGameState(t *testing.T) {
	gs := NewGameState("Sam", 100, 80, 7)

	if gs.ID.String() == "" {
		t.Error("Expected a generated game ID")
	}
	if gs.PlayerName != "Sam" {
		t.Errorf("PlayerName = %q, want Sam", gs.PlayerName)
	}
	if gs.Money != 100 || gs.Energy != 80 {
		t.Errorf("resources = (%d, %d), want (100, 80)", gs.Money, gs.Energy)
	}
	if gs.LocationID != 7 {
		t.Errorf("LocationID = %d, want 7", gs.LocationID)
	}
	if gs.KeyFound {
		t.Error("KeyFound should start false")
	}
	if gs.Status != StatusPlaying {
		t.Errorf("Status = %q, want %q", gs.Status, StatusPlaying)
	}
	if gs.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestGameState_Ended(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusPlaying, false},
		{StatusWon, true},
		{StatusLost, true},
	}
	for _, tt := range tests {
		gs := &GameState{Status: tt.status}
		if got := gs.Ended(); got != tt.want {
			t.Errorf("Ended() with status %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestPatch_Apply(t *testing.T) {
	money := 40
	location := 9
	key := true
	status := StatusWon

	gs := NewGameState("Sam", 100, 80, 1)
	Patch{Money: &money, LocationID: &location, KeyFound: &key, Status: &status}.Apply(gs)

	if gs.Money != 40 {
		t.Errorf("Money = %d, want 40", gs.Money)
	}
	if gs.Energy != 80 {
		t.Errorf("Energy = %d, want 80 (nil field must not change)", gs.Energy)
	}
	if gs.LocationID != 9 {
		t.Errorf("LocationID = %d, want 9", gs.LocationID)
	}
	if !gs.KeyFound {
		t.Error("KeyFound should be true")
	}
	if gs.Status != StatusWon {
		t.Errorf("Status = %q, want %q", gs.Status, StatusWon)
	}

	// An empty patch changes nothing
	before := *gs
	Patch{}.Apply(gs)
	if *gs != before {
		t.Errorf("empty patch mutated state: %+v != %+v", *gs, before)
	}
}

func TestPatch_JSONOmitsUnsetFields(t *testing.T) {
	energy := 0
	data, err := json.Marshal(Patch{Energy: &energy})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != `{"energy":0}` {
		t.Errorf("Marshal() = %s, want only the set field", data)
	}
}
