package storage

import (
	"context"
	"testing"

	"github.com/jwebster45206/bike-town/pkg/state"
)

func TestMockStorage_StampsUpdatedAt(t *testing.T) {
	store := NewMockStorage()
	ctx := context.Background()

	gs := state.NewGameState("Sam", 100, 80, 1)
	if err := store.SaveGameState(ctx, gs.ID, gs); err != nil {
		t.Fatalf("SaveGameState() error: %v", err)
	}

	saved, err := store.LoadGameState(ctx, gs.ID)
	if err != nil {
		t.Fatalf("LoadGameState() error: %v", err)
	}
	if saved.UpdatedAt.IsZero() {
		t.Fatal("save should stamp UpdatedAt, as the Redis implementation does")
	}

	money := 60
	updated, err := store.UpdateGameState(ctx, gs.ID, state.Patch{Money: &money})
	if err != nil {
		t.Fatalf("UpdateGameState() error: %v", err)
	}
	if updated.UpdatedAt.Before(saved.UpdatedAt) {
		t.Errorf("update should refresh UpdatedAt: %v not after %v", updated.UpdatedAt, saved.UpdatedAt)
	}
	if updated.Money != 60 {
		t.Errorf("Money = %d, want 60", updated.Money)
	}
}
