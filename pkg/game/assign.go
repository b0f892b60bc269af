package game

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/jwebster45206/bike-town/pkg/state"
	"github.com/jwebster45206/bike-town/pkg/world"
)

// AssignEvents distributes the event catalog across non-home locations
// for one game: the locations are shuffled uniformly, then zipped with
// the events in catalog order. Excess events stay unplaced; excess
// locations get no event. The home location never receives a placement.
func AssignEvents(gameID uuid.UUID, locations []world.Location, events []world.Event, rng *rand.Rand) []state.Placement {
	spots := make([]world.Location, 0, len(locations))
	for _, loc := range locations {
		if !loc.IsHome {
			spots = append(spots, loc)
		}
	}

	rng.Shuffle(len(spots), func(i, j int) {
		spots[i], spots[j] = spots[j], spots[i]
	})

	n := len(events)
	if len(spots) < n {
		n = len(spots)
	}

	placements := make([]state.Placement, 0, n)
	for i := 0; i < n; i++ {
		placements = append(placements, state.Placement{
			ID:         uuid.New(),
			GameID:     gameID,
			EventID:    events[i].ID,
			LocationID: spots[i].ID,
		})
	}
	return placements
}
