package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jwebster45206/bike-town/internal/storage"
	"github.com/jwebster45206/bike-town/pkg/world"
)

func newWorldHandler(t *testing.T) *WorldHandler {
	t.Helper()
	catalog := testWorld(t)
	store := storage.NewMockStorage()
	store.SetWorld(catalog.Locations(), []world.RouteInfo{
		{FromID: 1, ToID: 3, Condition: world.ConditionPoor, Multiplier: 1.5},
	}, catalog.Events())
	return NewWorldHandler(catalog, store, testLogger())
}

func TestWorldHandler_Locations(t *testing.T) {
	handler := newWorldHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/world/locations", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	var locations []world.Location
	if err := json.NewDecoder(rr.Body).Decode(&locations); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(locations) != 3 {
		t.Fatalf("Expected 3 locations, got %d", len(locations))
	}

	// Ordered by x, then y
	for i := 1; i < len(locations); i++ {
		prev, cur := locations[i-1], locations[i]
		if prev.X > cur.X || (prev.X == cur.X && prev.Y > cur.Y) {
			t.Errorf("locations not ordered: %v before %v", prev, cur)
		}
	}
}

func TestWorldHandler_Route(t *testing.T) {
	handler := newWorldHandler(t)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		wantCondition  string
	}{
		{
			name:           "explicit route",
			query:          "from=1&to=3",
			expectedStatus: http.StatusOK,
			wantCondition:  world.ConditionPoor,
		},
		{
			name:           "default route for unlisted pair",
			query:          "from=1&to=2",
			expectedStatus: http.StatusOK,
			wantCondition:  world.ConditionGood,
		},
		{
			name:           "unknown location",
			query:          "from=1&to=99",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "non-numeric params",
			query:          "from=home&to=2",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing params",
			query:          "",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/world/route?"+tt.query, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d. Response body: %s", tt.expectedStatus, rr.Code, rr.Body.String())
			}
			if tt.wantCondition == "" {
				return
			}

			var route world.RouteInfo
			if err := json.NewDecoder(rr.Body).Decode(&route); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if route.Condition != tt.wantCondition {
				t.Errorf("Condition = %q, want %q", route.Condition, tt.wantCondition)
			}
		})
	}
}

func TestWorldHandler_MethodNotAllowed(t *testing.T) {
	handler := newWorldHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/world/locations", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rr.Code)
	}
}
