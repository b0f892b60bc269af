package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/bike-town/pkg/game"
	"github.com/jwebster45206/bike-town/pkg/state"
	"github.com/jwebster45206/bike-town/pkg/world"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// CreateGameRequest matches the API request structure
type CreateGameRequest struct {
	PlayerName string `json:"player_name"`
}

func createGame(client *http.Client, baseURL string, playerName string) (*state.GameState, error) {
	jsonData, err := json.Marshal(CreateGameRequest{PlayerName: playerName})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/games",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, apiError(resp.StatusCode, body, "failed to create game")
	}

	var gs state.GameState
	if err := json.Unmarshal(body, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse game response: %w", err)
	}
	return &gs, nil
}

func getGame(client *http.Client, baseURL string, gameID uuid.UUID) (*state.GameState, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/games/%s", baseURL, gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "failed to get game")
	}

	var gs state.GameState
	if err := json.Unmarshal(body, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse game response: %w", err)
	}
	return &gs, nil
}

func listLocations(client *http.Client, baseURL string) ([]world.Location, error) {
	resp, err := client.Get(baseURL + "/v1/world/locations")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "failed to list locations")
	}

	var locations []world.Location
	if err := json.Unmarshal(body, &locations); err != nil {
		return nil, fmt.Errorf("failed to parse locations response: %w", err)
	}
	return locations, nil
}

func listReachable(client *http.Client, baseURL string, gameID uuid.UUID) ([]world.ReachableLocation, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/games/%s/reachable", baseURL, gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "failed to list reachable locations")
	}

	var reachable []world.ReachableLocation
	if err := json.Unmarshal(body, &reachable); err != nil {
		return nil, fmt.Errorf("failed to parse reachable response: %w", err)
	}
	return reachable, nil
}

func moveTo(client *http.Client, baseURL string, gameID uuid.UUID, location string) (*game.MoveResult, error) {
	jsonData, err := json.Marshal(map[string]string{"location": location})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/games/%s/move", baseURL, gameID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "move failed")
	}

	var result game.MoveResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse move response: %w", err)
	}
	return &result, nil
}

func buyEnergy(client *http.Client, baseURL string, gameID uuid.UUID, amount int) (*game.PurchaseResult, error) {
	jsonData, err := json.Marshal(map[string]int{"amount": amount})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/games/%s/buy", baseURL, gameID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "purchase failed")
	}

	var result game.PurchaseResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse buy response: %w", err)
	}
	return &result, nil
}

func resolveEvent(client *http.Client, baseURL string, gameID uuid.UUID, accept bool) (*game.EventResult, error) {
	jsonData, err := json.Marshal(map[string]bool{"accept": accept})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/games/%s/event", baseURL, gameID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "event failed")
	}

	var result game.EventResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse event response: %w", err)
	}
	return &result, nil
}

// rejectionError keeps the structured rejection so the UI can show the
// exact shortfall and route condition.
type rejectionError struct {
	rejection *game.RejectedError
}

func (e *rejectionError) Error() string {
	return e.rejection.Message
}

func apiError(status int, body []byte, context string) error {
	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil {
		return fmt.Errorf("API returned status %d: %s", status, string(body))
	}
	if errorResp.Rejection != nil {
		return &rejectionError{rejection: errorResp.Rejection}
	}
	return fmt.Errorf("%s: %s", context, errorResp.Error)
}
