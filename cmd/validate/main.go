package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jwebster45206/bike-town/pkg/world"
)

// Validates the world data files without a running server or Redis.
// Usage: validate [-data ./data]
func main() {
	dataDir := flag.String("data", "./data", "directory holding locations.json, routes.json and events.json")
	flag.Parse()

	var locations []world.Location
	if err := readJSON(filepath.Join(*dataDir, "locations.json"), &locations); err != nil {
		fail(err)
	}

	var routes []world.RouteInfo
	routesPath := filepath.Join(*dataDir, "routes.json")
	if _, err := os.Stat(routesPath); err == nil {
		if err := readJSON(routesPath, &routes); err != nil {
			fail(err)
		}
	}

	var events []world.Event
	if err := readJSON(filepath.Join(*dataDir, "events.json"), &events); err != nil {
		fail(err)
	}

	catalog, err := world.NewCatalog(locations, routes, events)
	if err != nil {
		fail(fmt.Errorf("world data invalid: %w", err))
	}

	home := catalog.Home()
	fmt.Printf("ok: %d locations, %d routes, %d events\n", len(catalog.Locations()), len(routes), len(catalog.Events()))
	fmt.Printf("home: %s at (%d,%d)\n", home.Name, home.X, home.Y)

	keys, bullies := 0, 0
	for _, ev := range catalog.Events() {
		if ev.IsKey {
			keys++
		}
		if ev.IsBully {
			bullies++
		}
	}
	fmt.Printf("events: %d key, %d bully\n", keys, bullies)
	if keys == 0 {
		fail(fmt.Errorf("no key event: the game cannot be won"))
	}
	if len(events) > len(locations)-1 {
		fmt.Printf("note: %d events for %d non-home locations, extras are dropped per game\n",
			len(events), len(locations)-1)
	}
}

func readJSON(path string, v interface{}) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(file, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
