package brains

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/tui-starwars/internal/space"
)

// Factory creates a fresh brain instance. Brains keep per-ship state, so
// every ship gets its own.
type Factory func() space.Brain

// Info describes a registered brain.
type Info struct {
	ID    string
	Name  string
	Body  space.BodyType
	About string
}

type entry struct {
	factory Factory
	info    Info
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

func init() {
	Register("hunter", "chases one target until it dies", func() space.Brain { return &Hunter{} })
	Register("twister", "spins and fires nonstop", func() space.Brain { return Twister{} })
	Register("defender", "shields against chasers, snipes the closest ship", func() space.Brain { return Defender{} })
	Register("evader", "flies toward the safest sector", func() space.Brain { return Evader{} })
	Register("snake", "axis-aligned sharp turns", func() space.Brain { return NewSnake(1) })
	Register("cybership", "avoids shielded ships, rams the rest", func() space.Brain { return &CyberShip{} })
	Register("darthship", "shields under fire, hunts the nearest", func() space.Brain { return &DarthShip{} })
	Register("papertiger", "bold until someone fights back", func() space.Brain { return &PaperTiger{} })
	Register("idle", "drifts and does nothing", func() space.Brain { return Idle{} })
}

// Register adds a brain factory under id. Panics on a duplicate id.
func Register(id, about string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	id = strings.ToLower(id)
	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("brains: brain %q already registered", id))
	}
	b := f()
	entries[id] = entry{
		factory: f,
		info:    Info{ID: id, Name: b.DefaultName(), Body: b.BodyType(), About: about},
	}
}

// List returns every registered brain, sorted by id.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a brain by id, case-insensitively.
func Create(id string) (space.Brain, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("brains: unknown brain %q", id)
	}
	return e.factory(), nil
}

// Fleet instantiates one brain per id. Ids ending in ".lua" are loaded as
// scripts.
func Fleet(ids []string) ([]space.Brain, error) {
	fleet := make([]space.Brain, 0, len(ids))
	for _, id := range ids {
		var (
			b   space.Brain
			err error
		)
		if strings.HasSuffix(strings.ToLower(id), ".lua") {
			b, err = LoadScript(id)
		} else {
			b, err = Create(id)
		}
		if err != nil {
			Close(fleet)
			return nil, err
		}
		fleet = append(fleet, b)
	}
	return fleet, nil
}

// Close releases brains holding resources, such as script VMs.
func Close(fleet []space.Brain) {
	for _, b := range fleet {
		if c, ok := b.(interface{ Close() }); ok {
			c.Close()
		}
	}
}

// DefaultFleet is the bot lineup used when none is given.
func DefaultFleet() []string {
	return []string{"hunter", "evader", "twister", "defender", "snake", "darthship"}
}
