// ABOUTME: Panel registry for registering and retrieving panels.
// ABOUTME: Panels register themselves in init() functions.

package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = make(map[string]Panel)
	mu       sync.RWMutex
)

// Register adds a panel to the registry
func Register(p Panel) {
	mu.Lock()
	defer mu.Unlock()

	name := p.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("panel %q already registered", name))
	}
	registry[name] = p
}

// Get retrieves a panel by name
func Get(name string) (Panel, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := registry[name]
	return p, ok
}

// All returns all registered panels in dashboard order
func All() []Panel {
	mu.RLock()
	defer mu.RUnlock()

	panels := make([]Panel, 0, len(registry))
	for _, p := range registry {
		panels = append(panels, p)
	}
	sort.Slice(panels, func(i, j int) bool {
		if panels[i].Order() != panels[j].Order() {
			return panels[i].Order() < panels[j].Order()
		}
		return panels[i].Name() < panels[j].Name()
	})
	return panels
}

// Names returns all registered panel names in dashboard order
func Names() []string {
	panels := All()
	names := make([]string, len(panels))
	for i, p := range panels {
		names[i] = p.Name()
	}
	return names
}
