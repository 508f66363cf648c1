// Package category maps free-text problem categories to event types.
package category

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"campus-volunteer/internal/domain"
)

var defaults = map[string]domain.EventType{
	"infrastructure": domain.EventTypeMaintenance,
	"water":          domain.EventTypeMaintenance,
	"electricity":    domain.EventTypeMaintenance,
	"environment":    domain.EventTypeCleanup,
	"sanitation":     domain.EventTypeCleanup,
	"waste":          domain.EventTypeCleanup,
	"safety":         domain.EventTypeAwareness,
	"health":         domain.EventTypeHealthCamp,
	"education":      domain.EventTypeTutoring,
	"community":      domain.EventTypeCommunityService,
}

// Table is a case-insensitive category lookup. Unknown categories map to
// domain.EventTypeOther.
type Table struct {
	mu      sync.RWMutex
	entries map[string]domain.EventType
}

func Default() *Table {
	entries := make(map[string]domain.EventType, len(defaults))
	for k, v := range defaults {
		entries[k] = v
	}
	return &Table{entries: entries}
}

// Load returns the default table with the entries of the YAML file at path
// layered on top. An empty path yields the defaults.
//
//	CATEGORIES:
//	  lighting: maintenance
//	  mental-health: health_camp
func Load(path string) (*Table, error) {
	table := Default()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file struct {
		Categories map[string]string `yaml:"CATEGORIES"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for name, raw := range file.Categories {
		eventType := domain.EventType(strings.ToLower(strings.TrimSpace(raw)))
		if !eventType.IsValid() {
			return nil, fmt.Errorf("%s: category %q maps to unknown event type %q", path, name, raw)
		}
		table.Set(name, eventType)
	}
	return table, nil
}

func (t *Table) Set(category string, eventType domain.EventType) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[normalize(category)] = eventType
}

func (t *Table) EventType(category string) domain.EventType {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if eventType, ok := t.entries[normalize(category)]; ok {
		return eventType
	}
	return domain.EventTypeOther
}

func normalize(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
