package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// Screen is one dashboard navigation entry.
type Screen struct {
	Name  string `json:"name"`
	Route string `json:"route"`
	Icon  string `json:"icon,omitempty"`
}

// ScreenRegistry is a static lookup of navigation screens keyed by tenant
// id, loaded once at startup.
type ScreenRegistry struct {
	screens map[string][]Screen
}

// Load reads the registry file. A missing file yields an empty registry so
// the service can run without tenant-specific navigation configured.
func Load(path string) (*ScreenRegistry, error) {
	if path == "" {
		return &ScreenRegistry{screens: map[string][]Screen{}}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ScreenRegistry{screens: map[string][]Screen{}}, nil
		}
		return nil, fmt.Errorf("read screens registry: %w", err)
	}

	screens := map[string][]Screen{}
	if err := json.Unmarshal(content, &screens); err != nil {
		return nil, fmt.Errorf("parse screens registry %s: %w", path, err)
	}
	return &ScreenRegistry{screens: screens}, nil
}

// ScreensFor returns the screens registered for a tenant. Unknown tenants
// get an empty list, never nil.
func (r *ScreenRegistry) ScreensFor(customerID string) []Screen {
	if screens, ok := r.screens[customerID]; ok {
		return screens
	}
	return []Screen{}
}
