package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/recordkit/recordkit/internal/schema"
)

// LoadCatalog reads a JSON entity catalog into a schema registry. The file
// is an array of entity describes:
//
//	[{"name": "Widget", "accessible": true, "fields": [{"name": "Id", ...}]}]
func LoadCatalog(path string) (*schema.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var describes []*schema.EntityDescribe
	if err := json.Unmarshal(data, &describes); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	registry := schema.NewRegistry()
	for _, describe := range describes {
		if err := registry.Register(describe); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", describe.Name, err)
		}
	}
	return registry, nil
}
