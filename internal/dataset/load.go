// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/world-explorer/pkg/types"
)

// Load reads the city dataset, a JSON array of raw city records.
func Load(path string) ([]types.RawCity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading city dataset %s: %w", path, err)
	}
	var cities []types.RawCity
	if err := json.Unmarshal(data, &cities); err != nil {
		return nil, fmt.Errorf("parsing city dataset %s: %w", path, err)
	}
	return cities, nil
}

// LoadNameMapping reads the table of dataset city names to provider city
// names. An empty path or a missing file yields an empty mapping.
func LoadNameMapping(path string) (map[string]string, error) {
	mapping := map[string]string{}
	if path == "" {
		return mapping, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return mapping, nil
		}
		return nil, fmt.Errorf("reading name mapping %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("parsing name mapping %s: %w", path, err)
	}
	return mapping, nil
}
