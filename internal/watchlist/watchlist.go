// Package watchlist provides the registry of contributors to monitor. The
// default registry is compiled in; WATCHLIST_PATH points at a JSON file to
// override it without rebuilding.
package watchlist

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fecwatch/contribution-monitor/internal/domain"
)

//go:embed watchlist.json
var defaultWatchlist []byte

// Default returns the compiled-in registry.
func Default() ([]domain.Contributor, error) {
	return parse(defaultWatchlist)
}

// Load returns the registry from path, or the compiled-in default when path
// is empty. Declaration order is preserved; it determines digest order.
func Load(path string) ([]domain.Contributor, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist %s: %w", path, err)
	}
	contributors, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid watchlist %s: %w", path, err)
	}
	return contributors, nil
}

func parse(data []byte) ([]domain.Contributor, error) {
	var contributors []domain.Contributor
	if err := json.Unmarshal(data, &contributors); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist: %w", err)
	}
	if len(contributors) == 0 {
		return nil, fmt.Errorf("watchlist is empty")
	}

	// Names key the digest groups, so duplicates would silently merge two
	// watch entries.
	seen := make(map[string]bool, len(contributors))
	for _, c := range contributors {
		if c.Name == "" {
			return nil, fmt.Errorf("watchlist entry with empty name")
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate watchlist entry: %s", c.Name)
		}
		seen[c.Name] = true
	}

	return contributors, nil
}
