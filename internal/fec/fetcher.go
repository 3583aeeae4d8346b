package fec

import (
	"context"

	"github.com/fecwatch/contribution-monitor/internal/domain"
)

// Fetcher defines the interface for retrieving contribution records for a
// single watched contributor.
type Fetcher interface {
	// Contributions returns the contributor's schedule A records that were
	// loaded into the FEC index within the freshness window.
	Contributions(ctx context.Context, contributor domain.Contributor) (*Result, error)
}

// Result is one contributor's fetch outcome.
type Result struct {
	// Contributions in API order (descending by receipt date), already
	// filtered to the load-date freshness window.
	Contributions []domain.Contribution

	// Skipped counts malformed records dropped from the response. A bad
	// record never discards its siblings.
	Skipped int
}
