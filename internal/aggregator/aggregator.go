// Package aggregator fans fetches out across the watch list and groups the
// results into a digest in registry order.
package aggregator

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fecwatch/contribution-monitor/internal/domain"
	"github.com/fecwatch/contribution-monitor/internal/fec"
)

// maxConcurrentFetches bounds fan-out across contributors. Fetches are
// independent, so they may overlap as long as per-contributor failures stay
// isolated.
const maxConcurrentFetches = 4

// Aggregator defines the interface for collecting per-contributor results
type Aggregator interface {
	// Aggregate fetches every contributor's fresh contributions. A failed
	// fetch degrades to an empty group and never aborts the run.
	Aggregate(ctx context.Context, contributors []domain.Contributor) *Summary
}

// Summary is the aggregated outcome of one pass over the watch list
type Summary struct {
	Digest         *domain.Digest
	RecordsSkipped int // malformed records dropped across all contributors
}

// aggregator implements the Aggregator interface
type aggregator struct {
	fetcher fec.Fetcher
}

// New creates a new aggregator
func New(fetcher fec.Fetcher) Aggregator {
	return &aggregator{
		fetcher: fetcher,
	}
}

// Aggregate fetches all contributors with bounded concurrency. Results are
// indexed by registry position so group order always matches declaration
// order regardless of completion order.
func (a *aggregator) Aggregate(ctx context.Context, contributors []domain.Contributor) *Summary {
	groups := make([]domain.Group, len(contributors))
	skipped := make([]int, len(contributors))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrentFetches)

	for i, contributor := range contributors {
		wg.Add(1)
		go func(index int, c domain.Contributor) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			group := domain.Group{Contributor: c}
			result, err := a.fetcher.Contributions(ctx, c)
			if err != nil {
				// Degrade to zero records for this contributor only.
				log.Printf("warning: fetch failed for %s, treating as no records: %v", c.Name, err)
			} else {
				group.Contributions = result.Contributions
				skipped[index] = result.Skipped
			}
			groups[index] = group
		}(i, contributor)
	}

	wg.Wait()

	totalSkipped := 0
	for _, n := range skipped {
		totalSkipped += n
	}

	return &Summary{
		Digest: &domain.Digest{
			GeneratedAt: time.Now(),
			Groups:      groups,
		},
		RecordsSkipped: totalSkipped,
	}
}
