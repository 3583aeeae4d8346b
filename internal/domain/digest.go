package domain

import "time"

// Group holds the freshly loaded contributions found for one watched
// contributor. Contributions preserve the API's returned order (descending by
// receipt date).
type Group struct {
	Contributor   Contributor
	Contributions []Contribution
}

// Digest is the aggregated result of one monitoring run, covering every
// watch-list entry in declaration order. Groups with no contributions are
// kept so the formatted report can render an explicit "none found" line.
type Digest struct {
	GeneratedAt time.Time
	Groups      []Group
}

// HasContributions reports whether any group is non-empty. This is the global
// notification decision: a single qualifying record anywhere triggers one
// digest covering all groups.
func (d *Digest) HasContributions() bool {
	for _, g := range d.Groups {
		if len(g.Contributions) > 0 {
			return true
		}
	}
	return false
}

// TotalContributions counts qualifying records across all groups.
func (d *Digest) TotalContributions() int {
	total := 0
	for _, g := range d.Groups {
		total += len(g.Contributions)
	}
	return total
}
