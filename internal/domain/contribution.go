package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployerNotReported is the sentinel rendered when the FEC record carries
// no employer field.
const EmployerNotReported = "Not reported"

// Contributor is a single watch-list entry. Name is matched by the FEC API's
// fuzzy contributor_name search; Employer narrows the query when set.
type Contributor struct {
	Name     string `json:"name"`
	Employer string `json:"employer,omitempty"`
}

// Contribution represents one schedule A disclosure record.
//
// Date and LoadDate are independent axes: Date is when the committee recorded
// receiving the funds, LoadDate is when the FEC index ingested the record.
// Freshness decisions use LoadDate only.
type Contribution struct {
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	ContributorName string          `json:"contributor_name"`
	Employer        string          `json:"employer"`
	CommitteeName   string          `json:"committee_name"`
	LoadDate        time.Time       `json:"load_date"`
}
