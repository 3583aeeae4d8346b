// Package fec fetches individual contribution disclosures from the FEC
// schedule A endpoint and filters them to records newly loaded into the FEC
// index.
package fec

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fecwatch/contribution-monitor/internal/config"
	"github.com/fecwatch/contribution-monitor/internal/domain"
	apperrors "github.com/fecwatch/contribution-monitor/internal/errors"
)

const (
	scheduleAPath = "/schedules/schedule_a/"
	pageSize      = 100 // first page only; high-volume contributors are a known limitation

	// load_date carries no zone offset; the API compares it naively, so do we.
	loadDateLayout    = "2006-01-02T15:04:05"
	receiptDateLayout = "2006-01-02"
	queryDateLayout   = "01/02/2006"
)

// fecClient implements Fetcher against the FEC API
type fecClient struct {
	baseURL         string
	apiKey          string
	daysBackLoad    int
	daysBackContrib int
	httpClient      *http.Client
	rateLimiter     RateLimiter
}

// NewClient creates a new FEC schedule A fetcher
func NewClient(cfg config.FECConfig, apiKey string) Fetcher {
	return &fecClient{
		baseURL:         cfg.BaseURL,
		apiKey:          apiKey,
		daysBackLoad:    cfg.DaysBackLoad,
		daysBackContrib: cfg.DaysBackContrib,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: NewRateLimiter(),
	}
}

// scheduleAResponse is the FEC API response envelope
type scheduleAResponse struct {
	Results []scheduleAResult `json:"results"`
}

// scheduleAResult is one raw schedule A record
type scheduleAResult struct {
	LoadDate                  string      `json:"load_date"`
	ContributionReceiptDate   string      `json:"contribution_receipt_date"`
	ContributionReceiptAmount json.Number `json:"contribution_receipt_amount"`
	ContributorName           string      `json:"contributor_name"`
	ContributorEmployer       *string     `json:"contributor_employer"`
	Committee                 struct {
		Name string `json:"name"`
	} `json:"committee"`
}

// Contributions queries schedule A for one contributor and returns the
// records whose load date falls inside the freshness window.
func (c *fecClient) Contributions(ctx context.Context, contributor domain.Contributor) (*Result, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	now := time.Now()

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("contributor_name", contributor.Name)
	if contributor.Employer != "" {
		params.Set("contributor_employer", contributor.Employer)
	}
	params.Set("is_individual", "true")
	params.Set("min_date", now.AddDate(0, 0, -c.daysBackContrib).Format(queryDateLayout))
	params.Set("max_date", now.Format(queryDateLayout))
	params.Set("sort", "-contribution_receipt_date")
	params.Set("per_page", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+scheduleAPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query fec api for %s: %w", contributor.Name, err)
	}
	defer resp.Body.Close()

	c.updateRateLimitFromResponse(resp)

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, apperrors.NewRateLimitedError(fmt.Sprintf("fec api rate limited query for %s", contributor.Name))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fec api returned status %d for %s: %s", resp.StatusCode, contributor.Name, string(body))
	}

	var payload scheduleAResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode fec response for %s: %w", contributor.Name, err)
	}

	minLoadDate := now.AddDate(0, 0, -c.daysBackLoad)

	result := &Result{}
	for _, raw := range payload.Results {
		contribution, err := raw.toContribution()
		if err != nil {
			result.Skipped++
			log.Printf("skipping malformed record for %s: %v", contributor.Name, err)
			continue
		}
		// Freshness is decided by load date alone: an old contribution
		// newly indexed is included, a recent one indexed before the
		// window is not.
		if contribution.LoadDate.After(minLoadDate) {
			result.Contributions = append(result.Contributions, contribution)
		}
	}

	return result, nil
}

// toContribution parses one raw record; a failure here skips this record only
func (r scheduleAResult) toContribution() (domain.Contribution, error) {
	loadDate, err := time.ParseInLocation(loadDateLayout, r.LoadDate, time.Local)
	if err != nil {
		return domain.Contribution{}, fmt.Errorf("bad load_date %q: %w", r.LoadDate, err)
	}

	receiptDate, err := time.ParseInLocation(receiptDateLayout, r.ContributionReceiptDate, time.Local)
	if err != nil {
		return domain.Contribution{}, fmt.Errorf("bad contribution_receipt_date %q: %w", r.ContributionReceiptDate, err)
	}

	amount, err := decimal.NewFromString(r.ContributionReceiptAmount.String())
	if err != nil {
		return domain.Contribution{}, fmt.Errorf("bad contribution_receipt_amount %q: %w", r.ContributionReceiptAmount, err)
	}

	employer := domain.EmployerNotReported
	if r.ContributorEmployer != nil && *r.ContributorEmployer != "" {
		employer = *r.ContributorEmployer
	}

	return domain.Contribution{
		Date:            receiptDate,
		Amount:          amount,
		ContributorName: r.ContributorName,
		Employer:        employer,
		CommitteeName:   r.Committee.Name,
		LoadDate:        loadDate,
	}, nil
}

// updateRateLimitFromResponse updates the rate limiter from API response headers
func (c *fecClient) updateRateLimitFromResponse(resp *http.Response) {
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		if n, err := strconv.Atoi(remaining); err == nil {
			c.rateLimiter.UpdateLimit(n)
		}
	}
}
