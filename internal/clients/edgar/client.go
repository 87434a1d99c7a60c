// Package edgar provides a client for the SEC EDGAR registry: the bulk
// ticker→CIK directory and the structured companyfacts endpoint.
package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/divvy/internal/common"
	"github.com/bobmcallan/divvy/internal/interfaces"
)

const (
	DefaultBaseURL      = "https://data.sec.gov"
	DefaultDirectoryURL = "https://www.sec.gov/files/company_tickers.json"
	DefaultTimeout      = 15 * time.Second
	DefaultRequestDelay = 500 * time.Millisecond

	// Fair-use policy: EDGAR allows at most 10 requests per second and
	// requires a descriptive User-Agent.
	DefaultRateLimit = 10
)

// epsConcepts are the candidate US-GAAP EPS fields, in priority order.
// The first concept with any reported values wins.
var epsConcepts = []string{
	"EarningsPerShareDiluted",
	"EarningsPerShareBasic",
	"EarningsPerShareBasicAndDiluted",
}

// Client implements the RegistryClient interface
type Client struct {
	baseURL      string
	directoryURL string
	userAgent    string
	requestDelay time.Duration
	httpClient   *http.Client
	logger       *common.Logger
	limiter      *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the companyfacts base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithDirectoryURL sets the bulk directory URL
func WithDirectoryURL(directoryURL string) ClientOption {
	return func(c *Client) {
		c.directoryURL = directoryURL
	}
}

// WithUserAgent sets the User-Agent header required by EDGAR fair-use policy
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRequestDelay sets the politeness delay before each companyfacts request
func WithRequestDelay(delay time.Duration) ClientOption {
	return func(c *Client) {
		c.requestDelay = delay
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EDGAR client. No API key is required.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		directoryURL: DefaultDirectoryURL,
		userAgent:    "divvy-analyzer admin@divvy.local",
		requestDelay: DefaultRequestDelay,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EDGAR API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request against an absolute URL
func (c *Client) get(ctx context.Context, reqURL string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	c.logger.Debug().Str("url", reqURL).Msg("EDGAR API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   reqURL,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// directoryEntry is one row of the bulk company_tickers.json file
type directoryEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// GetDirectory retrieves the full ticker→CIK directory. Keys are
// uppercased ticker symbols; values are 10-digit zero-padded CIK strings.
func (c *Client) GetDirectory(ctx context.Context) (map[string]string, error) {
	var entries map[string]directoryEntry
	if err := c.get(ctx, c.directoryURL, &entries); err != nil {
		return nil, err
	}

	directory := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.Ticker == "" {
			continue
		}
		directory[strings.ToUpper(entry.Ticker)] = fmt.Sprintf("%010d", entry.CIK)
	}

	c.logger.Debug().Int("entries", len(directory)).Msg("EDGAR directory loaded")

	return directory, nil
}

// companyFactsResponse represents the companyfacts API structure.
// Each concept carries units → list of dated/valued entries tagged by
// filing form and fiscal year.
type companyFactsResponse struct {
	Facts struct {
		USGAAP map[string]struct {
			Units map[string][]factEntry `json:"units"`
		} `json:"us-gaap"`
	} `json:"facts"`
}

type factEntry struct {
	FiscalYear int     `json:"fy"`
	Period     string  `json:"fp"`
	Form       string  `json:"form"`
	Value      float64 `json:"val"`
}

// GetAnnualEPS retrieves annual-report EPS values by fiscal year for a
// CIK. Concepts are scanned in priority order (diluted, basic, generic);
// only 10-K entries count; duplicate fiscal years keep the entry with the
// larger absolute magnitude. The politeness delay is applied before the
// request per the registry's fair-use policy.
func (c *Client) GetAnnualEPS(ctx context.Context, identifier string) (map[int]float64, error) {
	select {
	case <-time.After(c.requestDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	reqURL := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.baseURL, identifier)

	var resp companyFactsResponse
	if err := c.get(ctx, reqURL, &resp); err != nil {
		return nil, err
	}

	for _, concept := range epsConcepts {
		fact, ok := resp.Facts.USGAAP[concept]
		if !ok {
			continue
		}

		var entries []factEntry
		for _, unitEntries := range fact.Units {
			entries = append(entries, unitEntries...)
		}
		if len(entries) == 0 {
			continue
		}

		// First concept with any reported values wins — an empty result
		// after the 10-K filter does not fall through to the next concept.
		annual := make(map[int]float64)
		for _, entry := range entries {
			if entry.Form != "10-K" || entry.FiscalYear == 0 {
				continue
			}
			existing, seen := annual[entry.FiscalYear]
			if !seen || math.Abs(entry.Value) > math.Abs(existing) {
				annual[entry.FiscalYear] = entry.Value
			}
		}

		c.logger.Debug().
			Str("cik", identifier).
			Str("concept", concept).
			Int("years", len(annual)).
			Msg("EDGAR annual EPS extracted")

		return annual, nil
	}

	return map[int]float64{}, nil
}

// Ensure Client implements RegistryClient
var _ interfaces.RegistryClient = (*Client)(nil)
