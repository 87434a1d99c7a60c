// Package yahoo provides a client for the Yahoo Finance quote API,
// the primary market-data provider.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/divvy/internal/common"
	"github.com/bobmcallan/divvy/internal/interfaces"
	"github.com/bobmcallan/divvy/internal/models"
)

const (
	DefaultBaseURL   = "https://query2.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// rawValue handles Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrappers.
type rawValue struct {
	Raw float64 `json:"raw"`
}

// Client implements the MarketDataClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client. No API key is required.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
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
	return fmt.Sprintf("Yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo API request")

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
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// quoteSummaryResponse represents the quoteSummary API envelope
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				RegularMarketPrice rawValue `json:"regularMarketPrice"`
				Currency           string   `json:"currency"`
				LongName           string   `json:"longName"`
				ShortName          string   `json:"shortName"`
			} `json:"price"`
			SummaryDetail struct {
				DividendRate rawValue `json:"dividendRate"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				SharesOutstanding rawValue `json:"sharesOutstanding"`
			} `json:"defaultKeyStatistics"`
			InstitutionOwnership struct {
				OwnershipList []struct {
					Organization string `json:"organization"`
				} `json:"ownershipList"`
			} `json:"institutionOwnership"`
			Earnings struct {
				FinancialsChart struct {
					Yearly []struct {
						Date     int      `json:"date"`
						Earnings rawValue `json:"earnings"`
					} `json:"yearly"`
				} `json:"financialsChart"`
			} `json:"earnings"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// GetSnapshot retrieves the basic quote snapshot for a ticker.
// Absent fields are returned as 0/empty, never an error.
func (c *Client) GetSnapshot(ctx context.Context, ticker string) (*models.StockSnapshot, error) {
	params := url.Values{}
	params.Set("modules", "price,summaryDetail,defaultKeyStatistics,institutionOwnership")

	path := fmt.Sprintf("/v10/finance/quoteSummary/%s", ticker)

	var resp quoteSummaryResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote data for ticker %s", ticker)
	}

	r := resp.QuoteSummary.Result[0]

	name := r.Price.LongName
	if name == "" {
		name = r.Price.ShortName
	}
	if name == "" {
		name = ticker
	}

	currency := r.Price.Currency
	if currency == "" {
		currency = "USD"
	}

	return &models.StockSnapshot{
		Ticker:               strings.ToUpper(ticker),
		Name:                 name,
		Currency:             currency,
		CurrentPrice:         r.Price.RegularMarketPrice.Raw,
		AnnualDividend:       r.SummaryDetail.DividendRate.Raw,
		SharesOutstandingM:   r.DefaultKeyStatistics.SharesOutstanding.Raw / 1_000_000,
		InstitutionalHolders: len(r.InstitutionOwnership.OwnershipList),
	}, nil
}

// chartResponse represents the chart API envelope
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
	} `json:"chart"`
}

// GetDividendHistory retrieves the full dividend payment history for a ticker.
func (c *Client) GetDividendHistory(ctx context.Context, ticker string) (models.DividendSeries, error) {
	params := url.Values{}
	params.Set("range", "max")
	params.Set("interval", "3mo")
	params.Set("events", "div")

	path := fmt.Sprintf("/v8/finance/chart/%s", ticker)

	var resp chartResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Chart.Result) == 0 {
		return models.DividendSeries{}, nil
	}

	series := models.DividendSeries{}
	for _, div := range resp.Chart.Result[0].Events.Dividends {
		if div.Amount <= 0 {
			continue
		}
		series = append(series, models.DividendPayment{
			Date:   time.Unix(div.Date, 0).UTC(),
			Amount: div.Amount,
		})
	}

	sortDividends(series)
	return series, nil
}

// GetPriceHistory retrieves trailing daily closes for the given number of years.
func (c *Client) GetPriceHistory(ctx context.Context, ticker string, years int) (models.PriceSeries, error) {
	if years <= 0 {
		years = 5
	}

	params := url.Values{}
	params.Set("range", fmt.Sprintf("%dy", years))
	params.Set("interval", "1d")

	path := fmt.Sprintf("/v8/finance/chart/%s", ticker)

	var resp chartResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Chart.Result) == 0 {
		return models.PriceSeries{}, nil
	}

	r := resp.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return models.PriceSeries{}, nil
	}

	closes := r.Indicators.Quote[0].Close
	series := make(models.PriceSeries, 0, len(closes))
	for i, ts := range r.Timestamp {
		if i >= len(closes) {
			break
		}
		// Halted days come back as zero closes — skip them
		if closes[i] <= 0 {
			continue
		}
		series = append(series, models.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: closes[i],
		})
	}

	return series, nil
}

// GetEarningsHistory retrieves the annual earnings records the provider
// exposes. Yahoo only reports a handful of recent fiscal years (and often
// none at all), so callers should expect an empty result routinely.
func (c *Client) GetEarningsHistory(ctx context.Context, ticker string) ([]models.EarningsRecord, error) {
	params := url.Values{}
	params.Set("modules", "earnings")

	path := fmt.Sprintf("/v10/finance/quoteSummary/%s", ticker)

	var resp quoteSummaryResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if len(resp.QuoteSummary.Result) == 0 {
		return nil, nil
	}

	yearly := resp.QuoteSummary.Result[0].Earnings.FinancialsChart.Yearly
	records := make([]models.EarningsRecord, 0, len(yearly))
	for _, y := range yearly {
		if y.Date == 0 {
			continue
		}
		records = append(records, models.EarningsRecord{
			FiscalYear: y.Date,
			EPS:        y.Earnings.Raw,
		})
	}

	return records, nil
}

// sortDividends orders a series chronologically (oldest first).
func sortDividends(series models.DividendSeries) {
	for i := 1; i < len(series); i++ {
		for j := i; j > 0 && series[j].Date.Before(series[j-1].Date); j-- {
			series[j], series[j-1] = series[j-1], series[j]
		}
	}
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
