// Package macrotrends scrapes annual EPS figures from the public
// Macrotrends pages, the secondary web source in the EPS resolution chain.
package macrotrends

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/divvy/internal/common"
	"github.com/bobmcallan/divvy/internal/interfaces"
)

const (
	DefaultBaseURL   = "https://www.macrotrends.net"
	DefaultTimeout   = 20 * time.Second
	DefaultRateLimit = 2 // requests per second
)

// Regex patterns for embedded data extraction — compiled once.
var (
	chartDataPattern = regexp.MustCompile(`(?s)chartData\s*=\s*(\[.*?\])\s*;`)
	yearPattern      = regexp.MustCompile(`^(\d{4})`)
)

// Client implements the ScrapeClient interface
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

// NewClient creates a new Macrotrends scrape client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			// Redirects are expected: the ticker URL canonicalizes to the
			// per-issuer slug page.
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// fetch performs a rate-limited GET and returns the parsed document plus
// the final URL after redirects.
func (c *Client) fetch(ctx context.Context, reqURL string) (*goquery.Document, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	c.logger.Debug().Str("url", reqURL).Msg("Macrotrends fetch")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("macrotrends error: status %d for %s", resp.StatusCode, reqURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse page: %w", err)
	}

	return doc, resp.Request.URL.String(), nil
}

// GetAnnualEPS extracts year→EPS pairs from the issuer's diluted-EPS page.
// The ticker URL redirects to the canonical per-issuer slug page; the EPS
// sub-page embeds a client-side chartData array which is parsed without
// executing any script. Duplicate years keep the first occurrence.
func (c *Client) GetAnnualEPS(ctx context.Context, ticker string) (map[int]float64, error) {
	tickerURL := fmt.Sprintf("%s/stocks/charts/%s/", c.baseURL, strings.ToUpper(ticker))

	_, canonicalURL, err := c.fetch(ctx, tickerURL)
	if err != nil {
		return nil, fmt.Errorf("canonical page lookup: %w", err)
	}

	epsURL := strings.TrimSuffix(canonicalURL, "/") + "/eps-earnings-per-share-diluted"

	doc, _, err := c.fetch(ctx, epsURL)
	if err != nil {
		return nil, fmt.Errorf("eps page fetch: %w", err)
	}

	var raw string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := chartDataPattern.FindStringSubmatch(s.Text()); m != nil {
			raw = m[1]
			return false
		}
		return true
	})

	if raw == "" {
		return nil, fmt.Errorf("no embedded chart data on %s", epsURL)
	}

	annual := parseChartData(raw)
	if len(annual) == 0 {
		return nil, fmt.Errorf("chart data yielded no year/value pairs on %s", epsURL)
	}

	c.logger.Debug().Str("ticker", ticker).Int("years", len(annual)).Msg("Macrotrends annual EPS extracted")

	return annual, nil
}

// parseChartData extracts year/value pairs out of the embedded array.
// Two shapes are handled: objects {"date":"2023-09-30","v1":6.13} and
// bare pairs ["2023", 6.13]. First occurrence per year wins.
func parseChartData(raw string) map[int]float64 {
	annual := make(map[int]float64)

	gjson.Parse(raw).ForEach(func(_, item gjson.Result) bool {
		var yearStr string
		var value gjson.Result

		if item.IsObject() {
			yearStr = item.Get("date").String()
			// Value key varies by chart (v1, v2, v3) — take the first
			// numeric field that isn't the date.
			item.ForEach(func(k, v gjson.Result) bool {
				if k.String() == "date" {
					return true
				}
				if v.Type == gjson.Number {
					value = v
					return false
				}
				return true
			})
		} else if item.IsArray() {
			pair := item.Array()
			if len(pair) >= 2 {
				yearStr = pair[0].String()
				value = pair[1]
			}
		}

		m := yearPattern.FindStringSubmatch(yearStr)
		if m == nil || !value.Exists() {
			return true
		}

		year, err := strconv.Atoi(m[1])
		if err != nil {
			return true
		}

		if _, seen := annual[year]; !seen {
			annual[year] = value.Float()
		}
		return true
	})

	return annual
}

// Ensure Client implements ScrapeClient
var _ interfaces.ScrapeClient = (*Client)(nil)
