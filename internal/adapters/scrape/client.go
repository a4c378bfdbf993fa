package scrape

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/okarv/pricetracker/internal/domain"
	"github.com/okarv/pricetracker/internal/ports"
	"github.com/okarv/pricetracker/pkg/retry"
)

const defaultSelector = `[itemprop="price"], .product-price, .price`

// Client implements the PriceScraper interface against HTML product pages.
// It pulls the first element matching the configured CSS selector and
// normalizes its text into the canonical price form.
type Client struct {
	httpClient *http.Client
	selector   string
	userAgent  string
	retryConf  retry.Config
	logger     *slog.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithSelector sets the CSS selector used to locate the price element
func WithSelector(selector string) ClientOption {
	return func(c *Client) {
		if selector != "" {
			c.selector = selector
		}
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetry configures retry behavior
func WithRetry(maxRetries int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.retryConf.MaxRetries = maxRetries
		c.retryConf.InitialBackoff = backoff
	}
}

// WithUserAgent sets the User-Agent header sent to product pages
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger.With("component", "scrape_client")
	}
}

// NewClient creates a new scrape client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		selector:  defaultSelector,
		userAgent: "pricetracker/1.0",
		retryConf: retry.DefaultConfig(),
		logger:    slog.Default().With("component", "scrape_client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchPrice fetches a product page and returns its price in canonical
// form. Transient transport and server failures are retried; a page with
// no extractable price is domain.ErrScrapeFailed.
func (c *Client) FetchPrice(ctx context.Context, url string) (string, error) {
	return retry.Do(ctx, c.retryConf, func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", domain.ErrScrapeFailed
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Debug("request failed, will retry", "url", url, "error", err)
			return "", retry.NewRetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			c.logger.Warn("scrape target unavailable", "url", url, "status", resp.StatusCode)
			return "", retry.NewRetryableError(domain.ErrScraperUnavailable)
		}

		if resp.StatusCode != http.StatusOK {
			c.logger.Debug("unexpected response", "url", url, "status", resp.StatusCode)
			return "", domain.ErrScrapeFailed
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return "", domain.ErrScrapeFailed
		}

		element := doc.Find(c.selector).First()
		if element.Length() == 0 {
			c.logger.Debug("no price element on page", "url", url, "selector", c.selector)
			return "", domain.ErrScrapeFailed
		}

		price, err := normalizePrice(element.Text())
		if err != nil {
			c.logger.Debug("price text not parseable", "url", url, "text", element.Text())
			return "", err
		}

		return price, nil
	})
}

var currencyUnits = []string{"€", "$", "£"}

// normalizePrice turns raw page text such as "1 234,90 €", "$1,234.90" or
// "423.90€" into the canonical "{value} {unit}" form. The last separator
// followed by exactly two digits is the decimal mark; every other
// separator is thousands grouping.
func normalizePrice(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.ErrScrapeFailed
	}

	var unit string
	for _, u := range currencyUnits {
		if strings.Contains(raw, u) {
			unit = u
			break
		}
	}
	if unit == "" {
		return "", domain.ErrScrapeFailed
	}

	var digits strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			digits.WriteRune(r)
		}
	}
	num := digits.String()
	if num == "" {
		return "", domain.ErrScrapeFailed
	}

	// One or two digits after the last separator is the fractional part;
	// three is thousands grouping ("1,5" is 1.50, "1,500" is 1500).
	whole, fraction := num, "00"
	if sep := strings.LastIndexAny(num, ",."); sep >= 0 {
		if trailing := len(num) - sep - 1; trailing == 1 || trailing == 2 {
			whole, fraction = num[:sep], num[sep+1:]
		}
	}
	whole = strings.NewReplacer(",", "", ".", "").Replace(whole)
	if whole == "" {
		whole = "0"
	}

	amount, err := decimal.NewFromString(whole + "." + fraction)
	if err != nil {
		return "", domain.ErrScrapeFailed
	}

	return domain.Canonical(amount, unit), nil
}

// Ensure Client implements PriceScraper
var _ ports.PriceScraper = (*Client)(nil)
