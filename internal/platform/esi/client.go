// Package esi is the REST client for the EVE Swagger Interface market
// endpoints.
package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
)

// DefaultBaseURL is the public ESI root.
const DefaultBaseURL = "https://esi.evetech.net/latest"

// Client is the REST client for the ESI market API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a new ESI client. baseURL is the API root, e.g.
// "https://esi.evetech.net/latest"; userAgent identifies the application per
// CCP's developer guidelines. timeout <= 0 selects 30s.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchRegionTypeOrders returns every outstanding order (both sides) for one
// item type in one region, following the X-Pages pagination header until all
// pages are fetched.
func (c *Client) FetchRegionTypeOrders(ctx context.Context, regionID, typeID int32) ([]domain.MarketOrder, error) {
	var all []domain.MarketOrder

	page := 1
	for {
		orders, pages, err := c.fetchOrdersPage(ctx, regionID, typeID, page)
		if err != nil {
			return nil, fmt.Errorf("esi: orders region=%d type=%d page=%d: %w", regionID, typeID, page, err)
		}
		for _, o := range orders {
			all = append(all, o.asDomain())
		}
		if page >= pages {
			break
		}
		page++
	}

	return all, nil
}

// fetchOrdersPage fetches a single page of orders and returns the total page
// count reported by the X-Pages header (1 when absent).
func (c *Client) fetchOrdersPage(ctx context.Context, regionID, typeID int32, page int) ([]marketOrder, int, error) {
	params := url.Values{}
	params.Set("order_type", "all")
	params.Set("type_id", strconv.Itoa(int(typeID)))
	params.Set("page", strconv.Itoa(page))

	fullURL := fmt.Sprintf("%s/markets/%d/orders/?%s", c.baseURL, regionID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	if err := c.checkStatus(resp.StatusCode, body); err != nil {
		return nil, 0, err
	}

	var orders []marketOrder
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}

	pages := 1
	if v := resp.Header.Get("X-Pages"); v != "" {
		if n, parseErr := strconv.Atoi(v); parseErr == nil && n > 0 {
			pages = n
		}
	}

	return orders, pages, nil
}

// checkStatus maps non-2xx HTTP status codes to appropriate errors. ESI uses
// 420 for its error-rate limit in addition to the standard 429.
func (c *Client) checkStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var apiErr errorResponse
	_ = json.Unmarshal(body, &apiErr)

	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, apiErr.Error)
	case http.StatusTooManyRequests, 420:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, apiErr.Error)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, apiErr.Error)
	}
}
