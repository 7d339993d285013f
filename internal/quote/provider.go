package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"stockcheck/internal/httputil"
)

// Provider is one external price source. Implementations make a single
// attempt per call; the Resolver owns timeouts and ordering.
type Provider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (float64, error)
}

// quotePayload is the shape both sources share: a quote document carrying
// the latest trade price.
type quotePayload struct {
	LatestPrice float64 `json:"latestPrice"`
}

func decodePrice(resp *http.Response, source string) (float64, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s returned status %d", source, resp.StatusCode)
	}

	var data quotePayload
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("decode %s response: %w", source, err)
	}
	if data.LatestPrice <= 0 {
		return 0, fmt.Errorf("%s returned no usable price", source)
	}
	return data.LatestPrice, nil
}

// ProxyClient fetches quotes from the stock-price-checker proxy. No
// authentication required.
type ProxyClient struct {
	baseURL    string
	httpClient *httputil.Client
}

func NewProxyClient(baseURL string, client *httputil.Client) *ProxyClient {
	return &ProxyClient{baseURL: baseURL, httpClient: client}
}

func (c *ProxyClient) Name() string { return "proxy" }

func (c *ProxyClient) Quote(ctx context.Context, symbol string) (float64, error) {
	u := fmt.Sprintf("%s/v1/stock/%s/quote", c.baseURL, url.PathEscape(symbol))
	resp, err := c.httpClient.Get(ctx, u)
	if err != nil {
		return 0, fmt.Errorf("proxy fetch: %w", err)
	}
	return decodePrice(resp, "proxy")
}

// IEXClient fetches quotes from an IEX-style endpoint authenticated by an
// API token query parameter. Used as the secondary source when configured.
type IEXClient struct {
	baseURL    string
	token      string
	httpClient *httputil.Client
}

func NewIEXClient(baseURL, token string, client *httputil.Client) *IEXClient {
	return &IEXClient{baseURL: baseURL, token: token, httpClient: client}
}

func (c *IEXClient) Name() string { return "iex" }

func (c *IEXClient) Quote(ctx context.Context, symbol string) (float64, error) {
	u := fmt.Sprintf("%s/stable/stock/%s/quote?token=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.token))
	resp, err := c.httpClient.Get(ctx, u)
	if err != nil {
		return 0, fmt.Errorf("iex fetch: %w", err)
	}
	return decodePrice(resp, "iex")
}
