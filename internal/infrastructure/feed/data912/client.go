package data912

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"merval/internal/application/port"
	"merval/internal/domain"
)

// Paths are the four panel endpoints under the service base URL.
type Paths struct {
	Stocks string
	Bonds  string
	Corp   string
	MEP    string
}

// Client pulls the live panels from the data912 market data service.
// Each endpoint returns a flat JSON array; absent fields stay nil on
// the decoded quotes.
type Client struct {
	baseURL string
	paths   Paths
	client  *http.Client
}

func New(baseURL string, paths Paths, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		paths:   paths,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) FetchStocks(ctx context.Context) ([]domain.Quote, error) {
	return c.quotes(ctx, c.paths.Stocks)
}

func (c *Client) FetchBonds(ctx context.Context) ([]domain.Quote, error) {
	return c.quotes(ctx, c.paths.Bonds)
}

func (c *Client) FetchCorp(ctx context.Context) ([]domain.Quote, error) {
	return c.quotes(ctx, c.paths.Corp)
}

func (c *Client) FetchMEP(ctx context.Context) ([]domain.MEPQuote, error) {
	var out []domain.MEPQuote
	if err := c.getJSON(ctx, c.paths.MEP, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) quotes(ctx context.Context, path string) ([]domain.Quote, error) {
	var out []domain.Quote
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("data912 http %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

var _ port.QuoteFeed = (*Client)(nil)
