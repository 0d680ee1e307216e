// Package catalog is a stateless client for the public book catalog API.
//
// Each call is independent: no retry, no caching. Failures surface as
// ErrUnavailable and callers treat them as "no results", never as fatal.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnavailable is returned when the catalog cannot be reached or its
// response cannot be decoded.
var ErrUnavailable = errors.New("catalog unavailable")

const defaultBaseURL = "https://www.googleapis.com/books/v1"

// Client queries the catalog's volumes API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a catalog client. An empty baseURL selects the public
// catalog endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

type volumesResponse struct {
	Kind       string   `json:"kind"`
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Search returns up to maxResults volumes matching query. An empty query is
// a defined no-op: it returns no volumes without touching the network.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Volume, error) {
	if query == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/volumes?q=%s&maxResults=%d", c.baseURL, url.QueryEscape(query), maxResults)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: search %q: %v", ErrUnavailable, query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search %q: unexpected status %d", ErrUnavailable, query, resp.StatusCode)
	}

	var decoded volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", ErrUnavailable, err)
	}

	return decoded.Items, nil
}

// GetByID fetches a single volume. A missing volume is a nil result, not an
// error.
func (c *Client) GetByID(ctx context.Context, id string) (*Volume, error) {
	endpoint := fmt.Sprintf("%s/volumes/%s", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create volume request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get volume %s: %v", ErrUnavailable, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: get volume %s: unexpected status %d", ErrUnavailable, id, resp.StatusCode)
	}

	var volume Volume
	if err := json.NewDecoder(resp.Body).Decode(&volume); err != nil {
		return nil, fmt.Errorf("%w: decode volume response: %v", ErrUnavailable, err)
	}

	return &volume, nil
}
