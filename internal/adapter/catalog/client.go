package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/brianragasi/Highland-sub003/internal/entity"
	"github.com/brianragasi/Highland-sub003/internal/usecase"
)

// Client fetches the sellable catalog from the products service.
type Client struct {
	base *url.URL
	http *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
	}, nil
}

type listResponse struct {
	Success bool                 `json:"success"`
	Data    []entity.CatalogItem `json:"data"`
	Message string               `json:"message"`
}

func (c *Client) List(ctx context.Context) ([]entity.CatalogItem, error) {
	// JoinPath keeps any prefix on the base url (e.g. /api) intact
	u := c.base.JoinPath("products")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrTransport, err)
	}
	defer resp.Body.Close()

	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode catalog response: %v", usecase.ErrTransport, err)
	}
	if !out.Success {
		return nil, fmt.Errorf("%w: catalog: %s", usecase.ErrTransport, out.Message)
	}
	return out.Data, nil
}
