package sales

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/brianragasi/Highland-sub003/internal/entity"
	"github.com/brianragasi/Highland-sub003/internal/usecase"
)

// Client talks to the sales service: it creates sales and fetches receipts.
// Business rejections come back as *usecase.RejectionError with the server
// message untouched; anything else the network got wrong wraps ErrTransport.
type Client struct {
	base *url.URL
	http *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid sales base url %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
	}, nil
}

type saleResponse struct {
	Success bool                `json:"success"`
	Data    *entity.SaleReceipt `json:"data"`
	Sale    *entity.SaleReceipt `json:"sale"`
	Message string              `json:"message"`
}

func (r saleResponse) receipt() *entity.SaleReceipt {
	if r.Sale != nil {
		return r.Sale
	}
	return r.Data
}

func (c *Client) CreateSale(ctx context.Context, req usecase.SaleRequest) (*entity.SaleReceipt, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal sale request: %w", err)
	}

	// JoinPath keeps any prefix on the base url (e.g. /api) intact
	u := c.base.JoinPath("sales")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrTransport, err)
	}
	defer resp.Body.Close()

	var out saleResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode sale response (status %d): %v", usecase.ErrTransport, resp.StatusCode, err)
	}
	if !out.Success {
		return nil, &usecase.RejectionError{Message: out.Message}
	}
	receipt := out.receipt()
	if receipt == nil {
		return nil, fmt.Errorf("%w: sale response carried no receipt", usecase.ErrTransport)
	}
	return receipt, nil
}

func (c *Client) GetReceipt(ctx context.Context, saleID string) (*entity.SaleReceipt, error) {
	u := c.base.JoinPath("sales", saleID, "receipt")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrTransport, err)
	}
	defer resp.Body.Close()

	var out saleResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode receipt response (status %d): %v", usecase.ErrTransport, resp.StatusCode, err)
	}
	if !out.Success {
		return nil, &usecase.RejectionError{Message: out.Message}
	}
	receipt := out.receipt()
	if receipt == nil {
		return nil, fmt.Errorf("%w: receipt response carried no receipt", usecase.ErrTransport)
	}
	return receipt, nil
}

var _ usecase.SalesGateway = (*Client)(nil)
