// Package api is the client for the upstream marketplace REST API owned by
// an external collaborator.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// StatusError carries a non-2xx upstream response so callers can surface a
// retry affordance without losing the body.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("farm api request failed: %s", e.Status)
	}
	return fmt.Sprintf("farm api request failed: %s: %s", e.Status, e.Body)
}

// OrderProduct is the per-item order payload shape the order API expects.
type OrderProduct struct {
	ProductID  string  `json:"productId"`
	FarmerID   string  `json:"farmerId,omitempty"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Image      string  `json:"image,omitempty"`
	Category   string  `json:"category,omitempty"`
	Quantity   int     `json:"quantity"`
	FarmerName string  `json:"farmerName,omitempty"`
}

// ShippingDetails mirrors the checkout address form.
type ShippingDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Phone   string `json:"phone"`
	Zipcode string `json:"zipcode"`
}

// OrderRequest is the POST /api/orders body.
type OrderRequest struct {
	UserID          string          `json:"userId"`
	Products        []OrderProduct  `json:"products"`
	ShippingDetails ShippingDetails `json:"shippingDetails"`
	TotalAmount     float64         `json:"totalAmount"`
}

// OrderConfirmation is the order API's response; some deployments return
// the identifier as a document id.
type OrderConfirmation struct {
	OrderID string `json:"orderId"`
	AltID   string `json:"_id"`
}

// EffectiveID returns whichever identifier the upstream populated.
func (o OrderConfirmation) EffectiveID() string {
	if o.OrderID != "" {
		return o.OrderID
	}
	return o.AltID
}

// UserRecord is the POST /api/users upsert body.
type UserRecord struct {
	UserID  string `json:"userId"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Client talks to the upstream API. A nil http.Client falls back to
// http.DefaultClient; no retries or timeouts are layered on top, failures
// surface to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// FetchProducts returns the raw /api/products body; shape classification
// happens in the catalog package.
func (c *Client) FetchProducts(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products", nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// CreateOrder submits the order and returns the upstream confirmation.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (OrderConfirmation, error) {
	body, err := c.postJSON(ctx, "/api/orders", order)
	if err != nil {
		return OrderConfirmation{}, err
	}
	var conf OrderConfirmation
	if err := json.Unmarshal(body, &conf); err != nil {
		return OrderConfirmation{}, fmt.Errorf("decode order confirmation: %w", err)
	}
	return conf, nil
}

// UpsertUser records the logged-in profile upstream.
func (c *Client) UpsertUser(ctx context.Context, user UserRecord) error {
	_, err := c.postJSON(ctx, "/api/users", user)
	return err
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	client := c.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}
