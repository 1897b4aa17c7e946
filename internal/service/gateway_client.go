package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/conversor/webhook-relay/internal/domain"
)

// GatewayPayment is the subset of the gateway's payment query response the
// lookup endpoint passes through.
type GatewayPayment struct {
	ID        string                  `json:"id"`
	CustomID  string                  `json:"customId"`
	Status    string                  `json:"status"`
	Amount    int64                   `json:"amount"`
	Method    string                  `json:"method"`
	Customer  *domain.CustomerPayload `json:"customer"`
	Items     []domain.ItemPayload    `json:"items"`
	UpdatedAt string                  `json:"updatedAt"`
}

// GatewayClient queries the payment gateway's own status API. Responses
// are never cached; the endpoint exists for live lookups.
type GatewayClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewGatewayClient(baseURL, secretKey string) *GatewayClient {
	return &GatewayClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *GatewayClient) GetPayment(ctx context.Context, transactionID string) (*GatewayPayment, error) {
	reqURL := fmt.Sprintf("%s/transaction.getPayment?id=%s", c.baseURL, url.QueryEscape(transactionID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("GetPayment: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("GetPayment: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("GetPayment: %w", domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("GetPayment: %w: unexpected status %d: %s", domain.ErrUpstream, resp.StatusCode, string(respBody))
	}

	var payment GatewayPayment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("GetPayment: decode: %w", err)
	}
	return &payment, nil
}
