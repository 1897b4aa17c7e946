package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/conversor/webhook-relay/internal/domain"
	"github.com/conversor/webhook-relay/internal/logging"
)

// OrderClient posts order records to the order-tracking API. Sends are
// fire-and-forget from the relay's point of view: the caller logs and
// swallows any error returned here.
type OrderClient struct {
	url        string
	apiToken   string
	httpClient *http.Client
}

func NewOrderClient(url, apiToken string) *OrderClient {
	return &OrderClient{
		url:      url,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *OrderClient) Send(ctx context.Context, order domain.OrderRecord) error {
	log := logging.FromContext(ctx)

	if c.url == "" || c.apiToken == "" {
		return fmt.Errorf("Send: %w", domain.ErrSenderNotConfigured)
	}

	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("Send: marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("Send: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-token", c.apiToken)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("Send: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	log.Info("order-tracking response received",
		"order_id", order.OrderID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("Send: %w: unexpected status %d: %s", domain.ErrUpstream, resp.StatusCode, string(respBody))
	}

	return nil
}
