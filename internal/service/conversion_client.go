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
	"github.com/conversor/webhook-relay/internal/normalize"
)

// ConversionClient posts Purchase events to the ads-conversion API. All
// personal identifiers are SHA-256 hashed before they leave the process.
type ConversionClient struct {
	baseURL        string
	pixelID        string
	accessToken    string
	eventSourceURL string
	testEventCode  string
	httpClient     *http.Client
}

type ConversionClientConfig struct {
	BaseURL        string
	PixelID        string
	AccessToken    string
	EventSourceURL string
	// TestEventCode tags outbound events as sandbox traffic when set.
	TestEventCode string
}

func NewConversionClient(cfg ConversionClientConfig) *ConversionClient {
	return &ConversionClient{
		baseURL:        cfg.BaseURL,
		pixelID:        cfg.PixelID,
		accessToken:    cfg.AccessToken,
		eventSourceURL: cfg.EventSourceURL,
		testEventCode:  cfg.TestEventCode,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type conversionUserData struct {
	Em      []string `json:"em,omitempty"`
	Ph      []string `json:"ph,omitempty"`
	Fn      []string `json:"fn,omitempty"`
	Ln      []string `json:"ln,omitempty"`
	Country []string `json:"country"`
}

type conversionCustomData struct {
	Currency    string   `json:"currency"`
	Value       float64  `json:"value"`
	ContentIDs  []string `json:"content_ids,omitempty"`
	ContentType string   `json:"content_type,omitempty"`
	NumItems    int64    `json:"num_items,omitempty"`
}

type conversionEvent struct {
	EventName      string               `json:"event_name"`
	EventTime      int64                `json:"event_time"`
	ActionSource   string               `json:"action_source"`
	UserData       conversionUserData   `json:"user_data"`
	CustomData     conversionCustomData `json:"custom_data"`
	EventSourceURL string               `json:"event_source_url"`
	EventID        string               `json:"event_id"`
}

type conversionRequest struct {
	Data          []conversionEvent `json:"data"`
	TestEventCode string            `json:"test_event_code,omitempty"`
}

// Send posts one Purchase event and returns its event id. The id is
// derived from the transaction id and event time only, so resending the
// same webhook produces the same id and a dedup-capable endpoint can
// collapse retries.
func (c *ConversionClient) Send(ctx context.Context, conv *domain.Conversion, eventSource string) (string, error) {
	log := logging.FromContext(ctx)

	if c.pixelID == "" || c.accessToken == "" {
		return "", fmt.Errorf("Send: %w", domain.ErrSenderNotConfigured)
	}

	eventTime := conv.Transaction.Timestamp.Unix()
	eventID := fmt.Sprintf("purchase_%s_%d", conv.Transaction.TransactionID, eventTime)

	event := conversionEvent{
		EventName:      "Purchase",
		EventTime:      eventTime,
		ActionSource:   eventSource,
		UserData:       buildUserData(conv.Customer),
		CustomData:     buildCustomData(conv.Transaction),
		EventSourceURL: c.eventSourceURL,
		EventID:        eventID,
	}

	body, err := json.Marshal(conversionRequest{
		Data:          []conversionEvent{event},
		TestEventCode: c.testEventCode,
	})
	if err != nil {
		return "", fmt.Errorf("Send: marshal: %w", err)
	}

	url := fmt.Sprintf("%s/%s/events", c.baseURL, c.pixelID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("Send: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	start := time.Now()
	log.Info("conversion event sent", "event_id", eventID, "transaction_id", conv.Transaction.TransactionID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Send: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	log.Info("conversion response received",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("Send: %w: unexpected status %d: %s", domain.ErrUpstream, resp.StatusCode, string(respBody))
	}

	return eventID, nil
}

func buildUserData(c domain.CanonicalCustomer) conversionUserData {
	// Each identifier is a single-element list; the API reserves the list
	// form for multiple identifiers per user, which this system never has.
	ud := conversionUserData{Country: []string{"br"}}
	if h := normalize.HashPII(c.Email); h != "" {
		ud.Em = []string{h}
	}
	if h := normalize.HashPII(c.Phone); h != "" {
		ud.Ph = []string{h}
	}
	if h := normalize.HashPII(normalize.FirstName(c.Name)); h != "" {
		ud.Fn = []string{h}
	}
	if h := normalize.HashPII(normalize.LastName(c.Name)); h != "" {
		ud.Ln = []string{h}
	}
	return ud
}

const fallbackContentID = "frete-cartao"

func buildCustomData(t domain.CanonicalTransaction) conversionCustomData {
	cd := conversionCustomData{
		Currency: t.Currency,
		Value:    t.Value.InexactFloat64(),
	}
	if len(t.Items) == 0 {
		return cd
	}

	cd.ContentType = "product"
	cd.ContentIDs = make([]string, 0, len(t.Items))
	for _, item := range t.Items {
		switch {
		case item.ID != "":
			cd.ContentIDs = append(cd.ContentIDs, item.ID)
		case item.Title != "":
			cd.ContentIDs = append(cd.ContentIDs, item.Title)
		default:
			cd.ContentIDs = append(cd.ContentIDs, fallbackContentID)
		}

		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		cd.NumItems += quantity
	}
	return cd
}
