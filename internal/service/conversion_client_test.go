package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conversor/webhook-relay/internal/domain"
)

// sha256("a@b.com") and sha256("5511987654321")
const (
	hashedEmail = "fb98d44ad7501a959f3f4f4a3f004fe2d9e581ea6207e218c4b02c08a4d75adf"
	hashedPhone = "029c7290f14c4516673508635f0519db95f7daf42057fd0e4ad1de84c5408a66"
)

func sampleConversion() *domain.Conversion {
	return &domain.Conversion{
		Customer: domain.CanonicalCustomer{
			Email: "a@b.com",
			Name:  "A B",
			Phone: "5511987654321",
		},
		Transaction: domain.CanonicalTransaction{
			TransactionID: "t1",
			Value:         decimal.NewFromInt(1000).Div(decimal.NewFromInt(100)),
			Currency:      "BRL",
			Items: []domain.ItemPayload{
				{ID: "i1", Title: "X", Quantity: 1, UnitPrice: 1000},
			},
			Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestConversionClientSend(t *testing.T) {
	var captured conversionRequest
	var gotAuth, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"events_received": 1})
	}))
	defer srv.Close()

	client := NewConversionClient(ConversionClientConfig{
		BaseURL:        srv.URL,
		PixelID:        "pixel-1",
		AccessToken:    "token-1",
		EventSourceURL: "https://shop.example.com",
	})

	eventID, err := client.Send(context.Background(), sampleConversion(), "website")
	require.NoError(t, err)

	wantEventTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, "purchase_t1_"+strconv.FormatInt(wantEventTime, 10), eventID)

	assert.Equal(t, "Bearer token-1", gotAuth)
	assert.Equal(t, "/pixel-1/events", gotPath)

	require.Len(t, captured.Data, 1)
	event := captured.Data[0]
	assert.Equal(t, "Purchase", event.EventName)
	assert.Equal(t, wantEventTime, event.EventTime)
	assert.Equal(t, "website", event.ActionSource)
	assert.Equal(t, "https://shop.example.com", event.EventSourceURL)
	assert.Equal(t, eventID, event.EventID)

	assert.Equal(t, []string{hashedEmail}, event.UserData.Em)
	assert.Equal(t, []string{hashedPhone}, event.UserData.Ph)
	assert.Len(t, event.UserData.Fn, 1)
	assert.Len(t, event.UserData.Ln, 1)
	assert.Equal(t, []string{"br"}, event.UserData.Country)

	assert.Equal(t, "BRL", event.CustomData.Currency)
	assert.InDelta(t, 10.0, event.CustomData.Value, 1e-9)
	assert.Equal(t, []string{"i1"}, event.CustomData.ContentIDs)
	assert.Equal(t, "product", event.CustomData.ContentType)
	assert.Equal(t, int64(1), event.CustomData.NumItems)

	assert.Empty(t, captured.TestEventCode)
}

func TestConversionClientSendDeterministicEventID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewConversionClient(ConversionClientConfig{
		BaseURL: srv.URL, PixelID: "p", AccessToken: "t",
	})

	first, err := client.Send(context.Background(), sampleConversion(), "website")
	require.NoError(t, err)
	second, err := client.Send(context.Background(), sampleConversion(), "website")
	require.NoError(t, err)
	assert.Equal(t, first, second, "resending the same payload must reuse the event id")
}

func TestConversionClientSendTestMode(t *testing.T) {
	var captured conversionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
	}))
	defer srv.Close()

	client := NewConversionClient(ConversionClientConfig{
		BaseURL: srv.URL, PixelID: "p", AccessToken: "t", TestEventCode: "TEST12345",
	})

	_, err := client.Send(context.Background(), sampleConversion(), "website")
	require.NoError(t, err)
	assert.Equal(t, "TEST12345", captured.TestEventCode)
}

func TestConversionClientSendMissingConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no HTTP call may be made without credentials")
	}))
	defer srv.Close()

	tests := []struct {
		name string
		cfg  ConversionClientConfig
	}{
		{"missing pixel id", ConversionClientConfig{BaseURL: srv.URL, AccessToken: "t"}},
		{"missing access token", ConversionClientConfig{BaseURL: srv.URL, PixelID: "p"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConversionClient(tc.cfg).Send(context.Background(), sampleConversion(), "website")
			assert.ErrorIs(t, err, domain.ErrSenderNotConfigured)
		})
	}
}

func TestConversionClientSendUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewConversionClient(ConversionClientConfig{
		BaseURL: srv.URL, PixelID: "p", AccessToken: "t",
	})

	_, err := client.Send(context.Background(), sampleConversion(), "website")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestBuildUserDataOmitsMissingFields(t *testing.T) {
	ud := buildUserData(domain.CanonicalCustomer{Name: "Solo"})
	assert.Nil(t, ud.Em)
	assert.Nil(t, ud.Ph)
	assert.Len(t, ud.Fn, 1)
	assert.Nil(t, ud.Ln, "single-token name has no last-name hash")
	assert.Equal(t, []string{"br"}, ud.Country)
}

func TestBuildCustomDataFallbacks(t *testing.T) {
	cd := buildCustomData(domain.CanonicalTransaction{
		Currency: "BRL",
		Value:    decimal.NewFromFloat(28.30),
		Items: []domain.ItemPayload{
			{ID: "i1", Quantity: 2},
			{Title: "Named only"},
			{},
		},
	})
	assert.Equal(t, []string{"i1", "Named only", fallbackContentID}, cd.ContentIDs)
	assert.Equal(t, int64(4), cd.NumItems, "missing quantities count as 1")
}
