// mock-gateway stands in for the payment gateway and both downstream APIs
// so the relay can be exercised end to end without real credentials.
package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/conversor/webhook-relay/internal/domain"
	"github.com/conversor/webhook-relay/internal/logging"
	"github.com/conversor/webhook-relay/internal/service"
)

func main() {
	logging.Init("mock-gateway", "info", os.Getenv("APP_ENV"))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
			slog.Error("failed to write health response", "error", err)
		}
	})

	// Gateway payment query.
	mux.HandleFunc("GET /api/v1/transaction.getPayment", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id required", http.StatusBadRequest)
			return
		}
		slog.Info("payment queried", "transaction_id", id)
		json.NewEncoder(w).Encode(service.GatewayPayment{
			ID:     id,
			Status: "APPROVED",
			Amount: 2830,
			Method: "pix",
			Customer: &domain.CustomerPayload{
				Name:  "Maria da Silva",
				Email: "maria@example.com",
			},
			Items:     []domain.ItemPayload{{ID: uuid.NewString(), Title: "Produto de teste", Quantity: 1, UnitPrice: 2830}},
			UpdatedAt: "2026-01-01T12:00:00Z",
		})
	})

	// Ads-conversion sink.
	mux.HandleFunc("POST /{pixel}/events", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		slog.Info("conversion event received", "pixel", r.PathValue("pixel"), "bytes", len(body))
		json.NewEncoder(w).Encode(map[string]int{"events_received": 1})
	})

	// Order-tracking sink.
	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		var order domain.OrderRecord
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			http.Error(w, "bad order", http.StatusBadRequest)
			return
		}
		slog.Info("order received", "order_id", order.OrderID, "status", order.Status)
		w.WriteHeader(http.StatusOK)
	})

	slog.Info("mock gateway started", "addr", ":8081")
	if err := http.ListenAndServe(":8081", mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
