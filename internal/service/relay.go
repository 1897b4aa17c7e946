package service

import (
	"context"
	"fmt"
	"time"

	"github.com/conversor/webhook-relay/internal/domain"
	"github.com/conversor/webhook-relay/internal/logging"
	"github.com/conversor/webhook-relay/internal/mapper"
	"github.com/conversor/webhook-relay/internal/normalize"
	"github.com/conversor/webhook-relay/internal/store"
)

type conversionSender interface {
	Send(ctx context.Context, conv *domain.Conversion, eventSource string) (string, error)
}

type orderSender interface {
	Send(ctx context.Context, order domain.OrderRecord) error
}

// Relay is the webhook orchestrator: classify the payment, persist its
// status, and on approval dispatch the conversion and order-tracking
// sends. The two sends are independent side effects; an order-tracking
// failure never reaches the caller.
type Relay struct {
	store       store.StatusStore
	conversions conversionSender
	orders      orderSender
	platform    string
	eventSource string
}

func NewRelay(st store.StatusStore, conversions conversionSender, orders orderSender, platform, eventSource string) *Relay {
	return &Relay{
		store:       st,
		conversions: conversions,
		orders:      orders,
		platform:    platform,
		eventSource: eventSource,
	}
}

// Outcome is what the handler turns into an HTTP response.
type Outcome struct {
	TransactionID string
	Approved      bool
	EventID       string
}

func (r *Relay) Process(ctx context.Context, payload *domain.WebhookPayload) (*Outcome, error) {
	log := logging.FromContext(ctx)

	transactionID := payload.TransactionID()
	if transactionID == "" {
		return nil, fmt.Errorf("Process: %w", domain.ErrMissingTransactionID)
	}

	approved := normalize.IsApproved(payload.Status)
	r.persistStatus(ctx, transactionID, payload, approved)

	if !approved {
		log.Info("payment not approved, skipping dispatch",
			"transaction_id", transactionID,
			"status", payload.Status,
		)
		return &Outcome{TransactionID: transactionID, Approved: false}, nil
	}

	conv, err := mapper.ToConversion(payload)
	if err != nil {
		return nil, fmt.Errorf("Process: %w", err)
	}

	// Order tracking is fire-and-forget: log and move on, whatever happens.
	order := mapper.ToOrder(payload, r.platform, time.Now().UTC())
	if err := r.orders.Send(ctx, order); err != nil {
		log.Error("order-tracking send failed", "order_id", order.OrderID, "error", err)
	} else {
		log.Info("order-tracking send succeeded", "order_id", order.OrderID)
	}

	eventID, err := r.conversions.Send(ctx, conv, r.eventSource)
	if err != nil {
		return nil, fmt.Errorf("Process: conversion send: %w", err)
	}

	return &Outcome{TransactionID: transactionID, Approved: true, EventID: eventID}, nil
}

// persistStatus writes the status record for the lookup endpoint. A store
// failure must not block the relay, so it is logged and dropped.
func (r *Relay) persistStatus(ctx context.Context, transactionID string, payload *domain.WebhookPayload, approved bool) {
	status := domain.PaymentStatusCompleted
	if !approved {
		status = payload.Status
		if status == "" {
			status = domain.PaymentStatusPending
		}
	}

	record := domain.StatusRecord{
		Status:    status,
		Amount:    payload.Amount,
		Customer:  payload.Customer,
		Items:     payload.Items,
		UpdatedAt: time.Now().UTC(),
	}
	if record.Items == nil {
		record.Items = []domain.ItemPayload{}
	}

	if err := r.store.Set(ctx, transactionID, record); err != nil {
		logging.FromContext(ctx).Error("failed to persist status record",
			"transaction_id", transactionID,
			"error", err,
		)
	}
}
