// Package mapper turns a raw gateway payload into the two canonical shapes
// the senders consume. Mapping never performs IO; a payload that cannot
// produce a usable conversion is rejected before any outbound call.
package mapper

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/conversor/webhook-relay/internal/domain"
	"github.com/conversor/webhook-relay/internal/normalize"
)

var minorUnitsPerReal = decimal.NewFromInt(100)

// ToConversion validates and extracts the conversion pair. Email and name
// are both required; amount must be positive. Either failure invalidates
// the whole record.
func ToConversion(p *domain.WebhookPayload) (*domain.Conversion, error) {
	c := customerOf(p)
	if c.Email == "" || c.Name == "" {
		return nil, fmt.Errorf("ToConversion: %w", domain.ErrMissingCustomer)
	}
	if p.Amount <= 0 {
		return nil, fmt.Errorf("ToConversion: %w", domain.ErrMissingAmount)
	}

	timestamp := time.Now().UTC()
	if t, ok := normalize.ParseTimestamp(p.CreatedTimestamp()); ok {
		timestamp = t.UTC()
	}

	return &domain.Conversion{
		Customer: domain.CanonicalCustomer{
			Email:    c.Email,
			Name:     c.Name,
			Phone:    normalize.Phone(c.Phone),
			Document: documentOf(c),
		},
		Transaction: domain.CanonicalTransaction{
			TransactionID: p.TransactionID(),
			Value:         decimal.NewFromInt(p.Amount).Div(minorUnitsPerReal),
			Currency:      domain.Currency,
			Items:         p.Items,
			Timestamp:     timestamp,
		},
	}, nil
}

// ToOrder builds the order-tracking record. Unlike ToConversion it cannot
// fail: the order-tracking API tolerates partial data and the send is
// fire-and-forget anyway.
func ToOrder(p *domain.WebhookPayload, platform string, now time.Time) domain.OrderRecord {
	c := customerOf(p)

	createdAt := normalize.RenderDateTime(now)
	if rendered := normalize.FormatDateTime(p.CreatedTimestamp()); rendered != nil {
		createdAt = *rendered
	}

	method := p.Method
	if method == "" {
		method = "pix"
	}

	products := make([]domain.OrderProduct, 0, len(p.Items))
	for _, item := range p.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		price := item.UnitPrice
		if price == 0 {
			price = p.Amount
		}
		products = append(products, domain.OrderProduct{
			ID:           item.ID,
			Name:         item.Title,
			Quantity:     quantity,
			PriceInCents: price,
		})
	}

	return domain.OrderRecord{
		OrderID:       p.OrderID(),
		Platform:      platform,
		PaymentMethod: method,
		Status:        normalize.OrderStatusOf(p.Status),
		CreatedAt:     createdAt,
		ApprovedDate:  normalize.FormatDateTime(p.UpdatedTimestamp()),
		RefundedAt:    normalize.FormatDateTime(p.RefundedTimestamp()),
		Customer: domain.OrderCustomer{
			Name:     c.Name,
			Email:    c.Email,
			Document: documentOf(c),
			Phone:    normalize.Phone(c.Phone),
		},
		Products:           products,
		TrackingParameters: normalize.Tracking(p),
		Commission: domain.OrderCommission{
			TotalPriceInCents:     p.Amount,
			GatewayFeeInCents:     p.GatewayFeeInCents,
			UserCommissionInCents: p.UserCommissionInCents,
		},
		IsTest: p.IsTest,
	}
}

// customerOf prefers the nested customer object and falls back to the
// top-level fields some gateway event kinds use.
func customerOf(p *domain.WebhookPayload) domain.CustomerPayload {
	if p.Customer != nil {
		return *p.Customer
	}
	return domain.CustomerPayload{
		Name:     p.Name,
		Email:    p.Email,
		Phone:    p.Phone,
		CPF:      p.CPF,
		Document: p.Document,
	}
}

func documentOf(c domain.CustomerPayload) string {
	if c.CPF != "" {
		return c.CPF
	}
	return c.Document
}
