package domain

// WebhookPayload is the raw gateway webhook body. The gateway has shipped
// both camelCase and snake_case timestamp keys over time, so both are kept
// and resolved through accessors.
type WebhookPayload struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	CustomID   string `json:"customId"`
	Status     string `json:"status"`
	Amount     int64  `json:"amount"`
	Method     string `json:"method"`

	Customer *CustomerPayload `json:"customer"`

	// Top-level fallbacks used when no nested customer object is present.
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	CPF      string `json:"cpf"`
	Document string `json:"document"`

	Items []ItemPayload `json:"items"`

	CreatedAt       string `json:"createdAt"`
	CreatedAtSnake  string `json:"created_at"`
	UpdatedAt       string `json:"updatedAt"`
	UpdatedAtSnake  string `json:"updated_at"`
	RefundedAt      string `json:"refundedAt"`
	RefundedAtSnake string `json:"refunded_at"`

	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	UTMContent  string `json:"utm_content"`
	UTMTerm     string `json:"utm_term"`

	// Alternative encoding: all five UTM values packed into one
	// query-string-like value ("utm_source=x&utm_medium=y").
	TrackingParameters string `json:"trackingParameters"`

	GatewayFeeInCents     int64 `json:"gatewayFeeInCents"`
	UserCommissionInCents int64 `json:"userCommissionInCents"`
	IsTest                bool  `json:"isTest"`
}

type CustomerPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	CPF      string `json:"cpf"`
	Document string `json:"document"`
}

type ItemPayload struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// TransactionID resolves the payment identifier, preferring the gateway's
// own id over the merchant-assigned external id.
func (p *WebhookPayload) TransactionID() string {
	if p.ID != "" {
		return p.ID
	}
	return p.ExternalID
}

// OrderID is the identifier reported to order tracking; it additionally
// falls back to the merchant custom id.
func (p *WebhookPayload) OrderID() string {
	if p.ID != "" {
		return p.ID
	}
	if p.CustomID != "" {
		return p.CustomID
	}
	return p.ExternalID
}

func (p *WebhookPayload) CreatedTimestamp() string {
	if p.CreatedAt != "" {
		return p.CreatedAt
	}
	return p.CreatedAtSnake
}

func (p *WebhookPayload) UpdatedTimestamp() string {
	if p.UpdatedAt != "" {
		return p.UpdatedAt
	}
	return p.UpdatedAtSnake
}

func (p *WebhookPayload) RefundedTimestamp() string {
	if p.RefundedAt != "" {
		return p.RefundedAt
	}
	return p.RefundedAtSnake
}
