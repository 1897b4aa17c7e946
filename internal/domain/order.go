package domain

type OrderStatus string

const (
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusWaitingPayment OrderStatus = "waiting_payment"
	OrderStatusRefunded       OrderStatus = "refunded"
	OrderStatusRefused        OrderStatus = "refused"
	OrderStatusChargedback    OrderStatus = "chargedback"
)

// OrderRecord is the body sent to the order-tracking API. Timestamps are
// rendered "YYYY-MM-DD HH:MM:SS" and nullable, except CreatedAt which the
// mapper always fills.
type OrderRecord struct {
	OrderID            string             `json:"orderId"`
	Platform           string             `json:"platform"`
	PaymentMethod      string             `json:"paymentMethod"`
	Status             OrderStatus        `json:"status"`
	CreatedAt          string             `json:"createdAt"`
	ApprovedDate       *string            `json:"approvedDate"`
	RefundedAt         *string            `json:"refundedAt"`
	Customer           OrderCustomer      `json:"customer"`
	Products           []OrderProduct     `json:"products"`
	TrackingParameters TrackingParameters `json:"trackingParameters"`
	Commission         OrderCommission    `json:"commission"`
	IsTest             bool               `json:"isTest"`
}

type OrderCustomer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
}

type OrderProduct struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PlanID       string `json:"planId"`
	PlanName     string `json:"planName"`
	Quantity     int64  `json:"quantity"`
	PriceInCents int64  `json:"priceInCents"`
}

// TrackingParameters always carries all five UTM keys; missing values are
// empty strings, never null.
type TrackingParameters struct {
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	UTMContent  string `json:"utm_content"`
	UTMTerm     string `json:"utm_term"`
}

type OrderCommission struct {
	TotalPriceInCents     int64 `json:"totalPriceInCents"`
	GatewayFeeInCents     int64 `json:"gatewayFeeInCents"`
	UserCommissionInCents int64 `json:"userCommissionInCents"`
}
