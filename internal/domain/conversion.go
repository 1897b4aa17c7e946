package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is fixed for the whole system; the gateway only settles in BRL.
const Currency = "BRL"

// CanonicalCustomer is the validated customer half of a conversion.
// Phone is in canonical form: digits only, country code prefixed, no "+".
type CanonicalCustomer struct {
	Email    string
	Name     string
	Phone    string
	Document string
}

// CanonicalTransaction is the validated transaction half of a conversion.
// Value is in whole currency units (payload amount is integer cents).
type CanonicalTransaction struct {
	TransactionID string
	Value         decimal.Decimal
	Currency      string
	Items         []ItemPayload
	Timestamp     time.Time
}

// Conversion is what the ads sender consumes. Both halves are always valid
// together: mapping fails closed when either would be unusable.
type Conversion struct {
	Customer    CanonicalCustomer
	Transaction CanonicalTransaction
}
