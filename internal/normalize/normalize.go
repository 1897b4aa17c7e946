// Package normalize holds the pure transformations applied to gateway
// payloads before anything leaves the process: PII hashing, phone and
// timestamp canonicalization, and status vocabulary mapping.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/conversor/webhook-relay/internal/domain"
)

const brazilCountryCode = "55"

// HashPII returns the hex SHA-256 of the lowercased, trimmed input, the
// form the ads API requires for user identifiers. Empty input returns ""
// so a missing field maps to an absent hash slot, never a hash of "".
func HashPII(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Phone canonicalizes a phone number: digits only, one leading zero
// dropped, Brazil country code prefixed when absent, no "+". The function
// is idempotent, so already-canonical input passes through unchanged.
func Phone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	digits = strings.TrimPrefix(digits, "0")
	if !strings.HasPrefix(digits, brazilCountryCode) {
		digits = brazilCountryCode + digits
	}
	return digits
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts the timestamp forms the gateway has been seen to
// emit. The zero time and false are returned for anything unparseable.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDateTime renders a timestamp as "YYYY-MM-DD HH:MM:SS" in UTC,
// truncated to whole seconds. Unparseable or empty input returns nil; the
// order-tracking API expects null rather than a sentinel date.
func FormatDateTime(s string) *string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return nil
	}
	out := RenderDateTime(t)
	return &out
}

func RenderDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// IsApproved reports whether a raw gateway status means the payment went
// through. Comparison is case-insensitive; anything unknown is not approved.
func IsApproved(status string) bool {
	switch strings.ToLower(status) {
	case "paid", "approved", "completed":
		return true
	}
	return false
}

// OrderStatusOf maps a raw gateway status onto the order-tracking
// vocabulary. Unknown statuses fall back to waiting_payment: the safe
// reading of an unrecognized state is "not yet paid".
func OrderStatusOf(status string) domain.OrderStatus {
	switch strings.ToUpper(status) {
	case "APPROVED", "PAID", "COMPLETED":
		return domain.OrderStatusPaid
	case "WAITING_PAYMENT":
		return domain.OrderStatusWaitingPayment
	case "REFUNDED":
		return domain.OrderStatusRefunded
	case "REFUSED":
		return domain.OrderStatusRefused
	case "CHARGEDBACK":
		return domain.OrderStatusChargedback
	}
	return domain.OrderStatusWaitingPayment
}

// Tracking resolves UTM parameters: the five discrete payload fields win,
// otherwise the packed "k=v&k=v" string is parsed. Every key is always
// present, empty when unknown.
func Tracking(p *domain.WebhookPayload) domain.TrackingParameters {
	tp := domain.TrackingParameters{
		UTMSource:   p.UTMSource,
		UTMMedium:   p.UTMMedium,
		UTMCampaign: p.UTMCampaign,
		UTMContent:  p.UTMContent,
		UTMTerm:     p.UTMTerm,
	}
	if tp != (domain.TrackingParameters{}) || p.TrackingParameters == "" {
		return tp
	}

	pairs := strings.Split(p.TrackingParameters, "&")
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return domain.TrackingParameters{
		UTMSource:   values["utm_source"],
		UTMMedium:   values["utm_medium"],
		UTMCampaign: values["utm_campaign"],
		UTMContent:  values["utm_content"],
		UTMTerm:     values["utm_term"],
	}
}

// FirstName returns the leading whitespace-separated token of a full name.
func FirstName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// LastName returns the trailing token, or "" for single-token names so the
// ln hash slot stays absent rather than duplicating fn.
func LastName(name string) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}
