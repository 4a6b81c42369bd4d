package entitlement

import (
	"errors"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76/webhook"
)

// ErrInvalidSignature is returned for payloads that fail verification.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Event is the part of a provider event the sync needs.
type Event struct {
	ID         string
	Type       string
	Created    time.Time
	CustomerID string
}

var allowedEvents = map[string]struct{}{
	"checkout.session.completed":               {},
	"checkout.session.async_payment_succeeded": {},
	"checkout.session.async_payment_failed":    {},
	"checkout.session.expired":                 {},
	"payment_intent.succeeded":                 {},
	"payment_intent.payment_failed":            {},
	"charge.refunded":                          {},
}

// Allowed reports whether events of this type trigger a sync.
func Allowed(eventType string) bool {
	_, ok := allowedEvents[eventType]
	return ok
}

// ParseWebhook verifies the signature header against secret and extracts the
// event. Any verification failure yields ErrInvalidSignature.
func ParseWebhook(payload []byte, signature, secret string) (Event, error) {
	if secret == "" || signature == "" {
		return Event{}, ErrInvalidSignature
	}
	ev, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, errors.Join(ErrInvalidSignature, err)
	}

	out := Event{
		ID:      ev.ID,
		Type:    string(ev.Type),
		Created: time.Unix(ev.Created, 0).UTC(),
	}
	if ev.Data != nil {
		out.CustomerID = customerFromObject(ev.Data.Object)
	}
	return out, nil
}

// customerFromObject finds the customer id on an event object, which is
// either a customer itself or carries a "customer" field that may be
// expanded.
func customerFromObject(obj map[string]any) string {
	if obj == nil {
		return ""
	}
	if kind, _ := obj["object"].(string); kind == "customer" {
		id, _ := obj["id"].(string)
		return id
	}
	switch c := obj["customer"].(type) {
	case string:
		return strings.TrimSpace(c)
	case map[string]any:
		id, _ := c["id"].(string)
		return id
	}
	return ""
}
