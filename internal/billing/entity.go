// AngelaMos | 2026
// entity.go

package billing

import (
	"time"
)

// Payment is one Paystack checkout, either a per-deck charge or a
// subscription purchase. The reference is ours, minted at checkout and
// echoed back by the webhook.
type Payment struct {
	ID             string    `db:"id"`
	AccountID      string    `db:"account_id"`
	PresentationID *string   `db:"presentation_id"`
	Kind           string    `db:"kind"`
	Reference      string    `db:"reference"`
	AmountCents    int64     `db:"amount_cents"`
	Currency       string    `db:"currency"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

const (
	KindOneTime      = "one_time"
	KindSubscription = "subscription"
)

const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)
