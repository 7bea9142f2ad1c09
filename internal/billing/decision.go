// AngelaMos | 2026
// decision.go

package billing

import (
	"github.com/carterperez-dev/slidecraft/internal/account"
)

type Action int

const (
	// ActionGrantFree lets the generation through on the free quota.
	ActionGrantFree Action = iota
	// ActionGrantSubscribed lets it through on an active subscription.
	ActionGrantSubscribed
	// ActionCharge requires a one-time payment before generating.
	ActionCharge
)

func (a Action) String() string {
	switch a {
	case ActionGrantFree:
		return "grant_free"
	case ActionGrantSubscribed:
		return "grant_subscribed"
	case ActionCharge:
		return "charge"
	default:
		return "unknown"
	}
}

type Decision struct {
	Action      Action
	AmountCents int64
}

// Granted reports whether generation may proceed without payment.
func (d Decision) Granted() bool {
	return d.Action != ActionCharge
}

// Evaluate applies the billing gate, checked in order: unexpired
// subscription, then remaining free quota, then pay-per-deck. Pure
// function so the decision table is directly testable.
func Evaluate(
	acct *account.Account,
	numSlides int,
	freeQuota int,
	slidePriceCents int64,
) Decision {
	if acct.HasActiveSubscription() {
		return Decision{Action: ActionGrantSubscribed}
	}

	if acct.PresentationsUsed < freeQuota {
		return Decision{Action: ActionGrantFree}
	}

	return Decision{
		Action:      ActionCharge,
		AmountCents: int64(numSlides) * slidePriceCents,
	}
}
