// AngelaMos | 2026
// decision_test.go

package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/slidecraft/internal/account"
)

const (
	testFreeQuota  = 3
	testSlidePrice = int64(20)
)

func testAccount(plan string, used int, expiresAt *time.Time) *account.Account {
	return &account.Account{
		ID:                    "acct-1",
		Plan:                  plan,
		PresentationsUsed:     used,
		SubscriptionExpiresAt: expiresAt,
	}
}

func TestEvaluateFreeQuota(t *testing.T) {
	for used := 0; used < testFreeQuota; used++ {
		d := Evaluate(
			testAccount(account.PlanFree, used, nil),
			5,
			testFreeQuota,
			testSlidePrice,
		)
		assert.Equal(t, ActionGrantFree, d.Action, "used=%d", used)
		assert.True(t, d.Granted())
	}
}

func TestEvaluateChargesPastQuota(t *testing.T) {
	d := Evaluate(
		testAccount(account.PlanFree, testFreeQuota, nil),
		5,
		testFreeQuota,
		testSlidePrice,
	)

	assert.Equal(t, ActionCharge, d.Action)
	assert.False(t, d.Granted())
	// 5 slides at 20 cents each.
	assert.Equal(t, int64(100), d.AmountCents)
}

func TestEvaluateChargeScalesWithSlides(t *testing.T) {
	for _, numSlides := range []int{3, 7, 10} {
		d := Evaluate(
			testAccount(account.PlanFree, 50, nil),
			numSlides,
			testFreeQuota,
			testSlidePrice,
		)
		assert.Equal(t, int64(numSlides)*testSlidePrice, d.AmountCents)
	}
}

func TestEvaluateActiveSubscriptionBypassesQuota(t *testing.T) {
	expires := time.Now().Add(20 * 24 * time.Hour)

	d := Evaluate(
		testAccount(account.PlanPremium, 100, &expires),
		10,
		testFreeQuota,
		testSlidePrice,
	)

	assert.Equal(t, ActionGrantSubscribed, d.Action)
	assert.True(t, d.Granted())
}

func TestEvaluateExpiredSubscriptionCharges(t *testing.T) {
	expired := time.Now().Add(-time.Hour)

	d := Evaluate(
		testAccount(account.PlanPremium, 10, &expired),
		4,
		testFreeQuota,
		testSlidePrice,
	)

	assert.Equal(t, ActionCharge, d.Action)
	assert.Equal(t, int64(80), d.AmountCents)
}

func TestEvaluateSubscriptionWithinQuotaStillFree(t *testing.T) {
	// An expired premium account with remaining free quota falls back
	// to the free grant, not a charge.
	expired := time.Now().Add(-time.Hour)

	d := Evaluate(
		testAccount(account.PlanPremium, 1, &expired),
		5,
		testFreeQuota,
		testSlidePrice,
	)

	assert.Equal(t, ActionGrantFree, d.Action)
}

func TestEvaluatePremiumWithoutExpiryCharges(t *testing.T) {
	// A premium plan with no recorded expiry is treated as inactive.
	d := Evaluate(
		testAccount(account.PlanPremium, 10, nil),
		3,
		testFreeQuota,
		testSlidePrice,
	)

	assert.Equal(t, ActionCharge, d.Action)
}
