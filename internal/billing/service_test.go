// AngelaMos | 2026
// service_test.go

package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/slidecraft/internal/account"
)

type fakeGateway struct {
	planCalls    int
	planFailures int
	initCalls    int
}

func (f *fakeGateway) InitializeCheckout(
	req CheckoutRequest,
) (*CheckoutSession, error) {
	f.initCalls++
	return &CheckoutSession{
		AuthorizationURL: "https://checkout.paystack.com/" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

func (f *fakeGateway) VerifyTransaction(
	reference string,
) (*VerifiedTransaction, error) {
	return &VerifiedTransaction{Status: "success", Reference: reference}, nil
}

func (f *fakeGateway) EnsurePlan(
	name string,
	amountCents int64,
	interval string,
) (string, error) {
	f.planCalls++
	if f.planCalls <= f.planFailures {
		return "", errors.New("paystack briefly unreachable")
	}
	return "PLN_unlimited", nil
}

func TestSubscriptionCheckoutRecoversFromPlanOutage(t *testing.T) {
	gateway := &fakeGateway{planFailures: 1}

	svc := newTestService(newFakeRepo(), newFakeDirectory())
	svc.gateway = gateway

	acct := &account.Account{ID: "acct-1", Email: "ada@example.com"}

	_, err := svc.StartSubscriptionCheckout(context.Background(), acct)
	require.Error(t, err)

	// The failed lookup must not be cached; the next checkout retries.
	session, err := svc.StartSubscriptionCheckout(context.Background(), acct)
	require.NoError(t, err)
	assert.NotEmpty(t, session.AuthorizationURL)
}

func TestEnsurePlanMemoizesSuccess(t *testing.T) {
	gateway := &fakeGateway{}

	svc := newTestService(newFakeRepo(), newFakeDirectory())
	svc.gateway = gateway

	acct := &account.Account{ID: "acct-1", Email: "ada@example.com"}

	for range 3 {
		_, err := svc.StartSubscriptionCheckout(context.Background(), acct)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, gateway.planCalls)
	assert.Equal(t, 3, gateway.initCalls)
}
