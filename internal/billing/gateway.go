// AngelaMos | 2026
// gateway.go

package billing

import (
	"fmt"
	"net/http"
	"time"

	paystack "github.com/rpip/paystack-go"

	"github.com/carterperez-dev/slidecraft/internal/config"
	"github.com/carterperez-dev/slidecraft/internal/core"
)

// CheckoutRequest describes one hosted-checkout initialization. Amount
// is in minor units. PlanCode switches the checkout into subscription
// mode; Paystack ignores Amount when a plan is attached.
type CheckoutRequest struct {
	Email       string
	AmountCents int64
	Currency    string
	Reference   string
	PlanCode    string
	Metadata    map[string]any
}

type CheckoutSession struct {
	AuthorizationURL string
	Reference        string
}

type VerifiedTransaction struct {
	Status        string
	Reference     string
	AmountCents   int64
	CustomerCode  string
	CustomerEmail string
}

// Gateway is the payment-provider seam. The production implementation
// wraps the Paystack REST client; tests substitute a fake.
type Gateway interface {
	InitializeCheckout(req CheckoutRequest) (*CheckoutSession, error)
	VerifyTransaction(reference string) (*VerifiedTransaction, error)
	EnsurePlan(name string, amountCents int64, interval string) (string, error)
}

type paystackGateway struct {
	client      *paystack.Client
	callbackURL string
}

func NewPaystackGateway(cfg config.PaystackConfig) Gateway {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	return &paystackGateway{
		client:      paystack.NewClient(cfg.SecretKey, httpClient),
		callbackURL: cfg.CallbackURL,
	}
}

func (g *paystackGateway) InitializeCheckout(
	req CheckoutRequest,
) (*CheckoutSession, error) {
	txn := &paystack.TransactionRequest{
		CallbackURL: g.callbackURL,
		Amount:      float32(req.AmountCents),
		Currency:    req.Currency,
		Email:       req.Email,
		Reference:   req.Reference,
		Plan:        req.PlanCode,
		Metadata:    req.Metadata,
	}

	resp, err := g.client.Transaction.Initialize(txn)
	if err != nil {
		return nil, core.VendorError("paystack", err)
	}

	authURL, ok := resp["authorization_url"].(string)
	if !ok || authURL == "" {
		return nil, core.VendorError(
			"paystack",
			fmt.Errorf("initialize response missing authorization_url"),
		)
	}

	reference := req.Reference
	if ref, ok := resp["reference"].(string); ok && ref != "" {
		reference = ref
	}

	return &CheckoutSession{
		AuthorizationURL: authURL,
		Reference:        reference,
	}, nil
}

func (g *paystackGateway) VerifyTransaction(
	reference string,
) (*VerifiedTransaction, error) {
	txn, err := g.client.Transaction.Verify(reference)
	if err != nil {
		return nil, core.VendorError("paystack", err)
	}

	return &VerifiedTransaction{
		Status:        txn.Status,
		Reference:     txn.Reference,
		AmountCents:   int64(txn.Amount),
		CustomerCode:  txn.Customer.CustomerCode,
		CustomerEmail: txn.Customer.Email,
	}, nil
}

// EnsurePlan finds the subscription plan by name, creating it on first
// use. Paystack has no get-by-name, so this lists and scans.
func (g *paystackGateway) EnsurePlan(
	name string,
	amountCents int64,
	interval string,
) (string, error) {
	plans, err := g.client.Plan.List()
	if err != nil {
		return "", core.VendorError("paystack", err)
	}

	for _, p := range plans.Values {
		if p.Name == name {
			return p.PlanCode, nil
		}
	}

	created, err := g.client.Plan.Create(&paystack.Plan{
		Name:     name,
		Amount:   float32(amountCents),
		Interval: interval,
	})
	if err != nil {
		return "", core.VendorError("paystack", err)
	}

	return created.PlanCode, nil
}
