// AngelaMos | 2026
// webhook_test.go

package billing

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/slidecraft/internal/account"
	"github.com/carterperez-dev/slidecraft/internal/config"
	"github.com/carterperez-dev/slidecraft/internal/core"
)

type fakeRepo struct {
	payments map[string]*Payment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{payments: map[string]*Payment{}}
}

func (f *fakeRepo) Create(_ context.Context, p *Payment) error {
	f.payments[p.Reference] = p
	return nil
}

func (f *fakeRepo) GetByReference(
	_ context.Context,
	ref string,
) (*Payment, error) {
	p, ok := f.payments[ref]
	if !ok {
		return nil, core.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) MarkStatus(_ context.Context, ref, status string) error {
	p, ok := f.payments[ref]
	if !ok || p.Status != StatusPending {
		return core.ErrNotFound
	}
	p.Status = status
	return nil
}

func (f *fakeRepo) ListForAccount(
	_ context.Context,
	accountID string,
) ([]Payment, error) {
	var out []Payment
	for _, p := range f.payments {
		if p.AccountID == accountID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeDirectory struct {
	activated  map[string]time.Time
	cancelled  map[string]bool
	customers  map[string]string
	byCustomer map[string]*account.Account
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		activated:  map[string]time.Time{},
		cancelled:  map[string]bool{},
		customers:  map[string]string{},
		byCustomer: map[string]*account.Account{},
	}
}

func (f *fakeDirectory) GetByPaystackCustomer(
	_ context.Context,
	code string,
) (*account.Account, error) {
	acct, ok := f.byCustomer[code]
	if !ok {
		return nil, core.ErrNotFound
	}
	return acct, nil
}

func (f *fakeDirectory) ActivateSubscription(
	_ context.Context,
	accountID string,
	expiresAt time.Time,
) error {
	f.activated[accountID] = expiresAt
	return nil
}

func (f *fakeDirectory) CancelSubscription(
	_ context.Context,
	accountID string,
) error {
	f.cancelled[accountID] = true
	return nil
}

func (f *fakeDirectory) SetPaystackCustomer(
	_ context.Context,
	accountID, code string,
) error {
	f.customers[accountID] = code
	return nil
}

type fakeRunner struct {
	resumed []string
}

func (f *fakeRunner) RunDeferred(_ context.Context, presentationID string) error {
	f.resumed = append(f.resumed, presentationID)
	return nil
}

const testSecret = "sk_test_webhook"

func newTestService(
	repo Repository,
	dir AccountDirectory,
) *Service {
	return NewService(
		repo,
		nil,
		dir,
		config.BillingConfig{
			FreeQuota:        3,
			SlidePriceCents:  20,
			PlanName:         "Monthly Unlimited",
			PlanAmountCents:  299,
			PlanInterval:     "monthly",
			SubscriptionDays: 30,
			Currency:         "USD",
		},
		config.PaystackConfig{SecretKey: testSecret},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func sign(body []byte) string {
	mac := hmac.New(sha512.New, []byte(testSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeDirectory())
	body := []byte(`{"event":"charge.success"}`)

	assert.True(t, svc.VerifySignature(sign(body), body))
	assert.False(t, svc.VerifySignature(sign(body), []byte(`tampered`)))
	assert.False(t, svc.VerifySignature("deadbeef", body))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeDirectory())
	h := NewHandler(svc, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1"}}`)
	req := httptest.NewRequest(
		http.MethodPost,
		"/webhooks/paystack",
		bytes.NewReader(body),
	)
	req.Header.Set("X-Paystack-Signature", "not-a-signature")

	rec := httptest.NewRecorder()
	h.PaystackWebhook(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChargeSuccessResumesDeferredGeneration(t *testing.T) {
	repo := newFakeRepo()
	dir := newFakeDirectory()
	svc := newTestService(repo, dir)

	runner := &fakeRunner{}
	svc.SetDeferredRunner(runner)

	presID := "pres-42"
	require.NoError(t, repo.Create(context.Background(), &Payment{
		ID:             "pay-1",
		AccountID:      "acct-1",
		PresentationID: &presID,
		Kind:           KindOneTime,
		Reference:      "ref-1",
		Status:         StatusPending,
	}))

	err := svc.HandleChargeSuccess(context.Background(), "ref-1", "CUS_x")
	require.NoError(t, err)

	assert.Equal(t, []string{"pres-42"}, runner.resumed)
	assert.Equal(t, StatusSuccess, repo.payments["ref-1"].Status)
	assert.Equal(t, "CUS_x", dir.customers["acct-1"])
}

func TestChargeSuccessIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeDirectory())

	runner := &fakeRunner{}
	svc.SetDeferredRunner(runner)

	presID := "pres-42"
	require.NoError(t, repo.Create(context.Background(), &Payment{
		ID:             "pay-1",
		AccountID:      "acct-1",
		PresentationID: &presID,
		Kind:           KindOneTime,
		Reference:      "ref-1",
		Status:         StatusPending,
	}))

	require.NoError(
		t,
		svc.HandleChargeSuccess(context.Background(), "ref-1", ""),
	)
	require.NoError(
		t,
		svc.HandleChargeSuccess(context.Background(), "ref-1", ""),
	)

	// The second delivery must not re-run generation.
	assert.Len(t, runner.resumed, 1)
}

func TestChargeSuccessActivatesSubscription(t *testing.T) {
	repo := newFakeRepo()
	dir := newFakeDirectory()
	svc := newTestService(repo, dir)

	require.NoError(t, repo.Create(context.Background(), &Payment{
		ID:        "pay-2",
		AccountID: "acct-2",
		Kind:      KindSubscription,
		Reference: "ref-2",
		Status:    StatusPending,
	}))

	err := svc.HandleChargeSuccess(context.Background(), "ref-2", "CUS_y")
	require.NoError(t, err)

	expiresAt, ok := dir.activated["acct-2"]
	require.True(t, ok)

	// 30-day subscription window.
	assert.WithinDuration(
		t,
		time.Now().AddDate(0, 0, 30),
		expiresAt,
		time.Minute,
	)
}

func TestSubscriptionDisableDowngrades(t *testing.T) {
	dir := newFakeDirectory()
	dir.byCustomer["CUS_z"] = &account.Account{ID: "acct-3"}

	svc := newTestService(newFakeRepo(), dir)

	err := svc.HandleSubscriptionDisable(context.Background(), "CUS_z")
	require.NoError(t, err)
	assert.True(t, dir.cancelled["acct-3"])
}

func TestSubscriptionDisableUnknownCustomerIsNoop(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeDirectory())

	err := svc.HandleSubscriptionDisable(context.Background(), "CUS_missing")
	assert.NoError(t, err)
}
