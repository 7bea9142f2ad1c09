// AngelaMos | 2026
// service.go

package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/slidecraft/internal/account"
	"github.com/carterperez-dev/slidecraft/internal/config"
	"github.com/carterperez-dev/slidecraft/internal/core"
)

// DeferredRunner resumes a presentation whose generation was parked
// behind a checkout. The deck service implements it; the indirection
// keeps billing from importing deck.
type DeferredRunner interface {
	RunDeferred(ctx context.Context, presentationID string) error
}

// AccountDirectory is the slice of the account service billing needs.
type AccountDirectory interface {
	GetByPaystackCustomer(
		ctx context.Context,
		customerCode string,
	) (*account.Account, error)
	ActivateSubscription(
		ctx context.Context,
		accountID string,
		expiresAt time.Time,
	) error
	CancelSubscription(ctx context.Context, accountID string) error
	SetPaystackCustomer(ctx context.Context, accountID, customerCode string) error
}

type Service struct {
	repo     Repository
	gateway  Gateway
	accounts AccountDirectory
	cfg      config.BillingConfig
	secret   string
	logger   *slog.Logger

	runner DeferredRunner

	planMu   sync.Mutex
	planCode string
}

func NewService(
	repo Repository,
	gateway Gateway,
	accounts AccountDirectory,
	billingCfg config.BillingConfig,
	paystackCfg config.PaystackConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		gateway:  gateway,
		accounts: accounts,
		cfg:      billingCfg,
		secret:   paystackCfg.SecretKey,
		logger:   logger,
	}
}

// SetDeferredRunner wires the deck service in after construction, since
// deck and billing reference each other.
func (s *Service) SetDeferredRunner(runner DeferredRunner) {
	s.runner = runner
}

// Evaluate applies the billing gate for one generation request.
func (s *Service) Evaluate(
	acct *account.Account,
	numSlides int,
) Decision {
	return Evaluate(acct, numSlides, s.cfg.FreeQuota, s.cfg.SlidePriceCents)
}

// StartOneTimeCheckout opens a hosted checkout for a single deck. The
// pending payment row carries the presentation ID so the webhook can
// resume generation once the charge settles.
func (s *Service) StartOneTimeCheckout(
	ctx context.Context,
	acct *account.Account,
	presentationID string,
	amountCents int64,
) (*CheckoutSession, error) {
	reference := uuid.New().String()

	payment := &Payment{
		ID:             uuid.New().String(),
		AccountID:      acct.ID,
		PresentationID: &presentationID,
		Kind:           KindOneTime,
		Reference:      reference,
		AmountCents:    amountCents,
		Currency:       s.cfg.Currency,
		Status:         StatusPending,
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("record pending payment: %w", err)
	}

	session, err := s.gateway.InitializeCheckout(CheckoutRequest{
		Email:       acct.Email,
		AmountCents: amountCents,
		Currency:    s.cfg.Currency,
		Reference:   reference,
		Metadata: map[string]any{
			"account_id":      acct.ID,
			"presentation_id": presentationID,
			"kind":            KindOneTime,
		},
	})
	if err != nil {
		//nolint:errcheck // best-effort cleanup of the orphaned row
		_ = s.repo.MarkStatus(ctx, reference, StatusFailed)
		return nil, err
	}

	return session, nil
}

// StartSubscriptionCheckout opens a hosted checkout that attaches the
// monthly plan, creating the plan on Paystack the first time through.
func (s *Service) StartSubscriptionCheckout(
	ctx context.Context,
	acct *account.Account,
) (*CheckoutSession, error) {
	planCode, err := s.ensurePlan()
	if err != nil {
		return nil, err
	}

	reference := uuid.New().String()

	payment := &Payment{
		ID:          uuid.New().String(),
		AccountID:   acct.ID,
		Kind:        KindSubscription,
		Reference:   reference,
		AmountCents: s.cfg.PlanAmountCents,
		Currency:    s.cfg.Currency,
		Status:      StatusPending,
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("record pending payment: %w", err)
	}

	session, err := s.gateway.InitializeCheckout(CheckoutRequest{
		Email:       acct.Email,
		AmountCents: s.cfg.PlanAmountCents,
		Currency:    s.cfg.Currency,
		Reference:   reference,
		PlanCode:    planCode,
		Metadata: map[string]any{
			"account_id": acct.ID,
			"kind":       KindSubscription,
		},
	})
	if err != nil {
		//nolint:errcheck // best-effort cleanup of the orphaned row
		_ = s.repo.MarkStatus(ctx, reference, StatusFailed)
		return nil, err
	}

	return session, nil
}

// ensurePlan memoizes the plan code on success only, so a gateway
// outage during one checkout does not poison every later one.
func (s *Service) ensurePlan() (string, error) {
	s.planMu.Lock()
	defer s.planMu.Unlock()

	if s.planCode != "" {
		return s.planCode, nil
	}

	code, err := s.gateway.EnsurePlan(
		s.cfg.PlanName,
		s.cfg.PlanAmountCents,
		s.cfg.PlanInterval,
	)
	if err != nil {
		return "", err
	}

	s.planCode = code
	return s.planCode, nil
}

// ListPayments returns the account's payment history, newest first.
func (s *Service) ListPayments(
	ctx context.Context,
	accountID string,
) ([]Payment, error) {
	return s.repo.ListForAccount(ctx, accountID)
}

// VerifySignature checks the X-Paystack-Signature header: an HMAC
// SHA-512 of the raw request body keyed with the secret key.
func (s *Service) VerifySignature(signature string, body []byte) bool {
	mac := hmac.New(sha512.New, []byte(s.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HandleChargeSuccess settles the referenced payment. Duplicate
// deliveries are absorbed by the pending-only status transition.
func (s *Service) HandleChargeSuccess(
	ctx context.Context,
	reference, customerCode string,
) error {
	if err := s.repo.MarkStatus(ctx, reference, StatusSuccess); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.logger.Info("webhook for unknown or settled payment",
				"reference", reference)
			return nil
		}
		return err
	}

	payment, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return err
	}

	if customerCode != "" {
		if err := s.accounts.SetPaystackCustomer(
			ctx,
			payment.AccountID,
			customerCode,
		); err != nil {
			s.logger.Warn("store paystack customer code",
				"account_id", payment.AccountID, "error", err)
		}
	}

	switch payment.Kind {
	case KindSubscription:
		expiresAt := time.Now().AddDate(0, 0, s.cfg.SubscriptionDays)
		if err := s.accounts.ActivateSubscription(
			ctx,
			payment.AccountID,
			expiresAt,
		); err != nil {
			return fmt.Errorf("activate subscription: %w", err)
		}

	case KindOneTime:
		if payment.PresentationID == nil {
			return nil
		}
		if s.runner == nil {
			return errors.New("deferred runner not wired")
		}
		if err := s.runner.RunDeferred(ctx, *payment.PresentationID); err != nil {
			return fmt.Errorf("resume presentation: %w", err)
		}
	}

	return nil
}

// HandleChargeFailed records a failed or abandoned checkout.
func (s *Service) HandleChargeFailed(
	ctx context.Context,
	reference string,
) error {
	err := s.repo.MarkStatus(ctx, reference, StatusFailed)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	return err
}

// HandleSubscriptionDisable drops the affected account to the free
// plan when Paystack reports a cancelled or non-renewing subscription.
func (s *Service) HandleSubscriptionDisable(
	ctx context.Context,
	customerCode string,
) error {
	acct, err := s.accounts.GetByPaystackCustomer(ctx, customerCode)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.logger.Info("subscription disable for unknown customer",
				"customer_code", customerCode)
			return nil
		}
		return err
	}

	if err := s.accounts.CancelSubscription(ctx, acct.ID); err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}

	return nil
}
