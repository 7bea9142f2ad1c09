// AngelaMos | 2026
// service.go

package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/carterperez-dev/slidecraft/internal/account"
	"github.com/carterperez-dev/slidecraft/internal/billing"
	"github.com/carterperez-dev/slidecraft/internal/config"
	"github.com/carterperez-dev/slidecraft/internal/core"
	"github.com/carterperez-dev/slidecraft/internal/outline"
	"github.com/carterperez-dev/slidecraft/internal/slides"
	"github.com/carterperez-dev/slidecraft/internal/theme"
)

var ErrGoogleNotLinked = errors.New("google account not linked")

// BillingGate is the billing surface the workflow consults before any
// generation starts.
type BillingGate interface {
	Evaluate(acct *account.Account, numSlides int) billing.Decision
	StartOneTimeCheckout(
		ctx context.Context,
		acct *account.Account,
		presentationID string,
		amountCents int64,
	) (*billing.CheckoutSession, error)
}

type AccountStore interface {
	GetAccount(ctx context.Context, id string) (*account.Account, error)
	RecordPresentationUsed(ctx context.Context, accountID string) (int, error)
}

// TokenSourcer rebuilds Google credentials from a stored refresh token.
type TokenSourcer interface {
	TokenSource(ctx context.Context, refreshToken string) oauth2.TokenSource
}

type Service struct {
	repo      Repository
	accounts  AccountStore
	billing   BillingGate
	generator outline.Generator
	builder   slides.Builder
	google    TokenSourcer
	cfg       config.BillingConfig
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	accounts AccountStore,
	billingGate BillingGate,
	generator outline.Generator,
	builder slides.Builder,
	google TokenSourcer,
	cfg config.BillingConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		accounts:  accounts,
		billing:   billingGate,
		generator: generator,
		builder:   builder,
		google:    google,
		cfg:       cfg,
		logger:    logger,
	}
}

// CreateOutcome is the result of a creation request. Checkout is nil
// when the billing gate let the generation run immediately.
type CreateOutcome struct {
	Presentation *Presentation
	Checkout     *billing.CheckoutSession
	AmountCents  int64
	Currency     string
}

// Create runs the full workflow: billing gate, then either an inline
// generation or a parked presentation plus a checkout session.
func (s *Service) Create(
	ctx context.Context,
	accountID string,
	req CreatePresentationRequest,
) (*CreateOutcome, error) {
	acct, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if acct.GoogleRefreshToken == nil || *acct.GoogleRefreshToken == "" {
		return nil, ErrGoogleNotLinked
	}

	// Unknown theme IDs silently fall back to the default.
	th := theme.Lookup(req.ThemeID)

	decision := s.billing.Evaluate(acct, req.NumSlides)

	presentation := &Presentation{
		ID:        uuid.New().String(),
		AccountID: acct.ID,
		Title:     req.Title,
		NumSlides: req.NumSlides,
		ThemeID:   th.ID,
	}

	if decision.Granted() {
		presentation.Status = StatusProcessing
		if err := s.repo.Create(ctx, presentation); err != nil {
			return nil, err
		}

		s.logger.Info("generating presentation",
			"presentation_id", presentation.ID,
			"account_id", acct.ID,
			"billing", decision.Action.String())

		if err := s.generate(ctx, presentation, acct); err != nil {
			return nil, err
		}

		return &CreateOutcome{Presentation: presentation}, nil
	}

	presentation.Status = StatusPendingPayment
	if err := s.repo.Create(ctx, presentation); err != nil {
		return nil, err
	}

	session, err := s.billing.StartOneTimeCheckout(
		ctx,
		acct,
		presentation.ID,
		decision.AmountCents,
	)
	if err != nil {
		//nolint:errcheck // the caller's error already reports the failure
		_ = s.repo.MarkFailed(ctx, presentation.ID, "checkout initialization failed")
		return nil, err
	}

	s.logger.Info("presentation awaiting payment",
		"presentation_id", presentation.ID,
		"account_id", acct.ID,
		"amount_cents", decision.AmountCents)

	return &CreateOutcome{
		Presentation: presentation,
		Checkout:     session,
		AmountCents:  decision.AmountCents,
		Currency:     s.cfg.Currency,
	}, nil
}

// RunDeferred resumes a presentation parked behind a checkout. Called
// by the billing webhook on charge.success. The claim transition makes
// redelivered webhooks no-ops.
func (s *Service) RunDeferred(ctx context.Context, presentationID string) error {
	if err := s.repo.ClaimForProcessing(ctx, presentationID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			existing, getErr := s.repo.GetByID(ctx, presentationID)
			if getErr == nil && existing.IsTerminal() {
				s.logger.Info("deferred run skipped, presentation already settled",
					"presentation_id", presentationID,
					"status", existing.Status)
			} else {
				s.logger.Info("deferred run skipped, not awaiting payment",
					"presentation_id", presentationID)
			}
			return nil
		}
		return err
	}

	presentation, err := s.repo.GetByID(ctx, presentationID)
	if err != nil {
		return err
	}

	acct, err := s.accounts.GetAccount(ctx, presentation.AccountID)
	if err != nil {
		s.failWith(ctx, presentationID, "account unavailable")
		return err
	}

	if err := s.generate(ctx, presentation, acct); err != nil {
		return err
	}

	return nil
}

// generate runs the vendor pipeline and settles the row: outline from
// the model, slides on the account's Drive, then completion and the
// usage increment. The increment comes last so a failed generation
// never burns quota.
func (s *Service) generate(
	ctx context.Context,
	presentation *Presentation,
	acct *account.Account,
) error {
	if acct.GoogleRefreshToken == nil || *acct.GoogleRefreshToken == "" {
		s.failWith(ctx, presentation.ID, "google account not linked")
		return ErrGoogleNotLinked
	}

	content, err := s.generator.Generate(
		ctx,
		presentation.Title,
		presentation.NumSlides,
	)
	if err != nil {
		s.failWith(ctx, presentation.ID, "content generation failed")
		return err
	}

	tokenSource := s.google.TokenSource(ctx, *acct.GoogleRefreshToken)

	built, err := s.builder.Build(
		ctx,
		tokenSource,
		content,
		theme.Lookup(presentation.ThemeID),
	)
	if err != nil {
		s.failWith(ctx, presentation.ID, "slides creation failed")
		return err
	}

	if err := s.repo.MarkCompleted(
		ctx,
		presentation.ID,
		built.PresentationID,
		built.URL,
	); err != nil {
		return err
	}

	used, err := s.accounts.RecordPresentationUsed(ctx, acct.ID)
	if err != nil {
		// The deck exists, so surface the miscount but do not fail the
		// request.
		s.logger.Error("usage increment failed",
			"account_id", acct.ID, "error", err)
	} else {
		s.logger.Info("presentation completed",
			"presentation_id", presentation.ID,
			"account_id", acct.ID,
			"presentations_used", used)
	}

	presentation.Status = StatusCompleted
	presentation.GoogleID = &built.PresentationID
	presentation.URL = &built.URL

	return nil
}

func (s *Service) failWith(ctx context.Context, presentationID, reason string) {
	if err := s.repo.MarkFailed(ctx, presentationID, reason); err != nil {
		s.logger.Error("mark presentation failed",
			"presentation_id", presentationID, "error", err)
	}
}

// Get returns a presentation, enforcing ownership.
func (s *Service) Get(
	ctx context.Context,
	accountID, presentationID string,
) (*Presentation, error) {
	presentation, err := s.repo.GetByID(ctx, presentationID)
	if err != nil {
		return nil, err
	}

	if presentation.AccountID != accountID {
		return nil, fmt.Errorf("get presentation: %w", core.ErrForbidden)
	}

	return presentation, nil
}

// List returns the account's presentations, newest first.
func (s *Service) List(
	ctx context.Context,
	accountID string,
) ([]Presentation, error) {
	return s.repo.ListForAccount(ctx, accountID)
}

var _ billing.DeferredRunner = (*Service)(nil)
