// AngelaMos | 2026
// handler.go

package billing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/slidecraft/internal/account"
	"github.com/carterperez-dev/slidecraft/internal/core"
	"github.com/carterperez-dev/slidecraft/internal/middleware"
)

const maxWebhookBody = 1 << 20

type AccountFetcher interface {
	GetAccount(ctx context.Context, id string) (*account.Account, error)
}

type Handler struct {
	service  *Service
	accounts AccountFetcher
	logger   *slog.Logger
}

func NewHandler(
	service *Service,
	accounts AccountFetcher,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		service:  service,
		accounts: accounts,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/billing", func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/subscribe", h.Subscribe)
		r.Get("/payments", h.ListPayments)
	})
}

// RegisterWebhookRoutes mounts the provider callback outside the
// versioned, authenticated API surface.
func (h *Handler) RegisterWebhookRoutes(r chi.Router) {
	r.Post("/webhooks/paystack", h.PaystackWebhook)
}

type checkoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	Reference   string `json:"reference"`
}

// Subscribe opens a Monthly Unlimited checkout for the current account.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())
	if accountID == "" {
		core.Unauthorized(w, "")
		return
	}

	acct, err := h.accounts.GetAccount(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "account")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if acct.HasActiveSubscription() {
		core.BadRequest(w, "subscription already active")
		return
	}

	session, err := h.service.StartSubscriptionCheckout(r.Context(), acct)
	if err != nil {
		var appErr *core.AppError
		if errors.As(err, &appErr) {
			core.JSONError(w, appErr)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, checkoutResponse{
		CheckoutURL: session.AuthorizationURL,
		Reference:   session.Reference,
	})
}

type paymentResponse struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Reference   string `json:"reference"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())
	if accountID == "" {
		core.Unauthorized(w, "")
		return
	}

	payments, err := h.service.ListPayments(r.Context(), accountID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentResponse{
			ID:          p.ID,
			Kind:        p.Kind,
			Reference:   p.Reference,
			AmountCents: p.AmountCents,
			Currency:    p.Currency,
			Status:      p.Status,
			CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	core.OK(w, map[string]any{"payments": out})
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Customer  struct {
			CustomerCode string `json:"customer_code"`
		} `json:"customer"`
	} `json:"data"`
}

// PaystackWebhook authenticates deliveries by HMAC signature, never by
// session. Paystack retries non-2xx responses, so handler errors that
// should be retried return 500 and everything else acknowledges.
func (h *Handler) PaystackWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		core.BadRequest(w, "unreadable body")
		return
	}

	signature := r.Header.Get("X-Paystack-Signature")
	if signature == "" || !h.service.VerifySignature(signature, body) {
		core.Unauthorized(w, "invalid signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		core.BadRequest(w, "malformed event")
		return
	}

	switch event.Event {
	case "charge.success":
		err = h.service.HandleChargeSuccess(
			r.Context(),
			event.Data.Reference,
			event.Data.Customer.CustomerCode,
		)

	case "charge.failed", "invoice.payment_failed":
		err = h.service.HandleChargeFailed(r.Context(), event.Data.Reference)

	case "subscription.disable", "subscription.not_renew":
		err = h.service.HandleSubscriptionDisable(
			r.Context(),
			event.Data.Customer.CustomerCode,
		)

	default:
		h.logger.Debug("ignoring webhook event", "event", event.Event)
	}

	if err != nil {
		h.logger.Error("webhook processing failed",
			"event", event.Event,
			"reference", event.Data.Reference,
			"error", err)
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]string{"status": "processed"})
}
