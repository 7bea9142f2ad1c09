// AngelaMos | 2026
// handler.go

package deck

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/slidecraft/internal/core"
	"github.com/carterperez-dev/slidecraft/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the presentation endpoints. The plan limiter
// runs after authentication so it can key on the account and its plan.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	planLimiter func(http.Handler) http.Handler,
) {
	r.Route("/presentations", func(r chi.Router) {
		r.Use(authenticator)
		if planLimiter != nil {
			r.Use(planLimiter)
		}
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{presentationID}", h.Get)
	})
}

// Create accepts a generation request. A 200 carries the finished
// presentation; a 402 carries the checkout the account must complete
// first.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())
	if accountID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req CreatePresentationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	outcome, err := h.service.Create(r.Context(), accountID, req)
	if err != nil {
		if errors.Is(err, ErrGoogleNotLinked) {
			core.BadRequest(
				w,
				"link a Google account before generating presentations",
			)
			return
		}
		var appErr *core.AppError
		if errors.As(err, &appErr) {
			core.JSONError(w, appErr)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if outcome.Checkout != nil {
		core.PaymentRequired(w, CheckoutRequiredResponse{
			Presentation: ToPresentationResponse(outcome.Presentation),
			CheckoutURL:  outcome.Checkout.AuthorizationURL,
			Reference:    outcome.Checkout.Reference,
			AmountCents:  outcome.AmountCents,
			Currency:     outcome.Currency,
		})
		return
	}

	core.Created(w, ToPresentationResponse(outcome.Presentation))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())
	if accountID == "" {
		core.Unauthorized(w, "")
		return
	}

	presentations, err := h.service.List(r.Context(), accountID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]any{
		"presentations": ToPresentationResponseList(presentations),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())
	if accountID == "" {
		core.Unauthorized(w, "")
		return
	}

	presentationID := chi.URLParam(r, "presentationID")

	presentation, err := h.service.Get(r.Context(), accountID, presentationID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "presentation")
			return
		}
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "not your presentation")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPresentationResponse(presentation))
}
