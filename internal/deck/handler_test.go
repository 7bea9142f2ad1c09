// AngelaMos | 2026
// handler_test.go

package deck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/slidecraft/internal/billing"
	"github.com/carterperez-dev/slidecraft/internal/config"
	"github.com/carterperez-dev/slidecraft/internal/middleware"
)

func newHandlerForTest() *Handler {
	svc := NewService(
		newMemRepo(),
		newFakeAccounts(linkedAccount("acct-1")),
		&fakeGate{decision: billing.Decision{Action: billing.ActionGrantFree}},
		&fakeGenerator{},
		&fakeBuilder{},
		fakeTokens{},
		config.BillingConfig{Currency: "USD"},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return NewHandler(svc)
}

func postCreate(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(
		http.MethodPost,
		"/presentations",
		bytes.NewBufferString(body),
	)
	req = req.WithContext(context.WithValue(
		req.Context(),
		middleware.AccountIDKey,
		"acct-1",
	))

	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func TestCreateRejectsSlideCountOutOfBounds(t *testing.T) {
	h := newHandlerForTest()

	for _, numSlides := range []int{0, 1, 2, 11, 50} {
		body := fmt.Sprintf(
			`{"title":"Deck","num_slides":%d,"theme_id":"dark"}`,
			numSlides,
		)
		rec := postCreate(t, h, body)
		assert.Equal(
			t,
			http.StatusBadRequest,
			rec.Code,
			"num_slides=%d",
			numSlides,
		)
	}
}

func TestCreateRejectsMissingTitle(t *testing.T) {
	h := newHandlerForTest()

	rec := postCreate(t, h, `{"num_slides":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAcceptsBoundsInclusive(t *testing.T) {
	h := newHandlerForTest()

	for _, numSlides := range []int{3, 10} {
		body := fmt.Sprintf(`{"title":"Deck","num_slides":%d}`, numSlides)
		rec := postCreate(t, h, body)
		assert.Equal(
			t,
			http.StatusCreated,
			rec.Code,
			"num_slides=%d",
			numSlides,
		)
	}
}

func TestCreateReturns402WithCheckout(t *testing.T) {
	svc := NewService(
		newMemRepo(),
		newFakeAccounts(linkedAccount("acct-1")),
		&fakeGate{decision: billing.Decision{
			Action:      billing.ActionCharge,
			AmountCents: 160,
		}},
		&fakeGenerator{},
		&fakeBuilder{},
		fakeTokens{},
		config.BillingConfig{Currency: "USD"},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	h := NewHandler(svc)

	rec := postCreate(t, h, `{"title":"Deck","num_slides":8}`)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			CheckoutURL string `json:"checkout_url"`
			AmountCents int64  `json:"amount_cents"`
			Currency    string `json:"currency"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Data.CheckoutURL)
	assert.Equal(t, int64(160), body.Data.AmountCents)
	assert.Equal(t, "USD", body.Data.Currency)
}

func TestCreateRequiresAuth(t *testing.T) {
	h := newHandlerForTest()

	req := httptest.NewRequest(
		http.MethodPost,
		"/presentations",
		bytes.NewBufferString(`{"title":"Deck","num_slides":5}`),
	)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterRoutesAppliesPlanLimiter(t *testing.T) {
	h := newHandlerForTest()

	authenticator := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.AccountIDKey, "acct-1")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	var limited int
	planLimiter := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limited++
			// The limiter keys on the account, so it must see the
			// authenticated context.
			require.Equal(t, "acct-1", middleware.GetAccountID(r.Context()))
			next.ServeHTTP(w, r)
		})
	}

	router := chi.NewRouter()
	h.RegisterRoutes(router, authenticator, planLimiter)

	req := httptest.NewRequest(http.MethodGet, "/presentations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, limited)
}
