// AngelaMos | 2026
// service_test.go

package deck

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/carterperez-dev/slidecraft/internal/account"
	"github.com/carterperez-dev/slidecraft/internal/billing"
	"github.com/carterperez-dev/slidecraft/internal/config"
	"github.com/carterperez-dev/slidecraft/internal/core"
	"github.com/carterperez-dev/slidecraft/internal/outline"
	"github.com/carterperez-dev/slidecraft/internal/slides"
	"github.com/carterperez-dev/slidecraft/internal/theme"
)

type memRepo struct {
	mu   sync.Mutex
	rows map[string]*Presentation
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string]*Presentation{}}
}

func (m *memRepo) Create(_ context.Context, p *Presentation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Presentation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) ListForAccount(
	_ context.Context,
	accountID string,
) ([]Presentation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Presentation
	for _, p := range m.rows {
		if p.AccountID == accountID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memRepo) ClaimForProcessing(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok || p.Status != StatusPendingPayment {
		return core.ErrNotFound
	}
	p.Status = StatusProcessing
	return nil
}

func (m *memRepo) MarkCompleted(
	_ context.Context,
	id, googleID, url string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return core.ErrNotFound
	}
	p.Status = StatusCompleted
	p.GoogleID = &googleID
	p.URL = &url
	return nil
}

func (m *memRepo) MarkFailed(_ context.Context, id, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return core.ErrNotFound
	}
	p.Status = StatusFailed
	p.FailureReason = &reason
	return nil
}

type fakeAccounts struct {
	accounts   map[string]*account.Account
	increments map[string]int
}

func newFakeAccounts(accts ...*account.Account) *fakeAccounts {
	f := &fakeAccounts{
		accounts:   map[string]*account.Account{},
		increments: map[string]int{},
	}
	for _, a := range accts {
		f.accounts[a.ID] = a
	}
	return f
}

func (f *fakeAccounts) GetAccount(
	_ context.Context,
	id string,
) (*account.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccounts) RecordPresentationUsed(
	_ context.Context,
	accountID string,
) (int, error) {
	f.increments[accountID]++
	return f.increments[accountID], nil
}

type fakeGate struct {
	decision  billing.Decision
	checkouts int
}

func (f *fakeGate) Evaluate(*account.Account, int) billing.Decision {
	return f.decision
}

func (f *fakeGate) StartOneTimeCheckout(
	_ context.Context,
	_ *account.Account,
	presentationID string,
	amountCents int64,
) (*billing.CheckoutSession, error) {
	f.checkouts++
	return &billing.CheckoutSession{
		AuthorizationURL: "https://checkout.paystack.test/" + presentationID,
		Reference:        "ref-" + presentationID,
	}, nil
}

type fakeGenerator struct {
	err   error
	calls int
}

func (f *fakeGenerator) Generate(
	_ context.Context,
	title string,
	numSlides int,
) (*outline.Outline, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	sections := make([]outline.Section, numSlides-2)
	for i := range sections {
		sections[i] = outline.Section{Title: "s", Bullets: []string{"b"}}
	}
	return &outline.Outline{Title: title, Sections: sections}, nil
}

type fakeBuilder struct {
	err   error
	calls int
}

func (f *fakeBuilder) Build(
	_ context.Context,
	_ oauth2.TokenSource,
	_ *outline.Outline,
	_ theme.Theme,
) (*slides.Deck, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &slides.Deck{
		PresentationID: "gdoc-1",
		URL:            "https://docs.google.com/presentation/d/gdoc-1/edit",
	}, nil
}

type fakeTokens struct{}

func (fakeTokens) TokenSource(
	_ context.Context,
	refreshToken string,
) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: refreshToken})
}

func linkedAccount(id string) *account.Account {
	token := "refresh-token"
	return &account.Account{
		ID:                 id,
		Email:              id + "@example.com",
		Plan:               account.PlanFree,
		GoogleRefreshToken: &token,
	}
}

func newTestService(
	repo Repository,
	accounts AccountStore,
	gate BillingGate,
	gen outline.Generator,
	builder slides.Builder,
) *Service {
	return NewService(
		repo,
		accounts,
		gate,
		gen,
		builder,
		fakeTokens{},
		config.BillingConfig{Currency: "USD"},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestCreateGrantedGeneratesImmediately(t *testing.T) {
	repo := newMemRepo()
	accounts := newFakeAccounts(linkedAccount("acct-1"))
	gate := &fakeGate{decision: billing.Decision{Action: billing.ActionGrantFree}}
	gen := &fakeGenerator{}
	builder := &fakeBuilder{}

	svc := newTestService(repo, accounts, gate, gen, builder)

	outcome, err := svc.Create(context.Background(), "acct-1", CreatePresentationRequest{
		Title:     "Roadmap",
		NumSlides: 5,
		ThemeID:   "dark",
	})
	require.NoError(t, err)

	assert.Nil(t, outcome.Checkout)
	assert.Equal(t, StatusCompleted, outcome.Presentation.Status)
	require.NotNil(t, outcome.Presentation.URL)
	assert.Contains(t, *outcome.Presentation.URL, "gdoc-1")
	assert.Equal(t, 1, accounts.increments["acct-1"])
	assert.Equal(t, 0, gate.checkouts)
}

func TestCreateChargeParksPresentation(t *testing.T) {
	repo := newMemRepo()
	accounts := newFakeAccounts(linkedAccount("acct-1"))
	gate := &fakeGate{decision: billing.Decision{
		Action:      billing.ActionCharge,
		AmountCents: 100,
	}}
	gen := &fakeGenerator{}
	builder := &fakeBuilder{}

	svc := newTestService(repo, accounts, gate, gen, builder)

	outcome, err := svc.Create(context.Background(), "acct-1", CreatePresentationRequest{
		Title:     "Roadmap",
		NumSlides: 5,
	})
	require.NoError(t, err)

	require.NotNil(t, outcome.Checkout)
	assert.Equal(t, int64(100), outcome.AmountCents)
	assert.Equal(t, "USD", outcome.Currency)
	assert.Equal(t, StatusPendingPayment, outcome.Presentation.Status)

	// Nothing generated, nothing counted until payment settles.
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, 0, builder.calls)
	assert.Equal(t, 0, accounts.increments["acct-1"])
}

func TestCreateRejectsUnlinkedGoogle(t *testing.T) {
	repo := newMemRepo()
	accounts := newFakeAccounts(&account.Account{
		ID:   "acct-1",
		Plan: account.PlanFree,
	})
	gate := &fakeGate{decision: billing.Decision{Action: billing.ActionGrantFree}}

	svc := newTestService(repo, accounts, gate, &fakeGenerator{}, &fakeBuilder{})

	_, err := svc.Create(context.Background(), "acct-1", CreatePresentationRequest{
		Title:     "Roadmap",
		NumSlides: 3,
	})
	assert.ErrorIs(t, err, ErrGoogleNotLinked)
}

func TestCreateFallsBackToDefaultTheme(t *testing.T) {
	repo := newMemRepo()
	accounts := newFakeAccounts(linkedAccount("acct-1"))
	gate := &fakeGate{decision: billing.Decision{Action: billing.ActionGrantFree}}

	svc := newTestService(repo, accounts, gate, &fakeGenerator{}, &fakeBuilder{})

	outcome, err := svc.Create(context.Background(), "acct-1", CreatePresentationRequest{
		Title:     "Roadmap",
		NumSlides: 3,
		ThemeID:   "does-not-exist",
	})
	require.NoError(t, err)
	assert.Equal(t, theme.DefaultThemeID, outcome.Presentation.ThemeID)
}

func TestCreateFailureDoesNotBurnQuota(t *testing.T) {
	repo := newMemRepo()
	accounts := newFakeAccounts(linkedAccount("acct-1"))
	gate := &fakeGate{decision: billing.Decision{Action: billing.ActionGrantFree}}
	builder := &fakeBuilder{err: errors.New("slides api down")}

	svc := newTestService(repo, accounts, gate, &fakeGenerator{}, builder)

	outcome, err := svc.Create(context.Background(), "acct-1", CreatePresentationRequest{
		Title:     "Roadmap",
		NumSlides: 4,
	})
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, 0, accounts.increments["acct-1"])

	// The row records the failure.
	var failed *Presentation
	for _, p := range repo.rows {
		failed = p
	}
	require.NotNil(t, failed)
	assert.Equal(t, StatusFailed, failed.Status)
}

func TestRunDeferredGeneratesOnce(t *testing.T) {
	repo := newMemRepo()
	accounts := newFakeAccounts(linkedAccount("acct-1"))
	gen := &fakeGenerator{}
	builder := &fakeBuilder{}

	svc := newTestService(repo, accounts, &fakeGate{}, gen, builder)

	require.NoError(t, repo.Create(context.Background(), &Presentation{
		ID:        "pres-1",
		AccountID: "acct-1",
		Title:     "Paid Deck",
		NumSlides: 6,
		ThemeID:   "corporate",
		Status:    StatusPendingPayment,
	}))

	require.NoError(t, svc.RunDeferred(context.Background(), "pres-1"))

	got, err := repo.GetByID(context.Background(), "pres-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, 1, accounts.increments["acct-1"])

	// Redelivered webhook: no second generation, no second increment.
	require.NoError(t, svc.RunDeferred(context.Background(), "pres-1"))
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 1, accounts.increments["acct-1"])
}

func TestRunDeferredUnknownPresentationIsNoop(t *testing.T) {
	svc := newTestService(
		newMemRepo(),
		newFakeAccounts(),
		&fakeGate{},
		&fakeGenerator{},
		&fakeBuilder{},
	)

	assert.NoError(t, svc.RunDeferred(context.Background(), "missing"))
}

func TestPresentationIsTerminal(t *testing.T) {
	terminal := map[string]bool{
		StatusPendingPayment: false,
		StatusProcessing:     false,
		StatusCompleted:      true,
		StatusFailed:         true,
	}

	for status, want := range terminal {
		p := &Presentation{Status: status}
		assert.Equal(t, want, p.IsTerminal(), status)
	}
}
