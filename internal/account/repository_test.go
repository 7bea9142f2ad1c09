// AngelaMos | 2026
// repository_test.go

package account

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/slidecraft/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO accounts`).
		WithArgs(
			"acct-1", "ada@example.com", "hash", "Ada",
			nil, RoleUser, PlanFree,
		).
		WillReturnRows(sqlmock.NewRows([]string{
			"created_at", "updated_at", "token_version", "presentations_used",
		}).AddRow(now, now, 0, 0))

	acct := &Account{
		ID:           "acct-1",
		Email:        "ada@example.com",
		PasswordHash: "hash",
		Name:         "Ada",
		Role:         RoleUser,
		Plan:         PlanFree,
	}
	err := repo.Create(context.Background(), acct)

	require.NoError(t, err)
	assert.Equal(t, now, acct.CreatedAt)
	assert.Equal(t, 0, acct.PresentationsUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateDuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO accounts`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &Account{
		ID:    "acct-1",
		Email: "taken@example.com",
		Role:  RoleUser,
		Plan:  PlanFree,
	})

	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM accounts`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryGetByPaystackCustomer(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	customerCode := "CUS_abc123"
	mock.ExpectQuery(`SELECT .+ FROM accounts\s+WHERE paystack_customer_code`).
		WithArgs(customerCode).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "name", "google_sub",
			"google_refresh_token", "role", "plan", "presentations_used",
			"subscription_expires_at", "paystack_customer_code",
			"token_version", "created_at", "updated_at", "deleted_at",
		}).AddRow(
			"acct-1", "ada@example.com", "", "Ada", nil,
			nil, RoleUser, PlanPremium, 4,
			now.Add(720*time.Hour), customerCode,
			0, now, now, nil,
		))

	acct, err := repo.GetByPaystackCustomer(context.Background(), customerCode)

	require.NoError(t, err)
	assert.Equal(t, "acct-1", acct.ID)
	assert.Equal(t, PlanPremium, acct.Plan)
	require.NotNil(t, acct.PaystackCustomerCode)
	assert.Equal(t, customerCode, *acct.PaystackCustomerCode)
}

func TestRepositoryIncrementPresentationsUsed(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE accounts\s+SET presentations_used = presentations_used \+ 1`).
		WithArgs("acct-1").
		WillReturnRows(
			sqlmock.NewRows([]string{"presentations_used"}).AddRow(3),
		)

	used, err := repo.IncrementPresentationsUsed(
		context.Background(),
		"acct-1",
	)

	require.NoError(t, err)
	assert.Equal(t, 3, used)
}

func TestRepositoryIncrementPresentationsUsedDeleted(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE accounts\s+SET presentations_used`).
		WithArgs("gone").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.IncrementPresentationsUsed(context.Background(), "gone")

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositorySetPlan(t *testing.T) {
	repo, mock := newMockRepo(t)

	expiry := time.Now().AddDate(0, 0, 30)
	mock.ExpectExec(`UPDATE accounts\s+SET plan =`).
		WithArgs("acct-1", PlanPremium, sql.NullTime{Time: expiry, Valid: true}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetPlan(
		context.Background(),
		"acct-1",
		PlanPremium,
		sql.NullTime{Time: expiry, Valid: true},
	)

	assert.NoError(t, err)
}

func TestRepositorySoftDeleteMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE accounts\s+SET deleted_at = NOW\(\)`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), "missing")

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c\\d`, escapeLike(`c\d`))
}
