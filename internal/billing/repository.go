// AngelaMos | 2026
// repository.go

package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/slidecraft/internal/core"
)

const paymentColumns = `
	id, account_id, presentation_id, kind, reference, amount_cents,
	currency, status, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByReference(ctx context.Context, reference string) (*Payment, error)
	// MarkStatus transitions a pending payment. Returns ErrNotFound when
	// the payment is missing or already settled, which makes webhook
	// redelivery idempotent.
	MarkStatus(ctx context.Context, reference, status string) error
	ListForAccount(ctx context.Context, accountID string) ([]Payment, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payment *Payment) error {
	query := `
		INSERT INTO payments (
			id, account_id, presentation_id, kind, reference,
			amount_cents, currency, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, payment, query,
		payment.ID,
		payment.AccountID,
		payment.PresentationID,
		payment.Kind,
		payment.Reference,
		payment.AmountCents,
		payment.Currency,
		payment.Status,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create payment: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

func (r *repository) GetByReference(
	ctx context.Context,
	reference string,
) (*Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE reference = $1`

	var payment Payment
	err := r.db.GetContext(ctx, &payment, query, reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get payment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return &payment, nil
}

func (r *repository) MarkStatus(
	ctx context.Context,
	reference, status string,
) error {
	query := `
		UPDATE payments
		SET status = $2, updated_at = NOW()
		WHERE reference = $1 AND status = $3`

	result, err := r.db.ExecContext(ctx, query, reference, status, StatusPending)
	if err != nil {
		return fmt.Errorf("mark payment %s: %w", status, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark payment %s: %w", status, err)
	}

	if rows == 0 {
		return fmt.Errorf("mark payment %s: %w", status, core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListForAccount(
	ctx context.Context,
	accountID string,
) ([]Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE account_id = $1
		ORDER BY created_at DESC`

	var payments []Payment
	if err := r.db.SelectContext(ctx, &payments, query, accountID); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	return payments, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
