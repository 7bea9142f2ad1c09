// AngelaMos | 2026
// repository.go

package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/slidecraft/internal/core"
)

const accountColumns = `
	id, email, password_hash, name, google_sub, google_refresh_token,
	role, plan, presentations_used, subscription_expires_at,
	paystack_customer_code, token_version,
	created_at, updated_at, deleted_at`

type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByGoogleSub(ctx context.Context, googleSub string) (*Account, error)
	GetByPaystackCustomer(
		ctx context.Context,
		customerCode string,
	) (*Account, error)
	LinkGoogleSub(ctx context.Context, id, googleSub string) error
	SetGoogleRefreshToken(ctx context.Context, id, refreshToken string) error
	SetPlan(
		ctx context.Context,
		id, plan string,
		expiresAt sql.NullTime,
	) error
	SetPaystackCustomer(ctx context.Context, id, customerCode string) error
	IncrementPresentationsUsed(ctx context.Context, id string) (int, error)
	Update(ctx context.Context, account *Account) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
	List(
		ctx context.Context,
		params ListAccountsParams,
	) ([]Account, int, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, account *Account) error {
	query := `
		INSERT INTO accounts (
			id, email, password_hash, name, google_sub, role, plan
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at, token_version, presentations_used`

	err := r.db.GetContext(ctx, account, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Name,
		account.GoogleSub,
		account.Role,
		account.Plan,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create account: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1 AND deleted_at IS NULL`

	var account Account
	err := r.db.GetContext(ctx, &account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &account, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1 AND deleted_at IS NULL`

	var account Account
	err := r.db.GetContext(ctx, &account, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account by email: %w", err)
	}

	return &account, nil
}

func (r *repository) GetByGoogleSub(
	ctx context.Context,
	googleSub string,
) (*Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE google_sub = $1 AND deleted_at IS NULL`

	var account Account
	err := r.db.GetContext(ctx, &account, query, googleSub)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf(
			"get account by google sub: %w",
			core.ErrNotFound,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("get account by google sub: %w", err)
	}

	return &account, nil
}

func (r *repository) GetByPaystackCustomer(
	ctx context.Context,
	customerCode string,
) (*Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE paystack_customer_code = $1 AND deleted_at IS NULL`

	var account Account
	err := r.db.GetContext(ctx, &account, query, customerCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf(
			"get account by paystack customer: %w",
			core.ErrNotFound,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("get account by paystack customer: %w", err)
	}

	return &account, nil
}

func (r *repository) LinkGoogleSub(
	ctx context.Context,
	id, googleSub string,
) error {
	query := `
		UPDATE accounts
		SET google_sub = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, googleSub)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("link google sub: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("link google sub: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("link google sub: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("link google sub: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetGoogleRefreshToken(
	ctx context.Context,
	id, refreshToken string,
) error {
	query := `
		UPDATE accounts
		SET google_refresh_token = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, refreshToken)
	if err != nil {
		return fmt.Errorf("set google refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set google refresh token: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set google refresh token: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetPlan(
	ctx context.Context,
	id, plan string,
	expiresAt sql.NullTime,
) error {
	query := `
		UPDATE accounts
		SET plan = $2, subscription_expires_at = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, plan, expiresAt)
	if err != nil {
		return fmt.Errorf("set plan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set plan: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set plan: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetPaystackCustomer(
	ctx context.Context,
	id, customerCode string,
) error {
	query := `
		UPDATE accounts
		SET paystack_customer_code = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, customerCode)
	if err != nil {
		return fmt.Errorf("set paystack customer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set paystack customer: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set paystack customer: %w", core.ErrNotFound)
	}

	return nil
}

// IncrementPresentationsUsed bumps the lifetime usage counter atomically
// and returns the new value. The increment happens in the database so
// concurrent generations cannot both observe the same pre-increment
// count.
func (r *repository) IncrementPresentationsUsed(
	ctx context.Context,
	id string,
) (int, error) {
	query := `
		UPDATE accounts
		SET presentations_used = presentations_used + 1, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING presentations_used`

	var used int
	err := r.db.GetContext(ctx, &used, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("increment presentations used: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("increment presentations used: %w", err)
	}

	return used, nil
}

func (r *repository) Update(ctx context.Context, account *Account) error {
	query := `
		UPDATE accounts
		SET name = $2, role = $3, plan = $4, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &account.UpdatedAt, query,
		account.ID,
		account.Name,
		account.Role,
		account.Plan,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update account: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE accounts
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) IncrementTokenVersion(
	ctx context.Context,
	id string,
) error {
	query := `
		UPDATE accounts
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE accounts
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete account: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListAccountsParams,
) ([]Account, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	if params.Plan != "" {
		conditions = append(conditions, fmt.Sprintf("plan = $%d", argIdx))
		args = append(args, params.Plan)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM accounts WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+accountColumns+`
		FROM accounts
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var accounts []Account
	if err := r.db.SelectContext(ctx, &accounts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, total, nil
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1 AND deleted_at IS NULL)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
