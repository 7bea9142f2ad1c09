// AngelaMos | 2026
// service.go

package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/slidecraft/internal/auth"
	"github.com/carterperez-dev/slidecraft/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.AccountInfo, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toAccountInfo(account), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.AccountInfo, error) {
	account, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toAccountInfo(account), nil
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.AccountInfo, error) {
	account := &Account{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Name:         name,
		Role:         RoleUser,
		Plan:         PlanFree,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	return toAccountInfo(account), nil
}

// UpsertGoogle resolves an OIDC identity to an account. Match order:
// google subject first, then email (which links Google onto an existing
// password account), then a fresh account.
func (s *Service) UpsertGoogle(
	ctx context.Context,
	googleSub, email, name string,
) (*auth.AccountInfo, error) {
	account, err := s.repo.GetByGoogleSub(ctx, googleSub)
	if err == nil {
		return toAccountInfo(account), nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	account, err = s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err == nil {
		if linkErr := s.repo.LinkGoogleSub(ctx, account.ID, googleSub); linkErr != nil {
			return nil, fmt.Errorf("link google identity: %w", linkErr)
		}
		return toAccountInfo(account), nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	account = &Account{
		ID:        uuid.New().String(),
		Email:     strings.ToLower(email),
		Name:      name,
		GoogleSub: &googleSub,
		Role:      RoleUser,
		Plan:      PlanFree,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	return toAccountInfo(account), nil
}

func (s *Service) SetGoogleRefreshToken(
	ctx context.Context,
	accountID, refreshToken string,
) error {
	return s.repo.SetGoogleRefreshToken(ctx, accountID, refreshToken)
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	accountID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, accountID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	accountID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, accountID, passwordHash)
}

func (s *Service) GetAccount(
	ctx context.Context,
	id string,
) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

// RecordPresentationUsed bumps the lifetime counter after a successful
// generation. Returns the post-increment count.
func (s *Service) RecordPresentationUsed(
	ctx context.Context,
	accountID string,
) (int, error) {
	return s.repo.IncrementPresentationsUsed(ctx, accountID)
}

// ActivateSubscription flips the account to the premium plan until the
// given expiry.
func (s *Service) ActivateSubscription(
	ctx context.Context,
	accountID string,
	expiresAt time.Time,
) error {
	return s.repo.SetPlan(
		ctx,
		accountID,
		PlanPremium,
		sql.NullTime{Time: expiresAt, Valid: true},
	)
}

// CancelSubscription drops the account back to the free plan.
func (s *Service) CancelSubscription(
	ctx context.Context,
	accountID string,
) error {
	return s.repo.SetPlan(ctx, accountID, PlanFree, sql.NullTime{})
}

// GetByPaystackCustomer resolves the account tied to a Paystack
// customer code, used by subscription webhooks.
func (s *Service) GetByPaystackCustomer(
	ctx context.Context,
	customerCode string,
) (*Account, error) {
	return s.repo.GetByPaystackCustomer(ctx, customerCode)
}

func (s *Service) SetPaystackCustomer(
	ctx context.Context,
	accountID, customerCode string,
) error {
	return s.repo.SetPaystackCustomer(ctx, accountID, customerCode)
}

func (s *Service) UpdateAccount(
	ctx context.Context,
	id string,
	req UpdateAccountRequest,
) (*Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *Service) UpdateAccountRole(
	ctx context.Context,
	id, role string,
) (*Account, error) {
	if role != RoleUser && role != RoleAdmin {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account.Role = role

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *Service) UpdateAccountPlan(
	ctx context.Context,
	id, plan string,
) (*Account, error) {
	if plan != PlanFree && plan != PlanPremium {
		return nil, fmt.Errorf(
			"update plan: invalid plan %q: %w",
			plan,
			core.ErrInvalidInput,
		)
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account.Plan = plan

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) ListAccounts(
	ctx context.Context,
	params ListAccountsParams,
) ([]Account, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) GetMe(
	ctx context.Context,
	accountID string,
) (*Account, error) {
	if accountID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (s *Service) UpdateMe(
	ctx context.Context,
	accountID string,
	req UpdateAccountRequest,
) (*Account, error) {
	if accountID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	return s.UpdateAccount(ctx, accountID, req)
}

func (s *Service) DeleteMe(ctx context.Context, accountID string) error {
	if accountID == "" {
		return fmt.Errorf("delete me: %w", core.ErrUnauthorized)
	}

	return s.repo.SoftDelete(ctx, accountID)
}

func (s *Service) EmailExists(
	ctx context.Context,
	email string,
) (bool, error) {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Service) CanDeleteAccount(
	ctx context.Context,
	requesterID, targetID string,
) error {
	if requesterID == targetID {
		return nil
	}

	requester, err := s.repo.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}

	if !requester.IsAdmin() {
		return fmt.Errorf("delete account: %w", core.ErrForbidden)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("cannot delete admin accounts: %w", core.ErrForbidden)
	}

	return nil
}

func toAccountInfo(a *Account) *auth.AccountInfo {
	return &auth.AccountInfo{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		Plan:         a.Plan,
		TokenVersion: a.TokenVersion,
	}
}

var _ auth.AccountProvider = (*Service)(nil)
