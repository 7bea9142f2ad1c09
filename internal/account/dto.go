// AngelaMos | 2026
// dto.go

package account

import (
	"time"
)

type UpdateAccountRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
}

type UpdateAccountRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type UpdateAccountPlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=free premium"`
}

type AccountResponse struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	Name                  string     `json:"name"`
	Role                  string     `json:"role"`
	Plan                  string     `json:"plan"`
	PresentationsUsed     int        `json:"presentations_used"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	GoogleLinked          bool       `json:"google_linked"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

type ListAccountsParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
	Plan     string `json:"plan"`
}

func (p *ListAccountsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListAccountsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToAccountResponse(a *Account) AccountResponse {
	return AccountResponse{
		ID:                    a.ID,
		Email:                 a.Email,
		Name:                  a.Name,
		Role:                  a.Role,
		Plan:                  a.Plan,
		PresentationsUsed:     a.PresentationsUsed,
		SubscriptionExpiresAt: a.SubscriptionExpiresAt,
		GoogleLinked:          a.GoogleSub != nil,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
}

func ToAccountResponseList(accounts []Account) []AccountResponse {
	responses := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		responses = append(responses, ToAccountResponse(&a))
	}
	return responses
}
