// AngelaMos | 2026
// entity.go

package account

import (
	"time"
)

type Account struct {
	ID                    string     `db:"id"`
	Email                 string     `db:"email"`
	PasswordHash          string     `db:"password_hash"`
	Name                  string     `db:"name"`
	GoogleSub             *string    `db:"google_sub"`
	GoogleRefreshToken    *string    `db:"google_refresh_token"`
	Role                  string     `db:"role"`
	Plan                  string     `db:"plan"`
	PresentationsUsed     int        `db:"presentations_used"`
	SubscriptionExpiresAt *time.Time `db:"subscription_expires_at"`
	PaystackCustomerCode  *string    `db:"paystack_customer_code"`
	TokenVersion          int        `db:"token_version"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
	DeletedAt             *time.Time `db:"deleted_at"`
}

func (a *Account) IsDeleted() bool {
	return a.DeletedAt != nil
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// HasActiveSubscription reports whether the account currently holds an
// unexpired premium plan.
func (a *Account) HasActiveSubscription() bool {
	if a.Plan != PlanPremium {
		return false
	}
	if a.SubscriptionExpiresAt == nil {
		return false
	}
	return a.SubscriptionExpiresAt.After(time.Now())
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	PlanFree    = "free"
	PlanPremium = "premium"
)
