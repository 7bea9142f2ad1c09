// AngelaMos | 2026
// usage.go

package admin

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/slidecraft/internal/core"
)

type UsageStats struct {
	AccountsByPlan        map[string]int `json:"accounts_by_plan"`
	PresentationsByStatus map[string]int `json:"presentations_by_status"`
	RevenueCents          int64          `json:"revenue_cents"`
	PaymentsSettled       int            `json:"payments_settled"`
}

type usageStore struct {
	db core.DBTX
}

func (s *usageStore) Collect(ctx context.Context) (*UsageStats, error) {
	stats := &UsageStats{
		AccountsByPlan:        map[string]int{},
		PresentationsByStatus: map[string]int{},
	}

	type bucket struct {
		Key   string `db:"key"`
		Count int    `db:"count"`
	}

	var plans []bucket
	err := s.db.SelectContext(ctx, &plans, `
		SELECT plan AS key, COUNT(*) AS count
		FROM accounts
		WHERE deleted_at IS NULL
		GROUP BY plan`)
	if err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}
	for _, b := range plans {
		stats.AccountsByPlan[b.Key] = b.Count
	}

	var statuses []bucket
	err = s.db.SelectContext(ctx, &statuses, `
		SELECT status AS key, COUNT(*) AS count
		FROM presentations
		GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count presentations: %w", err)
	}
	for _, b := range statuses {
		stats.PresentationsByStatus[b.Key] = b.Count
	}

	var revenue struct {
		Total int64 `db:"total"`
		Count int   `db:"count"`
	}
	err = s.db.GetContext(ctx, &revenue, `
		SELECT COALESCE(SUM(amount_cents), 0) AS total, COUNT(*) AS count
		FROM payments
		WHERE status = 'success'`)
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	stats.RevenueCents = revenue.Total
	stats.PaymentsSettled = revenue.Count

	return stats, nil
}
