// AngelaMos | 2026
// entity.go

package deck

import (
	"time"
)

// Presentation tracks one generation request from submission to a
// shareable Google Slides URL. Rows persist so a checkout settled by
// webhook can resume the generation it paid for.
type Presentation struct {
	ID            string     `db:"id"`
	AccountID     string     `db:"account_id"`
	Title         string     `db:"title"`
	NumSlides     int        `db:"num_slides"`
	ThemeID       string     `db:"theme_id"`
	Status        string     `db:"status"`
	GoogleID      *string    `db:"google_id"`
	URL           *string    `db:"url"`
	FailureReason *string    `db:"failure_reason"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	CompletedAt   *time.Time `db:"completed_at"`
}

const (
	StatusPendingPayment = "pending_payment"
	StatusProcessing     = "processing"
	StatusCompleted      = "completed"
	StatusFailed         = "failed"
)

func (p *Presentation) IsTerminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusFailed
}
