// AngelaMos | 2026
// repository.go

package deck

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/slidecraft/internal/core"
)

const presentationColumns = `
	id, account_id, title, num_slides, theme_id, status,
	google_id, url, failure_reason, created_at, updated_at, completed_at`

type Repository interface {
	Create(ctx context.Context, presentation *Presentation) error
	GetByID(ctx context.Context, id string) (*Presentation, error)
	ListForAccount(ctx context.Context, accountID string) ([]Presentation, error)
	// ClaimForProcessing moves pending_payment to processing. Returns
	// ErrNotFound when the row is absent or already claimed, so a
	// redelivered webhook cannot start a second generation.
	ClaimForProcessing(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id, googleID, url string) error
	MarkFailed(ctx context.Context, id, reason string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	presentation *Presentation,
) error {
	query := `
		INSERT INTO presentations (
			id, account_id, title, num_slides, theme_id, status
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, presentation, query,
		presentation.ID,
		presentation.AccountID,
		presentation.Title,
		presentation.NumSlides,
		presentation.ThemeID,
		presentation.Status,
	)
	if err != nil {
		return fmt.Errorf("create presentation: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Presentation, error) {
	query := `
		SELECT ` + presentationColumns + `
		FROM presentations
		WHERE id = $1`

	var presentation Presentation
	err := r.db.GetContext(ctx, &presentation, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get presentation: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get presentation: %w", err)
	}

	return &presentation, nil
}

func (r *repository) ListForAccount(
	ctx context.Context,
	accountID string,
) ([]Presentation, error) {
	query := `
		SELECT ` + presentationColumns + `
		FROM presentations
		WHERE account_id = $1
		ORDER BY created_at DESC`

	var presentations []Presentation
	err := r.db.SelectContext(ctx, &presentations, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}

	return presentations, nil
}

func (r *repository) ClaimForProcessing(ctx context.Context, id string) error {
	query := `
		UPDATE presentations
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3`

	result, err := r.db.ExecContext(
		ctx,
		query,
		id,
		StatusProcessing,
		StatusPendingPayment,
	)
	if err != nil {
		return fmt.Errorf("claim presentation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim presentation: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("claim presentation: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) MarkCompleted(
	ctx context.Context,
	id, googleID, url string,
) error {
	query := `
		UPDATE presentations
		SET status = $2, google_id = $3, url = $4,
		    completed_at = NOW(), updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(
		ctx,
		query,
		id,
		StatusCompleted,
		googleID,
		url,
	)
	if err != nil {
		return fmt.Errorf("complete presentation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete presentation: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("complete presentation: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) MarkFailed(ctx context.Context, id, reason string) error {
	query := `
		UPDATE presentations
		SET status = $2, failure_reason = $3, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, StatusFailed, reason)
	if err != nil {
		return fmt.Errorf("fail presentation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("fail presentation: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("fail presentation: %w", core.ErrNotFound)
	}

	return nil
}
