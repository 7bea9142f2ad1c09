// AngelaMos | 2026
// dto.go

package deck

import (
	"time"
)

type CreatePresentationRequest struct {
	Title     string `json:"title"      validate:"required,min=1,max=200"`
	NumSlides int    `json:"num_slides" validate:"required,min=3,max=10"`
	ThemeID   string `json:"theme_id"   validate:"max=50"`
}

type PresentationResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	NumSlides     int        `json:"num_slides"`
	ThemeID       string     `json:"theme_id"`
	Status        string     `json:"status"`
	URL           *string    `json:"url,omitempty"`
	FailureReason *string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// CheckoutRequiredResponse is returned when the billing gate demands a
// payment before generating. The presentation waits in pending_payment
// until the checkout settles.
type CheckoutRequiredResponse struct {
	Presentation PresentationResponse `json:"presentation"`
	CheckoutURL  string               `json:"checkout_url"`
	Reference    string               `json:"reference"`
	AmountCents  int64                `json:"amount_cents"`
	Currency     string               `json:"currency"`
}

func ToPresentationResponse(p *Presentation) PresentationResponse {
	return PresentationResponse{
		ID:            p.ID,
		Title:         p.Title,
		NumSlides:     p.NumSlides,
		ThemeID:       p.ThemeID,
		Status:        p.Status,
		URL:           p.URL,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
		CompletedAt:   p.CompletedAt,
	}
}

func ToPresentationResponseList(
	presentations []Presentation,
) []PresentationResponse {
	responses := make([]PresentationResponse, 0, len(presentations))
	for _, p := range presentations {
		responses = append(responses, ToPresentationResponse(&p))
	}
	return responses
}
