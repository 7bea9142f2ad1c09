// AngelaMos | 2026
// builder.go

// Package slides materializes a generated outline as a Google Slides
// presentation on the account's own Drive.
package slides

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	gslides "google.golang.org/api/slides/v1"

	"github.com/carterperez-dev/slidecraft/internal/core"
	"github.com/carterperez-dev/slidecraft/internal/outline"
	"github.com/carterperez-dev/slidecraft/internal/theme"
)

// Deck locates a materialized presentation.
type Deck struct {
	PresentationID string
	URL            string
}

type Builder interface {
	Build(
		ctx context.Context,
		tokenSource oauth2.TokenSource,
		content *outline.Outline,
		th theme.Theme,
	) (*Deck, error)
}

type googleBuilder struct{}

func NewBuilder() Builder {
	return &googleBuilder{}
}

func (b *googleBuilder) Build(
	ctx context.Context,
	tokenSource oauth2.TokenSource,
	content *outline.Outline,
	th theme.Theme,
) (*Deck, error) {
	palette, err := th.RGB()
	if err != nil {
		return nil, fmt.Errorf("resolve theme palette: %w", err)
	}

	slidesSvc, err := gslides.NewService(
		ctx,
		option.WithTokenSource(tokenSource),
	)
	if err != nil {
		return nil, core.VendorError("slides", err)
	}

	created, err := slidesSvc.Presentations.
		Create(&gslides.Presentation{Title: content.Title}).
		Context(ctx).
		Do()
	if err != nil {
		return nil, core.VendorError("slides", err)
	}

	requests := buildRequests(created, content, palette)

	_, err = slidesSvc.Presentations.
		BatchUpdate(created.PresentationId, &gslides.BatchUpdatePresentationRequest{
			Requests: requests,
		}).
		Context(ctx).
		Do()
	if err != nil {
		return nil, core.VendorError("slides", err)
	}

	if err := shareAnyoneReader(ctx, tokenSource, created.PresentationId); err != nil {
		return nil, err
	}

	return &Deck{
		PresentationID: created.PresentationId,
		URL: fmt.Sprintf(
			"https://docs.google.com/presentation/d/%s/edit",
			created.PresentationId,
		),
	}, nil
}

func shareAnyoneReader(
	ctx context.Context,
	tokenSource oauth2.TokenSource,
	presentationID string,
) error {
	driveSvc, err := drive.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return core.VendorError("drive", err)
	}

	_, err = driveSvc.Permissions.
		Create(presentationID, &drive.Permission{
			Type: "anyone",
			Role: "reader",
		}).
		Context(ctx).
		Do()
	if err != nil {
		return core.VendorError("drive", err)
	}

	return nil
}
