package render

import (
	"context"

	"github.com/goliatone/go-onboarding/pkg/company"
	"github.com/goliatone/go-onboarding/pkg/wizard"
)

// Renderer converts the onboarding step catalogue into a page.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, steps []wizard.Step, options RenderOptions) ([]byte, error)
}

// ListRenderer renders the companies listing page.
type ListRenderer interface {
	RenderList(ctx context.Context, rows []company.Row, options ListOptions) ([]byte, error)
}

// DeleteRenderer renders the page confirming a company removal.
type DeleteRenderer interface {
	RenderDelete(ctx context.Context, row company.Row, options DeleteOptions) ([]byte, error)
}
