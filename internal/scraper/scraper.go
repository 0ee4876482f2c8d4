package scraper

import (
	"context"
	"errors"

	"github.com/maltedev/kleinanzeigen-mcp/internal/models"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrUpstream        = errors.New("upstream page failed to load")
	ErrInvalidURL      = errors.New("invalid listing URL")
)

// Client is the capability boundary around the browser engine. The tool layer
// depends on this interface only, so the automation backend can be swapped
// without touching the protocol code.
type Client interface {
	SearchListings(ctx context.Context, params models.SearchParams) ([]models.ListingSummary, error)
	GetListingDetails(ctx context.Context, listingID string) (*models.ListingDetails, error)
	Close() error
}
