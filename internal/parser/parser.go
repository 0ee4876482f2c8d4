package parser

import (
	"errors"

	"github.com/maltedev/kleinanzeigen-mcp/internal/models"
)

var (
	// ErrListingRemoved marks a detail page that reports the ad as no longer
	// available. Distinct from a load failure: the page itself loaded fine.
	ErrListingRemoved = errors.New("listing removed or expired")
)

type Parser interface {
	ParseSearchPage(html string) ([]models.ListingSummary, error)
	ParseListingPage(html string) (*models.ListingDetails, error)
}
