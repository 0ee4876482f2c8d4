package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/kleinanzeigen-mcp/internal/models"
)

func newTestClient() *KleinanzeigenClient {
	return &KleinanzeigenClient{
		baseURL:  "https://www.kleinanzeigen.de",
		maxPages: models.MaxPageCount,
	}
}

func TestBuildSearchURL(t *testing.T) {
	tests := []struct {
		name     string
		params   models.SearchParams
		page     int
		expected string
	}{
		{
			name:     "query only",
			params:   models.SearchParams{Query: "fahrrad"},
			page:     1,
			expected: "https://www.kleinanzeigen.de/s-seite:1?keywords=fahrrad",
		},
		{
			name:     "query with location and radius",
			params:   models.SearchParams{Query: "stereo lautsprecher", Location: "78464", Radius: 20},
			page:     1,
			expected: "https://www.kleinanzeigen.de/s-seite:1?keywords=stereo+lautsprecher&locationStr=78464&radius=20",
		},
		{
			name:     "full price range",
			params:   models.SearchParams{Query: "laptop", MinPrice: 50, MaxPrice: 500},
			page:     1,
			expected: "https://www.kleinanzeigen.de/preis:50:500/s-seite:1?keywords=laptop",
		},
		{
			name:     "max price only",
			params:   models.SearchParams{Query: "laptop", MaxPrice: 300},
			page:     1,
			expected: "https://www.kleinanzeigen.de/preis::300/s-seite:1?keywords=laptop",
		},
		{
			name:     "min price only",
			params:   models.SearchParams{Query: "laptop", MinPrice: 100},
			page:     2,
			expected: "https://www.kleinanzeigen.de/preis:100:/s-seite:2?keywords=laptop",
		},
		{
			name:     "no filters",
			params:   models.SearchParams{},
			page:     3,
			expected: "https://www.kleinanzeigen.de/s-seite:3",
		},
	}

	c := newTestClient()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.buildSearchURL(tt.params, tt.page))
		})
	}
}

func TestListingURL(t *testing.T) {
	c := newTestClient()

	t.Run("bare id", func(t *testing.T) {
		u, err := c.listingURL("2937345678")
		require.NoError(t, err)
		assert.Equal(t, "https://www.kleinanzeigen.de/s-anzeige/2937345678", u)
	})

	t.Run("full url passes through", func(t *testing.T) {
		in := "https://www.kleinanzeigen.de/s-anzeige/trekkingrad/2937345678"
		u, err := c.listingURL(in)
		require.NoError(t, err)
		assert.Equal(t, in, u)
	})

	t.Run("foreign host rejected", func(t *testing.T) {
		_, err := c.listingURL("https://evil.example.com/s-anzeige/123")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("empty id rejected", func(t *testing.T) {
		_, err := c.listingURL("  ")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidURL)
	})
}

func TestAdIDFromInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare id passes through", "2937345678", "2937345678"},
		{"url with numeric tail", "https://www.kleinanzeigen.de/s-anzeige/trekkingrad/2937345678", "2937345678"},
		{"url without numeric tail", "https://www.kleinanzeigen.de/s-anzeige/trekkingrad", ""},
		{"url with trailing slash", "https://www.kleinanzeigen.de/s-anzeige/trekkingrad/2937345678/", "2937345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adIDFromInput(tt.input))
		})
	}
}
