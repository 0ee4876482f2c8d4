package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/kleinanzeigen-mcp/internal/models"
	"github.com/maltedev/kleinanzeigen-mcp/internal/scraper"
)

type fakeClient struct {
	searchResults []models.ListingSummary
	searchErr     error
	searchCalls   int
	lastParams    models.SearchParams

	details     *models.ListingDetails
	detailsErr  error
	detailCalls int
}

func (f *fakeClient) SearchListings(ctx context.Context, params models.SearchParams) ([]models.ListingSummary, error) {
	f.searchCalls++
	f.lastParams = params
	return f.searchResults, f.searchErr
}

func (f *fakeClient) GetListingDetails(ctx context.Context, listingID string) (*models.ListingDetails, error) {
	f.detailCalls++
	return f.details, f.detailsErr
}

func (f *fakeClient) Close() error { return nil }

// memCache is an in-process Cache for exercising the cache path in tests.
type memCache struct {
	entries map[string][]byte
}

func newMemCache() *memCache { return &memCache{entries: make(map[string][]byte)} }

func (m *memCache) Get(ctx context.Context, key string, value any) (bool, error) {
	data, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, value)
}

func (m *memCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

func (m *memCache) Close() error { return nil }

func callToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestSearchListingsValidation(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"negative radius", map[string]any{"query": "fahrrad", "radius": -5}},
		{"negative min price", map[string]any{"query": "fahrrad", "min_price": -1}},
		{"inverted price range", map[string]any{"query": "fahrrad", "min_price": 500, "max_price": 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			tools := NewListingTools(client, nil, nil)

			res, err := tools.handleSearchListings(context.Background(), callToolRequest("search_listings", tt.args))
			require.NoError(t, err)

			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), "invalid argument")
			assert.Zero(t, client.searchCalls, "scraper must not run on invalid arguments")
		})
	}
}

func TestSearchListingsSuccess(t *testing.T) {
	client := &fakeClient{
		searchResults: []models.ListingSummary{
			{AdID: "123", Title: "Trekkingrad", Price: "1250", URL: "https://www.kleinanzeigen.de/s-anzeige/123"},
		},
	}
	tools := NewListingTools(client, nil, nil)

	res, err := tools.handleSearchListings(context.Background(), callToolRequest("search_listings", map[string]any{
		"query":      "fahrrad",
		"location":   "10178",
		"radius":     20,
		"page_count": 99,
	}))
	require.NoError(t, err)

	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Found 1 listings:")
	assert.Equal(t, 1, client.searchCalls)
	assert.Equal(t, "fahrrad", client.lastParams.Query)
	assert.Equal(t, models.MaxPageCount, client.lastParams.PageCount, "page_count is clamped, not rejected")
}

func TestSearchListingsUpstreamError(t *testing.T) {
	client := &fakeClient{searchErr: scraper.ErrUpstream}
	tools := NewListingTools(client, nil, nil)

	res, err := tools.handleSearchListings(context.Background(), callToolRequest("search_listings", map[string]any{
		"query": "fahrrad",
	}))
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "upstream error")
}

func TestSearchListingsUsesCache(t *testing.T) {
	client := &fakeClient{
		searchResults: []models.ListingSummary{{AdID: "123", Title: "Trekkingrad"}},
	}
	tools := NewListingTools(client, newMemCache(), nil)

	args := map[string]any{"query": "fahrrad"}

	res, err := tools.handleSearchListings(context.Background(), callToolRequest("search_listings", args))
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = tools.handleSearchListings(context.Background(), callToolRequest("search_listings", args))
	require.NoError(t, err)
	require.False(t, res.IsError)

	assert.Equal(t, 1, client.searchCalls, "second call must be served from cache")
	assert.Contains(t, resultText(t, res), "Trekkingrad")
}

func TestGetListingDetailsRequiresID(t *testing.T) {
	client := &fakeClient{}
	tools := NewListingTools(client, nil, nil)

	res, err := tools.handleGetListingDetails(context.Background(), callToolRequest("get_listing_details", map[string]any{}))
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "invalid argument")
	assert.Zero(t, client.detailCalls)
}

func TestGetListingDetailsErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"removed listing", scraper.ErrListingNotFound, "not found"},
		{"bad url", scraper.ErrInvalidURL, "invalid argument"},
		{"page load failure", scraper.ErrUpstream, "upstream error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools := NewListingTools(&fakeClient{detailsErr: tt.err}, nil, nil)

			res, err := tools.handleGetListingDetails(context.Background(), callToolRequest("get_listing_details", map[string]any{
				"listing_id": "2937345678",
			}))
			require.NoError(t, err)

			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.expected)
		})
	}
}

func TestGetListingDetailsSuccess(t *testing.T) {
	details := &models.ListingDetails{
		ID:     "2937345678",
		Title:  "Trekkingrad 28 Zoll",
		Status: models.StatusActive,
		Views:  "342",
	}
	client := &fakeClient{details: details}
	tools := NewListingTools(client, newMemCache(), nil)

	req := callToolRequest("get_listing_details", map[string]any{"listing_id": "2937345678"})

	res, err := tools.handleGetListingDetails(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Title: Trekkingrad 28 Zoll")

	// Second call hits the cache.
	_, err = tools.handleGetListingDetails(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, client.detailCalls)
}
