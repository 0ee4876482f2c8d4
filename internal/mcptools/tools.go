package mcptools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/maltedev/kleinanzeigen-mcp/internal/cache"
	"github.com/maltedev/kleinanzeigen-mcp/internal/models"
	"github.com/maltedev/kleinanzeigen-mcp/internal/scraper"
)

// ListingTools owns the two MCP tools and their argument handling. Scraped
// responses pass through the cache so identical calls within the TTL do not
// re-open the site.
type ListingTools struct {
	client   scraper.Client
	cache    cache.Cache
	validate *validator.Validate
	logger   *slog.Logger
}

func NewListingTools(client scraper.Client, c cache.Cache, logger *slog.Logger) *ListingTools {
	if c == nil {
		c = cache.NewNoopCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingTools{
		client:   client,
		cache:    c,
		validate: validator.New(),
		logger:   logger.With("component", "tools"),
	}
}

func (t *ListingTools) Register(s *server.MCPServer) {
	s.AddTool(searchListingsTool(), t.handleSearchListings)
	s.AddTool(getListingDetailsTool(), t.handleGetListingDetails)
}

func searchListingsTool() mcp.Tool {
	return mcp.NewTool("search_listings",
		mcp.WithDescription("Durchsuche Kleinanzeigen (kleinanzeigen.de) nach Artikeln mit Filtern. "+
			"Nutze dieses Tool für alle Suchanfragen nach lokalen Angeboten, gebrauchten Artikeln "+
			"oder Kleinanzeigen in Deutschland. Jedes Ergebnis enthält ID, Titel, Preis, "+
			"Kurzbeschreibung und direkten Link."),
		mcp.WithString("query",
			mcp.Description("Suchbegriffe für den Artikel (z.B. \"fahrrad\", \"laptop\", \"heimkino\")"),
		),
		mcp.WithString("location",
			mcp.Description("Postleitzahl oder Ort (z.B. \"10178\", \"Berlin\", \"Konstanz\")"),
		),
		mcp.WithNumber("radius",
			mcp.Description("Suchradius in Kilometern um den Standort (z.B. 5, 10, 20, 50)"),
		),
		mcp.WithNumber("min_price",
			mcp.Description("Mindestpreis in EUR"),
		),
		mcp.WithNumber("max_price",
			mcp.Description("Höchstpreis in EUR"),
		),
		mcp.WithNumber("page_count",
			mcp.Description("Anzahl der Ergebnisseiten (1-20, Standard: 1)"),
		),
	)
}

func getListingDetailsTool() mcp.Tool {
	return mcp.NewTool("get_listing_details",
		mcp.WithDescription("Hole vollständige Details zu einem Kleinanzeigen-Inserat: komplette "+
			"Beschreibung, Status, Preis, Versandoptionen, Standort, alle Bild-URLs, technische "+
			"Details und Verkäufer-Informationen. Nutze die \"adid\" aus search_listings Ergebnissen."),
		mcp.WithString("listing_id",
			mcp.Required(),
			mcp.Description("Die eindeutige Inserat-ID aus den Suchergebnissen (z.B. \"2937345678\") oder die Inserat-URL"),
		),
	)
}

func (t *ListingTools) handleSearchListings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := models.SearchParams{
		Query:     req.GetString("query", ""),
		Location:  req.GetString("location", ""),
		Radius:    req.GetInt("radius", 0),
		MinPrice:  req.GetInt("min_price", 0),
		MaxPrice:  req.GetInt("max_price", 0),
		PageCount: req.GetInt("page_count", 1),
	}

	if err := t.validate.Struct(&params); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid argument: %v", err)), nil
	}
	params.Normalize()

	key := cache.SearchKey(params)
	var cached []models.ListingSummary
	if hit, err := t.cache.Get(ctx, key, &cached); err != nil {
		t.logger.Warn("cache lookup failed", "error", err)
	} else if hit {
		t.logger.Debug("search served from cache", "key", key)
		return mcp.NewToolResultText(FormatSearchResults(params, cached)), nil
	}

	results, err := t.client.SearchListings(ctx, params)
	if err != nil {
		t.logger.Error("search failed", "error", err)
		if errors.Is(err, scraper.ErrUpstream) {
			return mcp.NewToolResultError(fmt.Sprintf("upstream error: %v", err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if err := t.cache.Set(ctx, key, results); err != nil {
		t.logger.Warn("cache store failed", "error", err)
	}

	return mcp.NewToolResultText(FormatSearchResults(params, results)), nil
}

func (t *ListingTools) handleGetListingDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	listingID, err := req.RequireString("listing_id")
	if err != nil || listingID == "" {
		return mcp.NewToolResultError("invalid argument: listing_id is required"), nil
	}

	key := cache.DetailKey(listingID)
	var cached models.ListingDetails
	if hit, err := t.cache.Get(ctx, key, &cached); err != nil {
		t.logger.Warn("cache lookup failed", "error", err)
	} else if hit {
		t.logger.Debug("details served from cache", "key", key)
		return mcp.NewToolResultText(FormatListingDetails(&cached)), nil
	}

	details, err := t.client.GetListingDetails(ctx, listingID)
	if err != nil {
		t.logger.Error("detail fetch failed", "listing_id", listingID, "error", err)
		switch {
		case errors.Is(err, scraper.ErrListingNotFound):
			return mcp.NewToolResultError(fmt.Sprintf("not found: listing %s is no longer available", listingID)), nil
		case errors.Is(err, scraper.ErrInvalidURL):
			return mcp.NewToolResultError(fmt.Sprintf("invalid argument: %v", err)), nil
		case errors.Is(err, scraper.ErrUpstream):
			return mcp.NewToolResultError(fmt.Sprintf("upstream error: %v", err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch listing %s: %v", listingID, err)), nil
	}

	if err := t.cache.Set(ctx, key, details); err != nil {
		t.logger.Warn("cache store failed", "error", err)
	}

	return mcp.NewToolResultText(FormatListingDetails(details)), nil
}
