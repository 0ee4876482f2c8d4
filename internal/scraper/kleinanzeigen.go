package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/kleinanzeigen-mcp/internal/browser"
	"github.com/maltedev/kleinanzeigen-mcp/internal/models"
	"github.com/maltedev/kleinanzeigen-mcp/internal/parser"
	"github.com/maltedev/kleinanzeigen-mcp/internal/ratelimit"
)

type KleinanzeigenClient struct {
	browser  *browser.Browser
	parser   parser.Parser
	limiter  *ratelimit.Limiter
	logger   *slog.Logger
	baseURL  string
	maxPages int
}

type ClientOptions struct {
	BaseURL  string
	MaxPages int
}

func NewKleinanzeigenClient(b *browser.Browser, p parser.Parser, limiter *ratelimit.Limiter, opts ClientOptions, logger *slog.Logger) *KleinanzeigenClient {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.kleinanzeigen.de"
	}
	if opts.MaxPages < 1 {
		opts.MaxPages = models.MaxPageCount
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &KleinanzeigenClient{
		browser:  b,
		parser:   p,
		limiter:  limiter,
		logger:   logger.With("component", "scraper"),
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		maxPages: opts.MaxPages,
	}
}

// SearchListings fetches up to params.PageCount result pages and returns the
// extracted summaries in site order. Each page is a single best-effort
// attempt; a navigation failure surfaces as ErrUpstream.
func (c *KleinanzeigenClient) SearchListings(ctx context.Context, params models.SearchParams) ([]models.ListingSummary, error) {
	params.Normalize()

	pageCount := params.PageCount
	if pageCount > c.maxPages {
		pageCount = c.maxPages
	}

	page, err := c.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	results := []models.ListingSummary{}

	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		searchURL := c.buildSearchURL(params, pageNum)
		c.logger.Info("fetching search page", "page", pageNum, "url", searchURL)

		if err := c.browser.Navigate(page, searchURL); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}

		// Result rows render after DOMContentLoaded; absence just means an
		// empty result page.
		page.Locator(".ad-listitem").First().WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateAttached,
			Timeout: playwright.Float(5000),
		})

		html, err := page.Content()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}

		pageResults, err := c.parser.ParseSearchPage(html)
		if err != nil {
			return nil, fmt.Errorf("failed to parse search page %d: %w", pageNum, err)
		}

		if len(pageResults) == 0 {
			c.logger.Info("empty search page, stopping pagination", "page", pageNum)
			break
		}

		results = append(results, pageResults...)
	}

	c.logger.Info("search completed", "listings", len(results))
	return results, nil
}

// GetListingDetails dereferences a listing by its ad ID or full URL.
func (c *KleinanzeigenClient) GetListingDetails(ctx context.Context, listingID string) (*models.ListingDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	listingURL, err := c.listingURL(listingID)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	page, err := c.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	c.logger.Info("fetching listing details", "listing_id", listingID, "url", listingURL)

	if err := c.browser.Navigate(page, listingURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// The view counter loads late and may never appear on removed ads.
	page.Locator("#viewad-cntr-num").First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(2500),
	})

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	details, err := c.parser.ParseListingPage(html)
	if err != nil {
		if errors.Is(err, parser.ErrListingRemoved) {
			return nil, fmt.Errorf("%w: %s", ErrListingNotFound, listingID)
		}
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	if details.ID == "" {
		details.ID = adIDFromInput(listingID)
	}

	c.logger.Info("listing details fetched", "listing_id", details.ID, "status", details.Status)
	return details, nil
}

func (c *KleinanzeigenClient) Close() error {
	return c.browser.Close()
}

// buildSearchURL renders the site's path-encoded filters: an optional
// "/preis:<min>:<max>" segment, a "/s-seite:<n>" page segment, and the
// remaining filters as query parameters.
func (c *KleinanzeigenClient) buildSearchURL(params models.SearchParams, pageNum int) string {
	var path strings.Builder

	if params.HasPriceFilter() {
		minStr := ""
		if params.MinPrice > 0 {
			minStr = strconv.Itoa(params.MinPrice)
		}
		maxStr := ""
		if params.MaxPrice > 0 {
			maxStr = strconv.Itoa(params.MaxPrice)
		}
		fmt.Fprintf(&path, "/preis:%s:%s", minStr, maxStr)
	}

	fmt.Fprintf(&path, "/s-seite:%d", pageNum)

	query := url.Values{}
	if params.Query != "" {
		query.Set("keywords", params.Query)
	}
	if params.Location != "" {
		query.Set("locationStr", params.Location)
	}
	if params.Radius > 0 {
		query.Set("radius", strconv.Itoa(params.Radius))
	}

	searchURL := c.baseURL + path.String()
	if encoded := query.Encode(); encoded != "" {
		searchURL += "?" + encoded
	}
	return searchURL
}

var adIDPattern = regexp.MustCompile(`^[0-9]+$`)

// adIDFromInput recovers the numeric ad id when the caller passed a full
// listing URL; the id is the last path segment. Returns empty when no id can
// be derived, so downstream output never embeds a URL where an id belongs.
func adIDFromInput(input string) string {
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return input
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	last := segments[len(segments)-1]
	if adIDPattern.MatchString(last) {
		return last
	}
	return ""
}

// listingURL accepts either a bare ad ID or a full listing URL from a prior
// search result.
func (c *KleinanzeigenClient) listingURL(listingID string) (string, error) {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return "", fmt.Errorf("%w: empty listing id", ErrInvalidURL)
	}

	if strings.HasPrefix(listingID, "http://") || strings.HasPrefix(listingID, "https://") {
		parsed, err := url.Parse(listingID)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
		}

		base, err := url.Parse(c.baseURL)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
		}

		if parsed.Host != base.Host {
			return "", fmt.Errorf("%w: host %q is not %q", ErrInvalidURL, parsed.Host, base.Host)
		}
		return listingID, nil
	}

	return c.baseURL + "/s-anzeige/" + url.PathEscape(listingID), nil
}
