package mcptools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maltedev/kleinanzeigen-mcp/internal/models"
)

const (
	maxSummaryDescription = 100
	maxInlineImages       = 5
)

// FormatSearchResults renders summaries as numbered plain text for the
// calling model.
func FormatSearchResults(params models.SearchParams, results []models.ListingSummary) string {
	if len(results) == 0 {
		return fmt.Sprintf("No listings found for search (%s). Try broader criteria.", describeFilters(params))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d listings:\n\n", len(results))

	for i, listing := range results {
		price := "Preis auf Anfrage"
		if listing.Price != "" {
			price = listing.Price + "€"
		}

		fmt.Fprintf(&b, "%d. [%s]\n", i+1, listing.Title)
		fmt.Fprintf(&b, "   ID: %s\n", listing.AdID)
		fmt.Fprintf(&b, "   Price: %s\n", price)
		if listing.Description != "" {
			fmt.Fprintf(&b, "   Description: %s\n", truncateDescription(listing.Description))
		}
		fmt.Fprintf(&b, "   URL: %s\n\n", listing.URL)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatListingDetails renders the full record as a sectioned report.
func FormatListingDetails(d *models.ListingDetails) string {
	var b strings.Builder

	b.WriteString("=== LISTING DETAILS ===\n\n")
	fmt.Fprintf(&b, "Title: %s\n", d.Title)
	fmt.Fprintf(&b, "ID: %s\n", d.ID)
	fmt.Fprintf(&b, "Status: %s\n", d.Status)
	if d.Price != "" {
		fmt.Fprintf(&b, "Price: %s€\n", d.Price)
	} else {
		b.WriteString("Price: On request\n")
	}
	fmt.Fprintf(&b, "Views: %s\n\n", d.Views)

	if len(d.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n\n", strings.Join(d.Categories, " > "))
	}

	if d.Description != "" {
		b.WriteString("Description:\n")
		b.WriteString(d.Description)
		b.WriteString("\n\n")
	}

	if raw, ok := d.Location["raw"]; ok {
		fmt.Fprintf(&b, "Location: %s\n", raw)
	}
	if d.Delivery != "" {
		delivery := "Shipping available"
		if d.Delivery == models.DeliveryPickup {
			delivery = "Pickup only"
		}
		fmt.Fprintf(&b, "Delivery: %s\n", delivery)
	}
	if len(d.Location) > 0 || d.Delivery != "" {
		b.WriteString("\n")
	}

	if len(d.Images) > 0 {
		fmt.Fprintf(&b, "Images (%d):\n", len(d.Images))
		for i, img := range d.Images {
			if i >= maxInlineImages {
				fmt.Fprintf(&b, "  ... and %d more\n", len(d.Images)-maxInlineImages)
				break
			}
			fmt.Fprintf(&b, "  %d. %s\n", i+1, img)
		}
		b.WriteString("\n")
	}

	writeSection(&b, "Details:", d.Details)
	writeSection(&b, "Features:", d.Features)
	writeSection(&b, "Seller:", d.Seller)

	if d.ID != "" {
		fmt.Fprintf(&b, "View online: https://www.kleinanzeigen.de/s-anzeige/%s", d.ID)
	}

	return strings.TrimRight(b.String(), "\n")
}

// truncateDescription shortens long descriptions on a rune boundary; German
// listing text is full of multi-byte characters, so a byte slice could cut
// one in half.
func truncateDescription(desc string) string {
	runes := []rune(desc)
	if len(runes) <= maxSummaryDescription {
		return desc
	}
	return string(runes[:maxSummaryDescription]) + "..."
}

func writeSection(b *strings.Builder, header string, entries map[string]string) {
	if len(entries) == 0 {
		return
	}
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	b.WriteString(header + "\n")
	for _, key := range keys {
		fmt.Fprintf(b, "  %s: %s\n", key, entries[key])
	}
	b.WriteString("\n")
}

func describeFilters(params models.SearchParams) string {
	var filters []string
	if params.Query != "" {
		filters = append(filters, "query: "+params.Query)
	}
	if params.Location != "" {
		filters = append(filters, "location: "+params.Location)
	}
	if params.HasPriceFilter() {
		max := "∞"
		if params.MaxPrice > 0 {
			max = fmt.Sprintf("%d", params.MaxPrice)
		}
		filters = append(filters, fmt.Sprintf("price: %d€ - %s€", params.MinPrice, max))
	}

	if len(filters) == 0 {
		return "no filters"
	}
	return strings.Join(filters, ", ")
}
