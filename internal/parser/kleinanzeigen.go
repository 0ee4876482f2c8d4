package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/kleinanzeigen-mcp/internal/models"
)

// Search result rows: organic listings only, promoted rows are skipped so the
// site-native ranking of regular ads is preserved.
const searchItemSelector = ".ad-listitem:not(.is-topad):not(.badge-hint-pro-small-srp)"

type KleinanzeigenParser struct {
	baseURL         string
	spacePattern    *regexp.Regexp
	newlinePattern  *regexp.Regexp
	removedPatterns []string
}

func NewKleinanzeigenParser(baseURL string) *KleinanzeigenParser {
	return &KleinanzeigenParser{
		baseURL:        strings.TrimRight(baseURL, "/"),
		spacePattern:   regexp.MustCompile(`[ \t]+`),
		newlinePattern: regexp.MustCompile(`\n+`),
		removedPatterns: []string{
			"nicht mehr verfügbar",
			"wurde gelöscht",
			"Anzeige ist beendet",
		},
	}
}

func (p *KleinanzeigenParser) ParseSearchPage(html string) ([]models.ListingSummary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	results := []models.ListingSummary{}

	doc.Find(searchItemSelector).Each(func(_ int, item *goquery.Selection) {
		article := item.Find("article").First()
		if article.Length() == 0 {
			return
		}

		adID, _ := article.Attr("data-adid")
		href, _ := article.Attr("data-href")
		if adID == "" || href == "" {
			return
		}

		title := strings.TrimSpace(article.Find("h2.text-module-begin a.ellipsis").First().Text())
		price := normalizePrice(article.Find("p.aditem-main--middle--price-shipping--price").First().Text())
		description := strings.TrimSpace(article.Find("p.aditem-main--middle--description").First().Text())

		results = append(results, models.ListingSummary{
			AdID:        adID,
			URL:         p.baseURL + href,
			Title:       title,
			Price:       price,
			Description: description,
		})
	})

	return results, nil
}

func (p *KleinanzeigenParser) ParseListingPage(html string) (*models.ListingDetails, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := doc.Find("#viewad-title").First()
	if title.Length() == 0 {
		if p.isRemovedPage(doc) {
			return nil, ErrListingRemoved
		}
		return nil, fmt.Errorf("listing page missing title element")
	}

	details := models.NewListingDetails()

	rawTitle := strings.TrimSpace(title.Text())
	details.Status = statusFromTitle(rawTitle)
	details.Title = cleanTitle(rawTitle)

	if doc.Find(".badge-sold").Length() > 0 {
		details.Status = models.StatusSold
	}

	details.ID = strings.TrimSpace(doc.Find("#viewad-ad-id-box > ul > li:nth-child(2)").First().Text())

	doc.Find(".breadcrump-link").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			details.Categories = append(details.Categories, text)
		}
	})

	details.Price = normalizePrice(doc.Find("#viewad-price").First().Text())

	details.Views = strings.TrimSpace(doc.Find("#viewad-cntr-num").First().Text())
	if details.Views == "" {
		details.Views = "0"
	}

	details.Description = p.normalizeDescription(doc.Find("#viewad-description-text").First().Text())

	doc.Find("#viewad-image img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok && src != "" {
			details.Images = append(details.Images, src)
		}
	})

	shipping := strings.TrimSpace(doc.Find(".boxedarticle--details--shipping").First().Text())
	switch {
	case strings.Contains(shipping, "Nur Abholung"):
		details.Delivery = models.DeliveryPickup
	case strings.Contains(shipping, "Versand"):
		details.Delivery = models.DeliveryShipping
	}

	if locality := strings.TrimSpace(doc.Find("#viewad-locality").First().Text()); locality != "" {
		details.Location["raw"] = locality
	}

	if seller := strings.TrimSpace(doc.Find(".userprofile--name").First().Text()); seller != "" {
		details.Seller["name"] = seller
	}

	details.Details = extractLabelValueList(doc, "#viewad-details .addetailslist--detail")
	details.Features = extractLabelValueList(doc, "#viewad-configuration .addetailslist--detail")

	return details, nil
}

func (p *KleinanzeigenParser) isRemovedPage(doc *goquery.Document) bool {
	body := doc.Find("body").Text()
	for _, pattern := range p.removedPatterns {
		if strings.Contains(body, pattern) {
			return true
		}
	}
	return false
}

func (p *KleinanzeigenParser) normalizeDescription(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = p.spacePattern.ReplaceAllString(text, " ")
	text = p.newlinePattern.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// extractLabelValueList reads the label/value rows the site uses for both the
// details and the features tables.
func extractLabelValueList(doc *goquery.Document, selector string) map[string]string {
	result := make(map[string]string)
	doc.Find(selector).Each(func(_ int, item *goquery.Selection) {
		label := strings.TrimSpace(item.Find(".addetailslist--detail--label").First().Text())
		value := strings.TrimSpace(item.Find(".addetailslist--detail--value").First().Text())
		if label != "" && value != "" {
			result[label] = value
		}
	})
	return result
}

// statusFromTitle reads the marker the site prefixes onto titles of sold,
// reserved, or deleted ads ("Verkauft • Fahrrad ...").
func statusFromTitle(title string) string {
	switch {
	case strings.Contains(title, "Verkauft"):
		return models.StatusSold
	case strings.Contains(title, "Reserviert •"):
		return models.StatusReserved
	case strings.Contains(title, "Gelöscht •"):
		return models.StatusDeleted
	}
	return models.StatusActive
}

func cleanTitle(title string) string {
	if strings.Contains(title, " • ") {
		parts := strings.Split(title, " • ")
		return strings.TrimSpace(parts[len(parts)-1])
	}
	return title
}

// normalizePrice strips currency and negotiability markers: "1.250 € VB"
// becomes "1250". Non-numeric prices like "Zu verschenken" pass through.
func normalizePrice(text string) string {
	cleaned := strings.ReplaceAll(text, "€", "")
	cleaned = strings.ReplaceAll(cleaned, "VB", "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	return strings.TrimSpace(cleaned)
}
