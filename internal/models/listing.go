package models

const (
	StatusActive   = "active"
	StatusSold     = "sold"
	StatusReserved = "reserved"
	StatusDeleted  = "deleted"
)

const (
	DeliveryPickup   = "pickup"
	DeliveryShipping = "shipping"
)

const (
	MinPageCount = 1
	MaxPageCount = 20
)

// SearchParams holds the filter set for a listing search. All fields are
// optional; the zero value means "no filter".
type SearchParams struct {
	Query     string `json:"query,omitempty"`
	Location  string `json:"location,omitempty"`
	Radius    int    `json:"radius,omitempty" validate:"gte=0"`
	MinPrice  int    `json:"min_price,omitempty" validate:"gte=0"`
	MaxPrice  int    `json:"max_price,omitempty" validate:"omitempty,gte=0,gtefield=MinPrice"`
	PageCount int    `json:"page_count,omitempty"`
}

// Normalize clamps PageCount into the supported range. The upstream site
// serves at most 20 result pages per search.
func (p *SearchParams) Normalize() {
	if p.PageCount < MinPageCount {
		p.PageCount = MinPageCount
	}
	if p.PageCount > MaxPageCount {
		p.PageCount = MaxPageCount
	}
}

func (p *SearchParams) HasPriceFilter() bool {
	return p.MinPrice > 0 || p.MaxPrice > 0
}

// ListingSummary is one row of a search results page, in site ranking order.
type ListingSummary struct {
	AdID        string `json:"adid"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// ListingDetails is the full record scraped from a single listing page.
type ListingDetails struct {
	ID          string            `json:"id"`
	Categories  []string          `json:"categories"`
	Title       string            `json:"title"`
	Status      string            `json:"status"`
	Price       string            `json:"price,omitempty"`
	Delivery    string            `json:"delivery,omitempty"`
	Location    map[string]string `json:"location,omitempty"`
	Views       string            `json:"views"`
	Description string            `json:"description"`
	Images      []string          `json:"images"`
	Details     map[string]string `json:"details"`
	Features    map[string]string `json:"features"`
	Seller      map[string]string `json:"seller"`
}

func NewListingDetails() *ListingDetails {
	return &ListingDetails{
		Status:     StatusActive,
		Categories: make([]string, 0),
		Images:     make([]string, 0),
		Location:   make(map[string]string),
		Details:    make(map[string]string),
		Features:   make(map[string]string),
		Seller:     make(map[string]string),
	}
}

func (d *ListingDetails) IsAvailable() bool {
	return d.Status == StatusActive || d.Status == StatusReserved
}
