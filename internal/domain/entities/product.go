package entities

import (
	"time"
)

// Product represents a single catalog record. The catalog is owned by the
// surrounding application and shared read-only with the search and
// recommendation engines; nothing in this service ever mutates a Product.
type Product struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Category     string            `json:"category"`
	Brand        string            `json:"brand,omitempty"`
	Price        float64           `json:"price"`
	Rating       float64           `json:"rating,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	IsBestseller bool              `json:"is_bestseller,omitempty"`
	ImageURL     string            `json:"image_url,omitempty"`
	CreatedAt    time.Time         `json:"created_at,omitzero"`
}

// Attribute returns the named attribute value (e.g. "color"), or "" when the
// product does not carry it. Missing attributes score zero, they never error.
func (p *Product) Attribute(name string) string {
	if p.Attributes == nil {
		return ""
	}
	return p.Attributes[name]
}
