package types

import "strings"

// ShippingAddress is the address snapshot embedded in an order. It is frozen
// at placement time and never updated when the saved address changes.
type ShippingAddress struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Oneline renders the address as a single display string, skipping blanks.
func (a ShippingAddress) Oneline() string {
	parts := make([]string, 0, 6)
	for _, part := range []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}
